package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fivetwenty-io/dph-client/internal/auth"
	"github.com/fivetwenty-io/dph-client/internal/client"
	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// cliUserAgent identifies CLI traffic.
const cliUserAgent = "dph-cli/1.0.0"

// commandContext returns the context cobra attached to cmd, or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// newClient builds a client from the CLI configuration.
//
// A saved API key wins: tokens are minted and refreshed from it and every new
// token is written back to the config file. Otherwise the saved token is sent
// as is until it expires.
func newClient(ctx context.Context) (dph.Client, error) {
	config := loadConfig()

	if config.URL == "" {
		return nil, constants.ErrNoServiceURL
	}

	dphConfig := &dph.Config{
		ServiceURL: strings.TrimRight(config.URL, "/"),
		UserAgent:  cliUserAgent,
	}

	if viper.GetBool("verbose") {
		logger, err := NewLogger(true)
		if err != nil {
			return nil, err
		}

		dphConfig.Logger = logger
		dphConfig.Debug = true
	}

	switch {
	case config.APIKey != "":
		iamConfig := &auth.IAMConfig{
			TokenURL:     config.AuthURL,
			APIKey:       config.APIKey,
			AccessToken:  config.Token,
			RefreshToken: config.RefreshToken,
		}
		if config.TokenExpiresAt != nil {
			iamConfig.ExpiresAt = *config.TokenExpiresAt
		}

		tokenManager := auth.NewConfigTokenManager(iamConfig, NewConfigPersister())

		dphClient, err := client.NewWithTokenManager(ctx, dphConfig, tokenManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}

		return dphClient, nil
	case config.Token != "":
		if config.TokenExpiresAt != nil && time.Now().After(*config.TokenExpiresAt) {
			return nil, constants.ErrNoAPIKey
		}

		dphConfig.BearerToken = config.Token

		dphClient, err := client.New(ctx, dphConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}

		return dphClient, nil
	default:
		return nil, constants.ErrNotAuthenticated
	}
}

// renderOutput writes data in the configured output format. renderTable handles the table format.
func renderOutput[T any](out io.Writer, data T, renderTable func(io.Writer, T) error) error {
	output := viper.GetString("output")

	switch output {
	case constants.FormatJSON:
		return StandardJSONRenderer(out, data)
	case constants.FormatYAML:
		return StandardYAMLRenderer(out, data)
	case constants.FormatTable, "":
		return renderTable(out, data)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutputFormat, output)
	}
}

// StandardJSONRenderer writes data as indented JSON.
func StandardJSONRenderer[T any](out io.Writer, data T) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML.
func StandardYAMLRenderer[T any](out io.Writer, data T) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// renderProperties renders name/value rows as a two column table.
func renderProperties(out io.Writer, rows [][]string) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// listFlags are shared by every list command.
type listFlags struct {
	all   bool
	limit int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.all, "all", false, "fetch every page")
	cmd.Flags().IntVar(&f.limit, "limit", constants.DefaultPageSize, "results per page (1-200)")
}

func (f *listFlags) validate() error {
	if f.limit < 1 || f.limit > constants.MaxPageSize {
		return fmt.Errorf("%w: %d", constants.ErrInvalidLimit, f.limit)
	}

	return nil
}

// collectPages drains pager when all is set and otherwise reads one page.
// more reports whether pages were left unread.
func collectPages[T any](ctx context.Context, pager *dph.Pager[T], all bool) (items []T, more bool, err error) {
	if all {
		items, err = pager.All(ctx)

		return items, false, err
	}

	items, err = pager.Next(ctx)
	if err != nil {
		return nil, false, err
	}

	return items, pager.HasNext(), nil
}

// printMoreHint tells table readers that --all would return more.
func printMoreHint(out io.Writer, more bool) {
	if more && tableOutput() {
		_, _ = fmt.Fprintln(out, "\nMore results available. Use --all to fetch every page.")
	}
}

func tableOutput() bool {
	output := viper.GetString("output")

	return output == "" || output == constants.FormatTable
}

// readDocument decodes a JSON or YAML file into out.
func readDocument(path string, out interface{}) error {
	// The path is supplied by the user running the CLI.
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	err = yaml.Unmarshal(data, out)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}

// readPatch reads a JSON Patch document from path.
func readPatch(path string) (dph.JSONPatch, error) {
	var patch dph.JSONPatch

	err := readDocument(path, &patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidPatchFile, err)
	}

	if len(patch) == 0 {
		return nil, constants.ErrInvalidPatchFile
	}

	return patch, nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return constants.NotAvailable
	}

	return t.Format(time.RFC3339)
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func truncate(value string) string {
	if len(value) <= constants.StringTruncationLength {
		return value
	}

	return value[:constants.StringTruncationLength-3] + "..."
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}

	return constants.MaskedSecret
}
