package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"github.com/spf13/cobra"
)

// NewInitializeCommand creates the initialize command group
func NewInitializeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initialize",
		Aliases: []string{"init"},
		Short:   "Manage service initialization",
		Long:    "Initialize a catalog for Data Product Hub and manage the service credentials",
	}

	cmd.AddCommand(newInitializeStatusCommand())
	cmd.AddCommand(newInitializeRunCommand())
	cmd.AddCommand(newInitializeCredentialsCommand())
	cmd.AddCommand(newInitializeRotateKeysCommand())

	return cmd
}

func renderInitializeResource(out io.Writer, resource *dph.InitializeResource) error {
	container := ""
	if resource.Container != nil {
		container = resource.Container.ID
	}

	options := make([]string, 0, len(resource.InitializedOptions))
	for _, option := range resource.InitializedOptions {
		options = append(options, fmt.Sprintf("%s (v%d)", option.Name, option.Version))
	}

	errorMessages := make([]string, 0, len(resource.Errors))
	for _, initErr := range resource.Errors {
		errorMessages = append(errorMessages, fmt.Sprintf("%s: %s", initErr.Code, initErr.Message))
	}

	return renderProperties(out, [][]string{
		{"Container", valueOrNA(container)},
		{"Status", valueOrNA(resource.Status)},
		{"Started", formatTime(resource.LastStartedAt)},
		{"Finished", formatTime(resource.LastFinishedAt)},
		{"Options", valueOrNA(strings.Join(options, ", "))},
		{"Errors", valueOrNA(strings.Join(errorMessages, "; "))},
		{"Trace", valueOrNA(resource.Trace)},
	})
}

func newInitializeStatusCommand() *cobra.Command {
	var containerID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show initialization status",
		Long:  "Show the initialization state of a catalog, or of the account's default catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			status, err := dphClient.Configuration().GetInitializeStatus(ctx, containerID)
			if err != nil {
				return fmt.Errorf("failed to get initialization status: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), status, renderInitializeResource)
		},
	}

	cmd.Flags().StringVar(&containerID, "container-id", "", "catalog to report on")

	return cmd
}

func newInitializeRunCommand() *cobra.Command {
	var (
		containerID string
		include     []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Initialize a catalog",
		Long:  "Start initializing a catalog. Follow progress with 'dph initialize status'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			request := &dph.InitializeRequest{Include: include}
			if containerID != "" {
				request.Container = &dph.ContainerReference{ID: containerID, Type: dph.ContainerTypeCatalog}
			}

			resource, err := dphClient.Configuration().Initialize(ctx, request)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), resource, renderInitializeResource)
		},
	}

	cmd.Flags().StringVar(&containerID, "container-id", "", "catalog to initialize")
	cmd.Flags().StringSliceVar(&include, "include", nil, "options to provision, e.g. delivery_methods,domains_multi_industry")

	return cmd
}

func newInitializeCredentialsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "credentials",
		Short: "Show service ID credentials",
		Long:  "Show the service ID API key the service uses on the caller's behalf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			credentials, err := dphClient.Configuration().GetServiceIDCredentials(ctx)
			if err != nil {
				return fmt.Errorf("failed to get credentials: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), credentials, func(out io.Writer, creds *dph.ServiceIDCredentials) error {
				return renderProperties(out, [][]string{
					{"Name", valueOrNA(creds.Name)},
					{"Created", formatTime(creds.CreatedAt)},
				})
			})
		},
	}
}

func newInitializeRotateKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-keys",
		Short: "Rotate service ID API keys",
		Long:  "Replace the service ID API key used by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			err = dphClient.Configuration().ManageAPIKeys(ctx)
			if err != nil {
				return fmt.Errorf("failed to rotate API keys: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API keys rotated")

			return nil
		},
	}
}
