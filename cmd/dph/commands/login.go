package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/fivetwenty-io/dph-client/internal/auth"
	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrAPIKeyRequired is returned when no API key was given or typed.
var ErrAPIKeyRequired = errors.New("API key is required")

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		serviceURL string
		apiKey     string
		authURL    string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to Data Product Hub",
		Long: `Exchange an IBM Cloud API key for an access token and save both.

The API key is read from --apikey, DPH_APIKEY or a hidden prompt. Later
commands refresh the token from the saved key when it expires.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if serviceURL != "" {
				config.URL = serviceURL
			}

			if config.URL == "" {
				config.URL = constants.DefaultServiceURL
			}

			if authURL != "" {
				config.AuthURL = authURL
			}

			if apiKey == "" {
				apiKey = config.APIKey
			}

			if apiKey == "" {
				var err error

				apiKey, err = promptAPIKey()
				if err != nil {
					return err
				}
			}

			if apiKey == "" {
				return ErrAPIKeyRequired
			}

			iam := auth.NewIAMTokenManager(&auth.IAMConfig{
				TokenURL: config.AuthURL,
				APIKey:   apiKey,
			})

			_, err := iam.GetToken(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			token := iam.CurrentToken()
			now := time.Now()

			config.APIKey = apiKey
			config.Token = token.AccessToken
			config.RefreshToken = token.RefreshToken
			config.TokenExpiresAt = nil
			config.LastRefreshed = &now

			if !token.ExpiresAt.IsZero() {
				expiresAt := token.ExpiresAt
				config.TokenExpiresAt = &expiresAt
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", config.URL)

			return nil
		},
	}

	cmd.Flags().StringVar(&serviceURL, "url", "", "service URL")
	cmd.Flags().StringVar(&apiKey, "apikey", "", "IBM Cloud API key")
	cmd.Flags().StringVar(&authURL, "auth-url", "", "IAM token endpoint")

	return cmd
}

// promptAPIKey reads the key without echo when stdin is a terminal.
func promptAPIKey() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')

		return strings.TrimSpace(line), nil
	}

	_, _ = fmt.Fprint(os.Stderr, "API key: ")

	key, err := term.ReadPassword(int(syscall.Stdin))

	_, _ = fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	return strings.TrimSpace(string(key)), nil
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from Data Product Hub",
		Long:  "Remove the saved API key and tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.APIKey = ""
			config.Token = ""
			config.RefreshToken = ""
			config.TokenExpiresAt = nil
			config.LastRefreshed = nil

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged out")

			return nil
		},
	}
}
