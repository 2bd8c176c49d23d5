// Package dphclient provides the main entry point for creating Data Product Hub clients
package dphclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/dph-client/internal/client"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// New creates a new Data Product Hub client.
func New(ctx context.Context, config *dph.Config) (dph.Client, error) {
	if config == nil {
		return nil, dph.ErrConfigRequired
	}

	if config.ServiceURL == "" {
		return nil, dph.ErrServiceURLRequired
	}

	normalized := *config
	normalized.ServiceURL = normalizeServiceURL(config.ServiceURL)

	// Use the internal client implementation
	client, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// normalizeServiceURL trims trailing slashes and defaults the scheme to https.
func normalizeServiceURL(serviceURL string) string {
	serviceURL = strings.TrimRight(strings.TrimSpace(serviceURL), "/")
	if !strings.HasPrefix(serviceURL, "http://") && !strings.HasPrefix(serviceURL, "https://") {
		serviceURL = "https://" + serviceURL
	}

	return serviceURL
}

// NewWithServiceURL creates a new client with just a service URL (no auth).
func NewWithServiceURL(ctx context.Context, serviceURL string) (dph.Client, error) {
	return New(ctx, &dph.Config{
		ServiceURL: serviceURL,
	})
}

// NewWithBearerToken creates a new client that sends a fixed bearer token.
func NewWithBearerToken(ctx context.Context, serviceURL, token string) (dph.Client, error) {
	return New(ctx, &dph.Config{
		ServiceURL:  serviceURL,
		BearerToken: token,
	})
}

// NewWithAPIKey creates a new client that exchanges an IAM API key for access tokens.
// The key is exchanged immediately so an invalid key is reported here.
func NewWithAPIKey(ctx context.Context, serviceURL, apiKey string) (dph.Client, error) {
	return New(ctx, &dph.Config{
		ServiceURL:       serviceURL,
		APIKey:           apiKey,
		FetchTokenOnInit: true,
	})
}
