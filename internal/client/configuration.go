package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/fivetwenty-io/dph-client/internal/http"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// ConfigurationClient implements dph.ConfigurationClient.
type ConfigurationClient struct {
	httpClient *http.Client
}

// NewConfigurationClient creates a new configuration client.
func NewConfigurationClient(httpClient *http.Client) *ConfigurationClient {
	return &ConfigurationClient{
		httpClient: httpClient,
	}
}

// GetInitializeStatus implements dph.ConfigurationClient.GetInitializeStatus.
// An empty containerID asks for the default container of the account.
func (c *ConfigurationClient) GetInitializeStatus(ctx context.Context, containerID string) (*dph.InitializeResource, error) {
	var query url.Values
	if containerID != "" {
		query = url.Values{"container.id": []string{containerID}}
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method:    nethttp.MethodGet,
		Path:      constants.APIPathConfiguration + "/initialize/status",
		Query:     query,
		SkipCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("getting initialization status: %w", err)
	}

	return parseInitializeResource(resp.Body)
}

// Initialize implements dph.ConfigurationClient.Initialize.
func (c *ConfigurationClient) Initialize(ctx context.Context, request *dph.InitializeRequest) (*dph.InitializeResource, error) {
	if request == nil {
		request = &dph.InitializeRequest{}
	}

	resp, err := c.httpClient.Post(ctx, constants.APIPathConfiguration+"/initialize", request)
	if err != nil {
		return nil, fmt.Errorf("initializing container: %w", err)
	}

	return parseInitializeResource(resp.Body)
}

// GetServiceIDCredentials implements dph.ConfigurationClient.GetServiceIDCredentials.
func (c *ConfigurationClient) GetServiceIDCredentials(ctx context.Context) (*dph.ServiceIDCredentials, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathConfiguration+"/credentials", nil)
	if err != nil {
		return nil, fmt.Errorf("getting service ID credentials: %w", err)
	}

	var credentials dph.ServiceIDCredentials

	err = json.Unmarshal(resp.Body, &credentials)
	if err != nil {
		return nil, fmt.Errorf("parsing service ID credentials: %w", err)
	}

	return &credentials, nil
}

// ManageAPIKeys implements dph.ConfigurationClient.ManageAPIKeys by rotating the service ID API key.
func (c *ConfigurationClient) ManageAPIKeys(ctx context.Context) error {
	_, err := c.httpClient.Post(ctx, constants.APIPathConfiguration+"/credentials/rotate", nil)
	if err != nil {
		return fmt.Errorf("rotating service ID API key: %w", err)
	}

	return nil
}

func parseInitializeResource(body []byte) (*dph.InitializeResource, error) {
	var resource dph.InitializeResource

	err := json.Unmarshal(body, &resource)
	if err != nil {
		return nil, fmt.Errorf("parsing initialization resource: %w", err)
	}

	return &resource, nil
}
