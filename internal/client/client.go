package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/dph-client/internal/auth"
	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/fivetwenty-io/dph-client/internal/http"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the dph.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       dph.Logger

	// Resource clients
	dataProducts  dph.DataProductsClient
	drafts        dph.DraftsClient
	releases      dph.ReleasesClient
	contractTerms dph.ContractTermsClient
	configuration dph.ConfigurationClient
}

// createTokenManager creates appropriate token manager based on config.
func createTokenManager(config *dph.Config) auth.TokenManager {
	if config.BearerToken != "" && config.APIKey != "" {
		return &fallbackTokenManager{
			staticToken: config.BearerToken,
			iamManager:  createIAMTokenManager(config),
		}
	}

	if config.BearerToken != "" {
		return &staticTokenManager{token: config.BearerToken}
	}

	if config.APIKey != "" {
		return createIAMTokenManager(config)
	}

	return nil // No authentication
}

func createIAMTokenManager(config *dph.Config) *auth.IAMTokenManager {
	return auth.NewIAMTokenManager(&auth.IAMConfig{
		TokenURL:     config.AuthURL,
		APIKey:       config.APIKey,
		ClientID:     config.AuthClientID,
		ClientSecret: config.AuthClientSecret,
	})
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *dph.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if len(config.Headers) > 0 {
		httpOpts = append(httpOpts, http.WithHeaders(config.Headers))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.Cache != nil {
		ttl := config.CacheTTL
		if ttl == 0 {
			ttl = constants.DefaultCacheTTL
		}

		httpOpts = append(httpOpts, http.WithCache(dph.NewCacheManager(config.Cache, ttl)))
	}

	return httpOpts
}

// New creates a new client. With config.FetchTokenOnInit set, a token is obtained before returning.
func New(ctx context.Context, config *dph.Config) (*Client, error) {
	return NewWithTokenManager(ctx, config, createTokenManager(config))
}

// NewWithTokenManager creates a new client that authenticates through tokenManager.
func NewWithTokenManager(ctx context.Context, config *dph.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, dph.ErrConfigRequired
	}

	if config.ServiceURL == "" {
		return nil, dph.ErrServiceURLRequired
	}

	httpClient := http.NewClient(config.ServiceURL, tokenManager, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      httpClient.BaseURL(),
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	if config.FetchTokenOnInit && tokenManager != nil {
		_, err := tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("authenticating: %w", err)
		}
	}

	return client, nil
}

// BaseURL returns the service URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetTokenManager returns the token manager, or nil for unauthenticated clients.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// DataProducts implements dph.Client.DataProducts.
func (c *Client) DataProducts() dph.DataProductsClient {
	return c.dataProducts
}

// Drafts implements dph.Client.Drafts.
func (c *Client) Drafts() dph.DraftsClient {
	return c.drafts
}

// Releases implements dph.Client.Releases.
func (c *Client) Releases() dph.ReleasesClient {
	return c.releases
}

// ContractTerms implements dph.Client.ContractTerms.
func (c *Client) ContractTerms() dph.ContractTermsClient {
	return c.contractTerms
}

// Configuration implements dph.Client.Configuration.
func (c *Client) Configuration() dph.ConfigurationClient {
	return c.configuration
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.dataProducts = NewDataProductsClient(c.httpClient)
	c.drafts = NewDraftsClient(c.httpClient)
	c.releases = NewReleasesClient(c.httpClient)
	c.contractTerms = NewContractTermsClient(c.httpClient)
	c.configuration = NewConfigurationClient(c.httpClient)
}

// staticTokenManager provides a static token.
type staticTokenManager struct {
	mu    sync.RWMutex
	token string
}

func (m *staticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, nil
}

func (m *staticTokenManager) RefreshToken(ctx context.Context) error {
	return dph.ErrStaticTokenCannotRefresh
}

func (m *staticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}

// loggerAdapter adapts dph.Logger to http.Logger.
type loggerAdapter struct {
	logger dph.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}

// fallbackTokenManager sends the bearer token until the service rejects it, then switches to IAM.
type fallbackTokenManager struct {
	mu          sync.Mutex
	staticToken string
	iamManager  auth.TokenManager
	usingIAM    bool
}

func (m *fallbackTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	usingIAM := m.usingIAM
	staticToken := m.staticToken
	m.mu.Unlock()

	if !usingIAM {
		return staticToken, nil
	}

	token, err := m.iamManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get IAM token: %w", err)
	}

	return token, nil
}

// RefreshToken is called after a 401. The first call abandons the bearer token.
func (m *fallbackTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	switched := !m.usingIAM
	m.usingIAM = true
	m.mu.Unlock()

	if switched {
		_, err := m.iamManager.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to get IAM token during refresh: %w", err)
		}

		return nil
	}

	err := m.iamManager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh IAM token: %w", err)
	}

	return nil
}

func (m *fallbackTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.usingIAM {
		m.iamManager.SetToken(token, expiresAt)
	} else {
		m.staticToken = token
	}
}
