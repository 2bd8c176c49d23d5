package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/hashicorp/go-retryablehttp"
)

// Static errors for err113 compliance.
var (
	ErrNoCredentials      = errors.New("no valid credentials available")
	ErrTokenRequestFailed = errors.New("token request failed")
	ErrEmptyAccessToken   = errors.New("token response did not contain an access token")
)

// IAMConfig configures an IAMTokenManager.
type IAMConfig struct {
	// TokenURL defaults to the public IBM Cloud IAM endpoint.
	TokenURL string
	APIKey   string

	// ClientID and ClientSecret are sent as basic credentials when set.
	ClientID     string
	ClientSecret string

	// AccessToken and RefreshToken seed the manager, e.g. from a saved login.
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time

	// HTTPClient overrides the retrying client used for token requests.
	HTTPClient *http.Client
}

// IAMTokenManager exchanges an IAM API key for access tokens and keeps them fresh.
type IAMTokenManager struct {
	config     *IAMConfig
	store      *TokenStore
	httpClient *http.Client
	refreshMu  sync.Mutex
}

// NewIAMTokenManager creates a token manager. No request is made until a token is needed.
func NewIAMTokenManager(config *IAMConfig) *IAMTokenManager {
	cfg := *config
	if cfg.TokenURL == "" {
		cfg.TokenURL = constants.DefaultIAMURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = 2
		retryClient.Logger = nil
		retryClient.HTTPClient.Timeout = constants.ShortHTTPTimeout
		httpClient = retryClient.StandardClient()
	}

	manager := &IAMTokenManager{
		config:     &cfg,
		store:      NewTokenStore(),
		httpClient: httpClient,
	}

	if cfg.AccessToken != "" || cfg.RefreshToken != "" {
		manager.store.Set(&Token{
			AccessToken:  cfg.AccessToken,
			RefreshToken: cfg.RefreshToken,
			TokenType:    "Bearer",
			ExpiresAt:    cfg.ExpiresAt,
		})
	}

	return manager
}

// GetToken returns a valid access token, requesting a new one when needed.
func (m *IAMTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	// Another caller may have refreshed while we waited.
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	err := m.refreshLocked(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken forces a new token regardless of the current one.
func (m *IAMTokenManager) RefreshToken(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	return m.refreshLocked(ctx)
}

// SetToken manually sets the access token.
func (m *IAMTokenManager) SetToken(token string, expiresAt time.Time) {
	refresh := ""
	if current := m.store.Get(); current != nil {
		refresh = current.RefreshToken
	}

	m.store.Set(&Token{
		AccessToken:  token,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	})
}

// CurrentToken returns the stored token, possibly expired, or nil.
func (m *IAMTokenManager) CurrentToken() *Token {
	return m.store.Get()
}

func (m *IAMTokenManager) refreshLocked(ctx context.Context) error {
	var refreshErr error

	if current := m.store.Get(); current != nil && current.RefreshToken != "" {
		token, err := m.requestToken(ctx, url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {current.RefreshToken},
		})
		if err == nil {
			m.store.Set(token)

			return nil
		}

		refreshErr = err
	}

	if m.config.APIKey == "" {
		if refreshErr != nil {
			return refreshErr
		}

		return ErrNoCredentials
	}

	token, err := m.requestToken(ctx, url.Values{
		"grant_type": {constants.IAMAPIKeyGrantType},
		"apikey":     {m.config.APIKey},
	})
	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

type iamErrorResponse struct {
	ErrorCode        string `json:"errorCode"`
	ErrorMessage     string `json:"errorMessage"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (m *IAMTokenManager) requestToken(ctx context.Context, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if m.config.ClientID != "" {
		req.SetBasicAuth(m.config.ClientID, m.config.ClientSecret)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token from %s: %w", m.config.TokenURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, tokenError(resp.StatusCode, body)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	if token.AccessToken == "" {
		return nil, ErrEmptyAccessToken
	}

	token.resolveExpiry(time.Now())

	return &token, nil
}

func tokenError(status int, body []byte) error {
	var errResp iamErrorResponse

	if json.Unmarshal(body, &errResp) == nil {
		switch {
		case errResp.ErrorCode != "":
			return fmt.Errorf("%w (status %d): %s: %s", ErrTokenRequestFailed, status, errResp.ErrorCode, errResp.ErrorMessage)
		case errResp.Error != "":
			return fmt.Errorf("%w (status %d): %s: %s", ErrTokenRequestFailed, status, errResp.Error, errResp.ErrorDescription)
		}
	}

	return fmt.Errorf("%w (status %d): %s", ErrTokenRequestFailed, status, strings.TrimSpace(string(body)))
}
