package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

// ConfigPersister saves refreshed tokens, e.g. to the CLI config file.
type ConfigPersister interface {
	UpdateToken(token string, expiresAt time.Time, refreshToken string) error
}

// ConfigTokenManager wraps IAMTokenManager and persists every new token.
type ConfigTokenManager struct {
	iam             *IAMTokenManager
	configPersister ConfigPersister
	mutex           sync.Mutex
	lastToken       string
	lastExpiry      time.Time
}

// NewConfigTokenManager creates a token manager that saves new tokens through configPersister.
func NewConfigTokenManager(config *IAMConfig, configPersister ConfigPersister) *ConfigTokenManager {
	return &ConfigTokenManager{
		iam:             NewIAMTokenManager(config),
		configPersister: configPersister,
		lastToken:       config.AccessToken,
		lastExpiry:      config.ExpiresAt,
	}
}

// GetToken returns a valid access token and persists it when it changed.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.iam.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.persistIfChanged()

	return token, nil
}

// RefreshToken forces a token refresh and persists the result.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	err := m.iam.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.persistIfChanged()

	return nil
}

// SetToken manually sets the access token. It is not persisted.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.iam.SetToken(token, expiresAt)
	m.lastToken = token
	m.lastExpiry = expiresAt
}

// GetTokenExpiry returns the current token's expiration time.
func (m *ConfigTokenManager) GetTokenExpiry() time.Time {
	token := m.iam.CurrentToken()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (m *ConfigTokenManager) persistIfChanged() {
	current := m.iam.CurrentToken()
	if current == nil {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if current.AccessToken == m.lastToken && current.ExpiresAt.Equal(m.lastExpiry) {
		return
	}

	err := m.persistToken(current)
	if err != nil {
		// The request still succeeds with the in-memory token.
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", err)
	}

	m.lastToken = current.AccessToken
	m.lastExpiry = current.ExpiresAt
}

func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.configPersister == nil {
		return ErrNoConfigPersister
	}

	err := m.configPersister.UpdateToken(token.AccessToken, token.ExpiresAt, token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}

	return nil
}
