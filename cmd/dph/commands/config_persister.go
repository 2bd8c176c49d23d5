package commands

import (
	"sync"
	"time"
)

// ConfigPersister implements the auth.ConfigPersister interface.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateToken stores a refreshed access token in the config file.
func (p *ConfigPersister) UpdateToken(token string, expiresAt time.Time, refreshToken string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()

	config.Token = token
	if !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	if refreshToken != "" {
		config.RefreshToken = refreshToken
	}

	now := time.Now()
	config.LastRefreshed = &now

	return saveConfigStruct(config)
}
