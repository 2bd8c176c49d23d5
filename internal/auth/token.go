package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/dph-client/internal/constants"
)

// TokenManager supplies bearer tokens to the HTTP transport.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// Token is an access token as issued by IAM.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int64     `json:"expires_in,omitempty"`
	Expiration   int64     `json:"expiration,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresAt    time.Time `json:"-"`
}

// Valid reports whether the token can be used for at least TokenExpirationBuffer more.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// resolveExpiry fills ExpiresAt from the absolute expiration or the relative expires_in.
func (t *Token) resolveExpiry(now time.Time) {
	switch {
	case t.Expiration > 0:
		t.ExpiresAt = time.Unix(t.Expiration, 0)
	case t.ExpiresIn > 0:
		t.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
}

// TokenStore holds the current token. It is safe for concurrent use.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear drops the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
