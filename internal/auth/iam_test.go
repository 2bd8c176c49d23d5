package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iamServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)

	return server
}

func writeToken(w http.ResponseWriter, access, refresh string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"expires_in":    3600,
		"expiration":    time.Now().Add(time.Hour).Unix(),
	})
}

func TestIAMTokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("exchanges the API key", func(t *testing.T) {
		t.Parallel()

		server := iamServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/identity/token", r.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "urn:ibm:params:oauth:grant-type:apikey", r.Form.Get("grant_type"))
			assert.Equal(t, "my-api-key", r.Form.Get("apikey"))

			writeToken(w, "iam-access", "iam-refresh")
		})

		manager := NewIAMTokenManager(&IAMConfig{TokenURL: server.URL + "/identity/token", APIKey: "my-api-key"})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "iam-access", token)
		assert.Equal(t, "iam-refresh", manager.CurrentToken().RefreshToken)
		assert.True(t, manager.CurrentToken().ExpiresAt.After(time.Now()))
	})

	t.Run("reuses a valid token", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := iamServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeToken(w, "iam-access", "")
		})

		manager := NewIAMTokenManager(&IAMConfig{TokenURL: server.URL, APIKey: "key"})

		for range 3 {
			_, err := manager.GetToken(context.Background())
			require.NoError(t, err)
		}

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("concurrent callers share one request", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := iamServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			time.Sleep(20 * time.Millisecond)
			writeToken(w, "shared", "")
		})

		manager := NewIAMTokenManager(&IAMConfig{TokenURL: server.URL, APIKey: "key"})

		var wg sync.WaitGroup

		for range 8 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				token, err := manager.GetToken(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, "shared", token)
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("uses the refresh token for an expired token", func(t *testing.T) {
		t.Parallel()

		server := iamServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
			assert.Equal(t, "saved-refresh", r.Form.Get("refresh_token"))

			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "bx", user)
			assert.Equal(t, "bx", pass)

			writeToken(w, "refreshed", "next-refresh")
		})

		manager := NewIAMTokenManager(&IAMConfig{
			TokenURL:     server.URL,
			ClientID:     "bx",
			ClientSecret: "bx",
			AccessToken:  "expired",
			RefreshToken: "saved-refresh",
			ExpiresAt:    time.Now().Add(-time.Hour),
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "refreshed", token)
	})

	t.Run("falls back to the API key when refresh fails", func(t *testing.T) {
		t.Parallel()

		server := iamServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())

			if r.Form.Get("grant_type") == "refresh_token" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"errorCode":"BXNIM0407E","errorMessage":"Provided refresh token is invalid"}`))

				return
			}

			writeToken(w, "from-apikey", "")
		})

		manager := NewIAMTokenManager(&IAMConfig{
			TokenURL:     server.URL,
			APIKey:       "key",
			RefreshToken: "stale",
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "from-apikey", token)
	})

	t.Run("reports IAM errors", func(t *testing.T) {
		t.Parallel()

		server := iamServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errorCode":"BXNIM0415E","errorMessage":"Provided API key could not be found."}`))
		})

		manager := NewIAMTokenManager(&IAMConfig{TokenURL: server.URL, APIKey: "bad"})

		token, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, ErrTokenRequestFailed)
		assert.Contains(t, err.Error(), "BXNIM0415E")
		assert.Contains(t, err.Error(), "could not be found")
		assert.Empty(t, token)
	})

	t.Run("no credentials", func(t *testing.T) {
		t.Parallel()

		manager := NewIAMTokenManager(&IAMConfig{TokenURL: "http://127.0.0.1:0/unused"})

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, ErrNoCredentials)
	})

	t.Run("empty access token", func(t *testing.T) {
		t.Parallel()

		server := iamServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
		})

		_, err := NewIAMTokenManager(&IAMConfig{TokenURL: server.URL, APIKey: "key"}).GetToken(context.Background())
		require.ErrorIs(t, err, ErrEmptyAccessToken)
	})
}

func TestIAMTokenManager_RefreshAndSet(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := iamServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeToken(w, "forced", "")
	})

	manager := NewIAMTokenManager(&IAMConfig{TokenURL: server.URL, APIKey: "key"})
	manager.SetToken("manual", time.Now().Add(time.Hour))

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual", token)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, manager.RefreshToken(context.Background()))

	token, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "forced", token)
	assert.Equal(t, int32(1), calls.Load())
}

type recordingPersister struct {
	mu      sync.Mutex
	saved   []string
	refresh string
}

func (p *recordingPersister) UpdateToken(token string, _ time.Time, refreshToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.saved = append(p.saved, token)
	p.refresh = refreshToken

	return nil
}

func TestConfigTokenManager_PersistsNewTokens(t *testing.T) {
	t.Parallel()

	var issued atomic.Int32

	server := iamServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := issued.Add(1)
		writeToken(w, map[int32]string{1: "first", 2: "second"}[n], "refresh-token")
	})

	persister := &recordingPersister{}
	manager := NewConfigTokenManager(&IAMConfig{TokenURL: server.URL, APIKey: "key"}, persister)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", token)

	_, err = manager.GetToken(context.Background())
	require.NoError(t, err)

	require.NoError(t, manager.RefreshToken(context.Background()))

	assert.Equal(t, []string{"first", "second"}, persister.saved)
	assert.Equal(t, "refresh-token", persister.refresh)
	assert.False(t, manager.GetTokenExpiry().IsZero())
}

func TestConfigTokenManager_SeededTokenIsNotPersisted(t *testing.T) {
	t.Parallel()

	persister := &recordingPersister{}
	expiry := time.Now().Add(time.Hour)
	manager := NewConfigTokenManager(&IAMConfig{AccessToken: "saved", ExpiresAt: expiry}, persister)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "saved", token)
	assert.Empty(t, persister.saved)
}
