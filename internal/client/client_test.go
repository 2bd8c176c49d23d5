package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dph-client/internal/auth"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

func tokenServer(t *testing.T, calls *atomic.Int32, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)

		if status != http.StatusOK {
			_, _ = writer.Write([]byte(`{"errorCode":"BXNIM0415E","errorMessage":"Provided API key could not be found."}`))

			return
		}

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"access_token": "iam-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(server.Close)

	return server
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), nil)
		require.ErrorIs(t, err, dph.ErrConfigRequired)
	})

	t.Run("requires service url", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &dph.Config{})
		require.ErrorIs(t, err, dph.ErrServiceURLRequired)
	})

	t.Run("wires every resource client", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &dph.Config{ServiceURL: "https://dph.test/"})
		require.NoError(t, err)
		assert.Equal(t, "https://dph.test", client.BaseURL())
		assert.NotNil(t, client.DataProducts())
		assert.NotNil(t, client.Drafts())
		assert.NotNil(t, client.Releases())
		assert.NotNil(t, client.ContractTerms())
		assert.NotNil(t, client.Configuration())
		assert.Nil(t, client.GetTokenManager())

		_, err = client.GetToken(context.Background())
		require.ErrorIs(t, err, ErrNoTokenManagerConfigured)
	})

	t.Run("fetches a token on init", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		iam := tokenServer(t, &calls, http.StatusOK)

		client, err := New(context.Background(), &dph.Config{
			ServiceURL:       "https://dph.test",
			APIKey:           "key",
			AuthURL:          iam.URL,
			FetchTokenOnInit: true,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "iam-token", token)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("bad api key fails on init", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		iam := tokenServer(t, &calls, http.StatusBadRequest)

		_, err := New(context.Background(), &dph.Config{
			ServiceURL:       "https://dph.test",
			APIKey:           "bad",
			AuthURL:          iam.URL,
			FetchTokenOnInit: true,
		})
		require.ErrorIs(t, err, auth.ErrTokenRequestFailed)
		assert.Contains(t, err.Error(), "BXNIM0415E")
	})
}

func TestCreateTokenManager(t *testing.T) {
	t.Parallel()

	assert.Nil(t, createTokenManager(&dph.Config{}))
	assert.IsType(t, &staticTokenManager{}, createTokenManager(&dph.Config{BearerToken: "t"}))
	assert.IsType(t, &auth.IAMTokenManager{}, createTokenManager(&dph.Config{APIKey: "k"}))
	assert.IsType(t, &fallbackTokenManager{}, createTokenManager(&dph.Config{BearerToken: "t", APIKey: "k"}))
}

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	manager := &staticTokenManager{token: "fixed"}

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed", token)

	require.ErrorIs(t, manager.RefreshToken(context.Background()), dph.ErrStaticTokenCannotRefresh)

	manager.SetToken("replaced", time.Now().Add(time.Hour))

	token, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "replaced", token)
}

func TestFallbackTokenManager_SwitchesToIAMAfterRejection(t *testing.T) {
	t.Parallel()

	var iamCalls atomic.Int32

	iam := tokenServer(t, &iamCalls, http.StatusOK)

	var seen []string

	service := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		authorization := request.Header.Get("Authorization")
		seen = append(seen, authorization)

		if authorization != "Bearer iam-token" {
			writer.WriteHeader(http.StatusUnauthorized)

			return
		}

		_, _ = writer.Write([]byte(`{"id":"dp-1","container":{"id":"cat-1"}}`))
	}))
	t.Cleanup(service.Close)

	client, err := New(context.Background(), &dph.Config{
		ServiceURL:  service.URL,
		BearerToken: "expired-bearer",
		APIKey:      "key",
		AuthURL:     iam.URL,
	})
	require.NoError(t, err)

	product, err := client.DataProducts().Get(context.Background(), "dp-1")
	require.NoError(t, err)
	assert.Equal(t, "dp-1", product.ID)
	assert.Equal(t, []string{"Bearer expired-bearer", "Bearer iam-token"}, seen)

	_, err = client.DataProducts().Get(context.Background(), "dp-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer iam-token", seen[2])
	assert.Equal(t, int32(1), iamCalls.Load())
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func TestNew_ConfigOptions(t *testing.T) {
	t.Parallel()

	var userAgent, team string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		userAgent = request.Header.Get("User-Agent")
		team = request.Header.Get("X-Team")
		_, _ = writer.Write([]byte(`{"id":"dp-1"}`))
	}))
	t.Cleanup(server.Close)

	logger := &recordingLogger{}
	collector := dph.NewMetricsCollector()
	chain := dph.NewInterceptorChain()
	chain.AddRequestInterceptor(dph.MetricsRequestInterceptor(collector))
	chain.AddResponseInterceptor(dph.MetricsResponseInterceptor(collector))

	client, err := New(context.Background(), &dph.Config{
		ServiceURL:   server.URL,
		UserAgent:    "dph-test/0.1",
		Headers:      map[string]string{"X-Team": "analytics"},
		Debug:        true,
		Logger:       logger,
		Interceptors: chain,
		RetryMax:     1,
	})
	require.NoError(t, err)

	_, err = client.DataProducts().Get(context.Background(), "dp-1")
	require.NoError(t, err)

	assert.Equal(t, "dph-test/0.1", userAgent)
	assert.Equal(t, "analytics", team)
	assert.Equal(t, []string{"HTTP Request", "HTTP Response"}, logger.messages)

	metrics := collector.GetMetrics("GET /v1/data_products/dp-1")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(1), metrics.TotalRequests)
}
