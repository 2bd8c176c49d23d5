package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

const initializeBody = `{"container":{"id":"cat-1","type":"catalog"},"status":"succeeded",
	"last_started_at":"2025-01-10T10:00:00Z","last_finished_at":"2025-01-10T10:02:00Z",
	"initialized_options":[{"name":"delivery_methods","version":1}]}`

func TestConfigurationClient_GetInitializeStatus(t *testing.T) {
	t.Parallel()

	t.Run("for a container", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, initializeBody)

		status, err := NewTestClient(server.URL).Configuration().GetInitializeStatus(context.Background(), "cat-1")
		require.NoError(t, err)
		assert.Equal(t, "succeeded", status.Status)
		require.NotNil(t, status.LastFinishedAt)
		assert.Equal(t, 2*time.Minute, status.LastFinishedAt.Sub(*status.LastStartedAt))
		require.Len(t, status.InitializedOptions, 1)

		seen := requests.All()
		require.Len(t, seen, 1)
		assert.Equal(t, "/v1/configuration/initialize/status", seen[0].Path)
		assert.Equal(t, []string{"cat-1"}, seen[0].Query["container.id"])
	})

	t.Run("default container", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, initializeBody)

		_, err := NewTestClient(server.URL).Configuration().GetInitializeStatus(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, requests.All()[0].Query)
	})

	t.Run("never cached", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, initializeBody)

		client, err := New(context.Background(), &dph.Config{
			ServiceURL: server.URL,
			Cache:      dph.NewMemoryCache(10),
		})
		require.NoError(t, err)

		for range 2 {
			_, err = client.Configuration().GetInitializeStatus(context.Background(), "")
			require.NoError(t, err)
		}

		assert.Len(t, requests.All(), 2)
	})
}

func TestConfigurationClient_Initialize(t *testing.T) {
	t.Parallel()

	server, requests := newJSONServer(t, http.StatusAccepted, `{"status":"in_progress","container":{"id":"cat-1"}}`)

	status, err := NewTestClient(server.URL).Configuration().Initialize(context.Background(), &dph.InitializeRequest{
		Container: &dph.ContainerReference{ID: "cat-1", Type: dph.ContainerTypeCatalog},
		Include:   []string{"delivery_methods", "domains_multi_industry"},
	})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", status.Status)

	seen := requests.All()
	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodPost, seen[0].Method)
	assert.Equal(t, "/v1/configuration/initialize", seen[0].Path)
	assert.JSONEq(t, `{"container":{"id":"cat-1","type":"catalog"},"include":["delivery_methods","domains_multi_industry"]}`, string(seen[0].Body))
}

func TestConfigurationClient_Credentials(t *testing.T) {
	t.Parallel()

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, `{"name":"dph-service-id-key","created_at":"2025-02-01T00:00:00Z"}`)

		credentials, err := NewTestClient(server.URL).Configuration().GetServiceIDCredentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "dph-service-id-key", credentials.Name)
		assert.Equal(t, "/v1/configuration/credentials", requests.All()[0].Path)
	})

	t.Run("rotate", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusNoContent, nil)

		err := NewTestClient(server.URL).Configuration().ManageAPIKeys(context.Background())
		require.NoError(t, err)

		seen := requests.All()
		require.Len(t, seen, 1)
		assert.Equal(t, http.MethodPost, seen[0].Method)
		assert.Equal(t, "/v1/configuration/credentials/rotate", seen[0].Path)
	})
}
