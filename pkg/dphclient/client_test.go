package dphclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"github.com/fivetwenty-io/dph-client/pkg/dphclient"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates client with config", func(t *testing.T) {
		t.Parallel()

		client, err := dphclient.New(context.Background(), &dph.Config{ServiceURL: "https://dph.example.com"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := dphclient.New(context.Background(), nil)
		require.ErrorIs(t, err, dph.ErrConfigRequired)
	})

	t.Run("missing service url", func(t *testing.T) {
		t.Parallel()

		_, err := dphclient.New(context.Background(), &dph.Config{})
		require.ErrorIs(t, err, dph.ErrServiceURLRequired)
	})

	t.Run("does not modify the caller's config", func(t *testing.T) {
		t.Parallel()

		config := &dph.Config{ServiceURL: "dph.example.com/"}

		_, err := dphclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.Equal(t, "dph.example.com/", config.ServiceURL)
	})
}

func TestNewWithServiceURL(t *testing.T) {
	t.Parallel()

	client, err := dphclient.NewWithServiceURL(context.Background(), "https://dph.example.com")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewWithBearerToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
		_, _ = writer.Write([]byte(`{"id":"dp-1","container":{"id":"cat-1"}}`))
	}))
	defer server.Close()

	client, err := dphclient.NewWithBearerToken(context.Background(), server.URL+"/", "test-token")
	require.NoError(t, err)

	product, err := client.DataProducts().Get(context.Background(), "dp-1")
	require.NoError(t, err)
	assert.Equal(t, "dp-1", product.ID)
}

func TestNewWithAPIKey_Unreachable(t *testing.T) {
	t.Parallel()
	t.Skip("Skipping test that requires network access")

	_, err := dphclient.NewWithAPIKey(context.Background(), "https://dph.example.com", "api-key")
	require.Error(t, err)
}

func TestClientIntegration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/v1/data_products":
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"limit": 50,
				"first": map[string]string{"href": "/v1/data_products"},
				"data_products": []map[string]interface{}{
					{"id": "dp-1", "name": "Sales", "container": map[string]string{"id": "cat-1"}},
				},
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := dphclient.NewWithServiceURL(context.Background(), server.URL)
	require.NoError(t, err)

	pager, err := dph.NewDataProductsPager(client.DataProducts(), nil)
	require.NoError(t, err)

	products, err := pager.All(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sales", products[0].Name)
}
