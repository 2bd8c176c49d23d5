package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

const draftBody = `{"id":"d-1","version":"1.1.0","state":"draft","name":"Sales",
	"data_product":{"id":"dp-1","container":{"id":"cat-1"}},"asset":{"id":"a-1","container":{"id":"cat-1"}}}`

func TestDraftsClient_List(t *testing.T) {
	t.Parallel()

	server, requests := newJSONServer(t, http.StatusOK, `{"limit":1,"first":{"href":"x"},"drafts":[`+draftBody+`]}`)

	page, err := NewTestClient(server.URL).Drafts().List(context.Background(), "dp-1", &dph.ListDraftsOptions{
		AssetContainerID: "cat-1",
		Version:          "1.1.0",
		Limit:            1,
	})
	require.NoError(t, err)
	require.Len(t, page.Drafts, 1)
	assert.Equal(t, "d-1", page.Drafts[0].ID)
	assert.Empty(t, page.NextStart())

	seen := requests.All()
	require.Len(t, seen, 1)
	assert.Equal(t, "/v1/data_products/dp-1/drafts", seen[0].Path)
	assert.Equal(t, []string{"cat-1"}, seen[0].Query["asset.container.id"])
	assert.Equal(t, []string{"1.1.0"}, seen[0].Query["version"])
	assert.Equal(t, []string{"1"}, seen[0].Query["limit"])
	assert.NotContains(t, seen[0].Query, "start")
}

func TestDraftsClient_List_Malformed(t *testing.T) {
	t.Parallel()

	server, _ := newJSONServer(t, http.StatusOK, `{"limit":1,"first":{"href":"x"},"releases":[]}`)

	_, err := NewTestClient(server.URL).Drafts().List(context.Background(), "dp-1", nil)
	require.ErrorIs(t, err, dph.ErrMalformedPage)
}

func TestDraftsClient_Operations(t *testing.T) {
	t.Parallel()

	t.Run("create", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusCreated, draftBody)

		draft, err := NewTestClient(server.URL).Drafts().Create(context.Background(), "dp-1", &dph.DataProductDraftPrototype{
			Version: "1.1.0",
			Asset:   dph.AssetReference{Container: dph.ContainerReference{ID: "cat-1"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "d-1", draft.ID)

		seen := requests.All()
		require.Len(t, seen, 1)
		assert.Equal(t, http.MethodPost, seen[0].Method)
		assert.Equal(t, "/v1/data_products/dp-1/drafts", seen[0].Path)
	})

	t.Run("update sends json patch", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, draftBody)

		patch := dph.JSONPatch{{Op: "replace", Path: "/description", Value: "Quarterly sales"}}

		_, err := NewTestClient(server.URL).Drafts().Update(context.Background(), "dp-1", "d-1", patch)
		require.NoError(t, err)

		seen := requests.All()
		require.Len(t, seen, 1)
		assert.Equal(t, http.MethodPatch, seen[0].Method)
		assert.Equal(t, "/v1/data_products/dp-1/drafts/d-1", seen[0].Path)
		assert.Equal(t, "application/json-patch+json", seen[0].ContentType)
		assert.JSONEq(t, `[{"op":"replace","path":"/description","value":"Quarterly sales"}]`, string(seen[0].Body))
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusNoContent, nil)

		err := NewTestClient(server.URL).Drafts().Delete(context.Background(), "dp-1", "d-1")
		require.NoError(t, err)

		seen := requests.All()
		require.Len(t, seen, 1)
		assert.Equal(t, http.MethodDelete, seen[0].Method)
		assert.Equal(t, "/v1/data_products/dp-1/drafts/d-1", seen[0].Path)
	})

	t.Run("publish", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, `{"id":"r-1","version":"1.1.0","state":"available","name":"Sales",
			"data_product":{"id":"dp-1"},"asset":{"container":{"id":"cat-1"}}}`)

		release, err := NewTestClient(server.URL).Drafts().Publish(context.Background(), "dp-1", "d-1")
		require.NoError(t, err)
		assert.Equal(t, dph.StateAvailable, release.State)

		seen := requests.All()
		require.Len(t, seen, 1)
		assert.Equal(t, http.MethodPost, seen[0].Method)
		assert.Equal(t, "/v1/data_products/dp-1/drafts/d-1/publish", seen[0].Path)
	})

	t.Run("missing draft id", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, draftBody)
		drafts := NewTestClient(server.URL).Drafts()

		_, err := drafts.Get(context.Background(), "dp-1", "")
		assertMissingParameter(t, err, "draftID", requests)

		err = drafts.Delete(context.Background(), "", "d-1")
		assertMissingParameter(t, err, "dataProductID", requests)

		_, err = drafts.List(context.Background(), "", nil)
		assertMissingParameter(t, err, "dataProductID", requests)
	})
}

func TestDraftsClient_Get(t *testing.T) {
	t.Parallel()

	RunGetTests(t, []TestGetOperation[dph.DataProductDraft]{
		{
			Name: "found",
			Call: func(ctx context.Context, c *Client) (*dph.DataProductDraft, error) {
				return c.Drafts().Get(ctx, "dp-1", "d-1")
			},
			ExpectedPath: "/v1/data_products/dp-1/drafts/d-1",
			StatusCode:   http.StatusOK,
			Response:     draftBody,
		},
		{
			Name: "not found",
			Call: func(ctx context.Context, c *Client) (*dph.DataProductDraft, error) {
				return c.Drafts().Get(ctx, "dp-1", "gone")
			},
			StatusCode: http.StatusNotFound,
			Response:   notFoundBody,
			WantErr:    true,
			ErrMessage: "getting draft",
		},
	})
}
