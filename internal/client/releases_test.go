package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

const releaseBody = `{"id":"r-1","version":"1.0.0","state":"available","name":"Sales",
	"data_product":{"id":"dp-1"},"asset":{"container":{"id":"cat-1"}},"published_by":"IBMid-1"}`

func TestReleasesClient_List(t *testing.T) {
	t.Parallel()

	server, requests := newJSONServer(t, http.StatusOK, `{"limit":10,"first":{"href":"x"},
		"next":{"href":"x","start":"after-r-1"},"releases":[`+releaseBody+`]}`)

	page, err := NewTestClient(server.URL).Releases().List(context.Background(), "dp-1", &dph.ListReleasesOptions{
		AssetContainerID: "cat-1",
		States:           []string{dph.StateAvailable, dph.StateRetired},
		Limit:            10,
	})
	require.NoError(t, err)
	require.Len(t, page.Releases, 1)
	assert.Equal(t, "after-r-1", page.NextStart())

	seen := requests.All()
	require.Len(t, seen, 1)
	assert.Equal(t, "/v1/data_products/dp-1/releases", seen[0].Path)
	assert.Equal(t, []string{"available,retired"}, seen[0].Query["state"])
	assert.Equal(t, []string{"cat-1"}, seen[0].Query["asset.container.id"])
}

func TestReleasesClient_Get(t *testing.T) {
	t.Parallel()

	t.Run("check caller approval", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, releaseBody)

		release, err := NewTestClient(server.URL).Releases().Get(context.Background(), "dp-1", "r-1",
			&dph.GetReleaseOptions{CheckCallerApproval: true})
		require.NoError(t, err)
		assert.Equal(t, "IBMid-1", release.PublishedBy)

		seen := requests.All()
		require.Len(t, seen, 1)
		assert.Equal(t, "/v1/data_products/dp-1/releases/r-1", seen[0].Path)
		assert.Equal(t, []string{"true"}, seen[0].Query["check_caller_approval"])
	})

	RunGetTests(t, []TestGetOperation[dph.DataProductRelease]{
		{
			Name: "without options",
			Call: func(ctx context.Context, c *Client) (*dph.DataProductRelease, error) {
				return c.Releases().Get(ctx, "dp-1", "r-1", nil)
			},
			ExpectedPath: "/v1/data_products/dp-1/releases/r-1",
			StatusCode:   http.StatusOK,
			Response:     releaseBody,
		},
		{
			Name: "missing release id",
			Call: func(ctx context.Context, c *Client) (*dph.DataProductRelease, error) {
				return c.Releases().Get(ctx, "dp-1", "", nil)
			},
			WantErr:    true,
			ErrMessage: "releaseID",
		},
	})
}

func TestReleasesClient_UpdateAndRetire(t *testing.T) {
	t.Parallel()

	t.Run("update", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, releaseBody)

		_, err := NewTestClient(server.URL).Releases().Update(context.Background(), "dp-1", "r-1",
			dph.JSONPatch{{Op: "add", Path: "/tags/-", Value: "finance"}})
		require.NoError(t, err)

		seen := requests.All()
		require.Len(t, seen, 1)
		assert.Equal(t, http.MethodPatch, seen[0].Method)
		assert.Equal(t, "application/json-patch+json", seen[0].ContentType)
	})

	t.Run("retire", func(t *testing.T) {
		t.Parallel()

		server, requests := newJSONServer(t, http.StatusOK, `{"id":"r-1","version":"1.0.0","state":"retired","name":"Sales",
			"data_product":{"id":"dp-1"},"asset":{"container":{"id":"cat-1"}}}`)

		release, err := NewTestClient(server.URL).Releases().Retire(context.Background(), "dp-1", "r-1")
		require.NoError(t, err)
		assert.Equal(t, dph.StateRetired, release.State)

		seen := requests.All()
		require.Len(t, seen, 1)
		assert.Equal(t, http.MethodPost, seen[0].Method)
		assert.Equal(t, "/v1/data_products/dp-1/releases/r-1/retire", seen[0].Path)
	})
}

func TestReleasesClient_GetContractTermsDocument(t *testing.T) {
	t.Parallel()

	server, requests := newJSONServer(t, http.StatusOK, `{"id":"doc-1","type":"sla","name":"SLA","url":"https://example.com/sla"}`)

	ref := dph.DocumentRef{
		ContractTermsRef: dph.ContractTermsRef{DataProductID: "dp-1", VersionID: "r-1", ContractTermsID: "ct-1"},
		DocumentID:       "doc-1",
	}

	document, err := NewTestClient(server.URL).Releases().GetContractTermsDocument(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, dph.DocumentTypeSLA, document.Type)

	seen := requests.All()
	require.Len(t, seen, 1)
	assert.Equal(t, "/v1/data_products/dp-1/releases/r-1/contract_terms/ct-1/documents/doc-1", seen[0].Path)

	ref.VersionID = ""
	_, err = NewTestClient(server.URL).Releases().GetContractTermsDocument(context.Background(), ref)
	require.ErrorIs(t, err, dph.ErrMissingParameter)
	assert.Contains(t, err.Error(), "releaseID")
	assert.Len(t, requests.All(), 1)
}
