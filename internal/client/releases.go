package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dph-client/internal/http"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// ReleasesClient implements dph.ReleasesClient.
type ReleasesClient struct {
	httpClient *http.Client
}

// NewReleasesClient creates a new releases client.
func NewReleasesClient(httpClient *http.Client) *ReleasesClient {
	return &ReleasesClient{
		httpClient: httpClient,
	}
}

// List implements dph.ReleasesClient.List.
func (c *ReleasesClient) List(ctx context.Context, dataProductID string, options *dph.ListReleasesOptions) (*dph.DataProductReleaseCollection, error) {
	err := requireParams(param{"dataProductID", dataProductID})
	if err != nil {
		return nil, err
	}

	resp, err := getPage(ctx, c.httpClient, dataProductPath(dataProductID, "releases"), options.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}

	var collection dph.DataProductReleaseCollection

	err = decodeCollection(resp.Body, "releases", &collection)
	if err != nil {
		return nil, err
	}

	return &collection, nil
}

// Get implements dph.ReleasesClient.Get.
func (c *ReleasesClient) Get(ctx context.Context, dataProductID, releaseID string, options *dph.GetReleaseOptions) (*dph.DataProductRelease, error) {
	err := requireParams(param{"dataProductID", dataProductID}, param{"releaseID", releaseID})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, dataProductPath(dataProductID, "releases", releaseID), options.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting release: %w", err)
	}

	return parseVersion(resp.Body, "release")
}

// Update implements dph.ReleasesClient.Update.
func (c *ReleasesClient) Update(ctx context.Context, dataProductID, releaseID string, patch dph.JSONPatch) (*dph.DataProductRelease, error) {
	err := requireParams(param{"dataProductID", dataProductID}, param{"releaseID", releaseID})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Patch(ctx, dataProductPath(dataProductID, "releases", releaseID), patch)
	if err != nil {
		return nil, fmt.Errorf("updating release: %w", err)
	}

	return parseVersion(resp.Body, "release")
}

// Retire implements dph.ReleasesClient.Retire.
func (c *ReleasesClient) Retire(ctx context.Context, dataProductID, releaseID string) (*dph.DataProductRelease, error) {
	err := requireParams(param{"dataProductID", dataProductID}, param{"releaseID", releaseID})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, dataProductPath(dataProductID, "releases", releaseID, "retire"), nil)
	if err != nil {
		return nil, fmt.Errorf("retiring release: %w", err)
	}

	return parseVersion(resp.Body, "release")
}

// GetContractTermsDocument implements dph.ReleasesClient.GetContractTermsDocument.
func (c *ReleasesClient) GetContractTermsDocument(ctx context.Context, ref dph.DocumentRef) (*dph.ContractTermsDocument, error) {
	err := requireDocumentRef(ref, "releaseID")
	if err != nil {
		return nil, err
	}

	path := dataProductPath(ref.DataProductID, "releases", ref.VersionID, "contract_terms", ref.ContractTermsID, "documents", ref.DocumentID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting release contract terms document: %w", err)
	}

	return parseDocument(resp.Body)
}
