package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/dph-client/internal/http"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// DraftsClient implements dph.DraftsClient.
type DraftsClient struct {
	httpClient *http.Client
}

// NewDraftsClient creates a new drafts client.
func NewDraftsClient(httpClient *http.Client) *DraftsClient {
	return &DraftsClient{
		httpClient: httpClient,
	}
}

// List implements dph.DraftsClient.List.
func (c *DraftsClient) List(ctx context.Context, dataProductID string, options *dph.ListDraftsOptions) (*dph.DataProductDraftCollection, error) {
	err := requireParams(param{"dataProductID", dataProductID})
	if err != nil {
		return nil, err
	}

	resp, err := getPage(ctx, c.httpClient, dataProductPath(dataProductID, "drafts"), options.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}

	var collection dph.DataProductDraftCollection

	err = decodeCollection(resp.Body, "drafts", &collection)
	if err != nil {
		return nil, err
	}

	return &collection, nil
}

// Create implements dph.DraftsClient.Create.
func (c *DraftsClient) Create(ctx context.Context, dataProductID string, request *dph.DataProductDraftPrototype) (*dph.DataProductDraft, error) {
	err := requireParams(param{"dataProductID", dataProductID})
	if err != nil {
		return nil, err
	}

	if request == nil {
		return nil, fmt.Errorf("%w: request", dph.ErrMissingParameter)
	}

	resp, err := c.httpClient.Post(ctx, dataProductPath(dataProductID, "drafts"), request)
	if err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}

	return parseVersion(resp.Body, "draft")
}

// Get implements dph.DraftsClient.Get.
func (c *DraftsClient) Get(ctx context.Context, dataProductID, draftID string) (*dph.DataProductDraft, error) {
	err := requireParams(param{"dataProductID", dataProductID}, param{"draftID", draftID})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, dataProductPath(dataProductID, "drafts", draftID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting draft: %w", err)
	}

	return parseVersion(resp.Body, "draft")
}

// Update implements dph.DraftsClient.Update.
func (c *DraftsClient) Update(ctx context.Context, dataProductID, draftID string, patch dph.JSONPatch) (*dph.DataProductDraft, error) {
	err := requireParams(param{"dataProductID", dataProductID}, param{"draftID", draftID})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Patch(ctx, dataProductPath(dataProductID, "drafts", draftID), patch)
	if err != nil {
		return nil, fmt.Errorf("updating draft: %w", err)
	}

	return parseVersion(resp.Body, "draft")
}

// Delete implements dph.DraftsClient.Delete.
func (c *DraftsClient) Delete(ctx context.Context, dataProductID, draftID string) error {
	err := requireParams(param{"dataProductID", dataProductID}, param{"draftID", draftID})
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, dataProductPath(dataProductID, "drafts", draftID))
	if err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}

	return nil
}

// Publish implements dph.DraftsClient.Publish.
func (c *DraftsClient) Publish(ctx context.Context, dataProductID, draftID string) (*dph.DataProductRelease, error) {
	err := requireParams(param{"dataProductID", dataProductID}, param{"draftID", draftID})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, dataProductPath(dataProductID, "drafts", draftID, "publish"), nil)
	if err != nil {
		return nil, fmt.Errorf("publishing draft: %w", err)
	}

	return parseVersion(resp.Body, "release")
}

func parseVersion(body []byte, kind string) (*dph.DataProductVersion, error) {
	var version dph.DataProductVersion

	err := json.Unmarshal(body, &version)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", kind, err)
	}

	return &version, nil
}
