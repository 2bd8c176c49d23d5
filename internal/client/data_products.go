package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/fivetwenty-io/dph-client/internal/http"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// DataProductsClient implements dph.DataProductsClient.
type DataProductsClient struct {
	httpClient *http.Client
}

// NewDataProductsClient creates a new data products client.
func NewDataProductsClient(httpClient *http.Client) *DataProductsClient {
	return &DataProductsClient{
		httpClient: httpClient,
	}
}

// List implements dph.DataProductsClient.List.
func (c *DataProductsClient) List(ctx context.Context, options *dph.ListDataProductsOptions) (*dph.DataProductCollection, error) {
	resp, err := getPage(ctx, c.httpClient, constants.APIPathDataProducts, options.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing data products: %w", err)
	}

	var collection dph.DataProductCollection

	err = decodeCollection(resp.Body, "data_products", &collection)
	if err != nil {
		return nil, err
	}

	return &collection, nil
}

// Create implements dph.DataProductsClient.Create.
func (c *DataProductsClient) Create(ctx context.Context, request *dph.DataProductCreateRequest) (*dph.DataProduct, error) {
	if request == nil || len(request.Drafts) == 0 {
		return nil, fmt.Errorf("%w: drafts", dph.ErrMissingParameter)
	}

	resp, err := c.httpClient.Post(ctx, constants.APIPathDataProducts, request)
	if err != nil {
		return nil, fmt.Errorf("creating data product: %w", err)
	}

	var dataProduct dph.DataProduct

	err = json.Unmarshal(resp.Body, &dataProduct)
	if err != nil {
		return nil, fmt.Errorf("parsing data product: %w", err)
	}

	return &dataProduct, nil
}

// Get implements dph.DataProductsClient.Get.
func (c *DataProductsClient) Get(ctx context.Context, dataProductID string) (*dph.DataProduct, error) {
	err := requireParams(param{"dataProductID", dataProductID})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, dataProductPath(dataProductID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting data product: %w", err)
	}

	var dataProduct dph.DataProduct

	err = json.Unmarshal(resp.Body, &dataProduct)
	if err != nil {
		return nil, fmt.Errorf("parsing data product: %w", err)
	}

	return &dataProduct, nil
}
