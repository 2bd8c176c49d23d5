package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/dph-client/internal/http"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// ContractTermsClient implements dph.ContractTermsClient for documents of draft contract terms.
type ContractTermsClient struct {
	httpClient *http.Client
}

// NewContractTermsClient creates a new contract terms client.
func NewContractTermsClient(httpClient *http.Client) *ContractTermsClient {
	return &ContractTermsClient{
		httpClient: httpClient,
	}
}

// CreateDocument implements dph.ContractTermsClient.CreateDocument.
func (c *ContractTermsClient) CreateDocument(ctx context.Context, ref dph.ContractTermsRef, request *dph.ContractTermsDocumentCreateRequest) (*dph.ContractTermsDocument, error) {
	err := requireContractTermsRef(ref, "draftID")
	if err != nil {
		return nil, err
	}

	if request == nil {
		return nil, fmt.Errorf("%w: request", dph.ErrMissingParameter)
	}

	resp, err := c.httpClient.Post(ctx, documentsPath(ref), request)
	if err != nil {
		return nil, fmt.Errorf("creating contract terms document: %w", err)
	}

	return parseDocument(resp.Body)
}

// GetDocument implements dph.ContractTermsClient.GetDocument.
func (c *ContractTermsClient) GetDocument(ctx context.Context, ref dph.DocumentRef) (*dph.ContractTermsDocument, error) {
	err := requireDocumentRef(ref, "draftID")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, documentPath(ref), nil)
	if err != nil {
		return nil, fmt.Errorf("getting contract terms document: %w", err)
	}

	return parseDocument(resp.Body)
}

// UpdateDocument implements dph.ContractTermsClient.UpdateDocument.
func (c *ContractTermsClient) UpdateDocument(ctx context.Context, ref dph.DocumentRef, patch dph.JSONPatch) (*dph.ContractTermsDocument, error) {
	err := requireDocumentRef(ref, "draftID")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Patch(ctx, documentPath(ref), patch)
	if err != nil {
		return nil, fmt.Errorf("updating contract terms document: %w", err)
	}

	return parseDocument(resp.Body)
}

// DeleteDocument implements dph.ContractTermsClient.DeleteDocument.
func (c *ContractTermsClient) DeleteDocument(ctx context.Context, ref dph.DocumentRef) error {
	err := requireDocumentRef(ref, "draftID")
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, documentPath(ref))
	if err != nil {
		return fmt.Errorf("deleting contract terms document: %w", err)
	}

	return nil
}

// CompleteDocumentUpload implements dph.ContractTermsClient.CompleteDocumentUpload.
func (c *ContractTermsClient) CompleteDocumentUpload(ctx context.Context, ref dph.DocumentRef) (*dph.ContractTermsDocument, error) {
	err := requireDocumentRef(ref, "draftID")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, documentPath(ref)+"/complete", nil)
	if err != nil {
		return nil, fmt.Errorf("completing contract terms document upload: %w", err)
	}

	return parseDocument(resp.Body)
}

func documentsPath(ref dph.ContractTermsRef) string {
	return dataProductPath(ref.DataProductID, "drafts", ref.VersionID, "contract_terms", ref.ContractTermsID, "documents")
}

func documentPath(ref dph.DocumentRef) string {
	return dataProductPath(ref.DataProductID, "drafts", ref.VersionID, "contract_terms", ref.ContractTermsID, "documents", ref.DocumentID)
}

// requireContractTermsRef validates ref; versionName names VersionID in errors.
func requireContractTermsRef(ref dph.ContractTermsRef, versionName string) error {
	return requireParams(
		param{"dataProductID", ref.DataProductID},
		param{versionName, ref.VersionID},
		param{"contractTermsID", ref.ContractTermsID},
	)
}

func requireDocumentRef(ref dph.DocumentRef, versionName string) error {
	err := requireContractTermsRef(ref.ContractTermsRef, versionName)
	if err != nil {
		return err
	}

	return requireParams(param{"documentID", ref.DocumentID})
}

func parseDocument(body []byte) (*dph.ContractTermsDocument, error) {
	var document dph.ContractTermsDocument

	err := json.Unmarshal(body, &document)
	if err != nil {
		return nil, fmt.Errorf("parsing contract terms document: %w", err)
	}

	return &document, nil
}
