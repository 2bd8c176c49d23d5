package dph

import (
	"context"
	"time"
)

// DataProductsClient manages data products.
type DataProductsClient interface {
	List(ctx context.Context, options *ListDataProductsOptions) (*DataProductCollection, error)
	Create(ctx context.Context, request *DataProductCreateRequest) (*DataProduct, error)
	Get(ctx context.Context, dataProductID string) (*DataProduct, error)
}

// DraftsClient manages the drafts of a data product.
type DraftsClient interface {
	List(ctx context.Context, dataProductID string, options *ListDraftsOptions) (*DataProductDraftCollection, error)
	Create(ctx context.Context, dataProductID string, request *DataProductDraftPrototype) (*DataProductDraft, error)
	Get(ctx context.Context, dataProductID, draftID string) (*DataProductDraft, error)
	Update(ctx context.Context, dataProductID, draftID string, patch JSONPatch) (*DataProductDraft, error)
	Delete(ctx context.Context, dataProductID, draftID string) error
	Publish(ctx context.Context, dataProductID, draftID string) (*DataProductRelease, error)
}

// ReleasesClient manages the published releases of a data product.
type ReleasesClient interface {
	List(ctx context.Context, dataProductID string, options *ListReleasesOptions) (*DataProductReleaseCollection, error)
	Get(ctx context.Context, dataProductID, releaseID string, options *GetReleaseOptions) (*DataProductRelease, error)
	Update(ctx context.Context, dataProductID, releaseID string, patch JSONPatch) (*DataProductRelease, error)
	Retire(ctx context.Context, dataProductID, releaseID string) (*DataProductRelease, error)
	GetContractTermsDocument(ctx context.Context, ref DocumentRef) (*ContractTermsDocument, error)
}

// ContractTermsClient manages documents attached to the contract terms of a draft.
type ContractTermsClient interface {
	CreateDocument(ctx context.Context, ref ContractTermsRef, request *ContractTermsDocumentCreateRequest) (*ContractTermsDocument, error)
	GetDocument(ctx context.Context, ref DocumentRef) (*ContractTermsDocument, error)
	UpdateDocument(ctx context.Context, ref DocumentRef, patch JSONPatch) (*ContractTermsDocument, error)
	DeleteDocument(ctx context.Context, ref DocumentRef) error
	CompleteDocumentUpload(ctx context.Context, ref DocumentRef) (*ContractTermsDocument, error)
}

// ConfigurationClient manages container initialization and service credentials.
type ConfigurationClient interface {
	GetInitializeStatus(ctx context.Context, containerID string) (*InitializeResource, error)
	Initialize(ctx context.Context, request *InitializeRequest) (*InitializeResource, error)
	GetServiceIDCredentials(ctx context.Context) (*ServiceIDCredentials, error)
	ManageAPIKeys(ctx context.Context) error
}

// Client provides access to every resource client of the service.
type Client interface {
	DataProducts() DataProductsClient
	Drafts() DraftsClient
	Releases() ReleasesClient
	ContractTerms() ContractTermsClient
	Configuration() ConfigurationClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a dph.Client.
//
// # Authentication precedence
//
//  1. BearerToken + APIKey: the bearer token is tried first; once it is
//     rejected with 401 the client switches to IAM tokens minted from APIKey.
//  2. BearerToken: used directly as a static Bearer token.
//  3. APIKey: exchanged at AuthURL for IAM access tokens, refreshed before expiry.
//  4. No credentials: requests are sent without authentication.
//
// # Timeouts and retries
//
// Per-request timeouts are controlled via the context passed to client
// methods. Transient failures (429, 5xx, connection errors) are retried by the
// transport according to RetryMax/RetryWaitMin/RetryWaitMax. Pagers never
// retry on their own.
type Config struct {
	// ServiceURL: base URL of the service, e.g.
	// "https://api.dataplatform.cloud.ibm.com/data_product_exchange".
	// dphclient.New trims a trailing slash and adds "https://" when no scheme is present.
	ServiceURL string

	// APIKey: IAM API key exchanged for access tokens.
	APIKey string
	// BearerToken: pre-issued access token.
	BearerToken string
	// AuthURL: IAM token endpoint. Defaults to the public IBM Cloud IAM endpoint.
	AuthURL string
	// AuthClientID and AuthClientSecret: optional basic credentials sent to AuthURL.
	AuthClientID     string
	AuthClientSecret string
	// FetchTokenOnInit: obtain a token while building the client so bad credentials fail early.
	FetchTokenOnInit bool

	// RetryMax: maximum number of retries for transient failures. 0 keeps the transport default.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration

	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Headers: extra headers sent with every request.
	Headers map[string]string

	// Cache: optional cache for single-resource reads.
	Cache Cache
	// CacheTTL: lifetime of cached entries. Defaults to constants.DefaultCacheTTL.
	CacheTTL time.Duration
	// Interceptors: optional hooks run around every request.
	Interceptors *InterceptorChain
}
