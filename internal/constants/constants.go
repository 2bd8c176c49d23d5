package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Service endpoints.
const (
	// DefaultServiceURL is the public Data Product Hub endpoint.
	DefaultServiceURL = "https://api.dataplatform.cloud.ibm.com/data_product_exchange"

	// DefaultIAMURL is the public IBM Cloud IAM token endpoint.
	DefaultIAMURL = "https://iam.cloud.ibm.com/identity/token"

	// IAMAPIKeyGrantType is the grant used to exchange an API key for an access token.
	IAMAPIKeyGrantType = "urn:ibm:params:oauth:grant-type:apikey"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "dph-client-go/1.0.0"
)

// API paths.
const (
	APIPathConfiguration = "/v1/configuration"
	APIPathDataProducts  = "/v1/data_products"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for token requests.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 4

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// HTTP status codes commonly used.
const (
	// HTTPStatusBadRequest represents a client error.
	HTTPStatusBadRequest = 400

	// HTTPStatusInternalServerError represents server errors.
	HTTPStatusInternalServerError = 500
)

// Pagination and concurrency limits.
const (
	// DefaultPageSize is the page size used by the CLI when --limit is not set.
	DefaultPageSize = 50

	// MaxPageSize is the largest page the service accepts.
	MaxPageSize = 200

	// DefaultConcurrencyLimit bounds parallel pagers in fan-out listings.
	DefaultConcurrencyLimit = 4
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second
)

// Cache settings.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultNATSBucket is the JetStream KV bucket used when none is configured.
	DefaultNATSBucket = "dph_cache"
)

// Circuit breaker settings.
const (
	// CircuitBreakerThreshold is the failure threshold for circuit breaker.
	CircuitBreakerThreshold = 5

	// CircuitBreakerSuccessThreshold is the success threshold for circuit breaker.
	CircuitBreakerSuccessThreshold = 2

	// CircuitBreakerTimeout is the timeout for circuit breaker.
	CircuitBreakerTimeout = 30 * time.Second
)

// State and status constants.
const (
	StatusClosed   = "closed"
	StatusOpen     = "open"
	StatusHalfOpen = "half-open"
)

// Output format constants.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// StringTruncationLength is the default length for truncating strings.
	StringTruncationLength = 60
)
