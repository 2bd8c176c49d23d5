package constants

import "errors"

// Configuration errors.
var (
	ErrNoServiceURL        = errors.New("no service URL configured, use 'dph login --url <url>' or set DPH_URL")
	ErrNotAuthenticated    = errors.New("not authenticated, use 'dph login' first")
	ErrNoAPIKey            = errors.New("no API key available to refresh the access token, please run 'dph login' again")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrTokenFieldsReadOnly = errors.New("token fields cannot be set via config command")
)

// Output errors.
var (
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")
)

// Validation errors.
var (
	ErrInvalidPatchFile = errors.New("patch file must contain a JSON array of operations")
	ErrInvalidLimit     = errors.New("limit must be between 1 and 200")
	ErrAllProductsScope = errors.New("--all-products cannot be combined with a data product ID")
	ErrDataProductID    = errors.New("a data product ID is required unless --all-products is set")
)
