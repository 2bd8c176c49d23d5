package dph

import (
	"net/url"
	"strconv"
	"strings"
)

// ListDataProductsOptions are the query parameters of the data products list.
type ListDataProductsOptions struct {
	// Limit is the page size. Zero leaves it to the server.
	Limit int
	// Start is the cursor of a single-page call. Pagers own it and reject a preset value.
	Start string
}

// ToValues converts the options to url.Values.
func (o *ListDataProductsOptions) ToValues() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	setLimit(values, o.Limit)
	setStart(values, o.Start)

	return values
}

func (o *ListDataProductsOptions) clone() ListDataProductsOptions {
	if o == nil {
		return ListDataProductsOptions{}
	}

	return *o
}

// ListDraftsOptions are the query parameters of the drafts list.
type ListDraftsOptions struct {
	// AssetContainerID filters by the catalog holding the draft asset.
	AssetContainerID string
	// Version filters by version number.
	Version string
	Limit   int
	Start   string
}

// ToValues converts the options to url.Values.
func (o *ListDraftsOptions) ToValues() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	if o.AssetContainerID != "" {
		values.Set("asset.container.id", o.AssetContainerID)
	}

	if o.Version != "" {
		values.Set("version", o.Version)
	}

	setLimit(values, o.Limit)
	setStart(values, o.Start)

	return values
}

func (o *ListDraftsOptions) clone() ListDraftsOptions {
	if o == nil {
		return ListDraftsOptions{}
	}

	return *o
}

// ListReleasesOptions are the query parameters of the releases list.
type ListReleasesOptions struct {
	AssetContainerID string
	// States filters by release state (available, retired). Sent as a comma-separated list.
	States  []string
	Version string
	Limit   int
	Start   string
}

// ToValues converts the options to url.Values.
func (o *ListReleasesOptions) ToValues() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	if o.AssetContainerID != "" {
		values.Set("asset.container.id", o.AssetContainerID)
	}

	if len(o.States) > 0 {
		values.Set("state", strings.Join(o.States, ","))
	}

	if o.Version != "" {
		values.Set("version", o.Version)
	}

	setLimit(values, o.Limit)
	setStart(values, o.Start)

	return values
}

func (o *ListReleasesOptions) clone() ListReleasesOptions {
	if o == nil {
		return ListReleasesOptions{}
	}

	cloned := *o
	if o.States != nil {
		cloned.States = append([]string(nil), o.States...)
	}

	return cloned
}

// GetReleaseOptions are the query parameters of a single release read.
type GetReleaseOptions struct {
	// CheckCallerApproval asks the service to report whether the caller may consume the release.
	CheckCallerApproval bool
}

// ToValues converts the options to url.Values.
func (o *GetReleaseOptions) ToValues() url.Values {
	values := url.Values{}
	if o != nil && o.CheckCallerApproval {
		values.Set("check_caller_approval", "true")
	}

	return values
}

func setLimit(values url.Values, limit int) {
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
}

func setStart(values url.Values, start string) {
	if start != "" {
		values.Set("start", start)
	}
}
