package dph

import (
	"time"
)

// Version states.
const (
	StateDraft     = "draft"
	StateAvailable = "available"
	StateRetired   = "retired"
)

// Contract terms document types.
const (
	DocumentTypeTermsAndConditions = "terms_and_conditions"
	DocumentTypeSLA                = "sla"
)

// ContainerTypeCatalog is the only container type the service accepts.
const ContainerTypeCatalog = "catalog"

// Link represents a single link.
type Link struct {
	Href string `json:"href" yaml:"href"`
}

// NextLink points at the following page of a list. Start is the opaque cursor.
type NextLink struct {
	Href  string `json:"href,omitempty"  yaml:"href,omitempty"`
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
}

// Pagination is the paging envelope shared by every list response.
type Pagination struct {
	Limit        int       `json:"limit"                   yaml:"limit"`
	First        Link      `json:"first"                   yaml:"first"`
	Next         *NextLink `json:"next,omitempty"          yaml:"next,omitempty"`
	TotalResults *int      `json:"total_results,omitempty" yaml:"total_results,omitempty"`
}

// NextStart returns the cursor of the following page, or "" at the end of the stream.
func (p Pagination) NextStart() string {
	if p.Next == nil {
		return ""
	}

	return p.Next.Start
}

// ContainerReference identifies the catalog holding an asset.
type ContainerReference struct {
	ID   string `json:"id"             yaml:"id"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// AssetReference identifies a catalog asset.
type AssetReference struct {
	ID        string             `json:"id,omitempty"   yaml:"id,omitempty"`
	Name      string             `json:"name,omitempty" yaml:"name,omitempty"`
	Container ContainerReference `json:"container"      yaml:"container"`
}

// VersionReference identifies a draft or release.
type VersionReference struct {
	ID string `json:"id" yaml:"id"`
}

// DataProductIdentity identifies a data product and its catalog.
type DataProductIdentity struct {
	ID        string              `json:"id"                  yaml:"id"`
	Release   *VersionReference   `json:"release,omitempty"   yaml:"release,omitempty"`
	Container *ContainerReference `json:"container,omitempty" yaml:"container,omitempty"`
}

// DataProductSummary is an element of the data products list.
type DataProductSummary struct {
	ID        string             `json:"id"                yaml:"id"`
	Name      string             `json:"name,omitempty"    yaml:"name,omitempty"`
	Release   *VersionReference  `json:"release,omitempty" yaml:"release,omitempty"`
	Container ContainerReference `json:"container"         yaml:"container"`
}

// DataProduct represents a data product with its latest release and open drafts.
type DataProduct struct {
	ID            string                      `json:"id"                       yaml:"id"`
	Name          string                      `json:"name,omitempty"           yaml:"name,omitempty"`
	Release       *VersionReference           `json:"release,omitempty"        yaml:"release,omitempty"`
	Container     ContainerReference          `json:"container"                yaml:"container"`
	LatestRelease *DataProductVersionSummary  `json:"latest_release,omitempty" yaml:"latest_release,omitempty"`
	Drafts        []DataProductVersionSummary `json:"drafts,omitempty"         yaml:"drafts,omitempty"`
}

// UseCase is a business use case attached to a version.
type UseCase struct {
	ID        string              `json:"id"                  yaml:"id"`
	Name      string              `json:"name,omitempty"      yaml:"name,omitempty"`
	Container *ContainerReference `json:"container,omitempty" yaml:"container,omitempty"`
}

// Domain is the business domain of a version.
type Domain struct {
	ID        string              `json:"id"                  yaml:"id"`
	Name      string              `json:"name,omitempty"      yaml:"name,omitempty"`
	Container *ContainerReference `json:"container,omitempty" yaml:"container,omitempty"`
}

// AssetPartReference identifies an asset delivered as part of a data product.
type AssetPartReference struct {
	ID        string             `json:"id,omitempty"   yaml:"id,omitempty"`
	Container ContainerReference `json:"container"      yaml:"container"`
	Type      string             `json:"type,omitempty" yaml:"type,omitempty"`
}

// DeliveryMethod describes how a part is delivered to consumers.
type DeliveryMethod struct {
	ID        string             `json:"id"        yaml:"id"`
	Container ContainerReference `json:"container" yaml:"container"`
}

// DataProductPart is an asset offered by a data product version.
type DataProductPart struct {
	Asset           AssetPartReference `json:"asset"                      yaml:"asset"`
	DeliveryMethods []DeliveryMethod   `json:"delivery_methods,omitempty" yaml:"delivery_methods,omitempty"`
}

// ContractTermsDocumentAttachment references an uploaded attachment.
type ContractTermsDocumentAttachment struct {
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
}

// ContractTermsDocument is a document (link or attachment) of contract terms.
type ContractTermsDocument struct {
	ID         string                           `json:"id"                   yaml:"id"`
	Type       string                           `json:"type"                 yaml:"type"`
	Name       string                           `json:"name"                 yaml:"name"`
	URL        string                           `json:"url,omitempty"        yaml:"url,omitempty"`
	Attachment *ContractTermsDocumentAttachment `json:"attachment,omitempty" yaml:"attachment,omitempty"`
	UploadURL  string                           `json:"upload_url,omitempty" yaml:"upload_url,omitempty"`
}

// ContractTerms groups the documents governing use of a version.
type ContractTerms struct {
	ID        string                  `json:"id,omitempty"        yaml:"id,omitempty"`
	Asset     *AssetReference         `json:"asset,omitempty"     yaml:"asset,omitempty"`
	Documents []ContractTermsDocument `json:"documents,omitempty" yaml:"documents,omitempty"`
	ErrorMsg  string                  `json:"error_msg,omitempty" yaml:"error_msg,omitempty"`
}

// DataProductVersionSummary is a draft or release as it appears in list responses.
type DataProductVersionSummary struct {
	ID            string              `json:"id"                       yaml:"id"`
	Version       string              `json:"version"                  yaml:"version"`
	State         string              `json:"state"                    yaml:"state"`
	DataProduct   DataProductIdentity `json:"data_product"             yaml:"data_product"`
	Name          string              `json:"name"                     yaml:"name"`
	Description   string              `json:"description,omitempty"    yaml:"description,omitempty"`
	Tags          []string            `json:"tags,omitempty"           yaml:"tags,omitempty"`
	UseCases      []UseCase           `json:"use_cases,omitempty"      yaml:"use_cases,omitempty"`
	Types         []string            `json:"types,omitempty"          yaml:"types,omitempty"`
	ContractTerms []ContractTerms     `json:"contract_terms,omitempty" yaml:"contract_terms,omitempty"`
	IsRestricted  bool                `json:"is_restricted"            yaml:"is_restricted"`
	Asset         AssetReference      `json:"asset"                    yaml:"asset"`
}

// DataProductVersion is the full representation of a draft or a release.
type DataProductVersion struct {
	DataProductVersionSummary `yaml:",inline"`

	Domain      *Domain                `json:"domain,omitempty"       yaml:"domain,omitempty"`
	PartsOut    []DataProductPart      `json:"parts_out,omitempty"    yaml:"parts_out,omitempty"`
	PublishedBy string                 `json:"published_by,omitempty" yaml:"published_by,omitempty"`
	PublishedAt *time.Time             `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	CreatedBy   string                 `json:"created_by,omitempty"   yaml:"created_by,omitempty"`
	CreatedAt   *time.Time             `json:"created_at,omitempty"   yaml:"created_at,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"   yaml:"properties,omitempty"`
}

// DataProductDraft is a draft version of a data product.
type DataProductDraft = DataProductVersion

// DataProductRelease is a published version of a data product.
type DataProductRelease = DataProductVersion

// DataProductCollection is one page of the data products list.
type DataProductCollection struct {
	Pagination `yaml:",inline"`

	DataProducts []DataProductSummary `json:"data_products" yaml:"data_products"`
}

// DataProductDraftCollection is one page of the drafts list.
type DataProductDraftCollection struct {
	Pagination `yaml:",inline"`

	Drafts []DataProductVersionSummary `json:"drafts" yaml:"drafts"`
}

// DataProductReleaseCollection is one page of the releases list.
type DataProductReleaseCollection struct {
	Pagination `yaml:",inline"`

	Releases []DataProductVersionSummary `json:"releases" yaml:"releases"`
}

// DataProductDraftPrototype is the body used to create a draft.
type DataProductDraftPrototype struct {
	Version       string               `json:"version,omitempty"        yaml:"version,omitempty"`
	State         string               `json:"state,omitempty"          yaml:"state,omitempty"`
	DataProduct   *DataProductIdentity `json:"data_product,omitempty"   yaml:"data_product,omitempty"`
	Name          string               `json:"name,omitempty"           yaml:"name,omitempty"`
	Description   string               `json:"description,omitempty"    yaml:"description,omitempty"`
	Tags          []string             `json:"tags,omitempty"           yaml:"tags,omitempty"`
	UseCases      []UseCase            `json:"use_cases,omitempty"      yaml:"use_cases,omitempty"`
	Types         []string             `json:"types,omitempty"          yaml:"types,omitempty"`
	ContractTerms []ContractTerms      `json:"contract_terms,omitempty" yaml:"contract_terms,omitempty"`
	IsRestricted  *bool                `json:"is_restricted,omitempty"  yaml:"is_restricted,omitempty"`
	Domain        *Domain              `json:"domain,omitempty"         yaml:"domain,omitempty"`
	PartsOut      []DataProductPart    `json:"parts_out,omitempty"      yaml:"parts_out,omitempty"`
	Asset         AssetReference       `json:"asset"                    yaml:"asset"`
}

// DataProductCreateRequest is the body used to create a data product with its first draft.
type DataProductCreateRequest struct {
	Drafts []DataProductDraftPrototype `json:"drafts" yaml:"drafts"`
}

// ContractTermsDocumentCreateRequest is the body used to attach a document to contract terms.
type ContractTermsDocumentCreateRequest struct {
	Type       string                           `json:"type"                 yaml:"type"`
	Name       string                           `json:"name"                 yaml:"name"`
	URL        string                           `json:"url,omitempty"        yaml:"url,omitempty"`
	Attachment *ContractTermsDocumentAttachment `json:"attachment,omitempty" yaml:"attachment,omitempty"`
}

// JSONPatchOperation is one RFC 6902 operation.
type JSONPatchOperation struct {
	Op    string      `json:"op"              yaml:"op"`
	Path  string      `json:"path"            yaml:"path"`
	From  string      `json:"from,omitempty"  yaml:"from,omitempty"`
	Value interface{} `json:"value,omitempty" yaml:"value,omitempty"`
}

// JSONPatch is an ordered list of patch operations.
type JSONPatch []JSONPatchOperation

// ContractTermsRef addresses the contract terms of a draft or release.
type ContractTermsRef struct {
	DataProductID   string
	VersionID       string
	ContractTermsID string
}

// DocumentRef addresses a single contract terms document.
type DocumentRef struct {
	ContractTermsRef

	DocumentID string
}

// InitializeRequest asks the service to set up a container.
type InitializeRequest struct {
	Container *ContainerReference `json:"container,omitempty" yaml:"container,omitempty"`
	Include   []string            `json:"include,omitempty"   yaml:"include,omitempty"`
}

// InitializedOption reports one provisioned option of a container.
type InitializedOption struct {
	Name    string `json:"name"    yaml:"name"`
	Version int    `json:"version" yaml:"version"`
}

// ErrorModelResource is an error recorded during initialization.
type ErrorModelResource struct {
	Code     string `json:"code"                yaml:"code"`
	Message  string `json:"message,omitempty"   yaml:"message,omitempty"`
	MoreInfo string `json:"more_info,omitempty" yaml:"more_info,omitempty"`
}

// InitializeResource is the initialization state of a container.
type InitializeResource struct {
	Container          *ContainerReference  `json:"container,omitempty"           yaml:"container,omitempty"`
	Href               string               `json:"href,omitempty"                yaml:"href,omitempty"`
	Status             string               `json:"status,omitempty"              yaml:"status,omitempty"`
	Trace              string               `json:"trace,omitempty"               yaml:"trace,omitempty"`
	Errors             []ErrorModelResource `json:"errors,omitempty"              yaml:"errors,omitempty"`
	LastStartedAt      *time.Time           `json:"last_started_at,omitempty"     yaml:"last_started_at,omitempty"`
	LastFinishedAt     *time.Time           `json:"last_finished_at,omitempty"    yaml:"last_finished_at,omitempty"`
	InitializedOptions []InitializedOption  `json:"initialized_options,omitempty" yaml:"initialized_options,omitempty"`
}

// ServiceIDCredentials describes the service ID API key used by the service.
type ServiceIDCredentials struct {
	Name      string     `json:"name,omitempty"       yaml:"name,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}
