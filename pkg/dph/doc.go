// Package dph provides types, interfaces, and helpers for working with the
// Data Product Hub (Data Product Exchange) REST API.
//
// # Overview
//
// The dph package defines the domain types (DataProduct, DataProductVersion,
// ContractTerms, InitializeResource) and the interfaces of the resource
// clients (DataProductsClient, DraftsClient, ReleasesClient,
// ContractTermsClient, ConfigurationClient). A concrete implementation is
// provided by the dphclient package, which wires configuration, transport,
// and authentication. Most consumers import dphclient to construct a client
// and then use the interfaces declared here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/dph-client/pkg/dph"
//	  "github.com/fivetwenty-io/dph-client/pkg/dphclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := dphclient.NewWithAPIKey(ctx, "https://api.dataplatform.cloud.ibm.com/data_product_exchange", "my-api-key")
//	  if err != nil { log.Fatal(err) }
//
//	  // First page of data products
//	  page, err := cli.DataProducts().List(ctx, &dph.ListDataProductsOptions{Limit: 50})
//	  if err != nil { log.Fatal(err) }
//	  _ = page
//	}
//
// # Pagination
//
// List endpoints are cursor paginated: each response may carry a next.start
// token that is sent back verbatim as the start query parameter. Pager wraps
// one list endpoint and owns that cursor:
//
//	pager, err := dph.NewReleasesPager(cli.Releases(), dataProductID, &dph.ListReleasesOptions{Limit: 100})
//	if err != nil { /* start was set on the options */ }
//	for pager.HasNext() {
//	  releases, err := pager.Next(ctx)
//	  if err != nil { break }
//	  _ = releases
//	}
//
// or collect every page at once:
//
//	all, err := pager.All(ctx)
//
// A pager is single-use and not safe for concurrent use. Construct one pager
// per goroutine when listing in parallel.
//
// # Errors
//
// Service errors are returned as *ResponseError. IsNotFound, IsUnauthorized,
// IsForbidden and IsConflict branch on the common cases.
//
// # Interceptors and caching
//
// InterceptorChain hooks run around every request made by the transport.
// Cache backends (memory, NATS KV) may be configured for single-resource
// reads; list requests are never cached.
package dph
