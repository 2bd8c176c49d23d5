// Package dphclient is the entry point for constructing a Data Product Hub
// client that implements the dph.Client interface.
//
// It layers configuration, HTTP transport and IAM authentication on top of the
// resource interfaces and types defined in the dph package. Most applications
// build a client here and then use the resource clients and pagers of dph.
//
// Quick start
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
//
//	  cli, err := dphclient.NewWithAPIKey(ctx, "api.dataplatform.cloud.ibm.com/data_product_exchange", apiKey)
//	  if err != nil { log.Fatal(err) }
//
//	  pager, err := dph.NewDataProductsPager(cli.DataProducts(), &dph.ListDataProductsOptions{Limit: 50})
//	  if err != nil { log.Fatal(err) }
//
//	  for pager.HasNext() {
//	    products, err := pager.Next(ctx)
//	    if err != nil { log.Fatal(err) }
//	    _ = products
//	  }
//	}
//
// # Environment
//
// NewFromEnvironment reads DPH_URL, DPH_APIKEY, DPH_BEARER_TOKEN, DPH_AUTH_URL,
// DPH_RETRY_MAX and the DPH_CACHE_* variables. See EnvConfig for the full list.
//
// # Helpers
//
// The package also provides the convenience constructors NewWithServiceURL,
// NewWithBearerToken and NewWithAPIKey.
package dphclient
