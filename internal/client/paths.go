package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/fivetwenty-io/dph-client/internal/http"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// param is a named path parameter.
type param struct {
	name  string
	value string
}

// requireParams returns dph.ErrMissingParameter naming the first empty parameter.
func requireParams(params ...param) error {
	for _, p := range params {
		if p.value == "" {
			return fmt.Errorf("%w: %s", dph.ErrMissingParameter, p.name)
		}
	}

	return nil
}

// dataProductPath joins escaped segments below /v1/data_products.
func dataProductPath(segments ...string) string {
	var builder strings.Builder

	builder.WriteString(constants.APIPathDataProducts)

	for _, segment := range segments {
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}

	return builder.String()
}

// getPage fetches one page of a list endpoint. List pages bypass the cache.
func getPage(ctx context.Context, httpClient *http.Client, path string, query url.Values) (*http.Response, error) {
	return httpClient.Do(ctx, &http.Request{
		Method:    nethttp.MethodGet,
		Path:      path,
		Query:     query,
		SkipCache: true,
	})
}

// decodeCollection decodes one list page into out. The items array under
// itemsKey must be present and non-null; an empty array is a valid page.
func decodeCollection(body []byte, itemsKey string, out interface{}) error {
	var raw map[string]json.RawMessage

	err := json.Unmarshal(body, &raw)
	if err != nil {
		return fmt.Errorf("parsing %s page: %w", itemsKey, err)
	}

	items, ok := raw[itemsKey]
	if !ok || string(items) == "null" {
		return fmt.Errorf("%w: %q", dph.ErrMalformedPage, itemsKey)
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("parsing %s page: %w", itemsKey, err)
	}

	return nil
}
