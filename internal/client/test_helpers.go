package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/fivetwenty-io/dph-client/internal/http"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// NewTestClient creates a new test client with the given base URL.
func NewTestClient(baseURL string) *Client {
	// Create HTTP client without token manager for testing
	httpClient := internalhttp.NewClient(baseURL, nil, internalhttp.WithRetryConfig(0, 0, 0))

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client
}

// recordedRequest is what a test server saw.
type recordedRequest struct {
	Method      string
	Path        string
	RawPath     string
	Query       map[string][]string
	ContentType string
	Body        []byte
}

// requestLog collects the requests seen by a test server.
type requestLog struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) add(request recordedRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests = append(l.requests, request)
}

// All returns a copy of the recorded requests.
func (l *requestLog) All() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]recordedRequest(nil), l.requests...)
}

// newJSONServer serves response with statusCode and records every request it receives.
func newJSONServer(t *testing.T, statusCode int, response interface{}) (*httptest.Server, *requestLog) {
	t.Helper()

	requests := &requestLog{}

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorded := recordedRequest{
			Method:      request.Method,
			Path:        request.URL.Path,
			RawPath:     request.URL.EscapedPath(),
			Query:       request.URL.Query(),
			ContentType: request.Header.Get("Content-Type"),
		}

		if request.Body != nil {
			var body json.RawMessage

			if json.NewDecoder(request.Body).Decode(&body) == nil {
				recorded.Body = body
			}
		}

		requests.add(recorded)

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(statusCode)

		switch typed := response.(type) {
		case nil:
		case string:
			_, _ = writer.Write([]byte(typed))
		default:
			_ = json.NewEncoder(writer).Encode(typed)
		}
	}))
	t.Cleanup(server.Close)

	return server, requests
}

// notFoundBody is an error response of the service.
const notFoundBody = `{"errors":[{"code":"not_found","message":"Resource not found"}],"trace":"abc123","status_code":404}`

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	Call         func(context.Context, *Client) (*TResponse, error)
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	ErrMessage   string
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](t *testing.T, tests []TestGetOperation[TResponse]) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server, requests := newJSONServer(t, testCase.StatusCode, testCase.Response)

			result, err := testCase.Call(context.Background(), NewTestClient(server.URL))

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			seen := requests.All()
			require.Len(t, seen, 1)
			assert.Equal(t, http.MethodGet, seen[0].Method)
			assert.Equal(t, testCase.ExpectedPath, seen[0].Path)
		})
	}
}

// assertMissingParameter checks that err names the parameter and that no request was sent.
func assertMissingParameter(t *testing.T, err error, name string, requests *requestLog) {
	t.Helper()

	require.ErrorIs(t, err, dph.ErrMissingParameter)
	assert.Contains(t, err.Error(), name)
	assert.Empty(t, requests.All())
}
