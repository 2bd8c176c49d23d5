package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/dph-client/internal/auth"
	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	contentTypeJSON      = "application/json"
	contentTypeJSONPatch = "application/json-patch+json"
	headerCorrelationID  = "X-Correlation-Id"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes one call to the service.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// ContentType overrides the body content type. Defaults to JSON, or JSON Patch for dph.JSONPatch bodies.
	ContentType string
	// SkipCache bypasses the cache for reads of state that changes on its own.
	SkipCache bool
}

// Response is a fully read service response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the shared transport of every resource client.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	userAgent    string
	logger       Logger
	debug        bool
	headers      map[string]string
	interceptors *dph.InterceptorChain
	cache        *dph.CacheManager
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithRetryConfig sets the retry budget and backoff bounds.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for key, value := range headers {
			c.headers[key] = value
		}
	}
}

// WithInterceptors runs chain around every request.
func WithInterceptors(chain *dph.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCache serves single-resource reads through manager.
func WithCache(manager *dph.CacheManager) Option {
	return func(c *Client) {
		c.cache = manager
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. for custom TLS.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// NewClient creates a transport for baseURL. tokenManager may be nil for unauthenticated use.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.CheckRetry = retryablehttp.DefaultRetryPolicy
	// Hand the last response back instead of a generic "giving up" error, so service errors can be decoded.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
		headers:      make(map[string]string),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the service URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req. For status codes >= 400 it returns the response together with a *dph.ResponseError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	cacheable := !req.SkipCache && c.cache.Cacheable(req.Method, len(req.Query) > 0)
	if cacheable {
		if body, ok := c.cache.Lookup(ctx, req.Path); ok {
			return &Response{StatusCode: http.StatusOK, Headers: http.Header{"X-Cache": []string{"HIT"}}, Body: body}, nil
		}
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	headers := c.requestHeaders(req, contentType)

	intercepted := &dph.Request{Method: req.Method, Path: req.Path, Headers: headers, Body: body}
	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, err
		}

		headers = intercepted.Headers
	}

	resp, err := c.send(ctx, req, body, headers, true)

	if c.interceptors != nil {
		observed := &dph.Response{Error: err}
		if resp != nil {
			observed.StatusCode = resp.StatusCode
			observed.Headers = resp.Headers
			observed.Body = resp.Body
		}

		interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, observed)
		if err == nil && interceptErr != nil {
			return resp, interceptErr
		}
	}

	if err != nil {
		return resp, err
	}

	if resp.StatusCode >= constants.HTTPStatusBadRequest {
		return resp, parseErrorResponse(resp)
	}

	c.updateCache(ctx, req, resp, cacheable)

	return resp, nil
}

func (c *Client) send(ctx context.Context, req *Request, body []byte, headers http.Header, allowReauth bool) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var reqBody interface{}
	if body != nil {
		reqBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = headers.Clone()

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting auth token: %w", err)
		}

		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":         req.Method,
			"url":            fullURL,
			"correlation_id": httpReq.Header.Get(headerCorrelationID),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing %s %s: %w", req.Method, req.Path, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
			"size":     len(respBody),
		})
	}

	if httpResp.StatusCode == http.StatusUnauthorized && allowReauth && c.tokenManager != nil {
		err = c.tokenManager.RefreshToken(ctx)
		if err == nil {
			return c.send(ctx, req, body, headers, false)
		}

		if c.logger != nil {
			c.logger.Warn("token refresh after 401 failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return &Response{StatusCode: httpResp.StatusCode, Headers: httpResp.Header, Body: respBody}, nil
}

func (c *Client) requestHeaders(req *Request, contentType string) http.Header {
	headers := make(http.Header)
	headers.Set("Accept", contentTypeJSON)
	headers.Set("User-Agent", c.userAgent)
	headers.Set(headerCorrelationID, uuid.NewString())

	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	for key, value := range c.headers {
		headers.Set(key, value)
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return headers
}

func (c *Client) updateCache(ctx context.Context, req *Request, resp *Response, cacheable bool) {
	if c.cache == nil {
		return
	}

	var err error

	switch {
	case cacheable:
		err = c.cache.Store(ctx, req.Path, resp.Body, resp.Headers.Get("ETag"))
	case req.Method != http.MethodGet:
		err = c.cache.Invalidate(ctx, req.Path)
	}

	if err != nil && c.logger != nil {
		c.logger.Warn("cache update failed", map[string]interface{}{"path": req.Path, "error": err.Error()})
	}
}

func encodeBody(req *Request) ([]byte, string, error) {
	if req.Body == nil {
		return nil, "", nil
	}

	contentType := req.ContentType

	var (
		body []byte
		err  error
	)

	switch typed := req.Body.(type) {
	case []byte:
		body = typed
	case dph.JSONPatch:
		if contentType == "" {
			contentType = contentTypeJSONPatch
		}

		body, err = json.Marshal(typed)
	default:
		body, err = json.Marshal(typed)
	}

	if err != nil {
		return nil, "", fmt.Errorf("marshaling request body: %w", err)
	}

	if contentType == "" {
		contentType = contentTypeJSON
	}

	return body, contentType, nil
}

func parseErrorResponse(resp *Response) error {
	errResp, err := dph.ParseResponseError(resp.Body)
	if err != nil || len(errResp.Errors) == 0 {
		message := http.StatusText(resp.StatusCode)
		if trimmed := strings.TrimSpace(string(resp.Body)); trimmed != "" && err != nil {
			message += ": " + trimmed
		}

		synthesized := &dph.ResponseError{
			Errors:     []dph.APIError{{Message: message}},
			StatusCode: resp.StatusCode,
		}
		if errResp != nil {
			synthesized.Trace = errResp.Trace
		}

		return synthesized
	}

	if errResp.StatusCode == 0 {
		errResp.StatusCode = resp.StatusCode
	}

	return errResp
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch sends a PATCH request. dph.JSONPatch bodies are sent as application/json-patch+json.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}
