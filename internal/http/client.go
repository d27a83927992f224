// Package http provides the internal HTTP client used to talk to the
// PocketBase API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
	"github.com/hashicorp/go-retryablehttp"
)

// TokenSource supplies the current auth token for outgoing requests. An
// empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string

	// Files switches the request to multipart encoding. Body must then be a
	// pocketbase.Record whose values are sent as form fields.
	Files []pocketbase.File
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the HTTP client mediating every API request: it builds the URL
// from the base address and the api-relative path, attaches the bearer token
// when one is stored, encodes the body, and normalizes failures into
// *pocketbase.APIError values.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenSource  TokenSource
	logger       pocketbase.Logger
	debug        bool
	userAgent    string
	interceptors *pocketbase.InterceptorChain
	cacheManager *pocketbase.CacheManager
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets a structured logger.
func WithLogger(logger pocketbase.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig opts into retrying transient failures. Without it the
// client performs exactly one attempt per request.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithInterceptors sets the interceptor chain executed around every request.
func WithInterceptors(chain *pocketbase.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCacheManager enables response caching for requests the manager's
// policy accepts.
func WithCacheManager(manager *pocketbase.CacheManager) Option {
	return func(c *Client) {
		c.cacheManager = manager
	}
}

// NewClient creates a new API client for the given base URL. Retries are
// disabled unless WithRetryConfig is applied.
func NewClient(baseURL string, tokenSource TokenSource, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	// The default handler discards the response once retries are exhausted,
	// which would turn a received 5xx into a transport error downstream.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  retryClient,
		tokenSource: tokenSource,
		userAgent:   "pocketbase-client/1.0",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes an API request. For non-2xx responses both the parsed response
// and a *pocketbase.APIError are returned; transport failures yield an
// APIError with no status code.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.buildURL(req.Path, req.Query)

	body, contentType, err := c.encodeBody(req)
	if err != nil {
		return nil, err
	}

	interceptorReq := c.buildInterceptorRequest(req)
	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, interceptorReq)
		if err != nil {
			return nil, err
		}
	}

	cacheKey := ""
	if c.cacheManager != nil && req.Method == http.MethodGet &&
		c.cacheManager.Policy().ShouldCache(req.Method, req.Path, http.StatusOK) {
		cacheKey = c.cacheManager.GetCacheKey(req.Method, req.Path, flattenQuery(req.Query))

		cached, cacheErr := c.cacheManager.Get(ctx, cacheKey)
		if cacheErr == nil {
			return &Response{
				StatusCode: http.StatusOK,
				Headers:    http.Header{},
				Body:       cached,
			}, nil
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.applyHeaders(httpReq, req, interceptorReq, contentType)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		transportErr := pocketbase.NewTransportError(err)

		if c.interceptors != nil {
			_ = c.interceptors.ExecuteResponseInterceptors(ctx, interceptorReq, &pocketbase.Response{Error: transportErr})
		}

		return nil, transportErr
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, pocketbase.NewTransportError(err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": resp.StatusCode,
			"url":         fullURL,
		})
	}

	if c.interceptors != nil {
		interceptorResp := &pocketbase.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, interceptorReq, interceptorResp)
		if err != nil {
			return resp, err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, pocketbase.ParseAPIError(resp.StatusCode, resp.Body)
	}

	if cacheKey != "" && c.cacheManager.Policy().ShouldCache(req.Method, req.Path, resp.StatusCode) {
		_ = c.cacheManager.SetWithETag(ctx, cacheKey, resp.Body, resp.Headers.Get("ETag"), c.cacheManager.Policy().TTL)
	}

	return resp, nil
}

// buildURL joins the base address, the fixed /api prefix, and the
// api-relative path.
func (c *Client) buildURL(path string, query url.Values) string {
	fullURL := c.baseURL + "/api/" + strings.TrimPrefix(path, "/")

	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	return fullURL
}

// encodeBody serializes the request body, choosing multipart encoding when
// files are attached.
func (c *Client) encodeBody(req *Request) (io.Reader, string, error) {
	if len(req.Files) > 0 {
		return c.encodeMultipart(req)
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("marshaling request body: %w", err)
	}

	return bytes.NewReader(data), "application/json", nil
}

// encodeMultipart builds a multipart form from the record fields and file
// parts. Non-string field values are JSON-encoded so the server can decode
// them by schema type.
func (c *Client) encodeMultipart(req *Request) (io.Reader, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	if record, ok := req.Body.(pocketbase.Record); ok {
		for field, value := range record {
			str, isString := value.(string)
			if !isString {
				encoded, err := json.Marshal(value)
				if err != nil {
					return nil, "", fmt.Errorf("marshaling form field %q: %w", field, err)
				}

				str = string(encoded)
			}

			err := writer.WriteField(field, str)
			if err != nil {
				return nil, "", fmt.Errorf("writing form field %q: %w", field, err)
			}
		}
	}

	for _, file := range req.Files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("creating file part %q: %w", file.Field, err)
		}

		_, err = part.Write(file.Content)
		if err != nil {
			return nil, "", fmt.Errorf("writing file part %q: %w", file.Field, err)
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("finalizing multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// buildInterceptorRequest exposes the request to interceptors in mutable form.
func (c *Client) buildInterceptorRequest(req *Request) *pocketbase.Request {
	headers := http.Header{}
	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return &pocketbase.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: headers,
	}
}

// applyHeaders sets the standard headers plus any request-specific and
// interceptor-injected ones.
func (c *Client) applyHeaders(httpReq *retryablehttp.Request, req *Request, interceptorReq *pocketbase.Request, contentType string) {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.tokenSource != nil {
		if token := c.tokenSource.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for key, values := range interceptorReq.Headers {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}

// DecodeRecord decodes a response body into a record. A 204 or empty body
// yields an empty record rather than an error.
func DecodeRecord(resp *Response) (pocketbase.Record, error) {
	if resp.StatusCode == http.StatusNoContent || len(resp.Body) == 0 {
		return pocketbase.Record{}, nil
	}

	var record pocketbase.Record

	err := json.Unmarshal(resp.Body, &record)
	if err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	return record, nil
}

func flattenQuery(query url.Values) map[string]string {
	if len(query) == 0 {
		return nil
	}

	params := make(map[string]string, len(query))
	for key := range query {
		params[key] = query.Get(key)
	}

	return params
}
