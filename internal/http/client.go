// Package http wraps the underlying HTTP client with hkbase conventions:
// URL composition, bearer auth, JSON encoding, and response validation.
package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/valescamoura/hkgo/internal/auth"
	"github.com/valescamoura/hkgo/internal/constants"
	"github.com/valescamoura/hkgo/pkg/hk"
)

// Request describes a single hkbase API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded when RawBody is unset.
	Body any

	// RawBody is sent verbatim; ContentType must be set alongside it.
	RawBody     []byte
	ContentType string

	Headers map[string]string
}

// Response is the validated result of a request.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client issues requests against one hkbase endpoint.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	userAgent    string
	logger       hk.Logger
	debug        bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger hk.Logger) Option {
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

// WithRetryConfig enables transport-level retries.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPTimeout bounds each request.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithSkipTLSVerify disables TLS certificate validation.
func WithSkipTLSVerify(skip bool) Option {
	return func(c *Client) {
		if skip {
			c.httpClient.HTTPClient.Transport = &nethttp.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // caller opted in
			}
		}
	}
}

// NewClient creates a client for baseURL. The token manager may be nil for
// unauthenticated servers. Retries are off unless WithRetryConfig is given.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	// Hand back the final response even when the retry budget is spent, so
	// the validator below can turn its status into the domain error.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax

	client := &Client{
		baseURL:      baseURL,
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do issues req and validates the response. A non-2xx status yields the
// response together with an *hk.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	var bodyArg any
	if body != nil {
		bodyArg = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyArg)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", constants.ContentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if err := c.setAuthHeader(ctx, httpReq); err != nil {
		return nil, err
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": httpResp.StatusCode,
			"url":    fullURL,
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, apiError(resp)
	}

	return resp, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Delete issues a DELETE request. The body, when non-nil, is JSON-encoded:
// hkbase bulk deletes take an id list in the request body.
func (c *Client) Delete(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path, Body: body})
}

func (c *Client) setAuthHeader(ctx context.Context, httpReq *retryablehttp.Request) error {
	if c.tokenManager == nil {
		return nil
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("getting auth token: %w", err)
	}

	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

func encodeBody(req *Request) ([]byte, string, error) {
	if req.RawBody != nil {
		return req.RawBody, req.ContentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	return data, constants.ContentTypeJSON, nil
}

// apiError converts a non-2xx response into the domain error. hkbase error
// bodies are JSON objects with a message field; anything else is carried as
// raw detail.
func apiError(resp *Response) error {
	apiErr := &hk.APIError{
		StatusCode: resp.StatusCode,
		Status:     nethttp.StatusText(resp.StatusCode),
	}
	if apiErr.Status == "" {
		apiErr.Status = strconv.Itoa(resp.StatusCode)
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := json.Unmarshal(resp.Body, &body); err == nil {
		if body.Message != "" {
			apiErr.Detail = body.Message
		} else if body.Error != "" {
			apiErr.Detail = body.Error
		}
	}

	if apiErr.Detail == "" && len(resp.Body) > 0 {
		apiErr.Detail = string(resp.Body)
	}

	return apiErr
}
