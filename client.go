package esgo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the cluster root used when none is configured.
	DefaultBaseURL = "http://localhost:9200"
	// DefaultTimeout is the per-request timeout used when none is configured.
	DefaultTimeout = 30 * time.Second

	// BulkEndpoint is the fixed path bulk requests are posted to.
	BulkEndpoint = "/_bulk"

	contentTypeJSON   = "application/json"
	contentTypeNDJSON = "application/x-ndjson"
)

// Client is a thin Elasticsearch HTTP client. Every call runs through a fixed
// middleware pipeline (base URL resolution, basic auth, JSON/NDJSON codec,
// optional AWS request signing, timeout) and returns a normalized result.
// It is safe for concurrent use; configuration is immutable after New.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	timeout         time.Duration
	basicAuth       *BasicAuth
	signer          Signer
	middleware      []Middleware
	metrics         *MetricsCollector
	debug           *DebugConfig
	logger          Logger
	validationError error
}

// New constructs a Client using the provided functional options. A best effort
// validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		basicAuth:  nil,
		signer:     nil,
		middleware: []Middleware{},
		metrics:    nil,
		debug:      DefaultDebugConfig(),
		logger:     nil,
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Get issues a GET request against the given path.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, KindStandard, newRequestOptions(opts))
}

// Post issues a POST request against the given path.
func (c *Client) Post(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, KindStandard, newRequestOptions(opts))
}

// Put issues a PUT request against the given path.
func (c *Client) Put(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, KindStandard, newRequestOptions(opts))
}

// Delete issues a DELETE request against the given path.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, KindStandard, newRequestOptions(opts))
}

// Head issues a HEAD request against the given path. No body is sent and the
// normalized result carries none.
func (c *Client) Head(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodHead, path, KindStandard, newRequestOptions(opts))
}

// Bulk posts a newline-delimited JSON payload to the bulk endpoint. Exactly
// one trailing newline is appended to the supplied body, whether or not it
// already ends in one. The body is sent verbatim as application/x-ndjson and
// only the response is JSON-decoded.
func (c *Client) Bulk(ctx context.Context, body string, opts ...RequestOption) (*Response, error) {
	ro := newRequestOptions(opts)
	ro.body = body + "\n"
	ro.hasBody = true
	return c.do(ctx, http.MethodPost, BulkEndpoint, KindBulk, ro)
}

// Search runs a search query against an index. It is a convenience wrapper
// over Post.
func (c *Client) Search(ctx context.Context, index string, query any, opts ...RequestOption) (*Response, error) {
	opts = append(opts, WithBody(query))
	return c.Post(ctx, "/"+strings.TrimPrefix(index, "/")+"/_search", opts...)
}

// Ping checks cluster reachability with a HEAD request against the root path.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Head(ctx, "/")
	return err
}

// do builds the request, assembles the middleware pipeline for the request
// kind, issues the call and normalizes the raw result. One normalized result
// per call; no retries.
func (c *Client) do(ctx context.Context, method, path string, kind RequestKind, ro *requestOptions) (*Response, error) {
	start := time.Now()

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	req, err := c.newRequest(ctx, method, path, kind, ro)
	if err != nil {
		return nil, err
	}
	endpoint := getEndpointFromRequest(req)

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting request", "requestID", requestID, "method", method, "path", path, "kind", kind.String())
	}

	if c.metrics != nil {
		c.metrics.RecordRequestStart(method, endpoint)
		if kind == KindBulk {
			if raw, ok := ro.body.(string); ok {
				c.metrics.RecordBulkPayloadBytes(len(raw))
			}
		}
	}

	resp, rawErr := c.roundTrip(req, c.buildPipeline(kind, ro.basicAuth))

	if c.metrics != nil {
		c.metrics.RecordRequestEnd(method, endpoint)
	}

	result, resultErr := c.handleResponse(resp, rawErr, requestID, req)

	duration := time.Since(start)
	statusCode := 0
	if result != nil {
		statusCode = result.StatusCode
	} else if ce, ok := resultErr.(*ClientError); ok {
		statusCode = ce.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordRequest(method, endpoint, statusCode, duration)
		if resultErr != nil {
			if ce, ok := resultErr.(*ClientError); ok {
				c.metrics.RecordError(ce.Type, method, endpoint)
			}
		}
	}

	if c.debug != nil && c.debug.Enabled && c.debug.LogResponses && c.logger != nil {
		if resultErr != nil {
			c.logger.Debug("Request failed", "requestID", requestID, "status", statusCode, "error", resultErr.Error())
		} else {
			c.logger.Debug("Request completed", "requestID", requestID, "status", statusCode, "duration", duration)
		}
	}

	return result, resultErr
}

// newRequest builds the relative request and attaches the pending payload for
// the codec stage. The base_url stage resolves the URL against the configured
// cluster root before signing runs.
func (c *Client) newRequest(ctx context.Context, method, path string, kind RequestKind, ro *requestOptions) (*http.Request, error) {
	target := path
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	if q := encodeParams(ro.query); q != "" {
		target += "?" + q
	}

	ctx = withPayload(ctx, newPayload(method, kind, ro))

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeValidation,
			Message: "building request failed",
			Cause:   err,
			Method:  method,
			URL:     target,
		}
	}
	return req, nil
}

// roundTrip executes user middleware (outermost) followed by the named
// pipeline stages, innermost being the HTTP transport itself.
func (c *Client) roundTrip(req *http.Request, stages []pipelineStage) (*http.Response, error) {
	chain := make([]Middleware, 0, len(c.middleware)+len(stages))
	chain = append(chain, c.middleware...)
	for _, stage := range stages {
		chain = append(chain, stage.mw)
	}

	current := RoundTripper(RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return c.httpClient.Do(r)
	}))

	for i := len(chain) - 1; i >= 0; i-- {
		middleware := chain[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

// payload carries the not-yet-encoded request body through the request
// context so the codec stage encodes it after auth headers are in place.
type payload struct {
	kind RequestKind
	body any
	raw  string
}

type contextKey string

const payloadKey contextKey = "esgo_payload"

func newPayload(method string, kind RequestKind, ro *requestOptions) *payload {
	if kind == KindBulk {
		raw, _ := ro.body.(string)
		return &payload{kind: KindBulk, raw: raw}
	}
	if method == http.MethodHead {
		return nil
	}
	body := ro.body
	if !ro.hasBody {
		body = map[string]any{}
	}
	return &payload{kind: KindStandard, body: body}
}

func withPayload(ctx context.Context, p *payload) context.Context {
	if p == nil {
		return ctx
	}
	return context.WithValue(ctx, payloadKey, p)
}

func payloadFromRequest(req *http.Request) *payload {
	p, _ := req.Context().Value(payloadKey).(*payload)
	return p
}

func setRequestBody(req *http.Request, data []byte) {
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.ContentLength = int64(len(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// getEndpointFromRequest extracts a simplified endpoint for metrics labels.
func getEndpointFromRequest(req *http.Request) string {
	if req.URL == nil {
		return "unknown"
	}

	path := req.URL.Path
	if path == "" || path == "/" {
		return "/"
	}
	return path
}
