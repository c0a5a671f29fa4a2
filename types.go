package esgo

import (
	"net/http"
	"net/url"
	"strings"
)

// Middleware represents a middleware function
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper represents the HTTP transport interface
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc is a helper type for middleware
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// RequestKind selects the content-type/codec branch for a request.
type RequestKind int

const (
	// KindStandard requests JSON-encode the outgoing body and JSON-decode
	// the response.
	KindStandard RequestKind = iota
	// KindBulk requests send the body verbatim as newline-delimited JSON
	// and only JSON-decode the response.
	KindBulk
)

// String returns the kind name for logs and metrics labels.
func (k RequestKind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindBulk:
		return "bulk"
	default:
		return "unknown"
	}
}

// BasicAuth holds credentials for HTTP basic authentication.
type BasicAuth struct {
	Username string
	Password string
}

// Param is a single query string key/value pair. Params are encoded in the
// order they are supplied.
type Param struct {
	Key   string
	Value string
}

// Option represents a configuration option
type Option func(*Client)

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

// requestOptions is constructed fresh per call and never shared across calls.
type requestOptions struct {
	body      any
	hasBody   bool
	query     []Param
	basicAuth *BasicAuth
}

// WithBody sets the structured request body. Standard requests JSON-encode it
// on the way out; when omitted the client sends an empty JSON object.
func WithBody(body any) RequestOption {
	return func(o *requestOptions) {
		o.body = body
		o.hasBody = true
	}
}

// WithQuery appends a single query string pair.
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.query = append(o.query, Param{Key: key, Value: value})
	}
}

// WithQueryParams appends query string pairs.
func WithQueryParams(params ...Param) RequestOption {
	return func(o *requestOptions) {
		o.query = append(o.query, params...)
	}
}

// WithRequestBasicAuth overrides the client's basic-auth credentials for a
// single request.
func WithRequestBasicAuth(username, password string) RequestOption {
	return func(o *requestOptions) {
		o.basicAuth = &BasicAuth{Username: username, Password: password}
	}
}

func newRequestOptions(opts []RequestOption) *requestOptions {
	o := &requestOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// encodeParams renders query pairs in supply order. url.Values is a map and
// would not preserve the order callers gave.
func encodeParams(params []Param) string {
	if len(params) == 0 {
		return ""
	}
	var builder strings.Builder
	for i, p := range params {
		if i > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(url.QueryEscape(p.Key))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(p.Value))
	}
	return builder.String()
}
