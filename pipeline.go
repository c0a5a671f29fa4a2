package esgo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Stage names, in declared execution order. The AWS signing stage must run
// after base_url, basic_auth and codec so the signature covers the resolved
// URL, the injected headers and the encoded body — signatures computed over
// anything else will not match what is sent.
const (
	StageBaseURL    = "base_url"
	StageBasicAuth  = "basic_auth"
	StageCodec      = "codec"
	StageAWSSigning = "aws_signing"
	StageTimeout    = "timeout"
)

// pipelineStage is a named transformer in the per-call middleware pipeline.
type pipelineStage struct {
	name string
	mw   Middleware
}

// buildPipeline assembles the ordered stage list for one request. The list is
// built fresh per call from client configuration plus per-call options and is
// never shared between calls.
func (c *Client) buildPipeline(kind RequestKind, auth *BasicAuth) []pipelineStage {
	if auth == nil {
		auth = c.basicAuth
	}

	stages := []pipelineStage{
		{StageBaseURL, baseURLMiddleware(c.baseURL)},
		{StageBasicAuth, basicAuthMiddleware(auth)},
		{StageCodec, codecMiddleware(kind)},
		{StageAWSSigning, signingMiddleware(c.signer)},
		{StageTimeout, timeoutMiddleware(c.timeout)},
	}
	return stages
}

// stageNames returns the declared order; used by tests to pin the pipeline.
func stageNames(stages []pipelineStage) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.name
	}
	return names
}

// baseURLMiddleware resolves relative request URLs against the configured
// cluster root. Absolute URLs pass through untouched.
func baseURLMiddleware(baseURL string) Middleware {
	return func(req *http.Request, next RoundTripper) (*http.Response, error) {
		if req.URL != nil && !req.URL.IsAbs() {
			base, err := url.Parse(baseURL)
			if err != nil {
				return nil, &ClientError{
					Type:    ErrorTypeValidation,
					Message: "invalid base URL",
					Cause:   err,
					URL:     baseURL,
				}
			}
			resolved := *base
			resolved.Path = joinPath(base.Path, req.URL.Path)
			resolved.RawQuery = req.URL.RawQuery
			req.URL = &resolved
			req.Host = ""
		}
		return next.RoundTrip(req)
	}
}

func joinPath(base, rel string) string {
	if base == "" || base == "/" {
		return rel
	}
	for len(base) > 1 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + rel
}

// basicAuthMiddleware injects an Authorization header when credentials are
// configured, and is a no-op otherwise.
func basicAuthMiddleware(auth *BasicAuth) Middleware {
	return func(req *http.Request, next RoundTripper) (*http.Response, error) {
		if auth != nil {
			req.SetBasicAuth(auth.Username, auth.Password)
		}
		return next.RoundTrip(req)
	}
}

// codecMiddleware attaches the pending payload to the request. Standard
// requests get a JSON-encoded body and content type; bulk requests carry
// their NDJSON body verbatim. Requests without a payload (HEAD) pass through.
func codecMiddleware(kind RequestKind) Middleware {
	return func(req *http.Request, next RoundTripper) (*http.Response, error) {
		p := payloadFromRequest(req)
		if p != nil {
			switch kind {
			case KindBulk:
				req.Header.Set("Content-Type", contentTypeNDJSON)
				setRequestBody(req, []byte(p.raw))
			default:
				encoded, err := json.Marshal(p.body)
				if err != nil {
					return nil, &ClientError{
						Type:    ErrorTypeEncode,
						Message: "encoding request body failed",
						Cause:   err,
						Method:  req.Method,
						URL:     req.URL.String(),
					}
				}
				req.Header.Set("Content-Type", contentTypeJSON)
				setRequestBody(req, encoded)
			}
		}
		return next.RoundTrip(req)
	}
}

// signingMiddleware computes AWS authorization headers over the final method,
// URL, headers and body. Disabled signing is a no-op.
func signingMiddleware(signer Signer) Middleware {
	return func(req *http.Request, next RoundTripper) (*http.Response, error) {
		if signer != nil {
			req = signer.Sign(req)
		}
		return next.RoundTrip(req)
	}
}

// timeoutMiddleware bounds the request with a deadline. The response body is
// drained before the deadline is released so callers never read from a
// canceled context; expiry surfaces as a transport failure upstream.
func timeoutMiddleware(timeout time.Duration) Middleware {
	return func(req *http.Request, next RoundTripper) (*http.Response, error) {
		if timeout <= 0 {
			return next.RoundTrip(req)
		}

		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		resp, err := next.RoundTrip(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		setResponseBody(resp, data)
		return resp, nil
	}
}
