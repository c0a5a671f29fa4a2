package esgo

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// Response is the normalized result of a successful call: any HTTP exchange
// whose status falls outside the 400–599 error range.
type Response struct {
	// StatusCode is the HTTP status returned by the cluster.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the JSON-decoded response payload. Empty responses yield nil;
	// payloads that are not valid JSON are surfaced as the raw string.
	Body any
	// Raw is the exact response payload as received.
	Raw []byte
}

// IsSuccess reports whether the status is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the raw response payload into out.
func (r *Response) Decode(out any) error {
	return json.Unmarshal(r.Raw, out)
}

// isErrorStatus reports whether a status code is classified as an HTTP error
// response. The range is the literal inclusive 400–599 check: 399 and 600 are
// classified ok.
func isErrorStatus(status int) bool {
	return status >= 400 && status <= 599
}

// handleResponse classifies the raw transport result into exactly one
// normalized result. Transport failures carry status 0 and the unmodified
// transport error; HTTP statuses in 400–599 carry the decoded error payload
// untouched; everything else is a success. Pure classification — no retries,
// no recovery.
func (c *Client) handleResponse(resp *http.Response, err error, requestID string, req *http.Request) (*Response, error) {
	if err != nil {
		if ce, ok := err.(*ClientError); ok {
			return nil, ce
		}
		return nil, &ClientError{
			Type:       ErrorTypeTransport,
			Message:    "request failed before a response was received",
			Cause:      err,
			RequestID:  requestID,
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: 0,
		}
	}

	raw, readErr := readResponseBody(resp)
	if readErr != nil {
		return nil, &ClientError{
			Type:       ErrorTypeTransport,
			Message:    "reading response body failed",
			Cause:      readErr,
			RequestID:  requestID,
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: 0,
		}
	}

	body := decodeBody(raw)

	if isErrorStatus(resp.StatusCode) {
		return nil, &ClientError{
			Type:       ErrorTypeResponse,
			Message:    http.StatusText(resp.StatusCode),
			RequestID:  requestID,
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       body,
			Raw:        raw,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Raw:        raw,
	}, nil
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// decodeBody decodes a JSON payload. Empty bodies (HEAD, 204) yield nil and
// non-JSON payloads pass through as the raw string; classification stays
// total either way.
func decodeBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw)
	}
	return decoded
}

func setResponseBody(resp *http.Response, data []byte) {
	resp.Body = io.NopCloser(bytes.NewReader(data))
	resp.ContentLength = int64(len(data))
}
