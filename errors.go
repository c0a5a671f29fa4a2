package esgo

import (
	"errors"
	"fmt"
	"time"
)

// Error type constants for ClientError.Type.
const (
	// ErrorTypeResponse marks an HTTP error response (status 400–599).
	ErrorTypeResponse = "Response"
	// ErrorTypeTransport marks a failure before any response was received
	// (DNS, connection refused, timeout, TLS). StatusCode is 0.
	ErrorTypeTransport = "Transport"
	// ErrorTypeEncode marks a request body that could not be JSON-encoded.
	ErrorTypeEncode = "Encode"
	// ErrorTypeValidation marks invalid client configuration or request input.
	ErrorTypeValidation = "Validation"
)

// ClientError represents an error from the client. For HTTP error responses
// StatusCode carries the cluster's status and Body the decoded error payload;
// for transport failures StatusCode is 0 and Cause the transport's diagnostic,
// passed through unmodified.
type ClientError struct {
	Type       string
	Message    string
	Cause      error
	RequestID  string
	Method     string
	URL        string
	StatusCode int
	Body       any
	Raw        []byte
	Timestamp  time.Time
	Duration   time.Duration
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var msg string
	switch {
	case e.Type == ErrorTypeResponse:
		msg = fmt.Sprintf("%s: %s (status %d)", e.Type, e.Message, e.StatusCode)
	case e.Cause != nil:
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	default:
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// IsResponseError reports whether err is an HTTP error response (400–599).
func IsResponseError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrorTypeResponse
}

// IsTransportError reports whether err is a transport-level failure that
// produced no HTTP response.
func IsTransportError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrorTypeTransport
}

// IsValidationError reports whether err stems from invalid configuration or
// request input.
func IsValidationError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrorTypeValidation
}

// StatusCode extracts the HTTP status from err. Transport failures and
// non-client errors yield 0, the sentinel for "no response received".
func StatusCode(err error) int {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode
	}
	return 0
}

// ErrorBody extracts the decoded error payload from an HTTP error response.
func ErrorBody(err error) any {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Body
	}
	return nil
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if len(e.Raw) > 0 {
		info += fmt.Sprintf("Body: %s\n", e.Raw)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}
