package esgo

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// WithBaseURL sets the cluster root URL prepended to every request path.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBasicAuth sets default basic-auth credentials for every request.
// A per-request override is available via WithRequestBasicAuth.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.basicAuth = &BasicAuth{Username: username, Password: password}
	}
}

// WithAWSSigning enables AWS Signature Version 4 request signing with static
// credentials.
func WithAWSSigning(accessKeyID, secretAccessKey string) Option {
	return func(c *Client) {
		c.signer = NewAWSSigner(accessKeyID, secretAccessKey)
	}
}

// WithSigner sets a custom request signer. Signing runs after all other
// request-side stages, so the signer observes final headers and body.
func WithSigner(signer Signer) Option {
	return func(c *Client) {
		c.signer = signer
	}
}

// WithHTTPClient sets a custom HTTP client used as the transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMiddleware adds user middleware, run before the built-in pipeline
// stages in the order supplied.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithMetrics enables Prometheus metrics collection on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error if invalid.
func (c *Client) ValidateConfiguration() error {
	var errs []string

	errs = append(errs, c.validateBaseURL()...)
	errs = append(errs, c.validateTimeout()...)
	errs = append(errs, c.validateAuthConfig()...)
	errs = append(errs, c.validateMiddlewareConfig()...)
	errs = append(errs, c.validateHTTPClientConfig()...)
	errs = append(errs, c.validateDebugConfig()...)

	if len(errs) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errs),
		}
	}

	return nil
}

func (c *Client) validateBaseURL() []string {
	var errs []string

	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		errs = append(errs, fmt.Sprintf("baseURL is not a valid URL: %v", err))
		return errs
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, "baseURL scheme must be http or https")
	}
	if parsed.Host == "" {
		errs = append(errs, "baseURL must include a host")
	}

	return errs
}

func (c *Client) validateTimeout() []string {
	var errs []string

	if c.timeout <= 0 {
		errs = append(errs, "timeout must be positive")
	}
	if c.timeout > 10*time.Minute {
		errs = append(errs, "timeout > 10m may cause requests to hang for too long")
	}

	return errs
}

func (c *Client) validateAuthConfig() []string {
	var errs []string

	if c.basicAuth != nil && c.basicAuth.Username == "" {
		errs = append(errs, "basic auth username must not be empty")
	}

	return errs
}

func (c *Client) validateMiddlewareConfig() []string {
	var errs []string

	for i, middleware := range c.middleware {
		if middleware == nil {
			errs = append(errs, fmt.Sprintf("middleware[%d] cannot be nil", i))
		}
	}

	return errs
}

func (c *Client) validateHTTPClientConfig() []string {
	var errs []string

	if c.httpClient == nil {
		errs = append(errs, "HTTP client cannot be nil")
	}

	return errs
}

func (c *Client) validateDebugConfig() []string {
	var errs []string

	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			errs = append(errs, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			errs = append(errs, "logger must be set when debug is enabled")
		}
	}

	return errs
}
