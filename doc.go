// Package esgo is a thin Elasticsearch HTTP client built as a declarative
// middleware pipeline around net/http:
//
//   - Base URL resolution against a configured cluster root
//   - Per-request timeout enforcement
//   - JSON encoding/decoding for standard requests, NDJSON passthrough for bulk
//   - Optional HTTP basic authentication (client-wide or per request)
//   - Optional AWS Signature Version 4 request signing
//   - Uniform response normalization: success, HTTP error (400–599) with the
//     decoded error payload, or transport failure with status 0
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Stateless per-call pipeline, safe concurrent use of a single *Client
//   - Every outcome is a value: no retries, no recovery, the caller decides
//
// Typical usage:
//
//	client := esgo.New(
//	    esgo.WithBaseURL("http://localhost:9200"),
//	    esgo.WithTimeout(10*time.Second),
//	    esgo.WithBasicAuth("elastic", "changeme"),
//	)
//	resp, err := client.Get(ctx, "/answers/_search",
//	    esgo.WithBody(map[string]any{"query": map[string]any{"match_all": map[string]any{}}}),
//	)
//
// HTTP error responses and transport failures are both returned as a
// *ClientError; inspect them with IsResponseError, IsTransportError and
// StatusCode. The AWS signing stage always runs after auth and codec stages so
// signatures cover the final headers and encoded body.
package esgo
