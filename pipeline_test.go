package esgo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPipelineStageOrder(t *testing.T) {
	client := New()

	want := []string{StageBaseURL, StageBasicAuth, StageCodec, StageAWSSigning, StageTimeout}
	got := stageNames(client.buildPipeline(KindStandard, nil))

	if len(got) != len(want) {
		t.Fatalf("Expected %d stages, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Stage %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPipelineStageOrderBulk(t *testing.T) {
	// The bulk branch changes codec behavior, never stage order.
	client := New()

	standard := stageNames(client.buildPipeline(KindStandard, nil))
	bulk := stageNames(client.buildPipeline(KindBulk, nil))

	for i := range standard {
		if standard[i] != bulk[i] {
			t.Errorf("Stage %d differs between kinds: %s vs %s", i, standard[i], bulk[i])
		}
	}
}

// recordingSigner captures the request as the signing stage observes it.
type recordingSigner struct {
	url           string
	contentType   string
	authorization string
	body          string
	called        bool
}

func (s *recordingSigner) Sign(req *http.Request) *http.Request {
	s.called = true
	s.url = req.URL.String()
	s.contentType = req.Header.Get("Content-Type")
	s.authorization = req.Header.Get("Authorization")
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(data))
		s.body = string(data)
	}
	req.Header.Set("X-Signed", "true")
	return req
}

func TestSigningSeesFinalRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Signed") != "true" {
			t.Error("Expected signature headers to reach the transport")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	signer := &recordingSigner{}
	client := New(
		WithBaseURL(server.URL),
		WithBasicAuth("elastic", "changeme"),
		WithSigner(signer),
	)

	_, err := client.Post(context.Background(), "/answers/_search",
		WithBody(map[string]any{"query": map[string]any{"match_all": map[string]any{}}}))
	if err != nil {
		t.Fatalf("Post() returned error: %v", err)
	}

	if !signer.called {
		t.Fatal("Expected signer to be invoked")
	}
	if !strings.HasPrefix(signer.url, server.URL) {
		t.Errorf("Expected signer to see the resolved URL, got %s", signer.url)
	}
	if signer.contentType != contentTypeJSON {
		t.Errorf("Expected signer to see final content type, got %q", signer.contentType)
	}
	if !strings.HasPrefix(signer.authorization, "Basic ") {
		t.Errorf("Expected signer to see injected auth header, got %q", signer.authorization)
	}
	if !strings.Contains(signer.body, "match_all") {
		t.Errorf("Expected signer to see the encoded body, got %q", signer.body)
	}
}

func TestSigningSeesBulkPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	signer := &recordingSigner{}
	client := New(WithBaseURL(server.URL), WithSigner(signer))

	if _, err := client.Bulk(context.Background(), "{}"); err != nil {
		t.Fatalf("Bulk() returned error: %v", err)
	}

	if signer.contentType != contentTypeNDJSON {
		t.Errorf("Expected signer to see NDJSON content type, got %q", signer.contentType)
	}
	if signer.body != "{}\n" {
		t.Errorf("Expected signer to see the final bulk body, got %q", signer.body)
	}
}

func TestSigningDisabledIsNoOp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Expected no authorization header, got %q", auth)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))
	if _, err := client.Get(context.Background(), "/"); err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
}

func TestBaseURLResolution(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
	}{
		{"plain host", "http://es.example.com:9200", "/answers/_search", "http://es.example.com:9200/answers/_search"},
		{"base with path", "http://es.example.com:9200/cluster", "/answers", "http://es.example.com:9200/cluster/answers"},
		{"base with trailing slash", "http://es.example.com:9200/", "/answers", "http://es.example.com:9200/answers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			mw := baseURLMiddleware(tt.baseURL)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.URL.Scheme = ""
			req.URL.Host = ""

			_, err := mw(req, RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				got = r.URL.String()
				return newRawResponse(200, ""), nil
			}))
			if err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestBaseURLAbsoluteRequestPassthrough(t *testing.T) {
	var got string
	mw := baseURLMiddleware("http://unused:9200")
	req := httptest.NewRequest(http.MethodGet, "http://other.example.com/x", nil)

	_, err := mw(req, RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		got = r.URL.String()
		return newRawResponse(200, ""), nil
	}))
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if got != "http://other.example.com/x" {
		t.Errorf("Expected absolute URL untouched, got %s", got)
	}
}

func TestTimeoutSurfacesAsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithTimeout(20*time.Millisecond))
	_, err := client.Get(context.Background(), "/slow")

	if !IsTransportError(err) {
		t.Fatalf("Expected transport error on timeout, got %v", err)
	}
	if StatusCode(err) != 0 {
		t.Errorf("Expected status 0 sentinel, got %d", StatusCode(err))
	}
}

func TestTimeoutLeavesFastRequestsAlone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSONHeader)
		if _, err := w.Write([]byte(`{"ok": true}`)); err != nil {
			t.Fatalf(failedWriteMsg, err)
		}
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithTimeout(5*time.Second))
	resp, err := client.Get(context.Background(), "/fast")
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestPipelineBuiltFreshPerCall(t *testing.T) {
	client := New(WithBasicAuth("a", "b"))

	withOverride := client.buildPipeline(KindStandard, &BasicAuth{Username: "x", Password: "y"})
	withDefault := client.buildPipeline(KindStandard, nil)

	if len(withOverride) != len(withDefault) {
		t.Fatal("Expected identical stage counts")
	}
	// Stage lists are distinct slices; mutating one must not affect the other.
	withOverride[0] = pipelineStage{"mutated", nil}
	if withDefault[0].name != StageBaseURL {
		t.Error("Expected per-call pipeline isolation")
	}
}
