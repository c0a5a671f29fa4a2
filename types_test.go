package esgo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestKindString(t *testing.T) {
	tests := []struct {
		kind RequestKind
		want string
	}{
		{KindStandard, "standard"},
		{KindBulk, "bulk"},
		{RequestKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("RequestKind(%d).String(): expected %s, got %s", tt.kind, tt.want, got)
		}
	}
}

func TestEncodeParamsEmpty(t *testing.T) {
	if got := encodeParams(nil); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}

func TestEncodeParamsOrderAndEscaping(t *testing.T) {
	params := []Param{
		{Key: "q", Value: "text:hello world"},
		{Key: "size", Value: "10"},
		{Key: "routing", Value: "a/b"},
	}

	want := "q=text%3Ahello+world&size=10&routing=a%2Fb"
	if got := encodeParams(params); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestEncodeParamsRepeatedKeys(t *testing.T) {
	params := []Param{
		{Key: "filter_path", Value: "hits"},
		{Key: "filter_path", Value: "took"},
	}

	want := "filter_path=hits&filter_path=took"
	if got := encodeParams(params); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestRequestOptionsDefaults(t *testing.T) {
	o := newRequestOptions(nil)

	if o.hasBody {
		t.Error("Expected no body by default")
	}
	if len(o.query) != 0 {
		t.Error("Expected empty query by default")
	}
	if o.basicAuth != nil {
		t.Error("Expected no per-request basic auth by default")
	}
}

func TestRequestOptionsApply(t *testing.T) {
	o := newRequestOptions([]RequestOption{
		WithBody(map[string]any{"text": "hi"}),
		WithQuery("refresh", "true"),
		WithQueryParams(Param{Key: "size", Value: "1"}),
		WithRequestBasicAuth("user", "pass"),
	})

	if !o.hasBody {
		t.Error("Expected body to be set")
	}
	if len(o.query) != 2 {
		t.Fatalf("Expected 2 query params, got %d", len(o.query))
	}
	if o.query[0].Key != "refresh" || o.query[1].Key != "size" {
		t.Errorf("Expected query order preserved, got %v", o.query)
	}
	if o.basicAuth == nil || o.basicAuth.Username != "user" {
		t.Errorf("Expected per-request basic auth, got %+v", o.basicAuth)
	}
}

func TestRoundTripperFunc(t *testing.T) {
	called := false
	f := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return newRawResponse(200, ""), nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://localhost:9200/", nil)
	resp, err := f.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip returned error: %v", err)
	}
	if !called {
		t.Error("Expected wrapped function to be called")
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}
