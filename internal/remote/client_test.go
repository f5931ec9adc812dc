package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_AddsSchemeAndStripsQuery(t *testing.T) {
	u, err := parseBaseURL("db.example.com:9000/root?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "db.example.com:9000" {
		t.Fatalf("url = %q, want http://db.example.com:9000", u.String())
	}
	if u.Path != "/root" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("   "); err == nil {
		t.Fatalf("parseBaseURL(blank) returned nil error")
	}
}

func TestClient_Addr(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"https://sign.example.com", "sign.example.com:443"},
		{"http://10.0.0.2", "10.0.0.2:80"},
		{"127.0.0.1:7490", "127.0.0.1:7490"},
	}
	for _, tt := range tests {
		c, err := NewClient(tt.raw, "")
		if err != nil {
			t.Fatalf("NewClient(%q) returned error: %v", tt.raw, err)
		}
		if got := c.Addr(); got != tt.want {
			t.Errorf("Addr() for %q = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNodePath(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"", "/display/sentences/0", "/display/sentences/0.json"},
		{"/", "display/selectedSentence", "/display/selectedSentence.json"},
		{"/tenant/", "/display/sentences/1/", "/tenant/display/sentences/1.json"},
	}
	for _, tt := range tests {
		if got := nodePath(tt.base, tt.path); got != tt.want {
			t.Errorf("nodePath(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestClient_ReadsNodes(t *testing.T) {
	t.Parallel()

	var gotAuth, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.URL.Query().Get("auth")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/display/sentences/0.json":
			_, _ = w.Write([]byte(`"Hello"`))
		case "/display/sentences/1.json":
			_, _ = w.Write([]byte(`null`))
		case "/display/selectedSentence.json":
			_, _ = w.Write([]byte(`2`))
		case "/display/missing.json":
			_, _ = w.Write([]byte(`null`))
		case "/display/float.json":
			_, _ = w.Write([]byte(`1.5`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "secret")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	s, err := c.GetString(ctx, "/display/sentences/0")
	if err != nil || s != "Hello" {
		t.Fatalf("GetString = %q, %v; want Hello", s, err)
	}
	if gotAuth != "secret" {
		t.Fatalf("auth = %q, want secret", gotAuth)
	}
	if !strings.HasPrefix(gotUserAgent, "marquee/") {
		t.Fatalf("User-Agent = %q, want marquee/*", gotUserAgent)
	}

	s, err = c.GetString(ctx, "/display/sentences/1")
	if err != nil || s != "" {
		t.Fatalf("GetString(null) = %q, %v; want empty, nil", s, err)
	}

	n, err := c.GetInt(ctx, "/display/selectedSentence")
	if err != nil || n != 2 {
		t.Fatalf("GetInt = %d, %v; want 2", n, err)
	}

	if _, err := c.GetInt(ctx, "/display/missing"); !errors.Is(err, ErrNoValue) {
		t.Fatalf("GetInt(null) error = %v, want ErrNoValue", err)
	}
	if _, err := c.GetInt(ctx, "/display/float"); err == nil {
		t.Fatalf("GetInt(1.5) returned nil error")
	}
}

func TestClient_HTTPAndDecodeErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad.json":
			_, _ = w.Write([]byte(`{not-json`))
		case "/num.json":
			_, _ = w.Write([]byte(`7`))
		default:
			http.Error(w, "denied", http.StatusUnauthorized)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := c.GetString(context.Background(), "/bad"); err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("GetString(bad) error = %v, want decode response", err)
	}
	if _, err := c.GetString(context.Background(), "/num"); err == nil || !strings.Contains(err.Error(), "not a string") {
		t.Fatalf("GetString(num) error = %v, want not a string", err)
	}
	if _, err := c.GetString(context.Background(), "/locked"); err == nil || !strings.Contains(err.Error(), "returned status 401") {
		t.Fatalf("GetString(locked) error = %v, want status 401", err)
	}
}

func TestMemorySource_FailureInjectionAndCounters(t *testing.T) {
	m := NewMemorySource()
	m.Set("/a", "x")
	m.SetInt("/n", 4)

	if v, err := m.GetString(context.Background(), "/a"); err != nil || v != "x" {
		t.Fatalf("GetString = %q, %v", v, err)
	}
	boom := errors.New("boom")
	m.Fail("/a", boom)
	if _, err := m.GetString(context.Background(), "/a"); !errors.Is(err, boom) {
		t.Fatalf("GetString error = %v, want boom", err)
	}
	if n, err := m.GetInt(context.Background(), "/n"); err != nil || n != 4 {
		t.Fatalf("GetInt = %d, %v", n, err)
	}
	if _, err := m.GetInt(context.Background(), "/none"); !errors.Is(err, ErrNoValue) {
		t.Fatalf("GetInt missing error = %v, want ErrNoValue", err)
	}
	if m.Reads("/a") != 2 || m.TotalReads() != 4 {
		t.Fatalf("Reads(/a)=%d Total=%d, want 2/4", m.Reads("/a"), m.TotalReads())
	}
}

func TestClient_SetTimeoutBoundsSlowReads(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(done) })

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	c.SetTimeout(50 * time.Millisecond)
	c.SetTimeout(0)

	start := time.Now()
	if _, err := c.GetString(context.Background(), "/display/sentences/0"); err == nil {
		t.Fatalf("GetString returned nil error from a hung server")
	}
	if took := time.Since(start); took > time.Second {
		t.Fatalf("read took %v with a 50ms timeout", took)
	}
}
