package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Rsm-Microstate/team-dev/internal/fingerprint"
	"github.com/Rsm-Microstate/team-dev/pkg/useragent"
	"go.uber.org/zap/zaptest"
)

func newTestFetcher(t *testing.T, endpoint string, timeout time.Duration) *Fetcher {
	t.Helper()
	f, err := NewFetcher(FetchConfig{
		Endpoint:    endpoint,
		Timeout:     timeout,
		Fingerprint: fingerprint.ProfileGo,
		UAPool:      useragent.NewPool([]string{"TestBrowser/1.0"}),
		Logger:      zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	return f
}

func TestFetcher_Success(t *testing.T) {
	var gotQuery url.Values
	var gotHeader http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Clone()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL+"/search/search", 5*time.Second)
	page, err := f.Fetch(context.Background(), "カメラ lens")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(page.Body) != "<html>ok</html>" {
		t.Errorf("unexpected body %q", page.Body)
	}
	if page.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", page.StatusCode)
	}
	if gotQuery.Get("p") != "カメラ lens" || gotQuery.Get("va") != "カメラ lens" {
		t.Errorf("expected keyword in p and va, got %v", gotQuery)
	}
	if len(gotQuery) != 2 {
		t.Errorf("expected exactly two query parameters, got %v", gotQuery)
	}
	if ua := gotHeader.Get("User-Agent"); ua != "TestBrowser/1.0" {
		t.Errorf("expected pool User-Agent, got %q", ua)
	}
	if al := gotHeader.Get("Accept-Language"); !strings.HasPrefix(al, "ja") {
		t.Errorf("expected Japanese Accept-Language, got %q", al)
	}
	if acc := gotHeader.Get("Accept"); !strings.HasPrefix(acc, "text/html") {
		t.Errorf("expected HTML Accept header, got %q", acc)
	}
	if page.Duration <= 0 {
		t.Errorf("expected non-zero duration")
	}
}

func TestFetcher_NonSuccessStatus(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL, 5*time.Second)
	_, err := f.Fetch(context.Background(), "watch")

	var ff *FetchFailedError
	if !errors.As(err, &ff) {
		t.Fatalf("expected FetchFailedError, got %v", err)
	}
	if ff.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", ff.StatusCode)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("expected message to include status, got %q", err.Error())
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestFetcher_BlockedByBotWall(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "cloudflare")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL, 5*time.Second)
	_, err := f.Fetch(context.Background(), "watch")

	var ff *FetchFailedError
	if !errors.As(err, &ff) {
		t.Fatalf("expected FetchFailedError, got %v", err)
	}
	if ff.Blocker != "Cloudflare" {
		t.Errorf("expected Cloudflare blocker, got %q", ff.Blocker)
	}
}

func TestFetcher_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL, 10*time.Millisecond)
	_, err := f.Fetch(context.Background(), "watch")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestFetcher_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	endpoint := ts.URL
	ts.Close()

	f := newTestFetcher(t, endpoint, time.Second)
	_, err := f.Fetch(context.Background(), "watch")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestFetcher_BlankKeyword(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL, time.Second)
	for _, kw := range []string{"", "   ", "\t\n"} {
		_, err := f.Fetch(context.Background(), kw)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("keyword %q: expected ValidationError, got %v", kw, err)
		}
		if !errors.Is(err, ErrEmptyKeyword) {
			t.Errorf("keyword %q: expected ErrEmptyKeyword, got %v", kw, err)
		}
	}
	if called {
		t.Error("blank keyword must not reach the upstream")
	}
}

func TestFetcher_RandomUserAgentRotation(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.Header.Get("User-Agent")]++
		mu.Unlock()
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer ts.Close()

	f, err := NewFetcher(FetchConfig{
		Endpoint:    ts.URL,
		Timeout:     5 * time.Second,
		Fingerprint: fingerprint.ProfileGo,
		UAPool:      useragent.NewPool([]string{"A/1.0", "B/1.0"}),
		UARotation:  useragent.Random,
		Logger:      zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}

	for i := 0; i < 60; i++ {
		if _, err := f.Fetch(context.Background(), "kw"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen["A/1.0"] == 0 || seen["B/1.0"] == 0 {
		t.Errorf("expected both pool UAs to be sent, saw %v", seen)
	}
}
