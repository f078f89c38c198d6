package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/scoreboard/internal/config"
)

func testConfig(baseURL, cacheType string) *config.Config {
	return &config.Config{
		AppName:      "scoreboard",
		APIBaseURL:   baseURL,
		HTTPTimeout:  2 * time.Second,
		CacheType:    cacheType,
		CacheTTL:     time.Minute,
		CacheCleanup: time.Minute,
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewRejectsUnknownCache(t *testing.T) {
	if _, err := New(testConfig("http://localhost", "redis"), nil); err == nil {
		t.Fatalf("expected error for unknown cache type")
	}
}

func TestAppServesRepeatedLookupsFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/api/v1/dashboard/summary" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"total_students":42}}`)
	}))
	defer srv.Close()

	a, err := New(testConfig(srv.URL+"/api/v1", "memory"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	for i := 0; i < 3; i++ {
		summary, err := a.Scores().DashboardSummary(context.Background())
		if err != nil {
			t.Fatalf("DashboardSummary: %v", err)
		}
		var fields map[string]any
		if err := summary.Decode(&fields); err != nil || fields["total_students"] != float64(42) {
			t.Fatalf("unexpected summary %s (%v)", summary, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one network exchange, got %d", hits.Load())
	}
}

func TestAppWithoutCacheAlwaysFetches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = io.WriteString(w, `{"r_number":"01000001"}`)
	}))
	defer srv.Close()

	a, err := New(testConfig(srv.URL, "none"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	for i := 0; i < 2; i++ {
		if _, err := a.Scores().Score(context.Background(), "01000001"); err != nil {
			t.Fatalf("Score: %v", err)
		}
	}
	if hits.Load() != 2 {
		t.Fatalf("expected two exchanges, got %d", hits.Load())
	}
	if !a.Healthy(context.Background()) {
		t.Fatalf("expected healthy service")
	}
}
