package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCollector_CacheCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.CacheHit()
	c.CacheHit()
	c.CacheMiss()

	if got := counterValue(t, reg, "inkwell_page_cache_hits_total"); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}
	if got := counterValue(t, reg, "inkwell_page_cache_misses_total"); got != 1 {
		t.Errorf("cache misses = %v, want 1", got)
	}
}

func TestCollector_RecordFetch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordFetch("primary", 120*time.Millisecond, true)
	c.RecordFetch("fallback", 40*time.Millisecond, false)

	if got := counterValue(t, reg, "inkwell_notion_fetch_total"); got != 2 {
		t.Errorf("fetch total = %v, want 2", got)
	}
}

func TestHandler_ServesScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRequest(200, 5*time.Millisecond)

	server := httptest.NewServer(Handler(reg))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "inkwell_http_requests_total") {
		t.Error("request counter missing from scrape output")
	}
}
