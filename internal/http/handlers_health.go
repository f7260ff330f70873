package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady pings every registered dependency.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	checks := make(map[string]string, len(s.checks)+1)
	if s.store == nil {
		checks["store"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			checks[name] = fmt.Sprintf("failed: %v", err)
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	NewJSONResponse().Status(code).JSON(map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

type metric struct {
	name, help, kind string
	samples          []sample
}

type sample struct {
	labels string
	value  float64
}

// handleMetrics writes the counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.GetMetrics()
	rl := s.limiter.GetMetrics()
	rc := s.reports.Stats()

	metrics := []metric{
		{"http_requests_total", "Total number of HTTP requests", "counter", []sample{{"", float64(tm.TotalRequests)}}},
		{"http_requests_in_flight", "Requests currently being served", "gauge", []sample{{"", float64(tm.InFlight)}}},
		{"http_server_errors_total", "Responses with a 5xx status", "counter", []sample{{"", float64(tm.ServerErrors)}}},
		{"http_request_duration_seconds_sum", "Total time spent serving requests", "counter", []sample{{"", tm.TotalDurationSec}}},
		{"rate_limit_rejections_total", "Requests rejected by the rate limiter", "counter", []sample{{"", float64(rl.Rejected)}}},
		{"rate_limit_clients", "Clients currently tracked by the rate limiter", "gauge", []sample{{"", float64(rl.ClientCount)}}},
		{"suspicious_requests_total", "Requests flagged by the detector", "counter", []sample{{"", float64(s.detector.SuspiciousRequests())}}},
		{"report_cache_hits_total", "Statistics reports served from cache", "counter", []sample{{"", float64(rc.Hits)}}},
		{"report_cache_misses_total", "Statistics reports computed", "counter", []sample{{"", float64(rc.Misses)}}},
		{"uptime_seconds", "Process uptime in seconds", "gauge", []sample{{"", time.Since(s.started).Seconds()}}},
	}
	if s.store != nil {
		sizes := map[string]int{
			"transactions": len(s.store.Transactions()),
			"cards":        len(s.store.Cards()),
			"categories":   len(s.store.Categories()),
		}
		names := make([]string, 0, len(sizes))
		for name := range sizes {
			names = append(names, name)
		}
		sort.Strings(names)
		m := metric{name: "ledger_entries", help: "Entries per ledger collection", kind: "gauge"}
		for _, name := range names {
			m.samples = append(m.samples, sample{fmt.Sprintf(`{collection=%q}`, name), float64(sizes[name])})
		}
		metrics = append(metrics, m)
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", m.name, m.help, m.name, m.kind)
		for _, smp := range m.samples {
			fmt.Fprintf(w, "%s%s %g\n", m.name, smp.labels, smp.value)
		}
	}
}
