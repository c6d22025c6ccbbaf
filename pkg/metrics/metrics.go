// Package metrics exposes prometheus collectors for long-running crack
// sessions. The /metrics endpoint is opt-in via the --metrics-addr flag.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CrackAttempts counts oracle evaluations across the current process.
	CrackAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jwthack_crack_attempts_total",
		Help: "Number of candidate secrets evaluated.",
	})

	// CrackMatches counts recovered secrets.
	CrackMatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jwthack_crack_matches_total",
		Help: "Number of secrets recovered.",
	})

	// KeyspaceSize reports the configured keyspace when it is known up
	// front (bruteforce mode). Zero means unknown.
	KeyspaceSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jwthack_crack_keyspace_size",
		Help: "Total candidates in the configured keyspace, 0 when unknown.",
	})
)

// Serve starts a plain-HTTP metrics listener in the background and returns
// the server so the caller can shut it down.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		_ = server.ListenAndServe()
	}()
	return server
}
