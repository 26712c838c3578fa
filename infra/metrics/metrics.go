// Package metrics exposes Prometheus metrics for joke downloads.
package metrics

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/jokefeed/domain"
)

// Collector records transport and run metrics. It satisfies both
// jokeapi.Recorder and app.RunRecorder.
type Collector struct {
	httpStatus   *prometheus.CounterVec
	fetchLatency prometheus.Histogram
	outcomes     *prometheus.CounterVec
	runs         *prometheus.CounterVec
	runPages     prometheus.Histogram
	runDuration  prometheus.Histogram
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jokefeed_http_status_total",
			Help: "JokeAPI responses by HTTP status code.",
		}, []string{"status_code"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jokefeed_fetch_latency_seconds",
			Help:    "Latency of single JokeAPI requests.",
			Buckets: prometheus.DefBuckets,
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jokefeed_page_outcomes_total",
			Help: "Page fetches by transport outcome.",
		}, []string{"outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jokefeed_runs_total",
			Help: "Finished joke downloads by error state.",
		}, []string{"error_state"}),
		runPages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jokefeed_run_pages",
			Help:    "Pages requested per joke download.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jokefeed_run_duration_seconds",
			Help:    "Wall time of one joke download.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.fetchLatency,
		c.outcomes,
		c.runs,
		c.runPages,
		c.runDuration,
	)
	return c
}

// RecordHTTPStatus counts one response with the given status.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordFetchLatency observes one request's latency.
func (c *Collector) RecordFetchLatency(d time.Duration) {
	c.fetchLatency.Observe(d.Seconds())
}

// RecordOutcome counts one page fetch by outcome kind.
func (c *Collector) RecordOutcome(kind string) {
	c.outcomes.WithLabelValues(kind).Inc()
}

// RecordRun observes one finished download.
func (c *Collector) RecordRun(state domain.ErrorState, pages int, elapsed time.Duration) {
	c.runs.WithLabelValues(state.String()).Inc()
	c.runPages.Observe(float64(pages))
	c.runDuration.Observe(elapsed.Seconds())
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Server serves /metrics on a background listener.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *zap.Logger
	done   chan struct{}
}

// Serve starts listening on addr and serves gatherer's metrics until Shutdown.
func Serve(addr string, gatherer prometheus.Gatherer, logger *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening for metrics on %s", addr)
	}
	s := &Server{
		srv: &http.Server{
			Handler:           Handler(gatherer),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln:     ln,
		logger: logger,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("metrics server listening", zap.String("address", ln.Addr().String()))
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops the server and waits for its goroutine to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	<-s.done
	return err
}
