package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/jokefeed/domain"
)

func TestCollector_RecordsTransportAndRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(500)
	c.RecordFetchLatency(120 * time.Millisecond)
	c.RecordOutcome("success")
	c.RecordOutcome("failure")
	c.RecordRun(domain.NoError, 2, time.Second)
	c.RecordRun(domain.NoNewUniqueJokes, 2, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpStatus.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpStatus.WithLabelValues("500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.outcomes.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("no_new_unique_jokes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("no_error")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRun(domain.Http4xx, 1, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `jokefeed_runs_total{error_state="http_4xx"} 1`)
}

func TestServe_ServesAndShutsDown(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).RecordOutcome("success")

	srv, err := Serve("127.0.0.1:0", reg, zap.NewNop())
	require.NoError(t, err)

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(body), "jokefeed_page_outcomes_total"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
}
