package jokeapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/CrestNiraj12/jokefeed/app"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jokes":[]}`))
	})
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient("https://v2.jokeapi.dev/joke///")
	assert.Equal(t, "https://v2.jokeapi.dev/joke", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Nil(t, c.limiter)
}

func TestClient_Get_LogsRequestAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := newTestClient(okHandler(), WithLogger(zap.New(core)))

	resp, err := c.Get(context.Background(), "/Any", nil)
	require.NoError(t, err)
	resp.Body.Close()

	entries := logs.FilterMessage("jokeapi request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "http://jokes.test/joke/Any", fields["url"])
	assert.EqualValues(t, 200, fields["status"])
}

func TestClient_Get_RateLimitRespectsContextDeadline(t *testing.T) {
	c := newTestClient(okHandler(), WithRateLimit(0.01, 1))

	resp, err := c.Get(context.Background(), "/Any", nil)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = c.Get(ctx, "/Any", nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "limiter must give up instead of sleeping past the deadline")
}

func TestWithRateLimit_NonPositiveDisablesPacing(t *testing.T) {
	c := NewClient(DefaultBaseURL, WithRateLimit(5, 0), WithRateLimit(0, 3))
	assert.Nil(t, c.limiter)

	c = NewClient(DefaultBaseURL, WithRateLimit(5, 0))
	require.NotNil(t, c.limiter)
	assert.Equal(t, 1, c.limiter.Burst())
}

func TestNewSafeHTTPClient_RefusesLoopback(t *testing.T) {
	hc := NewSafeHTTPClient(2 * time.Second)
	c := NewClient("http://127.0.0.1:80/joke", WithHTTPClient(hc))

	resp, err := c.Get(context.Background(), "/Any", nil)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)

	out := handleResult(func() (*http.Response, error) {
		return c.Get(context.Background(), "/Any", nil)
	})
	assert.Equal(t, app.UnknownFailure(), out, "a refused address is not a connectivity problem")
}
