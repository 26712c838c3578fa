package jokeapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public JokeAPI v2 endpoint.
const DefaultBaseURL = "https://v2.jokeapi.dev/joke/"

// DefaultTimeout bounds one request end to end.
const DefaultTimeout = 30 * time.Second

// Recorder receives per-request transport observations.
type Recorder interface {
	RecordHTTPStatus(statusCode int)
	RecordFetchLatency(d time.Duration)
	RecordOutcome(kind string)
}

// Client is a thin HTTP wrapper for JokeAPI.
// It handles base URL construction, optional pacing and request logging.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
	recorder Recorder
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit paces outgoing requests to rps per second. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the sink for transport metrics.
func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

// NewClient creates a JokeAPI client rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request for path with the given query. The caller
// owns the response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "waiting for request slot")
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if c.recorder != nil {
		c.recorder.RecordFetchLatency(elapsed)
	}
	if err != nil {
		c.logger.Debug("jokeapi request failed",
			zap.String("method", req.Method),
			zap.String("url", u),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, errors.Wrapf(err, "request to %s", path)
	}

	if c.recorder != nil {
		c.recorder.RecordHTTPStatus(resp.StatusCode)
	}
	c.logger.Debug("jokeapi request",
		zap.String("method", req.Method),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)
	return resp, nil
}
