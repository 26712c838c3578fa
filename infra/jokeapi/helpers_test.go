package jokeapi

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

type handlerRoundTripper struct {
	h http.Handler
}

func (rt handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	rec := newResponseRecorder()
	rt.h.ServeHTTP(rec, req)
	return rec.response(req), nil
}

type responseRecorder struct {
	header http.Header
	body   strings.Builder
	code   int
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header), code: http.StatusOK}
}

func (r *responseRecorder) Header() http.Header         { return r.header }
func (r *responseRecorder) Write(p []byte) (int, error) { return r.body.Write(p) }
func (r *responseRecorder) WriteHeader(statusCode int)  { r.code = statusCode }

func (r *responseRecorder) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: r.code,
		Header:     r.header.Clone(),
		Body:       io.NopCloser(strings.NewReader(r.body.String())),
		Request:    req,
	}
}

func newTestClient(h http.Handler, opts ...ClientOption) *Client {
	opts = append([]ClientOption{
		WithHTTPClient(&http.Client{Transport: handlerRoundTripper{h: h}}),
	}, opts...)
	return NewClient("http://jokes.test/joke/", opts...)
}

type errRoundTripper struct {
	err error
}

func (rt errRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, rt.err
}

type fakeRecorder struct {
	mu        sync.Mutex
	statuses  []int
	latencies int
	outcomes  []string
}

func (f *fakeRecorder) RecordHTTPStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, code)
}

func (f *fakeRecorder) RecordFetchLatency(time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latencies++
}

func (f *fakeRecorder) RecordOutcome(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, kind)
}
