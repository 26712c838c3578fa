package jokeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/doyensec/safeurl"

	"github.com/CrestNiraj12/jokefeed/app"
	"github.com/CrestNiraj12/jokefeed/domain"
)

// maxBodyBytes caps how much of a response is read. Ten two-part jokes are
// a few kilobytes.
const maxBodyBytes = 1 << 20

// jokesResponse is the subset of JokeAPI's multi-joke response we use.
// Jokes is null or missing when the server found nothing.
type jokesResponse struct {
	Error  bool      `json:"error"`
	Amount int       `json:"amount"`
	Jokes  []jokeDTO `json:"jokes"`
}

type jokeDTO struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
}

// handleResult runs execute once and folds whatever happens into an
// app.Outcome. It never returns an error and never panics on a missing body.
func handleResult(execute func() (*http.Response, error)) app.Outcome {
	resp, err := execute()
	if err != nil {
		if isConnectivityError(err) {
			return app.ConnectivityFailure()
		}
		return app.UnknownFailure()
	}
	if resp == nil {
		return app.UnknownFailure()
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || resp.Body == nil {
		return app.Failure(resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return app.UnknownFailure()
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return app.Failure(resp.StatusCode)
	}

	var body jokesResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return app.UnknownFailure()
	}
	return app.Success(toPage(body))
}

func toPage(body jokesResponse) app.Page {
	if body.Jokes == nil {
		return app.Page{}
	}
	jokes := make([]domain.Joke, 0, len(body.Jokes))
	for _, j := range body.Jokes {
		jokes = append(jokes, domain.Joke{
			ID:       j.ID,
			Setup:    j.Setup,
			Delivery: j.Delivery,
		})
	}
	return app.Page{Jokes: jokes}
}

// isConnectivityError reports whether err means the host could not be
// resolved or reached at all. Addresses refused by the safe transport are
// reachable, just not allowed, so they do not count.
func isConnectivityError(err error) bool {
	if isSafeURLRefusal(err) {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}

func isSafeURLRefusal(err error) bool {
	var (
		ipErr     *safeurl.AllowedIPError
		ipv6Err   *safeurl.IPv6BlockedError
		portErr   *safeurl.AllowedPortError
		schemeErr *safeurl.AllowedSchemeError
		hostErr   *safeurl.AllowedHostError
		invalid   *safeurl.InvalidHostError
		credErr   *safeurl.SendingCredentialsBlockedError
	)
	return errors.As(err, &ipErr) ||
		errors.As(err, &ipv6Err) ||
		errors.As(err, &portErr) ||
		errors.As(err, &schemeErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalid) ||
		errors.As(err, &credErr)
}
