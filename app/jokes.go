package app

import (
	"context"

	"github.com/CrestNiraj12/jokefeed/domain"
)

// Page is one batch of jokes returned by a single repository call.
// A nil Jokes slice means the server reported that nothing matched;
// a non-nil empty slice is a present page that happens to be empty.
type Page struct {
	Jokes []domain.Joke
}

// Absent reports whether the server sent no jokes list at all.
func (p Page) Absent() bool {
	return p.Jokes == nil
}

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
	OutcomeConnectivityFailure
	OutcomeUnknownFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeConnectivityFailure:
		return "connectivity_failure"
	case OutcomeUnknownFailure:
		return "unknown_failure"
	default:
		return "invalid"
	}
}

// Outcome is the result of exactly one transport call.
type Outcome struct {
	Kind       OutcomeKind
	Page       Page // set for OutcomeSuccess
	StatusCode int  // set for OutcomeFailure
}

// Success wraps a decoded page.
func Success(page Page) Outcome {
	return Outcome{Kind: OutcomeSuccess, Page: page}
}

// Failure records a completed call that did not yield a usable body.
func Failure(statusCode int) Outcome {
	return Outcome{Kind: OutcomeFailure, StatusCode: statusCode}
}

// ConnectivityFailure records a call that could not reach the host.
func ConnectivityFailure() Outcome {
	return Outcome{Kind: OutcomeConnectivityFailure}
}

// UnknownFailure records any other transport fault.
func UnknownFailure() Outcome {
	return Outcome{Kind: OutcomeUnknownFailure}
}

// JokeRepository fetches pages of jokes. The joke type and content filters
// are fixed by the implementation; callers only choose the page size.
type JokeRepository interface {
	FetchPage(ctx context.Context, amount int) Outcome
}
