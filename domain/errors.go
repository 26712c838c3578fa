package domain

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidAmount indicates a non-positive joke amount.
	ErrInvalidAmount = errors.New("joke amount must be positive")

	// ErrInvalidBaseURL indicates a JokeAPI base URL that is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("base url must be an absolute http(s) url")
)
