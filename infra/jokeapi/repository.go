package jokeapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/CrestNiraj12/jokefeed/app"
)

// Filter selects which jokes the server may return.
type Filter struct {
	Category       string // e.g. "Any" or "Programming,Pun"
	Type           string // "twopart" keeps setup/delivery jokes only
	BlacklistFlags string // e.g. "nsfw"
}

// DefaultFilter asks for safe two-part jokes of any category.
func DefaultFilter() Filter {
	return Filter{
		Category:       "Any",
		Type:           "twopart",
		BlacklistFlags: "nsfw",
	}
}

// jokeRepository implements app.JokeRepository using JokeAPI.
type jokeRepository struct {
	client *Client
	filter Filter
}

// NewJokeRepository creates an app.JokeRepository backed by JokeAPI.
func NewJokeRepository(client *Client, filter Filter) *jokeRepository {
	if filter.Category == "" {
		filter.Category = DefaultFilter().Category
	}
	return &jokeRepository{
		client: client,
		filter: filter,
	}
}

var _ app.JokeRepository = (*jokeRepository)(nil)

func (r *jokeRepository) FetchPage(ctx context.Context, amount int) app.Outcome {
	q := url.Values{}
	q.Set("amount", strconv.Itoa(amount))
	if r.filter.Type != "" {
		q.Set("type", r.filter.Type)
	}
	if r.filter.BlacklistFlags != "" {
		q.Set("blacklistFlags", r.filter.BlacklistFlags)
	}
	path := "/" + r.filter.Category

	out := handleResult(func() (*http.Response, error) {
		return r.client.Get(ctx, path, q)
	})
	if r.client.recorder != nil {
		r.client.recorder.RecordOutcome(out.Kind.String())
	}
	return out
}
