package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CrestNiraj12/jokefeed/domain"
)

// scriptedRepo replays outcomes in order and repeats the last one forever.
type scriptedRepo struct {
	mu       sync.Mutex
	outcomes []Outcome
	amounts  []int
	gate     chan struct{} // when set, each call waits for a token
}

func newScriptedRepo(outcomes ...Outcome) *scriptedRepo {
	return &scriptedRepo{outcomes: outcomes}
}

func (r *scriptedRepo) FetchPage(ctx context.Context, amount int) Outcome {
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return UnknownFailure()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := len(r.amounts)
	r.amounts = append(r.amounts, amount)
	if i >= len(r.outcomes) {
		i = len(r.outcomes) - 1
	}
	return r.outcomes[i]
}

func (r *scriptedRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.amounts)
}

func joke(id int) domain.Joke {
	return domain.Joke{
		ID:       id,
		Setup:    fmt.Sprintf("Setup %d", id),
		Delivery: fmt.Sprintf("Delivery %d", id),
	}
}

// jokeRange returns jokes with ids from..to inclusive.
func jokeRange(from, to int) []domain.Joke {
	out := make([]domain.Joke, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, joke(id))
	}
	return out
}

func page(jokes ...[]domain.Joke) Outcome {
	all := []domain.Joke{}
	for _, js := range jokes {
		all = append(all, js...)
	}
	return Success(Page{Jokes: all})
}

func reversed(in []domain.Joke) []domain.Joke {
	out := make([]domain.Joke, len(in))
	for i, j := range in {
		out[len(in)-1-i] = j
	}
	return out
}

type recordedRun struct {
	state domain.ErrorState
	pages int
}

type fakeRunRecorder struct {
	mu   sync.Mutex
	runs []recordedRun
}

func (f *fakeRunRecorder) RecordRun(state domain.ErrorState, pages int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, recordedRun{state: state, pages: pages})
}
