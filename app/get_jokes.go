package app

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/CrestNiraj12/jokefeed/domain"
)

// PageSize is the most jokes JokeAPI returns in one response. Every call
// asks for a full page no matter how many jokes are still missing.
const PageSize = 10

// Result is the terminal output of one GetJokes run: either the jokes,
// or the reason there are none.
type Result struct {
	Jokes      []domain.Joke
	ErrorState domain.ErrorState
}

// Succeeded builds a successful result.
func Succeeded(jokes []domain.Joke) Result {
	return Result{Jokes: jokes, ErrorState: domain.NoError}
}

// Failed builds an error result. Partial progress is never carried.
func Failed(state domain.ErrorState) Result {
	return Result{ErrorState: state}
}

// OK reports whether the run produced jokes.
func (r Result) OK() bool {
	return r.ErrorState == domain.NoError
}

// RunRecorder receives one observation per finished run.
type RunRecorder interface {
	RecordRun(state domain.ErrorState, pages int, elapsed time.Duration)
}

// GetJokes assembles a requested number of unique jokes from a repository
// that serves at most PageSize jokes per call and may repeat itself.
type GetJokes struct {
	repo     JokeRepository
	pageSize int
	logger   *zap.Logger
	recorder RunRecorder
}

// GetJokesOption customises a GetJokes use case.
type GetJokesOption func(*GetJokes)

// WithLogger sets the logger used for run summaries.
func WithLogger(l *zap.Logger) GetJokesOption {
	return func(uc *GetJokes) {
		if l != nil {
			uc.logger = l
		}
	}
}

// WithRunRecorder sets the sink for run metrics.
func WithRunRecorder(r RunRecorder) GetJokesOption {
	return func(uc *GetJokes) { uc.recorder = r }
}

// NewGetJokes creates the use case over repo.
func NewGetJokes(repo JokeRepository, opts ...GetJokesOption) *GetJokes {
	uc := &GetJokes{
		repo:     repo,
		pageSize: PageSize,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Invoke downloads amount unique jokes sorted ascending by ID.
// It never returns an error; every failure is folded into the Result.
func (uc *GetJokes) Invoke(ctx context.Context, amount int) Result {
	start := time.Now()
	res, pages := uc.acquire(ctx, amount)
	elapsed := time.Since(start)

	fields := []zap.Field{
		zap.String("run_id", RunID(ctx)),
		zap.Int("amount", amount),
		zap.Int("pages", pages),
		zap.Duration("elapsed", elapsed),
	}
	if res.OK() {
		uc.logger.Info("jokes downloaded", append(fields, zap.Int("count", len(res.Jokes)))...)
	} else {
		uc.logger.Warn("jokes download failed", append(fields, zap.Stringer("error_state", res.ErrorState))...)
	}
	if uc.recorder != nil {
		uc.recorder.RecordRun(res.ErrorState, pages, elapsed)
	}
	return res
}

func (uc *GetJokes) acquire(ctx context.Context, amount int) (Result, int) {
	if amount <= 0 {
		return Succeeded([]domain.Joke{}), 0
	}

	var (
		jokes = make([]domain.Joke, 0, amount)
		seen  = make(map[domain.Joke]struct{}, amount)
		pages int
	)
	for len(jokes) < amount {
		out := uc.repo.FetchPage(ctx, uc.pageSize)
		pages++

		switch out.Kind {
		case OutcomeSuccess:
			// JokeAPI answers 200 with no jokes list when nothing matches the
			// filters. Asking again with the same filters cannot help.
			if out.Page.Absent() {
				return Failed(domain.EmptyResultSet), pages
			}
			before := len(jokes)
			jokes = appendDistinct(jokes, seen, out.Page.Jokes)
			// A page with nothing new means the server has no more unique
			// jokes to give; looping would never end.
			if len(jokes) == before {
				return Failed(domain.NoNewUniqueJokes), pages
			}
		case OutcomeFailure:
			return Failed(Classify(out.StatusCode)), pages
		case OutcomeConnectivityFailure:
			return Failed(domain.ConnectivityFailure), pages
		case OutcomeUnknownFailure:
			return Failed(domain.UnclassifiedFailure), pages
		default:
			uc.logger.Error("unexpected outcome kind", zap.Stringer("kind", out.Kind))
			return Failed(domain.UnclassifiedFailure), pages
		}
	}

	picked := slices.Clone(jokes[:amount])
	slices.SortStableFunc(picked, func(a, b domain.Joke) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return Succeeded(picked), pages
}

// appendDistinct appends the jokes of page not yet in seen, keeping
// first-seen order. Equality is structural.
func appendDistinct(dst []domain.Joke, seen map[domain.Joke]struct{}, page []domain.Joke) []domain.Joke {
	for _, j := range page {
		if _, ok := seen[j]; ok {
			continue
		}
		seen[j] = struct{}{}
		dst = append(dst, j)
	}
	return dst
}
