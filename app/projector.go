package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/jokefeed/domain"
)

// DefaultJokesAmount is how many jokes the screen shows.
const DefaultJokesAmount = 20

const subscriberBuffer = 8

// Phase is the coarse state of the joke screen.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "invalid"
	}
}

// ViewState is an immutable snapshot of everything the screen renders.
// Snapshots are replaced wholesale and never modified after publication.
type ViewState struct {
	Phase      Phase
	Jokes      []domain.Joke
	ErrorState domain.ErrorState
}

func stateFromResult(res Result) ViewState {
	if res.OK() {
		return ViewState{Phase: PhaseSuccess, Jokes: res.Jokes, ErrorState: domain.NoError}
	}
	return ViewState{Phase: PhaseError, ErrorState: res.ErrorState}
}

// Acquirer runs the joke pipeline once.
type Acquirer interface {
	Invoke(ctx context.Context, amount int) Result
}

// Projector turns one-shot pipeline runs into an observable ViewState.
//
// Runs may overlap and the last one to finish wins; there is no check that
// discards a stale result.
type Projector struct {
	ctx           context.Context
	uc            Acquirer
	logger        *zap.Logger
	initialAmount int

	state atomic.Pointer[ViewState]
	runs  sync.WaitGroup

	mu      sync.Mutex
	subs    map[int]chan ViewState
	nextSub int
	closed  bool
}

// ProjectorOption customises a Projector.
type ProjectorOption func(*Projector)

// WithProjectorLogger sets the projector's logger.
func WithProjectorLogger(l *zap.Logger) ProjectorOption {
	return func(p *Projector) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithInitialAmount overrides the amount requested by the construction run.
func WithInitialAmount(n int) ProjectorOption {
	return func(p *Projector) { p.initialAmount = n }
}

// NewProjector creates a projector in the Loading state and immediately
// starts a download of the initial amount.
func NewProjector(ctx context.Context, uc Acquirer, opts ...ProjectorOption) *Projector {
	p := &Projector{
		ctx:           ctx,
		uc:            uc,
		logger:        zap.NewNop(),
		initialAmount: DefaultJokesAmount,
		subs:          make(map[int]chan ViewState),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state.Store(&ViewState{Phase: PhaseLoading})
	p.Trigger(p.initialAmount)
	return p
}

// State returns the latest published snapshot. It never blocks.
func (p *Projector) State() ViewState {
	return *p.state.Load()
}

// Trigger publishes Loading and starts one asynchronous download of amount
// jokes. The jokes of the previous snapshot stay visible while loading.
func (p *Projector) Trigger(amount int) {
	prev := p.State()
	p.publish(ViewState{Phase: PhaseLoading, Jokes: prev.Jokes, ErrorState: prev.ErrorState})

	runID := uuid.NewString()
	p.runs.Add(1)
	go func() {
		defer p.runs.Done()
		p.publish(p.run(runID, amount))
	}()
}

func (p *Projector) run(runID string, amount int) (vs ViewState) {
	log := p.logger.With(zap.String("run_id", runID), zap.Int("amount", amount))
	defer func() {
		if r := recover(); r != nil {
			log.Error("joke download panicked", zap.Any("panic", r))
			vs = ViewState{Phase: PhaseError, ErrorState: domain.UnclassifiedFailure}
		}
	}()

	log.Debug("joke download started")
	return stateFromResult(p.uc.Invoke(WithRunID(p.ctx, runID), amount))
}

// Subscribe returns a channel that receives every snapshot published after
// the call. A reader that falls behind loses the oldest pending snapshots,
// never the newest. The returned func unsubscribes and closes the channel.
func (p *Projector) Subscribe() (<-chan ViewState, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan ViewState, subscriberBuffer)
	if p.closed {
		close(ch)
		return ch, func() {}
	}
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if c, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(c)
			}
		})
	}
}

// Close detaches all subscribers. Runs already in flight still complete and
// update State, but their snapshots reach no listener.
func (p *Projector) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
}

// Wait blocks until every started run has published its final snapshot.
func (p *Projector) Wait() {
	p.runs.Wait()
}

// publish stores vs and fans it out under one lock, so State and the last
// snapshot every subscriber received always agree.
func (p *Projector) publish(vs ViewState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Store(&vs)
	for _, ch := range p.subs {
		select {
		case ch <- vs:
		default:
			// Full: drop the oldest pending snapshot to make room.
			select {
			case <-ch:
			default:
			}
			ch <- vs
		}
	}
}
