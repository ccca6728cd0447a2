// Package lifecycle tracks the single in-progress generation request and
// the state observers see: idle, loading, success or error.
package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/internal/monitoring"
	"github.com/user/seo-meta-service/internal/pipeline"
)

// Runner performs one generation.
type Runner interface {
	Run(ctx context.Context, in domain.AnalysisInputs) (*pipeline.Outcome, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, in domain.AnalysisInputs) (*pipeline.Outcome, error)

func (f RunnerFunc) Run(ctx context.Context, in domain.AnalysisInputs) (*pipeline.Outcome, error) {
	return f(ctx, in)
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics counts discarded late results on m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// Controller owns one state slot. Every Submit takes a new sequence number
// and moves the state to loading; a run's result is applied only if no
// newer Submit happened meanwhile.
type Controller struct {
	runner  Runner
	logger  *zap.Logger
	metrics *monitoring.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	state   domain.RequestState
	seq     uint64
	subs    map[int]chan domain.RequestState
	nextSub int
	closed  bool
}

func NewController(runner Runner, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		runner: runner,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		state:  domain.IdleState(),
		subs:   make(map[int]chan domain.RequestState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit starts a run for in and returns its sequence number. Submissions
// are never rejected while another is loading; the older one is simply
// superseded. After Close, Submit does nothing and returns the last number.
func (c *Controller) Submit(in domain.AnalysisInputs) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.seq
	}
	c.seq++
	seq := c.seq
	runID := uuid.NewString()
	c.setLocked(domain.LoadingState(seq, runID))

	c.logger.Info("submission accepted", zap.Uint64("seq", seq), zap.String("run_id", runID))

	c.wg.Add(1)
	go c.run(seq, runID, in)
	return seq
}

func (c *Controller) run(seq uint64, runID string, in domain.AnalysisInputs) {
	defer c.wg.Done()

	out, err := c.runner.Run(c.ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.metrics.IncSuperseded()
		c.logger.Debug("discarding superseded result",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.seq),
			zap.String("run_id", runID),
		)
		return
	}
	if err != nil {
		c.setLocked(domain.ErrorState(seq, runID, err))
		return
	}
	c.setLocked(domain.SuccessState(seq, runID, out.Response, out.Sources))
}

// State returns the current snapshot.
func (c *Controller) State() domain.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel that always holds the newest state. A slow
// reader can miss intermediate states but never reads a stale one after a
// newer one. The channel starts with the current state and is closed by the
// returned cancel func or by Close.
func (c *Controller) Subscribe() (<-chan domain.RequestState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan domain.RequestState, 1)
	ch <- c.state
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Wait blocks until every started run has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight runs, waits for them and closes all subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

// setLocked replaces the state and pushes it to subscribers. c.mu must be held.
func (c *Controller) setLocked(s domain.RequestState) {
	c.state = s
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}
