package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dockwatch/dockwatch/pkg/log"
	"github.com/dockwatch/dockwatch/pkg/metrics"
	"github.com/dockwatch/dockwatch/pkg/registry"
	"github.com/dockwatch/dockwatch/pkg/types"
)

// DefaultCallTimeout bounds individual runtime adapter calls so a stuck
// daemon cannot wedge the loop.
const DefaultCallTimeout = 30 * time.Second

// RuntimeAdapter is the container-runtime surface the engine consumes.
type RuntimeAdapter interface {
	// ListHealthSnapshot returns the current set of containers with their
	// health phases.
	ListHealthSnapshot(ctx context.Context) ([]types.ContainerStatus, error)

	// Restart restarts the container with the given id.
	Restart(ctx context.Context, id string) error
}

// Config holds the engine's tuning knobs.
type Config struct {
	// TickInterval is the period between reconciliation passes.
	TickInterval time.Duration

	// RestartInterval is how long a container must stay unhealthy before a
	// restart is issued. Zero disables restarts (observe-only mode).
	RestartInterval time.Duration

	// CallTimeout bounds each runtime adapter call. Defaults to
	// DefaultCallTimeout when zero.
	CallTimeout time.Duration
}

// Status is a point-in-time summary of the engine for the readiness
// endpoint.
type Status struct {
	LastPassAt time.Time `json:"last_pass_at"`
	LastError  string    `json:"last_error,omitempty"`
	Tracked    int       `json:"tracked_containers"`
}

// Engine drives the reconciliation loop: it fetches container health
// snapshots from the runtime, maintains the registry of per-container
// records, publishes health gauges to the sink, and issues restarts for
// containers that stay unhealthy past the configured interval.
//
// A single goroutine runs the loop and is the only reader and writer of
// the registry; passes are strictly sequential.
type Engine struct {
	runtime  RuntimeAdapter
	sink     *metrics.Sink
	registry *registry.Registry
	cfg      Config
	now      func() time.Time

	mu     sync.Mutex
	status Status
}

// Option customises engine behaviour.
type Option func(*Engine)

// WithClock overrides the engine's time source. Used by tests to drive the
// restart policy deterministically.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine. The registry starts empty and is rebuilt from the
// first snapshot.
func New(rt RuntimeAdapter, sink *metrics.Sink, cfg Config, opts ...Option) *Engine {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	e := &Engine{
		runtime:  rt,
		sink:     sink,
		registry: registry.New(),
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes reconciliation passes until the context is cancelled. The
// first pass runs immediately and its failure is returned as a startup
// error; later pass failures are logged and counted, then retried on the
// next tick.
func (e *Engine) Run(ctx context.Context) error {
	logger := log.WithComponent("supervisor")

	if err := e.ReconcileOnce(ctx); err != nil {
		return fmt.Errorf("initial reconciliation: %w", err)
	}

	if e.cfg.RestartInterval > 0 {
		logger.Info().
			Dur("restart_interval", e.cfg.RestartInterval).
			Dur("tick_interval", e.cfg.TickInterval).
			Msg("supervising containers")
	} else {
		logger.Info().
			Dur("tick_interval", e.cfg.TickInterval).
			Msg("observe-only mode, restarts disabled")
	}

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := e.ReconcileOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn().Err(err).Msg("reconciliation pass failed")
			}
		}
	}
}

// ReconcileOnce performs a single reconciliation pass: fetch the snapshot,
// apply state transitions and gauge updates, prune records for containers
// that disappeared, and evaluate the restart policy. A failed fetch aborts
// the pass without mutating the registry or the sink.
func (e *Engine) ReconcileOnce(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	snapshot, err := e.runtime.ListHealthSnapshot(fetchCtx)
	cancel()
	if err != nil {
		e.sink.ErrorsTotal.Inc()
		e.recordStatus(err)
		return fmt.Errorf("fetch health snapshot: %w", err)
	}

	now := e.now()

	seen := make(map[string]struct{}, len(snapshot))
	for _, st := range snapshot {
		seen[st.ID] = struct{}{}
		e.observe(st, now)
	}

	for _, rec := range e.registry.List() {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		e.registry.Delete(rec.ID)
		e.sink.Remove(rec.ID)
		logger := log.WithContainer(rec.ID, rec.Name)
		logger.Debug().Msg("container gone, pruned")
	}

	if e.cfg.RestartInterval > 0 {
		e.evaluateRestarts(ctx, now)
	}

	e.sink.PassesTotal.Inc()
	e.recordStatus(nil)
	return nil
}

// observe creates or updates the record for one snapshot entry and sets
// its health gauge.
func (e *Engine) observe(st types.ContainerStatus, now time.Time) {
	rec := e.registry.Get(st.ID)
	if rec == nil {
		rec = &types.ContainerRecord{
			ID:         st.ID,
			Name:       st.Name,
			State:      st.State,
			StateSince: now,
		}
		if st.State == types.HealthStateUnhealthy {
			rec.RestartPendingSince = now
		}
		e.registry.Put(rec)
		logger := log.WithContainer(st.ID, st.Name)
		logger.Debug().
			Str("state", string(st.State)).
			Msg("tracking container")
	} else {
		if rec.Name != st.Name {
			// Renames move the name label, so the old series must go.
			e.sink.Remove(rec.ID)
			rec.Name = st.Name
		}
		if rec.State != st.State {
			e.transition(rec, st.State, now)
		}
	}

	e.sink.Set(st.ID, st.Name, st.State)
}

// transition applies a state change to an existing record. Entering the
// unhealthy state arms the restart policy; leaving it disarms the policy
// and forgets any restart issued for the previous streak.
func (e *Engine) transition(rec *types.ContainerRecord, state types.HealthState, now time.Time) {
	logger := log.WithContainer(rec.ID, rec.Name)
	logger.Info().
		Str("from", string(rec.State)).
		Str("to", string(state)).
		Msg("health state changed")

	wasUnhealthy := rec.State == types.HealthStateUnhealthy
	rec.State = state
	rec.StateSince = now

	if state == types.HealthStateUnhealthy {
		rec.RestartPendingSince = now
		rec.LastRestartAt = time.Time{}
	} else if wasUnhealthy {
		rec.RestartPendingSince = time.Time{}
		rec.LastRestartAt = time.Time{}
	}
}

// evaluateRestarts issues at most one restart per unhealthy streak for
// every record whose streak has lasted at least the restart interval.
func (e *Engine) evaluateRestarts(ctx context.Context, now time.Time) {
	for _, rec := range e.registry.List() {
		if rec.State != types.HealthStateUnhealthy {
			continue
		}
		if rec.RestartPendingSince.IsZero() || !rec.LastRestartAt.IsZero() {
			continue
		}
		if now.Sub(rec.RestartPendingSince) < e.cfg.RestartInterval {
			continue
		}

		logger := log.WithContainer(rec.ID, rec.Name)
		logger.Info().
			Dur("unhealthy_for", now.Sub(rec.RestartPendingSince)).
			Msg("restarting unhealthy container")

		restartCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
		err := e.runtime.Restart(restartCtx, rec.ID)
		cancel()

		// Recorded regardless of outcome so a failing restart is not
		// retried every tick for the same streak.
		rec.LastRestartAt = now

		if err != nil {
			e.sink.RestartFailuresTotal.WithLabelValues(rec.ID, rec.Name).Inc()
			logger.Warn().Err(err).Msg("restart failed")
			continue
		}
		e.sink.RestartsTotal.WithLabelValues(rec.ID, rec.Name).Inc()
		logger.Info().Msg("restarted unhealthy container")
	}
}

func (e *Engine) recordStatus(passErr error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if passErr != nil {
		e.status.LastError = passErr.Error()
		return
	}
	e.status = Status{
		LastPassAt: e.now(),
		Tracked:    e.registry.Len(),
	}
}

// Status returns a snapshot of the engine's last-pass state. Safe to call
// from other goroutines.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}
