package executor

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/courseforge/courseforge/internal/canvas"
	"github.com/courseforge/courseforge/internal/domain"
)

// Config bounds the executor's use of the remote API. The rate budget is
// shared by every concurrent call in a batch through one token bucket.
type Config struct {
	RequestsPerSecond float64
	Burst             int
	Concurrency       int

	// ForceUpdate re-deploys entities that already succeeded in a prior
	// run, using their stored remote ID for an update call.
	ForceUpdate bool
}

// Executor walks a deployment plan batch by batch, issuing create/update
// calls against Canvas. Batch boundaries are hard barriers; inside a
// batch, calls run with bounded concurrency.
type Executor struct {
	client   canvas.Client
	retry    canvas.RetryPolicy
	limiter  *rate.Limiter
	cfg      Config
	observer Observer
}

// New creates an Executor. A nil observer disables event emission.
func New(client canvas.Client, retry canvas.RetryPolicy, cfg Config, observer Observer) *Executor {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = cfg.Burst
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Executor{
		client:   client,
		retry:    retry,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cfg:      cfg,
		observer: observer,
	}
}

// RunInput is everything one deployment run needs.
type RunInput struct {
	RunID    string
	Plan     domain.DeploymentPlan
	Entities map[string]*domain.Entity

	// Prior holds records from earlier runs; previously succeeded
	// entities become no-ops unless ForceUpdate is set.
	Prior domain.RecordSet

	// Preskipped maps entities excluded by validation to the reason they
	// were never attempted. They are not in the plan but still appear in
	// the outcomes so the report can tell "never attempted" apart from
	// "attempted and failed".
	Preskipped map[string]string
}

// Run executes the plan and returns one terminal outcome per entity,
// sorted by local ID. The only error returns are an unreachable API
// (nothing attempted) and context cancellation.
func (e *Executor) Run(ctx context.Context, in RunInput) ([]domain.EntityOutcome, error) {
	if err := e.client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("checking canvas availability: %w", err)
	}

	st := newRunState(in)
	for bi, batch := range in.Plan.Batches {
		e.observer.OnDeployEvent(DeployEvent{RunID: in.RunID, Batch: bi})

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.cfg.Concurrency)
		for _, id := range batch {
			g.Go(func() error {
				return e.deployOne(gctx, in, st, bi, id)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return st.sortedOutcomes(in), nil
}

func (e *Executor) deployOne(ctx context.Context, in RunInput, st *runState, batch int, id string) error {
	ent := in.Entities[id]
	if ent == nil {
		return fmt.Errorf("plan references unknown entity %q", id)
	}

	// An already-deployed entity needs nothing from this run, so its
	// success is kept regardless of what happens to its dependencies.
	priorID := in.Prior.RemoteID(id)
	if in.Prior.Succeeded(id) && !e.cfg.ForceUpdate {
		out := domain.EntityOutcome{
			LocalID: id, Kind: ent.Kind,
			Status: domain.StatusSucceeded, Action: domain.ActionNone,
			RemoteID: priorID,
		}
		st.finish(out)
		e.observer.OnDeployEvent(DeployEvent{
			RunID: in.RunID, Batch: batch, LocalID: id, Kind: ent.Kind,
			Status: out.Status, Action: out.Action,
		})
		return nil
	}

	if reason, blocked := st.blockedBy(ent, in.Preskipped); blocked {
		out := domain.EntityOutcome{
			LocalID: id, Kind: ent.Kind,
			Status: domain.StatusSkipped, Action: domain.ActionNone,
			Reason: reason,
		}
		st.finish(out)
		e.observer.OnDeployEvent(DeployEvent{
			RunID: in.RunID, Batch: batch, LocalID: id, Kind: ent.Kind,
			Status: out.Status, Action: out.Action, Reason: reason,
		})
		return nil
	}

	// A stored remote ID means the entity exists in Canvas even when the
	// record's status has since changed, so re-deploys go through Update
	// instead of creating a duplicate.
	action := domain.ActionCreate
	if priorID != "" {
		action = domain.ActionUpdate
	}

	st.markInFlight(id)

	// References go over the wire as the remote IDs created in earlier
	// batches (or prior runs), never as local IDs Canvas has no idea of.
	wireEnt := ent.ResolveRefs(st.remoteIDs())

	start := time.Now()
	attempts := 0
	var remoteID string
	err := e.retry.Do(ctx, func(ctx context.Context) error {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
		attempts++
		if action == domain.ActionUpdate {
			return e.client.Update(ctx, wireEnt, priorID)
		}
		rid, err := e.client.Create(ctx, wireEnt)
		if err == nil {
			remoteID = rid
		}
		return err
	})
	latency := time.Since(start).Milliseconds()

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		out := domain.EntityOutcome{
			LocalID: id, Kind: ent.Kind,
			Status: domain.StatusFailed, Action: action,
			Reason: err.Error(),
		}
		st.finish(out)
		e.observer.OnDeployEvent(DeployEvent{
			RunID: in.RunID, Batch: batch, LocalID: id, Kind: ent.Kind,
			Status: out.Status, Action: action, Attempts: attempts,
			LatencyMs: latency, Reason: out.Reason,
		})
		return nil
	}

	if action == domain.ActionUpdate {
		remoteID = priorID
	}
	out := domain.EntityOutcome{
		LocalID: id, Kind: ent.Kind,
		Status: domain.StatusSucceeded, Action: action,
		RemoteID: remoteID,
	}
	st.finish(out)
	e.observer.OnDeployEvent(DeployEvent{
		RunID: in.RunID, Batch: batch, LocalID: id, Kind: ent.Kind,
		Status: out.Status, Action: action, Attempts: attempts,
		LatencyMs: latency,
	})
	return nil
}

// runState tracks per-entity statuses across a run. Batch barriers
// guarantee that every dependency of an entity has a terminal status by
// the time the entity is considered.
type runState struct {
	mu       sync.Mutex
	statuses map[string]domain.DeployStatus
	outcomes map[string]domain.EntityOutcome

	// remote maps local IDs to remote IDs, seeded from prior records and
	// extended as creates succeed. Used to rewrite payload references.
	remote map[string]string
}

func newRunState(in RunInput) *runState {
	st := &runState{
		statuses: make(map[string]domain.DeployStatus, in.Plan.EntityCount()),
		outcomes: make(map[string]domain.EntityOutcome),
		remote:   make(map[string]string, len(in.Prior)),
	}
	for _, batch := range in.Plan.Batches {
		for _, id := range batch {
			st.statuses[id] = domain.StatusPending
		}
	}
	for id, rec := range in.Prior {
		if rec.RemoteID != "" {
			st.remote[id] = rec.RemoteID
		}
	}
	return st
}

// remoteIDs snapshots the local-to-remote ID map. Batch barriers mean
// every dependency's ID is in place before a dependent reads it.
func (st *runState) remoteIDs() map[string]string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return maps.Clone(st.remote)
}

// blockedBy reports whether any dependency of the entity ended failed or
// skipped, or was excluded by validation. Fail-local, skip-downstream.
func (st *runState) blockedBy(e *domain.Entity, preskipped map[string]string) (string, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, dep := range e.Dependencies {
		if _, excluded := preskipped[dep]; excluded {
			return fmt.Sprintf("dependency %s was not deployed (validation failure)", dep), true
		}
		switch st.statuses[dep] {
		case domain.StatusFailed:
			return fmt.Sprintf("dependency %s failed", dep), true
		case domain.StatusSkipped:
			return fmt.Sprintf("dependency %s was skipped", dep), true
		}
	}
	return "", false
}

func (st *runState) markInFlight(id string) {
	st.mu.Lock()
	st.statuses[id] = domain.StatusInFlight
	st.mu.Unlock()
}

func (st *runState) finish(out domain.EntityOutcome) {
	st.mu.Lock()
	st.statuses[out.LocalID] = out.Status
	st.outcomes[out.LocalID] = out
	if out.RemoteID != "" {
		st.remote[out.LocalID] = out.RemoteID
	}
	st.mu.Unlock()
}

func (st *runState) sortedOutcomes(in RunInput) []domain.EntityOutcome {
	st.mu.Lock()
	defer st.mu.Unlock()

	outcomes := make([]domain.EntityOutcome, 0, len(st.outcomes)+len(in.Preskipped))
	for _, out := range st.outcomes {
		outcomes = append(outcomes, out)
	}
	for id, reason := range in.Preskipped {
		out := domain.EntityOutcome{
			LocalID: id,
			Status:  domain.StatusSkipped,
			Action:  domain.ActionNone,
			Reason:  reason,
		}
		if ent := in.Entities[id]; ent != nil {
			out.Kind = ent.Kind
		}
		outcomes = append(outcomes, out)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].LocalID < outcomes[j].LocalID
	})
	return outcomes
}
