// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package conversion

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bimigrate/cli/internal/errors"
	"bimigrate/cli/internal/logging"
)

// Client is the slice of the backend API the orchestrator needs.
type Client interface {
	StartConversion(ctx context.Context, scopeID string) error
	FetchConverted(ctx context.Context, scopeID string) ([]Converted, error)
	ConvertBatch(ctx context.Context, scopeID string, ids []string) ([]Converted, error)
}

// JobState tracks the per-scope conversion job lifecycle.
type JobState int

const (
	StateIdle JobState = iota
	StateKickoff
	StatePolling
	StateSettled
)

func (s JobState) String() string {
	switch s {
	case StateKickoff:
		return "kickoff"
	case StatePolling:
		return "polling"
	case StateSettled:
		return "settled"
	default:
		return "idle"
	}
}

// DefaultPollInterval is the fixed poll cadence. There is no backoff: probing
// candidates is a breadth search and polling is a fixed-cadence read, never a
// retry of a failed call.
const DefaultPollInterval = 2 * time.Second

// Orchestrator drives conversion jobs for one scope at a time. The backend
// offers no "job complete" signal, so settlement is caller-driven: the loop
// ends when the caller's context is torn down or the max tick count is
// reached. A reload of the CLI returns every job to idle; nothing about the
// job itself is persisted.
type Orchestrator struct {
	client   Client
	cache    *Cache
	interval time.Duration
	log      *zap.Logger

	mu    sync.Mutex
	state JobState
	scope string

	// inFlight guards against overlapping poll ticks: if a tick's request is
	// still pending when the next interval fires, the later tick is skipped
	// instead of issuing a concurrent duplicate.
	inFlight atomic.Bool
}

// NewOrchestrator creates an orchestrator with the given poll interval.
// A non-positive interval selects the default cadence.
func NewOrchestrator(client Client, interval time.Duration) *Orchestrator {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Orchestrator{
		client:   client,
		cache:    NewCache(),
		interval: interval,
		log:      logging.L(),
	}
}

// Cache exposes the conversion cache for read access.
func (o *Orchestrator) Cache() *Cache { return o.cache }

// State returns the current job state.
func (o *Orchestrator) State() JobState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// rescope binds the orchestrator and cache to a scope; a scope change resets
// the job to idle and clears the cache wholesale.
func (o *Orchestrator) rescope(scopeID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.scope != scopeID {
		o.scope = scopeID
		o.state = StateIdle
	}
	o.cache.Rescope(scopeID)
}

// StartJob sends one request to start server-side background conversion for
// the scope. On success the job transitions to polling; on failure the error
// is reported once, the job returns to idle, and no automatic retry happens.
//
// The request is detached from the caller's cancellation: a caller navigating
// away must not abort a kickoff already on the wire, otherwise the server
// would be left with partial state nobody observes.
func (o *Orchestrator) StartJob(ctx context.Context, scopeID string) error {
	o.rescope(scopeID)

	o.mu.Lock()
	o.state = StateKickoff
	o.mu.Unlock()

	jobID := uuid.NewString()
	o.log.Info("conversion kickoff",
		zap.String("scope", scopeID), zap.String("job", jobID))

	if err := o.client.StartConversion(context.WithoutCancel(ctx), scopeID); err != nil {
		o.mu.Lock()
		o.state = StateIdle
		o.mu.Unlock()
		o.log.Error("conversion kickoff failed",
			zap.String("scope", scopeID), zap.String("job", jobID), zap.Error(err))
		return errors.Wrap(errors.KickoffFailed, "start conversion job", err)
	}

	o.mu.Lock()
	o.state = StatePolling
	o.mu.Unlock()
	return nil
}

// PollOnce reads the cached-results endpoint for the scope and merges new
// items into the cache. It always returns the merged cache snapshot.
//
// An empty response is not a stop condition: the job may legitimately take
// several ticks before any item appears. A tick failure returns a typed
// PollTickFailed error alongside the unchanged snapshot; callers log it and
// keep polling. If a previous tick is still in flight the call is skipped
// entirely and the current snapshot is returned.
func (o *Orchestrator) PollOnce(ctx context.Context, scopeID string) ([]Converted, error) {
	o.rescope(scopeID)

	if !o.inFlight.CompareAndSwap(false, true) {
		return o.cache.Snapshot(), nil
	}
	defer o.inFlight.Store(false)

	items, err := o.client.FetchConverted(ctx, scopeID)
	if err != nil {
		o.log.Warn("poll tick failed",
			zap.String("scope", scopeID), zap.Error(err))
		return o.cache.Snapshot(), errors.Wrap(errors.PollTickFailed, "read cached results", err)
	}

	if added := o.cache.Merge(items); len(added) > 0 {
		o.log.Debug("poll merged new conversions",
			zap.String("scope", scopeID), zap.Int("added", len(added)),
			zap.Int("total", o.cache.Len()))
	}
	return o.cache.Snapshot(), nil
}

// Run executes the poll loop at the fixed cadence until the context is torn
// down or maxTicks is reached, whichever comes first. maxTicks <= 0 means no
// tick cap, leaving teardown entirely to the caller's context.
//
// onMerge, when non-nil, is invoked with the newly merged items after each
// tick that produced any, letting the caller update incrementally. Run
// returns the final cache snapshot; the job is settled on return.
func (o *Orchestrator) Run(ctx context.Context, scopeID string, maxTicks int, onMerge func(added []Converted)) ([]Converted, error) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	defer func() {
		o.mu.Lock()
		o.state = StateSettled
		o.mu.Unlock()
	}()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			return o.cache.Snapshot(), nil
		case <-ticker.C:
			before := o.cache.Len()
			snapshot, err := o.PollOnce(ctx, scopeID)
			if err != nil {
				// A single missed tick must not abort a progressing job.
				ticks++
				if maxTicks > 0 && ticks >= maxTicks {
					return snapshot, nil
				}
				continue
			}
			if onMerge != nil && o.cache.Len() > before {
				onMerge(snapshot[before:])
			}
			ticks++
			if maxTicks > 0 && ticks >= maxTicks {
				return snapshot, nil
			}
		}
	}
}

// ConvertNow converts an explicit selection of source ids synchronously: one
// batch request, one response, no polling. Ids already present in the cache
// are filtered out before dispatch, so converting the same selection twice
// issues requests only for what is actually missing. Returns the appended
// cache snapshot.
//
// Like kickoff, the batch request is detached from caller cancellation once
// on the wire.
func (o *Orchestrator) ConvertNow(ctx context.Context, scopeID string, ids []string) ([]Converted, error) {
	o.rescope(scopeID)

	missing := o.cache.Missing(ids)
	if len(missing) == 0 {
		return o.cache.Snapshot(), nil
	}

	batchID := uuid.NewString()
	o.log.Info("convert-now batch",
		zap.String("scope", scopeID), zap.String("batch", batchID),
		zap.Int("requested", len(ids)), zap.Int("dispatched", len(missing)))

	items, err := o.client.ConvertBatch(context.WithoutCancel(ctx), scopeID, missing)
	if err != nil {
		return o.cache.Snapshot(), err
	}
	o.cache.Merge(items)
	return o.cache.Snapshot(), nil
}
