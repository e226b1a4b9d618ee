package cache

import (
	"context"
	"sync"

	"github.com/goran-ethernal/BBSCache/internal/logger"
)

// State is the step an engine is in during a pass.
type State string

const (
	StateIdle              State = "idle"
	StateReconcile         State = "reconcile"
	StateScan              State = "scan"
	StateIssueAndPersist   State = "issue_and_persist"
	StatePersist           State = "persist"
	StateCheckpointAdvance State = "checkpoint_advance"
)

// stateTracker records and logs the transitions of one engine.
type stateTracker struct {
	mu      sync.RWMutex
	current State
	onEnter func(State)
}

func (s *stateTracker) enter(log *logger.Logger, next State) {
	s.mu.Lock()
	prev := s.current
	s.current = next
	s.mu.Unlock()

	if prev == "" {
		prev = StateIdle
	}
	log.Debugf("state %s -> %s", prev, next)

	if s.onEnter != nil {
		s.onEnter(next)
	}
}

// State returns the step the engine is in.
func (s *stateTracker) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == "" {
		return StateIdle
	}
	return s.current
}

type runIDKey struct{}

// WithRunID tags ctx with the id of the pass it belongs to.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the pass id carried by ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

func passLogger(ctx context.Context, log *logger.Logger) *logger.Logger {
	if id := RunID(ctx); id != "" {
		return log.WithFields("run_id", id)
	}
	return log
}
