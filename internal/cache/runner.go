package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	internalcommon "github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/metrics"
)

// PassReport is the outcome of one cache pass over every stream.
type PassReport struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Streams  []*PassResult `json:"streams"`
}

// Runner performs cache passes: the article engine, then the comment engine.
// Passes never overlap.
type Runner struct {
	rt      *Runtime
	engines []Engine
	log     *logger.Logger

	running sync.Mutex

	mu   sync.RWMutex
	last *PassReport
}

// NewRunner creates a runner over rt.
func NewRunner(rt *Runtime) *Runner {
	return &Runner{
		rt: rt,
		engines: []Engine{
			NewArticleSyncEngine(rt),
			NewCommentSyncEngine(rt),
		},
		log: rt.Logger(internalcommon.ComponentRunner),
	}
}

// Engines returns the engines in the order a pass runs them.
func (r *Runner) Engines() []Engine {
	return r.engines
}

// RunPass runs every engine once, strictly one after the other. The first failing
// engine ends the pass, later engines do not run.
func (r *Runner) RunPass(ctx context.Context) (*PassReport, error) {
	r.running.Lock()
	defer r.running.Unlock()

	runID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to create run id: %w", err)
	}

	report := &PassReport{RunID: runID.String(), Started: time.Now()}
	ctx = WithRunID(ctx, report.RunID)
	log := passLogger(ctx, r.log)

	log.Infof("starting cache pass")

	for _, engine := range r.engines {
		stream := engine.Stream().Tag

		result, err := engine.Run(ctx)
		if err != nil {
			metrics.PassesInc(stream, metrics.ResultFailure)
			metrics.ErrorsInc(internalcommon.ComponentRunner, metrics.SeverityFatal)
			metrics.ComponentHealthSet(internalcommon.ComponentRunner, false)
			log.Errorf("%s pass failed: %v", stream, err)
			return nil, fmt.Errorf("%s pass failed: %w", stream, err)
		}

		metrics.PassesInc(stream, metrics.ResultSuccess)
		report.Streams = append(report.Streams, result)
	}

	if r.rt.Maintenance != nil {
		if err := r.rt.Maintenance.RunMaintenance(ctx); err != nil {
			log.Warnf("database maintenance failed: %v", err)
		}
	}

	report.Duration = time.Since(report.Started)
	metrics.ComponentHealthSet(internalcommon.ComponentRunner, true)
	log.Infof("cache pass done in %v", report.Duration)

	r.mu.Lock()
	r.last = report
	r.mu.Unlock()

	return report, nil
}

// LastReport returns the report of the last successful pass, nil before the first one.
func (r *Runner) LastReport() *PassReport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.last
}
