package cache

import (
	"context"
	"fmt"

	internalcommon "github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/metrics"
	"github.com/goran-ethernal/BBSCache/internal/types"
	"github.com/goran-ethernal/BBSCache/pkg/chain"
)

// Engine syncs one event stream. Run performs a single pass.
type Engine interface {
	Stream() types.Stream
	State() State
	Run(ctx context.Context) (*PassResult, error)
}

// PassResult summarizes one pass of one stream.
type PassResult struct {
	Stream     string `json:"stream"`
	FromBlock  uint64 `json:"from_block"`
	Height     uint64 `json:"height"`
	Events     int    `json:"events"`
	Created    int    `json:"created"`
	Skipped    int    `json:"skipped"`
	Linked     int    `json:"linked"`
	Checkpoint uint64 `json:"checkpoint"`
}

// scanRange resolves the block range of a pass: from the stored checkpoint, or the
// contract's first block for a fresh stream, up to the current height.
func scanRange(ctx context.Context, rt *Runtime, stream types.Stream) (from, height uint64, err error) {
	height, err = rt.Chain.CurrentHeight(ctx)
	if err != nil {
		return 0, 0, err
	}

	stored, err := rt.Checkpoints.Get(ctx, stream.Tag)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read %s checkpoint: %w", stream.Tag, err)
	}

	if stored == nil {
		return rt.Chain.FromBlock(), height, nil
	}
	return *stored, height, nil
}

// scanEvents scans the stream over [from, height]. A chain still at genesis has nothing to scan.
func scanEvents(ctx context.Context, rt *Runtime, stream types.Stream, from, height uint64) ([]chain.Event, error) {
	if height == 0 {
		return []chain.Event{}, nil
	}
	return rt.Scanner.Scan(ctx, stream.Event, from, height, rt.Step)
}

// advanceCheckpoint stores height-step so the next pass rescans the last step blocks.
// The checkpoint never moves below the block the pass started from.
func advanceCheckpoint(ctx context.Context, log *logger.Logger, rt *Runtime,
	stream types.Stream, from, height uint64) (uint64, error) {
	if height == 0 {
		return from, nil
	}

	next := internalcommon.SaturatingSub(height, rt.Step)
	if next < from {
		log.Debugf("keeping %s checkpoint at %d, height %d minus step %d is below it", stream.Tag, from, height, rt.Step)
		next = from
	}

	if err := rt.Checkpoints.Set(ctx, stream.Tag, next); err != nil {
		return 0, err
	}
	metrics.CheckpointSet(stream.Tag, next)

	return next, nil
}
