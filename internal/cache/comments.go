package cache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	internalcommon "github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/metrics"
	"github.com/goran-ethernal/BBSCache/internal/store"
	"github.com/goran-ethernal/BBSCache/internal/types"
	"github.com/goran-ethernal/BBSCache/pkg/chain"
)

// Compile-time check to ensure CommentSyncEngine implements the Engine interface.
var _ Engine = (*CommentSyncEngine)(nil)

// CommentSyncEngine caches Replied events. A pass goes Scan, Persist, CheckpointAdvance.
type CommentSyncEngine struct {
	stateTracker

	rt  *Runtime
	log *logger.Logger
}

// NewCommentSyncEngine creates the comment engine.
func NewCommentSyncEngine(rt *Runtime) *CommentSyncEngine {
	return &CommentSyncEngine{
		rt:  rt,
		log: rt.Logger(internalcommon.ComponentCommentSync),
	}
}

// Stream returns the comment stream.
func (e *CommentSyncEngine) Stream() types.Stream {
	return types.CommentStream
}

// Run performs one comment pass.
func (e *CommentSyncEngine) Run(ctx context.Context) (*PassResult, error) {
	log := passLogger(ctx, e.log)
	stream := e.Stream()
	start := time.Now()
	defer e.enter(log, StateIdle)

	e.enter(log, StateScan)
	from, height, err := scanRange(ctx, e.rt, stream)
	if err != nil {
		return nil, err
	}

	events, err := scanEvents(ctx, e.rt, stream, from, height)
	if err != nil {
		return nil, err
	}

	e.enter(log, StatePersist)
	created, skipped, err := e.persist(ctx, log, events)
	if err != nil {
		return nil, err
	}

	e.enter(log, StateCheckpointAdvance)
	checkpoint, err := advanceCheckpoint(ctx, log, e.rt, stream, from, height)
	if err != nil {
		return nil, err
	}

	metrics.PassDurationLog(stream.Tag, time.Since(start))
	log.Infof("comments pass done: from=%d, height=%d, events=%d, created=%d, skipped=%d, checkpoint=%d",
		from, height, len(events), created, skipped, checkpoint)

	return &PassResult{
		Stream:     stream.Tag,
		FromBlock:  from,
		Height:     height,
		Events:     len(events),
		Created:    created,
		Skipped:    skipped,
		Checkpoint: checkpoint,
	}, nil
}

func (e *CommentSyncEngine) persist(ctx context.Context, log *logger.Logger,
	events []chain.Event) (created, skipped int, err error) {
	var createdN, skippedN atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.rt.Concurrency)

	for _, event := range events {
		g.Go(func() error {
			comment, err := toComment(event)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				skippedN.Add(1)
				skip(log, types.CommentStream, err)
				return nil
			}

			isNew, err := e.rt.Store.FindOrCreateComment(gctx, comment)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				skippedN.Add(1)
				skip(log, types.CommentStream, err)
				return nil
			}

			if isNew {
				createdN.Add(1)
				metrics.RecordsCreatedInc(types.CommentStream.Tag)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	return int(createdN.Load()), int(skippedN.Load()), nil
}

func toComment(event chain.Event) (store.CommentEvent, error) {
	origin, err := event.Origin()
	if err != nil {
		return store.CommentEvent{}, err
	}

	payload, err := event.JSON()
	if err != nil {
		return store.CommentEvent{}, err
	}

	return store.CommentEvent{
		BlockNumber: event.BlockNumber,
		TxID:        event.TxHash,
		ArticleTxID: origin,
		Event:       payload,
	}, nil
}
