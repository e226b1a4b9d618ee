package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	internalcommon "github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/metrics"
	"github.com/goran-ethernal/BBSCache/internal/store"
	"github.com/goran-ethernal/BBSCache/internal/types"
	"github.com/goran-ethernal/BBSCache/pkg/chain"
)

// Compile-time check to ensure ArticleSyncEngine implements the Engine interface.
var _ Engine = (*ArticleSyncEngine)(nil)

// ArticleSyncEngine caches Posted events as articles and makes sure each one has a short link.
// A pass goes Reconcile, Scan, IssueAndPersist, CheckpointAdvance.
type ArticleSyncEngine struct {
	stateTracker

	rt  *Runtime
	log *logger.Logger
}

// NewArticleSyncEngine creates the article engine.
func NewArticleSyncEngine(rt *Runtime) *ArticleSyncEngine {
	return &ArticleSyncEngine{
		rt:  rt,
		log: rt.Logger(internalcommon.ComponentArticleSync),
	}
}

// Stream returns the article stream.
func (e *ArticleSyncEngine) Stream() types.Stream {
	return types.ArticleStream
}

// Run performs one article pass. Chain read failures abort the pass before the
// checkpoint moves. Link write and single record failures are logged and skipped.
func (e *ArticleSyncEngine) Run(ctx context.Context) (*PassResult, error) {
	log := passLogger(ctx, e.log)
	stream := e.Stream()
	start := time.Now()
	defer e.enter(log, StateIdle)

	result := &PassResult{Stream: stream.Tag}

	e.enter(log, StateReconcile)
	linked, err := e.reconcile(ctx, log)
	if err != nil {
		return nil, err
	}
	result.Linked = linked

	e.enter(log, StateScan)
	from, height, err := scanRange(ctx, e.rt, stream)
	if err != nil {
		return nil, err
	}
	result.FromBlock, result.Height = from, height

	events, err := scanEvents(ctx, e.rt, stream, from, height)
	if err != nil {
		return nil, err
	}
	result.Events = len(events)

	e.enter(log, StateIssueAndPersist)
	created, skipped, err := e.issueAndPersist(ctx, log, events)
	if err != nil {
		return nil, err
	}
	result.Created, result.Skipped = created, skipped

	e.enter(log, StateCheckpointAdvance)
	result.Checkpoint, err = advanceCheckpoint(ctx, log, e.rt, stream, from, height)
	if err != nil {
		return nil, err
	}

	metrics.PassDurationLog(stream.Tag, time.Since(start))
	log.Infof("articles pass done: from=%d, height=%d, events=%d, created=%d, skipped=%d, reconciled=%d, checkpoint=%d",
		from, height, result.Events, created, skipped, linked, result.Checkpoint)

	return result, nil
}

// reconcile copies links that appeared on chain to articles still missing one.
func (e *ArticleSyncEngine) reconcile(ctx context.Context, log *logger.Logger) (int, error) {
	articles, err := e.rt.Store.ArticlesWithoutLink(ctx)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		return 0, nil
	}

	log.Debugf("reconciling %d articles without a short link", len(articles))

	var linked atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.rt.Concurrency)

	for _, article := range articles {
		g.Go(func() error {
			code, err := e.rt.Issuer.Resolve(gctx, article.TxID)
			if err != nil {
				return err
			}
			if code == "" {
				return nil
			}

			changed, err := e.rt.Store.SetArticleLink(gctx, article.TxID, code)
			if err != nil {
				skip(log, types.ArticleStream, err)
				return nil
			}
			if changed {
				linked.Add(1)
				log.Infof("reconciled short link: tx=%s, code=%s", article.TxID.Hex(), code)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	return int(linked.Load()), nil
}

// issueAndPersist links and stores every distinct transaction of events.
func (e *ArticleSyncEngine) issueAndPersist(ctx context.Context, log *logger.Logger,
	events []chain.Event) (created, skipped int, err error) {
	var createdN, skippedN atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.rt.Concurrency)

	for _, event := range dedupeByTx(events) {
		g.Go(func() error {
			link, err := e.link(gctx, log, event.TxHash)
			if err != nil {
				return err
			}

			_, isNew, err := e.rt.Store.FindOrCreateArticle(gctx, store.Article{
				BlockNumber: event.BlockNumber,
				TxID:        event.TxHash,
				ShortLink:   link,
			})
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				skippedN.Add(1)
				skip(log, types.ArticleStream, err)
				return nil
			}

			if isNew {
				createdN.Add(1)
				metrics.RecordsCreatedInc(types.ArticleStream.Tag)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	return int(createdN.Load()), int(skippedN.Load()), nil
}

// link returns the on-chain short link of tx, issuing it when there is none.
// A failed issue is not an error: the article is stored without a link and reconciled later.
func (e *ArticleSyncEngine) link(ctx context.Context, log *logger.Logger, tx common.Hash) (string, error) {
	code, err := e.rt.Issuer.Resolve(ctx, tx)
	if err != nil {
		return "", err
	}
	if code != "" {
		return code, nil
	}

	code, err = e.rt.Issuer.Issue(ctx, tx)
	if err != nil {
		var writeErr *types.ChainWriteError
		if errors.As(err, &writeErr) && ctx.Err() == nil {
			log.Warnf("short link for %s left empty: %v", tx.Hex(), err)
			metrics.ErrorsInc(internalcommon.ComponentShortLink, metrics.SeverityWarning)
			return "", nil
		}
		return "", err
	}

	return code, nil
}

// dedupeByTx keeps the first event of every transaction, preserving order.
func dedupeByTx(events []chain.Event) []chain.Event {
	seen := make(map[common.Hash]struct{}, len(events))
	out := make([]chain.Event, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.TxHash]; ok {
			continue
		}
		seen[e.TxHash] = struct{}{}
		out = append(out, e)
	}
	return out
}

// skip logs a record that could not be persisted.
func skip(log *logger.Logger, stream types.Stream, err error) {
	metrics.RecordsSkippedInc(stream.Tag)
	metrics.ErrorsInc(internalcommon.ComponentStore, metrics.SeverityWarning)
	log.Errorf("skipping %s record: %v", stream.Tag, err)
}
