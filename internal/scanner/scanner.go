package scanner

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/metrics"
	"github.com/goran-ethernal/BBSCache/internal/types"
	"github.com/goran-ethernal/BBSCache/pkg/chain"
)

// Window is an inclusive block range queried with a single call.
type Window struct {
	From uint64
	To   uint64
}

// Windows partitions [from, toHeight] into contiguous windows of step+1 blocks.
// The last window may end past toHeight.
func Windows(from, toHeight, step uint64) []Window {
	if from > toHeight {
		return nil
	}

	var windows []Window
	for start := from; start <= toHeight; {
		end := start + step
		if end < start {
			end = math.MaxUint64
		}
		windows = append(windows, Window{From: start, To: end})

		if end == math.MaxUint64 {
			break
		}
		start = end + 1
	}

	return windows
}

// Scanner collects contract events over a block range one window at a time.
type Scanner struct {
	client chain.Client
	log    *logger.Logger
}

// New creates a scanner on top of the chain client.
func New(client chain.Client, log *logger.Logger) *Scanner {
	return &Scanner{
		client: client,
		log:    log.WithComponent(common.ComponentScanner),
	}
}

// Scan returns every event named event in the windows covering [from, toHeight], in chain order.
// A failing window aborts the scan and no partial result is returned.
func (s *Scanner) Scan(ctx context.Context, event string, from, toHeight, step uint64) ([]chain.Event, error) {
	windows := Windows(from, toHeight, step)
	events := make([]chain.Event, 0)

	if len(windows) == 0 {
		s.log.Debugf("nothing to scan for %s: from=%d, height=%d", event, from, toHeight)
		return events, nil
	}

	start := time.Now()
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, &types.ChainQueryError{Op: event, FromBlock: w.From, ToBlock: w.To, Err: err}
		}

		found, err := s.client.QueryEvents(ctx, event, w.From, w.To)
		if err != nil {
			s.log.Errorf("window [%d, %d] of %s failed: %v", w.From, w.To, event, err)

			var queryErr *types.ChainQueryError
			if errors.As(err, &queryErr) {
				return nil, err
			}
			return nil, &types.ChainQueryError{Op: event, FromBlock: w.From, ToBlock: w.To, Err: err}
		}

		s.log.Debugf("window [%d, %d] of %s: %d events", w.From, w.To, event, len(found))
		events = append(events, found...)
	}

	metrics.WindowsScannedInc(event, len(windows))
	metrics.EventsScannedInc(event, len(events))

	s.log.Infof("scanned %s over [%d, %d] in %d windows: %d events in %v",
		event, windows[0].From, windows[len(windows)-1].To, len(windows), len(events), time.Since(start))

	return events, nil
}
