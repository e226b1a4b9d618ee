package shortlink

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	internalcommon "github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/types"
	"github.com/goran-ethernal/BBSCache/pkg/chain"
)

// ErrReverted is the cause of a ChainWriteError whose receipt status was not successful.
var ErrReverted = errors.New("link transaction reverted")

// Issuer looks up and creates the on-chain short link of a transaction.
// It takes no lock beyond the limiter: the chain mapping stays the source of truth.
type Issuer struct {
	client  chain.Client
	limiter *Limiter
	log     *logger.Logger
}

// NewIssuer creates an issuer. Every write goes through limiter.
func NewIssuer(client chain.Client, limiter *Limiter, log *logger.Logger) *Issuer {
	return &Issuer{
		client:  client,
		limiter: limiter,
		log:     log.WithComponent(internalcommon.ComponentShortLink),
	}
}

// Resolve returns the short link stored on chain for tx, or "" when there is none.
func (i *Issuer) Resolve(ctx context.Context, tx common.Hash) (string, error) {
	slot, err := i.client.Link(ctx, tx)
	if err != nil {
		resolves.WithLabelValues(resultError).Inc()

		var queryErr *types.ChainQueryError
		if errors.As(err, &queryErr) {
			return "", err
		}
		return "", &types.ChainQueryError{Op: "links", Err: err}
	}

	code := SlotToCode(slot)
	if code == "" {
		resolves.WithLabelValues(resultMiss).Inc()
		return "", nil
	}

	resolves.WithLabelValues(resultHit).Inc()
	return code, nil
}

// Issue derives the short link of tx and writes it on chain.
// It returns the code once the receipt reports success, otherwise "" and a ChainWriteError.
func (i *Issuer) Issue(ctx context.Context, tx common.Hash) (string, error) {
	code := CodeForTx(tx)
	slot := Slot(code)

	var ok bool
	err := i.limiter.Do(ctx, func(ctx context.Context) error {
		var err error
		ok, err = i.client.SetLink(ctx, tx, slot)
		return err
	})
	if err != nil {
		writes.WithLabelValues(resultError).Inc()
		i.log.Warnf("failed to link %s to %s: %v", tx.Hex(), code, err)

		var writeErr *types.ChainWriteError
		if errors.As(err, &writeErr) {
			return "", err
		}
		return "", &types.ChainWriteError{TxID: tx, Err: err}
	}

	if !ok {
		writes.WithLabelValues(resultReverted).Inc()
		i.log.Warnf("link transaction for %s reverted", tx.Hex())
		return "", &types.ChainWriteError{TxID: tx, Err: ErrReverted}
	}

	writes.WithLabelValues(resultSuccess).Inc()
	i.log.Infof("added short link: tx=%s, code=%s", tx.Hex(), code)

	return code, nil
}
