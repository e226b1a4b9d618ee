package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ChainQueryError is a failed read against the chain. It aborts the current pass
// and the checkpoint is left untouched.
type ChainQueryError struct {
	Op        string
	FromBlock uint64
	ToBlock   uint64
	Err       error
}

func (e *ChainQueryError) Error() string {
	if e.FromBlock == 0 && e.ToBlock == 0 {
		return fmt.Sprintf("chain query %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("chain query %s [%d, %d] failed: %v", e.Op, e.FromBlock, e.ToBlock, e.Err)
}

func (e *ChainQueryError) Unwrap() error {
	return e.Err
}

// ChainWriteError is a link transaction that failed to submit or reverted.
// The article keeps a NULL short link and is retried by reconciliation.
type ChainWriteError struct {
	TxID common.Hash
	Err  error
}

func (e *ChainWriteError) Error() string {
	return fmt.Sprintf("link write for %s failed: %v", e.TxID.Hex(), e.Err)
}

func (e *ChainWriteError) Unwrap() error {
	return e.Err
}

// PersistenceError is a failed write of a single record. The record is skipped.
type PersistenceError struct {
	Table string
	Key   string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %s failed: %v", e.Table, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
