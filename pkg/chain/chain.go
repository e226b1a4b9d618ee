// Package chain defines what the cache needs from the blockchain: event queries over
// block ranges, the current height, and the BBSCache links mapping.
package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Client is the chain collaborator used by the sync engines.
type Client interface {
	// CurrentHeight returns the height of the header selected by the configured finality.
	CurrentHeight(ctx context.Context) (uint64, error)

	// FromBlock is the block scanning starts at when a stream has no checkpoint.
	FromBlock() uint64

	// QueryEvents returns every event with the given name emitted in [from, to], in chain order.
	QueryEvents(ctx context.Context, name string, from, to uint64) ([]Event, error)

	// Link reads links(tx) from the BBSCache contract. An all-zero slot means no link.
	Link(ctx context.Context, tx common.Hash) ([32]byte, error)

	// SetLink sends link(tx, slot) signed by the contract owner and waits for the receipt.
	// It reports whether the receipt status was successful.
	SetLink(ctx context.Context, tx common.Hash, slot [32]byte) (bool, error)
}

// Event is a decoded contract event.
type Event struct {
	Name         string         `json:"event"`
	Address      common.Address `json:"address"`
	BlockNumber  uint64         `json:"blockNumber"`
	BlockHash    common.Hash    `json:"blockHash"`
	TxHash       common.Hash    `json:"transactionHash"`
	TxIndex      uint           `json:"transactionIndex"`
	LogIndex     uint           `json:"logIndex"`
	ReturnValues map[string]any `json:"returnValues"`
}

// Origin returns the article transaction a Replied event points to.
func (e Event) Origin() (common.Hash, error) {
	v, ok := e.ReturnValues["origin"]
	if !ok {
		return common.Hash{}, fmt.Errorf("event %s in tx %s has no origin", e.Name, e.TxHash.Hex())
	}

	switch origin := v.(type) {
	case common.Hash:
		return origin, nil
	case [32]byte:
		return common.Hash(origin), nil
	case string:
		return common.HexToHash(origin), nil
	default:
		return common.Hash{}, fmt.Errorf("event %s in tx %s: unexpected origin type %T", e.Name, e.TxHash.Hex(), v)
	}
}

// JSON returns the serialized form stored alongside comment events.
func (e Event) JSON() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
