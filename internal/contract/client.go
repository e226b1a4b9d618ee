package contract

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	internalcommon "github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/rpc"
	internaltypes "github.com/goran-ethernal/BBSCache/internal/types"
	"github.com/goran-ethernal/BBSCache/pkg/chain"
	"github.com/goran-ethernal/BBSCache/pkg/config"
	pkgrpc "github.com/goran-ethernal/BBSCache/pkg/rpc"
)

// Compile-time check to ensure Client implements chain.Client interface.
var _ chain.Client = (*Client)(nil)

// Client talks to the BBS contract (events) and the BBSCache contract (links).
type Client struct {
	eth pkgrpc.EthClient
	log *logger.Logger

	bbsABI    abi.ABI
	bbsAddr   common.Address
	cache     *bind.BoundContract
	cacheAddr common.Address

	key     *ecdsa.PrivateKey
	owner   common.Address
	chainID *big.Int

	fromBlock      uint64
	finality       internaltypes.BlockFinality
	callTimeout    time.Duration
	receiptTimeout time.Duration
}

// NewClient builds the contract client. It resolves the chain id once so transactions can be signed.
func NewClient(ctx context.Context, eth pkgrpc.EthClient, cfg config.ChainConfig, log *logger.Logger) (*Client, error) {
	bbsABI, cacheABI, err := parseABIs()
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABIs: %w", err)
	}

	key, err := crypto.HexToECDSA(internalcommon.TrimHexPrefix(cfg.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	finality, err := internaltypes.ParseBlockFinality(cfg.Finality)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout.Duration)
	defer cancel()

	chainID, err := eth.ChainID(callCtx)
	if err != nil {
		return nil, &internaltypes.ChainQueryError{Op: "eth_chainId", Err: err}
	}

	cacheAddr := common.HexToAddress(cfg.CacheAddress)

	return &Client{
		eth:            eth,
		log:            log.WithComponent(internalcommon.ComponentChain),
		bbsABI:         bbsABI,
		bbsAddr:        common.HexToAddress(cfg.BBSAddress),
		cache:          bind.NewBoundContract(cacheAddr, cacheABI, eth, eth, eth),
		cacheAddr:      cacheAddr,
		key:            key,
		owner:          crypto.PubkeyToAddress(key.PublicKey),
		chainID:        chainID,
		fromBlock:      cfg.FromBlock,
		finality:       finality,
		callTimeout:    cfg.CallTimeout.Duration,
		receiptTimeout: cfg.ReceiptTimeout.Duration,
	}, nil
}

// FromBlock is the configured first block of the BBS contract.
func (c *Client) FromBlock() uint64 {
	return c.fromBlock
}

// Owner is the address link transactions are sent from.
func (c *Client) Owner() common.Address {
	return c.owner
}

// CurrentHeight returns the number of the header selected by the configured finality.
func (c *Client) CurrentHeight(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	header, err := c.eth.HeaderByNumber(ctx, c.finality.BlockTag())
	if err != nil {
		return 0, &internaltypes.ChainQueryError{Op: "header:" + c.finality.String(), Err: err}
	}
	if header == nil || header.Number == nil {
		return 0, &internaltypes.ChainQueryError{Op: "header:" + c.finality.String(), Err: ethereum.NotFound}
	}
	return header.Number.Uint64(), nil
}

// QueryEvents returns the named BBS events in [from, to] in chain order.
// Providers that refuse the range with a "too many results" error get the range split in two.
func (c *Client) QueryEvents(ctx context.Context, name string, from, to uint64) ([]chain.Event, error) {
	event, ok := c.bbsABI.Events[name]
	if !ok {
		return nil, fmt.Errorf("unknown BBS event %q", name)
	}

	logs, err := c.getLogs(ctx, event.ID, from, to)
	if err != nil {
		return nil, &internaltypes.ChainQueryError{Op: name, FromBlock: from, ToBlock: to, Err: err}
	}

	events := make([]chain.Event, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		e, err := decodeEvent(c.bbsABI, name, l)
		if err != nil {
			return nil, &internaltypes.ChainQueryError{Op: name, FromBlock: from, ToBlock: to, Err: err}
		}
		events = append(events, e)
	}
	return events, nil
}

func (c *Client) getLogs(ctx context.Context, topic common.Hash, from, to uint64) ([]types.Log, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	logs, err := c.eth.GetLogs(callCtx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{c.bbsAddr},
		Topics:    [][]common.Hash{{topic}},
	})
	cancel()
	if err == nil {
		return logs, nil
	}

	tooMany, msg := rpc.IsTooManyResultsError(err)
	if !tooMany || from >= to {
		return nil, err
	}

	mid := from + (to-from)/2
	if _, suggestedTo, ok := rpc.ParseSuggestedBlockRange(msg); ok && suggestedTo >= from && suggestedTo < to {
		mid = suggestedTo
	}
	c.log.Debugf("splitting [%d, %d] at %d: %s", from, to, mid, msg)

	left, err := c.getLogs(ctx, topic, from, mid)
	if err != nil {
		return nil, err
	}
	right, err := c.getLogs(ctx, topic, mid+1, to)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

// Link reads links(tx) from the BBSCache contract.
func (c *Client) Link(ctx context.Context, tx common.Hash) ([32]byte, error) {
	var out []any
	if err := c.Call(ctx, methodLinks, &out, tx); err != nil {
		return [32]byte{}, &internaltypes.ChainQueryError{Op: methodLinks, Err: err}
	}
	if len(out) != 1 {
		return [32]byte{}, &internaltypes.ChainQueryError{
			Op:  methodLinks,
			Err: fmt.Errorf("expected 1 return value, got %d", len(out)),
		}
	}

	slot, ok := out[0].([32]byte)
	if !ok {
		return [32]byte{}, &internaltypes.ChainQueryError{
			Op:  methodLinks,
			Err: fmt.Errorf("unexpected return type %T", out[0]),
		}
	}
	return slot, nil
}

// SetLink sends link(tx, slot) and waits for the receipt.
func (c *Client) SetLink(ctx context.Context, tx common.Hash, slot [32]byte) (bool, error) {
	receipt, err := c.Transact(ctx, methodLink, tx, slot)
	if err != nil {
		return false, &internaltypes.ChainWriteError{TxID: tx, Err: err}
	}
	return receipt.Status == types.ReceiptStatusSuccessful, nil
}

// Call runs a read-only BBSCache method as the owner.
func (c *Client) Call(ctx context.Context, method string, out *[]any, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	return c.cache.Call(&bind.CallOpts{Context: ctx, From: c.owner}, out, method, args...)
}

// Transact signs and sends a BBSCache method call, then waits until it is mined.
func (c *Client) Transact(ctx context.Context, method string, args ...any) (*types.Receipt, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	opts.Context = sendCtx
	tx, err := c.cache.Transact(opts, method, args...)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}

	c.log.Debugf("sent %s transaction %s", method, tx.Hash().Hex())

	waitCtx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, c.eth, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("receipt for %s not available after %v: %w", tx.Hash().Hex(), c.receiptTimeout, err)
		}
		return nil, fmt.Errorf("failed to wait for %s: %w", tx.Hash().Hex(), err)
	}
	return receipt, nil
}
