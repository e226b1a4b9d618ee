package rpc

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"github.com/goran-ethernal/BBSCache/pkg/config"
	pkgrpc "github.com/goran-ethernal/BBSCache/pkg/rpc"
)

// Compile-time check to ensure Client implements pkgrpc.EthClient interface.
var _ pkgrpc.EthClient = (*Client)(nil)

// Client wraps the go-ethereum client with retries, an optional read throttle and metrics.
// Reads go through retryWithBackoff. Transaction submission is never retried here.
type Client struct {
	*ethclient.Client

	retry   *config.RetryConfig
	limiter *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithRetry enables exponential backoff for idempotent reads.
func WithRetry(cfg *config.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithReadLimit throttles reads to perSecond requests. Values <= 0 disable the throttle.
func WithReadLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewClient creates a new RPC client connected to the given endpoint.
func NewClient(ctx context.Context, endpoint string, opts ...Option) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return newClient(ethclient.NewClient(rpcClient), opts...), nil
}

func newClient(eth *ethclient.Client, opts ...Option) *Client {
	c := &Client{Client: eth}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetLogs retrieves logs matching the given filter query.
func (c *Client) GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return c.FilterLogs(ctx, query)
}

// FilterLogs executes eth_getLogs with retries.
func (c *Client) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	err := c.read(ctx, "eth_getLogs", func() error {
		var err error
		logs, err = c.Client.FilterLogs(ctx, query)
		return err
	})
	return logs, err
}

// CallContract executes eth_call with retries.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out []byte
	err := c.read(ctx, "eth_call", func() error {
		var err error
		out, err = c.Client.CallContract(ctx, msg, blockNumber)
		return err
	})
	return out, err
}

// HeaderByNumber fetches a header with retries. A nil number means the latest block.
func (c *Client) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	var header *types.Header
	err := c.read(ctx, "eth_getBlockByNumber", func() error {
		var err error
		header, err = c.Client.HeaderByNumber(ctx, number)
		return err
	})
	return header, err
}

// TransactionReceipt fetches a receipt. ethereum.NotFound is returned untouched so receipt polling keeps going.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	const method = "eth_getTransactionReceipt"

	start := time.Now()
	receipt, err := c.Client.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		observeCall(kindReceipt, method, start, nil)
	} else {
		observeCall(kindReceipt, method, start, err)
	}
	return receipt, err
}

// SendTransaction submits a signed transaction exactly once.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	const method = "eth_sendRawTransaction"

	start := time.Now()
	err := c.Client.SendTransaction(ctx, tx)
	observeCall(kindWrite, method, start, err)
	return err
}

// GetBlockHeader retrieves the header for a specific block number.
func (c *Client) GetBlockHeader(ctx context.Context, blockNum uint64) (*types.Header, error) {
	return c.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNum))
}

// GetLatestBlockHeader retrieves the latest block header.
func (c *Client) GetLatestBlockHeader(ctx context.Context) (*types.Header, error) {
	return c.HeaderByNumber(ctx, nil)
}

// GetFinalizedBlockHeader retrieves the finalized block header.
func (c *Client) GetFinalizedBlockHeader(ctx context.Context) (*types.Header, error) {
	return c.HeaderByNumber(ctx, big.NewInt(int64(rpc.FinalizedBlockNumber)))
}

// GetSafeBlockHeader retrieves the safe block header.
func (c *Client) GetSafeBlockHeader(ctx context.Context) (*types.Header, error) {
	return c.HeaderByNumber(ctx, big.NewInt(int64(rpc.SafeBlockNumber)))
}

// read throttles, retries and instruments an idempotent call.
func (c *Client) read(ctx context.Context, method string, fn func() error) error {
	return withRetry(ctx, c.retry, method, func() error {
		if c.limiter != nil {
			waitStart := time.Now()
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			rpcThrottled.Observe(time.Since(waitStart).Seconds())
		}

		start := time.Now()
		err := fn()
		observeCall(kindRead, method, start, err)
		return err
	})
}

func errorType(err error) string {
	reason, _ := classify(err)
	return reason
}
