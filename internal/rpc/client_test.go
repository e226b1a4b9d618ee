package rpc

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	internalcommon "github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/pkg/config"
	pkgrpc "github.com/goran-ethernal/BBSCache/pkg/rpc"
)

// TestClientImplementsInterface verifies that Client implements the EthClient interface.
func TestClientImplementsInterface(t *testing.T) {
	var _ pkgrpc.EthClient = (*Client)(nil)
}

// fakeEth serves the eth namespace over an in-process RPC server.
type fakeEth struct {
	head           uint64
	failLogs       atomic.Int32
	logCalls       atomic.Int32
	requestedBlock atomic.Int64
}

func (f *fakeEth) GetBlockByNumber(_ context.Context, number rpc.BlockNumber, _ bool) (*types.Header, error) {
	f.requestedBlock.Store(int64(number))

	n := f.head
	if number >= 0 {
		n = uint64(number)
	}
	return &types.Header{
		Number:     new(big.Int).SetUint64(n),
		Difficulty: big.NewInt(0),
		Time:       1700000000,
	}, nil
}

// ChainId is served as eth_chainId.
func (f *fakeEth) ChainId(context.Context) (*hexutil.Big, error) { //nolint:revive
	return (*hexutil.Big)(big.NewInt(1337)), nil
}

func (f *fakeEth) GetLogs(_ context.Context, _ map[string]any) ([]types.Log, error) {
	f.logCalls.Add(1)
	if f.failLogs.Load() > 0 {
		f.failLogs.Add(-1)
		return nil, errors.New("503 service unavailable")
	}
	return []types.Log{{
		Address:     common.HexToAddress("0x663002C4E41E5d04860a76955A7B9B8234475952"),
		Topics:      []common.Hash{common.HexToHash("0x01")},
		Data:        []byte{},
		BlockNumber: 7,
		TxHash:      common.HexToHash("0xaa"),
		BlockHash:   common.HexToHash("0xbb"),
	}}, nil
}

func newTestClient(t *testing.T, svc *fakeEth, opts ...Option) *Client {
	t.Helper()

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", svc))
	t.Cleanup(server.Stop)

	client := newClient(ethclient.NewClient(rpc.DialInProc(server)), opts...)
	t.Cleanup(client.Close)
	return client
}

func TestClient_ChainIDThroughInterface(t *testing.T) {
	var eth pkgrpc.EthClient = newTestClient(t, &fakeEth{})

	id, err := eth.ChainID(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1337), id.Int64())
}

func testRetryConfig() *config.RetryConfig {
	return &config.RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    internalcommon.NewDuration(time.Millisecond),
		MaxBackoff:        internalcommon.NewDuration(5 * time.Millisecond),
		BackoffMultiplier: 2,
	}
}

func TestClient_HeaderHelpers(t *testing.T) {
	svc := &fakeEth{head: 1234}
	client := newTestClient(t, svc)
	ctx := context.Background()

	header, err := client.GetLatestBlockHeader(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1234), header.Number.Uint64())
	require.Equal(t, int64(rpc.LatestBlockNumber), svc.requestedBlock.Load())

	_, err = client.GetSafeBlockHeader(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(rpc.SafeBlockNumber), svc.requestedBlock.Load())

	_, err = client.GetFinalizedBlockHeader(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(rpc.FinalizedBlockNumber), svc.requestedBlock.Load())

	header, err = client.GetBlockHeader(ctx, 99)
	require.NoError(t, err)
	require.Equal(t, uint64(99), header.Number.Uint64())
}

func TestClient_GetLogsRetriesTransientErrors(t *testing.T) {
	svc := &fakeEth{}
	svc.failLogs.Store(2)
	client := newTestClient(t, svc, WithRetry(testRetryConfig()))

	logs, err := client.GetLogs(context.Background(), ethereum.FilterQuery{
		FromBlock: big.NewInt(1),
		ToBlock:   big.NewInt(10),
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, uint64(7), logs[0].BlockNumber)
	require.Equal(t, int32(3), svc.logCalls.Load())
}

func TestClient_GetLogsWithoutRetry(t *testing.T) {
	svc := &fakeEth{}
	svc.failLogs.Store(1)
	client := newTestClient(t, svc)

	_, err := client.GetLogs(context.Background(), ethereum.FilterQuery{})
	require.ErrorContains(t, err, "503")
	require.Equal(t, int32(1), svc.logCalls.Load())
}

func TestClient_ReadLimit(t *testing.T) {
	svc := &fakeEth{head: 1}
	client := newTestClient(t, svc, WithReadLimit(20))
	require.NotNil(t, client.limiter)

	start := time.Now()
	for range 3 {
		_, err := client.GetLatestBlockHeader(context.Background())
		require.NoError(t, err)
	}
	// burst of one, then 50ms per token
	require.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)

	require.Nil(t, newTestClient(t, svc, WithReadLimit(0)).limiter)
}

func TestClient_CallMetrics(t *testing.T) {
	svc := &fakeEth{}
	svc.failLogs.Store(1)
	client := newTestClient(t, svc)

	calls := rpcCalls.WithLabelValues(kindRead, "eth_getLogs")
	failures := rpcFailures.WithLabelValues(kindRead, "eth_getLogs", reasonUnavailable)
	callsBefore := promtestutil.ToFloat64(calls)
	failuresBefore := promtestutil.ToFloat64(failures)

	_, err := client.GetLogs(context.Background(), ethereum.FilterQuery{})
	require.Error(t, err)
	_, err = client.GetLogs(context.Background(), ethereum.FilterQuery{})
	require.NoError(t, err)

	require.InDelta(t, 2, promtestutil.ToFloat64(calls)-callsBefore, 0)
	require.InDelta(t, 1, promtestutil.ToFloat64(failures)-failuresBefore, 0)
}

func TestErrorType(t *testing.T) {
	require.Equal(t, "timeout", errorType(context.DeadlineExceeded))
	require.Equal(t, "canceled", errorType(context.Canceled))
	require.Equal(t, "rate_limited", errorType(errors.New("429 too many requests")))
	require.Equal(t, "other", errorType(errors.New("execution reverted")))
}
