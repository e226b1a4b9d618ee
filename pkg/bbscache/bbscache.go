// Package bbscache is the embeddable entry point of the cache. A host process builds a
// Cache once and calls RunPass whenever it wants the cache brought up to date; the package
// never schedules passes on its own.
package bbscache

import (
	"context"
	"errors"
	"fmt"

	"github.com/goran-ethernal/BBSCache/internal/cache"
	"github.com/goran-ethernal/BBSCache/internal/checkpoint"
	"github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/contract"
	"github.com/goran-ethernal/BBSCache/internal/db"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/migrations"
	"github.com/goran-ethernal/BBSCache/internal/rpc"
	"github.com/goran-ethernal/BBSCache/internal/store"
	"github.com/goran-ethernal/BBSCache/pkg/chain"
	"github.com/goran-ethernal/BBSCache/pkg/config"
)

// PassReport is the outcome of one pass.
type PassReport = cache.PassReport

// Cache owns the chain client, the database and the runtime shared by every pass.
type Cache struct {
	cfg    *config.Config
	db     *db.DB
	rpc    *rpc.Client
	runner *cache.Runner
	rt     *cache.Runtime
	log    *logger.Logger
}

// New dials the RPC endpoint, opens and migrates the database and wires the engines.
// cfg must already have defaults applied and be validated.
func New(ctx context.Context, cfg *config.Config) (*Cache, error) {
	log := logger.NewComponentLoggerFromConfig(common.ComponentRunner, cfg.LoggerConfig())

	opts := []rpc.Option{rpc.WithReadLimit(cfg.Chain.ReadsPerSecond)}
	if cfg.Chain.Retry != nil {
		opts = append(opts, rpc.WithRetry(cfg.Chain.Retry))
	}

	rpcClient, err := rpc.NewClient(ctx, cfg.Chain.RPCURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Chain.RPCURL, err)
	}

	chainClient, err := contract.NewClient(ctx, rpcClient, cfg.Chain,
		logger.NewComponentLoggerFromConfig(common.ComponentChain, cfg.LoggerConfig()))
	if err != nil {
		rpcClient.Close()
		return nil, err
	}

	database, err := openDB(cfg, log)
	if err != nil {
		rpcClient.Close()
		return nil, err
	}

	c := NewWithClient(chainClient, database, cfg)
	c.rpc = rpcClient

	log.Infof("cache ready: bbs=%s, cache=%s, owner=%s, step=%d",
		cfg.Chain.BBSAddress, cfg.Chain.CacheAddress, chainClient.Owner().Hex(), cfg.Sync.Step)

	return c, nil
}

// NewWithClient builds a cache on top of an existing chain client and migrated database.
func NewWithClient(client chain.Client, database *db.DB, cfg *config.Config) *Cache {
	rt := cache.NewRuntime(client, database, cfg)

	return &Cache{
		cfg:    cfg,
		db:     database,
		runner: cache.NewRunner(rt),
		rt:     rt,
		log:    rt.Logger(common.ComponentRunner),
	}
}

// OpenDB opens the configured database and brings its schema up to date.
func OpenDB(cfg *config.Config) (*db.DB, error) {
	return openDB(cfg, logger.NewComponentLoggerFromConfig(common.ComponentStore, cfg.LoggerConfig()))
}

func openDB(cfg *config.Config, log *logger.Logger) (*db.DB, error) {
	database, err := db.Open(cfg.DB)
	if err != nil {
		return nil, err
	}

	if err := migrations.EnsureSchema(log, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return database, nil
}

// RunPass brings the cache up to date: articles first, then comments.
func (c *Cache) RunPass(ctx context.Context) (*PassReport, error) {
	return c.runner.RunPass(ctx)
}

// LastReport returns the report of the last successful pass.
func (c *Cache) LastReport() *PassReport {
	return c.runner.LastReport()
}

// Store gives read access to the cached articles and comments.
func (c *Cache) Store() *store.Store {
	return c.rt.Store
}

// Checkpoints gives read access to the stream checkpoints.
func (c *Cache) Checkpoints() *checkpoint.Store {
	return c.rt.Checkpoints
}

// DB returns the underlying database handle.
func (c *Cache) DB() *db.DB {
	return c.db
}

// Close releases the database and the RPC connection.
func (c *Cache) Close() error {
	var errs []error
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	if c.rpc != nil {
		c.rpc.Close()
	}
	return errors.Join(errs...)
}
