package cache

import (
	"github.com/goran-ethernal/BBSCache/internal/checkpoint"
	"github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/db"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/scanner"
	"github.com/goran-ethernal/BBSCache/internal/shortlink"
	"github.com/goran-ethernal/BBSCache/internal/store"
	"github.com/goran-ethernal/BBSCache/pkg/chain"
	"github.com/goran-ethernal/BBSCache/pkg/config"
)

// Runtime is everything a pass works with. It is built once and shared by both engines
// and by every pass, so the write limiter is shared too.
type Runtime struct {
	Chain       chain.Client
	Scanner     *scanner.Scanner
	Checkpoints *checkpoint.Store
	Store       *store.Store
	Issuer      *shortlink.Issuer
	Maintenance db.Maintenance

	// Step is the window width and the checkpoint rollback
	Step uint64
	// Concurrency bounds the tasks of one pass
	Concurrency int

	loggers func(component string) *logger.Logger
}

// NewRuntime wires the pass collaborators on top of an open, migrated database.
func NewRuntime(client chain.Client, database *db.DB, cfg *config.Config) *Runtime {
	loggers := func(component string) *logger.Logger {
		return logger.NewComponentLoggerFromConfig(component, cfg.LoggerConfig())
	}

	limiter := shortlink.NewLimiterFromConfig(cfg.ShortLink)

	return &Runtime{
		Chain:       client,
		Scanner:     scanner.New(client, loggers(common.ComponentScanner)),
		Checkpoints: checkpoint.NewStore(database, loggers(common.ComponentCheckpoint)),
		Store:       store.New(database, loggers(common.ComponentStore)),
		Issuer:      shortlink.NewIssuer(client, limiter, loggers(common.ComponentShortLink)),
		Maintenance: db.NewMaintenance(database, cfg.Maintenance, loggers(common.ComponentMaintenance)),
		Step:        cfg.Sync.Step,
		Concurrency: cfg.Sync.Concurrency,
		loggers:     loggers,
	}
}

// Logger returns the logger of component.
func (rt *Runtime) Logger(component string) *logger.Logger {
	if rt.loggers == nil {
		return logger.NewNopLogger().WithComponent(component)
	}
	return rt.loggers(component)
}
