package checkpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/db"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/metrics"
)

const table = "checkpoints"

// Checkpoint is the last processed block height of one stream.
// A nil LastBlockHeight means the stream has never completed a pass.
type Checkpoint struct {
	Tag             string  `meddler:"tag"              json:"tag"`
	LastBlockHeight *uint64 `meddler:"last_block_height" json:"last_block_height"`
	UpdatedAt       int64   `meddler:"updated_at"       json:"updated_at"`
}

// Store keeps one checkpoint row per stream tag.
type Store struct {
	db  *db.DB
	log *logger.Logger
}

// NewStore creates a checkpoint store on an already migrated database.
func NewStore(database *db.DB, log *logger.Logger) *Store {
	return &Store{
		db:  database,
		log: log.WithComponent(common.ComponentCheckpoint),
	}
}

// Get returns the stored height for tag, creating an empty checkpoint when the tag is unseen.
func (s *Store) Get(ctx context.Context, tag string) (*uint64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (tag, last_block_height, updated_at) VALUES ($1, NULL, $2)
		ON CONFLICT (tag) DO NOTHING`,
		tag, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint %s: %w", tag, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.log.Infof("created checkpoint: tag=%s", tag)
	}

	cp, err := s.get(ctx, tag)
	if err != nil {
		return nil, err
	}

	if cp.LastBlockHeight == nil {
		s.log.Debugf("retrieved checkpoint: tag=%s, height=<nil>", tag)
	} else {
		s.log.Debugf("retrieved checkpoint: tag=%s, height=%d", tag, *cp.LastBlockHeight)
	}

	return cp.LastBlockHeight, nil
}

// Set stores height as the checkpoint of tag.
func (s *Store) Set(ctx context.Context, tag string, height uint64) (err error) {
	start := time.Now()
	defer func() { metrics.DBObserve(table, "set", start, err) }()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (tag, last_block_height, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (tag) DO UPDATE SET
			last_block_height = excluded.last_block_height,
			updated_at = excluded.updated_at`,
		tag, height, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint %s: %w", tag, err)
	}

	s.log.Infof("saved checkpoint: tag=%s, height=%d", tag, height)

	return nil
}

// List returns every checkpoint ordered by tag.
func (s *Store) List(ctx context.Context) ([]*Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag, last_block_height, updated_at FROM checkpoints ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}

	var checkpoints []*Checkpoint
	if err := s.db.Meddler().ScanAll(rows, &checkpoints); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", table, err)
	}

	return checkpoints, nil
}

func (s *Store) get(ctx context.Context, tag string) (*Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag, last_block_height, updated_at FROM checkpoints WHERE tag = $1`, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkpoint %s: %w", tag, err)
	}

	var cp Checkpoint
	if err := s.db.Meddler().ScanRow(rows, &cp); err != nil {
		return nil, fmt.Errorf("failed to get checkpoint %s: %w", tag, err)
	}

	return &cp, nil
}
