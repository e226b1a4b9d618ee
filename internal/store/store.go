package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	internalcommon "github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/db"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/metrics"
	"github.com/goran-ethernal/BBSCache/internal/types"
)

const (
	articlesTable = "articles"
	commentsTable = "comment_events"

	articleColumns = `id, block_number, txid, short_link, created_at`
	commentColumns = `id, block_number, txid, article_txid, event, created_at`
)

// ErrNotFound is returned by single record lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Article is one transaction that emitted Posted.
// ShortLink is empty until the on-chain link is known.
type Article struct {
	ID          int64       `meddler:"id,pk"                   json:"-"`
	BlockNumber uint64      `meddler:"block_number"            json:"block_number"`
	TxID        common.Hash `meddler:"txid,hash"               json:"txid"`
	ShortLink   string      `meddler:"short_link,zeroisnull"   json:"short_link,omitempty"`
	CreatedAt   int64       `meddler:"created_at"              json:"created_at"`
}

// CommentEvent is one Replied event. Event holds the JSON encoded chain event.
type CommentEvent struct {
	ID          int64       `meddler:"id,pk"             json:"-"`
	BlockNumber uint64      `meddler:"block_number"      json:"block_number"`
	TxID        common.Hash `meddler:"txid,hash"         json:"txid"`
	ArticleTxID common.Hash `meddler:"article_txid,hash" json:"article_txid"`
	Event       string      `meddler:"event"             json:"event"`
	CreatedAt   int64       `meddler:"created_at"        json:"created_at"`
}

// Stats holds row counts of the cache tables.
type Stats struct {
	Articles         int `json:"articles"`
	ArticlesWithLink int `json:"articles_with_link"`
	Comments         int `json:"comments"`
}

// Store persists articles and comment events. Creation is idempotent: articles are
// keyed by txid and comment events by (block_number, txid, article_txid).
type Store struct {
	db  *db.DB
	log *logger.Logger
}

// New creates a store on an already migrated database.
func New(database *db.DB, log *logger.Logger) *Store {
	return &Store{
		db:  database,
		log: log.WithComponent(internalcommon.ComponentStore),
	}
}

// FindOrCreateArticle makes sure an article row exists for a.TxID and returns it,
// reporting whether this call created it.
// A non-empty a.ShortLink fills a missing link but never replaces an existing one.
func (s *Store) FindOrCreateArticle(ctx context.Context, a Article) (_ *Article, created bool, err error) {
	start := time.Now()
	defer func() { metrics.DBObserve(articlesTable, "find_or_create", start, err) }()
	key := a.TxID.Hex()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (block_number, txid, short_link, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (txid) DO NOTHING`,
		a.BlockNumber, key, nullString(a.ShortLink), time.Now().Unix(),
	)
	if err != nil {
		return nil, false, &types.PersistenceError{Table: articlesTable, Key: key, Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, &types.PersistenceError{Table: articlesTable, Key: key, Err: err}
	}
	created = n > 0

	if !created && a.ShortLink != "" {
		if _, err := s.SetArticleLink(ctx, a.TxID, a.ShortLink); err != nil {
			return nil, false, err
		}
	}

	stored, err := s.GetArticle(ctx, a.TxID)
	if err != nil {
		return nil, false, &types.PersistenceError{Table: articlesTable, Key: key, Err: err}
	}

	return stored, created, nil
}

// SetArticleLink stores link on the article of tx when it has none yet.
// It reports whether a row changed.
func (s *Store) SetArticleLink(ctx context.Context, tx common.Hash, link string) (_ bool, err error) {
	start := time.Now()
	defer func() { metrics.DBObserve(articlesTable, "set_link", start, err) }()

	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET short_link = $1 WHERE txid = $2 AND short_link IS NULL`,
		link, tx.Hex(),
	)
	if err != nil {
		return false, &types.PersistenceError{Table: articlesTable, Key: tx.Hex(), Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, &types.PersistenceError{Table: articlesTable, Key: tx.Hex(), Err: err}
	}

	if n > 0 {
		s.log.Debugf("article %s linked to %s", tx.Hex(), link)
	}

	return n > 0, nil
}

// ArticlesWithoutLink returns every article whose short link is still unknown.
func (s *Store) ArticlesWithoutLink(ctx context.Context) ([]*Article, error) {
	return s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE short_link IS NULL ORDER BY block_number, id`)
}

// GetArticle returns the article of tx or ErrNotFound.
func (s *Store) GetArticle(ctx context.Context, tx common.Hash) (*Article, error) {
	return s.queryArticle(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE txid = $1`, tx.Hex())
}

// ArticleByShortLink returns the article a short link points to or ErrNotFound.
// Codes come from a 4 byte hash prefix and may collide; the earliest article wins.
func (s *Store) ArticleByShortLink(ctx context.Context, link string) (*Article, error) {
	return s.queryArticle(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE short_link = $1
		ORDER BY block_number, id LIMIT 1`, link)
}

// ListArticles returns a page of articles, newest block first, and the total article count.
func (s *Store) ListArticles(ctx context.Context, limit, offset int) ([]*Article, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	articles, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY block_number DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

// FindOrCreateComment makes sure a row exists for the comment event and reports
// whether this call created it.
func (s *Store) FindOrCreateComment(ctx context.Context, c CommentEvent) (_ bool, err error) {
	start := time.Now()
	defer func() { metrics.DBObserve(commentsTable, "find_or_create", start, err) }()
	key := fmt.Sprintf("%d/%s/%s", c.BlockNumber, c.TxID.Hex(), c.ArticleTxID.Hex())

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO comment_events (block_number, txid, article_txid, event, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (block_number, txid, article_txid) DO NOTHING`,
		c.BlockNumber, c.TxID.Hex(), c.ArticleTxID.Hex(), c.Event, time.Now().Unix(),
	)
	if err != nil {
		return false, &types.PersistenceError{Table: commentsTable, Key: key, Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, &types.PersistenceError{Table: commentsTable, Key: key, Err: err}
	}

	return n > 0, nil
}

// CommentsForArticle returns a page of the comment events replying to article, in chain order,
// and their total count.
func (s *Store) CommentsForArticle(ctx context.Context, article common.Hash, limit, offset int) ([]*CommentEvent, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comment_events WHERE article_txid = $1`, article.Hex()).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comment_events WHERE article_txid = $1
		ORDER BY block_number, id LIMIT $2 OFFSET $3`,
		article.Hex(), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query %s: %w", commentsTable, err)
	}

	var comments []*CommentEvent
	if err := s.db.Meddler().ScanAll(rows, &comments); err != nil {
		return nil, 0, fmt.Errorf("failed to scan %s: %w", commentsTable, err)
	}

	return comments, total, nil
}

// Stats counts the rows of the cache tables.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM articles),
		(SELECT COUNT(*) FROM articles WHERE short_link IS NOT NULL),
		(SELECT COUNT(*) FROM comment_events)`).
		Scan(&stats.Articles, &stats.ArticlesWithLink, &stats.Comments)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &stats, nil
}

func (s *Store) queryArticle(ctx context.Context, query string, args ...any) (*Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", articlesTable, err)
	}

	var a Article
	if err := s.db.Meddler().ScanRow(rows, &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan %s: %w", articlesTable, err)
	}

	return &a, nil
}

func (s *Store) queryArticles(ctx context.Context, query string, args ...any) ([]*Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", articlesTable, err)
	}

	var articles []*Article
	if err := s.db.Meddler().ScanAll(rows, &articles); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", articlesTable, err)
	}

	return articles, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
