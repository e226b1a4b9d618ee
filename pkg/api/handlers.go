package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/goran-ethernal/BBSCache/internal/cache"
	"github.com/goran-ethernal/BBSCache/internal/checkpoint"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/shortlink"
	"github.com/goran-ethernal/BBSCache/internal/store"
)

// ArticleStore is the read side of the article and comment cache.
type ArticleStore interface {
	ListArticles(ctx context.Context, limit, offset int) ([]*store.Article, int, error)
	GetArticle(ctx context.Context, tx common.Hash) (*store.Article, error)
	ArticleByShortLink(ctx context.Context, link string) (*store.Article, error)
	CommentsForArticle(ctx context.Context, article common.Hash, limit, offset int) ([]*store.CommentEvent, int, error)
	Stats(ctx context.Context) (*store.Stats, error)
}

// CheckpointStore lists the stream checkpoints.
type CheckpointStore interface {
	List(ctx context.Context) ([]*checkpoint.Checkpoint, error)
}

// PassReporter returns the report of the last successful pass, nil before the first one.
type PassReporter interface {
	LastReport() *cache.PassReport
}

// Handler handles HTTP requests for the API.
type Handler struct {
	articles    ArticleStore
	checkpoints CheckpointStore
	reports     PassReporter
	log         *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(articles ArticleStore, checkpoints CheckpointStore, reports PassReporter, log *logger.Logger) *Handler {
	return &Handler{
		articles:    articles,
		checkpoints: checkpoints,
		reports:     reports,
		log:         log,
	}
}

// ListArticles returns a page of cached articles.
// @Summary List articles
// @Description Get cached articles, newest block first
// @Tags Articles
// @Produce json
// @Param limit query int false "Maximum number of articles to return" default(100)
// @Param offset query int false "Number of articles to skip" default(0)
// @Success 200 {object} ArticlesResponse "Articles with pagination info"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /articles [get]
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid query parameters: %v", err))
		return
	}

	articles, total, err := h.articles.ListArticles(r.Context(), params.Limit, params.Offset)
	if err != nil {
		h.log.Errorf("Failed to list articles: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list articles")
		return
	}

	respondJSON(w, http.StatusOK, ArticlesResponse{
		Articles:   nonNil(articles),
		Pagination: pagination(params, len(articles), total),
	})
}

// GetArticle returns one article by transaction hash.
// @Summary Get article
// @Description Get the cached article emitted by a transaction
// @Tags Articles
// @Produce json
// @Param txid path string true "Transaction hash of the Posted event"
// @Success 200 {object} store.Article "Article"
// @Failure 400 {object} ErrorResponse "Invalid transaction hash"
// @Failure 404 {object} ErrorResponse "Article not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /articles/{txid} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	tx, err := parseTxID(r.PathValue("txid"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articles.GetArticle(r.Context(), tx)
	if err != nil {
		h.respondLookupError(w, "article", err)
		return
	}

	respondJSON(w, http.StatusOK, article)
}

// GetComments returns the comment events replying to one article.
// @Summary Get article comments
// @Description Get the Replied events whose origin is the given article, in chain order
// @Tags Articles
// @Produce json
// @Param txid path string true "Transaction hash of the Posted event"
// @Param limit query int false "Maximum number of comments to return" default(100)
// @Param offset query int false "Number of comments to skip" default(0)
// @Success 200 {object} CommentsResponse "Comments with pagination info"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /articles/{txid}/comments [get]
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	tx, err := parseTxID(r.PathValue("txid"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	params, err := parsePageParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid query parameters: %v", err))
		return
	}

	comments, total, err := h.articles.CommentsForArticle(r.Context(), tx, params.Limit, params.Offset)
	if err != nil {
		h.log.Errorf("Failed to query comments of %s: %v", tx.Hex(), err)
		respondError(w, http.StatusInternalServerError, "failed to query comments")
		return
	}

	respondJSON(w, http.StatusOK, CommentsResponse{
		Article:    tx.Hex(),
		Comments:   nonNil(comments),
		Pagination: pagination(params, len(comments), total),
	})
}

// ResolveLink returns the article a short link points to.
// @Summary Resolve short link
// @Description Get the article a short link was issued for
// @Tags Links
// @Produce json
// @Param code path string true "Short link code"
// @Success 200 {object} store.Article "Article"
// @Failure 400 {object} ErrorResponse "Invalid short link"
// @Failure 404 {object} ErrorResponse "Short link not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /links/{code} [get]
func (h *Handler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" || len(code) > len([32]byte{}) {
		respondError(w, http.StatusBadRequest, "invalid short link")
		return
	}
	if _, err := shortlink.Decode(code); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articles.ArticleByShortLink(r.Context(), code)
	if err != nil {
		h.respondLookupError(w, "short link", err)
		return
	}

	respondJSON(w, http.StatusOK, article)
}

// ListCheckpoints returns the checkpoint of every stream.
// @Summary List checkpoints
// @Description Get the last processed block height of every stream
// @Tags Sync
// @Produce json
// @Success 200 {array} checkpoint.Checkpoint "Checkpoints"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /checkpoints [get]
func (h *Handler) ListCheckpoints(w http.ResponseWriter, r *http.Request) {
	checkpoints, err := h.checkpoints.List(r.Context())
	if err != nil {
		h.log.Errorf("Failed to list checkpoints: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list checkpoints")
		return
	}

	respondJSON(w, http.StatusOK, nonNil(checkpoints))
}

// GetStats returns the cache row counts.
// @Summary Get cache statistics
// @Description Get article, linked article and comment counts
// @Tags Sync
// @Produce json
// @Success 200 {object} StatsResponse "Cache statistics"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.articles.Stats(r.Context())
	if err != nil {
		h.log.Errorf("Failed to get stats: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	response := StatsResponse{Stats: *stats}
	if report := h.reports.LastReport(); report != nil {
		response.LastPassAt = &report.Started
	}

	respondJSON(w, http.StatusOK, response)
}

// GetLastPass returns the report of the last successful pass.
// @Summary Get last pass
// @Description Get the per stream results of the last successful pass
// @Tags Sync
// @Produce json
// @Success 200 {object} cache.PassReport "Pass report"
// @Failure 404 {object} ErrorResponse "No pass completed yet"
// @Router /passes/last [get]
func (h *Handler) GetLastPass(w http.ResponseWriter, r *http.Request) {
	report := h.reports.LastReport()
	if report == nil {
		respondError(w, http.StatusNotFound, "no pass completed yet")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Health returns the health status of the API and the sync streams.
// @Summary Health check
// @Description Check the database is reachable and report the stream checkpoints
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Healthy"
// @Failure 503 {object} HealthResponse "Database unreachable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		LastPass:  h.reports.LastReport(),
	}

	status := http.StatusOK
	checkpoints, err := h.checkpoints.List(r.Context())
	if err != nil {
		h.log.Warnf("Health check failed: %v", err)
		response.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	response.Checkpoints = nonNil(checkpoints)

	respondJSON(w, status, response)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, what+" not found")
		return
	}

	h.log.Errorf("Failed to get %s: %v", what, err)
	respondError(w, http.StatusInternalServerError, "failed to get "+what)
}

// parsePageParams parses the limit and offset query parameters.
func parsePageParams(r *http.Request) (*PageParams, error) {
	params := &PageParams{Limit: defaultLimit}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxLimit {
			return params, fmt.Errorf("invalid limit: must be between 1 and %d", maxLimit)
		}
		params.Limit = limit
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return params, fmt.Errorf("invalid offset: must be non-negative")
		}
		params.Offset = offset
	}

	return params, nil
}

// parseTxID accepts a 0x prefixed 32 byte hex transaction hash.
func parseTxID(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid transaction hash %q", s)
	}
	return common.BytesToHash(b), nil
}

func pagination(params *PageParams, n, total int) PaginationResult {
	return PaginationResult{
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: params.Offset+n < total,
	}
}

// nonNil keeps empty lists encoded as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// encode first so a failure can still change the status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
