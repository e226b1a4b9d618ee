package api

import (
	"time"

	"github.com/goran-ethernal/BBSCache/internal/cache"
	"github.com/goran-ethernal/BBSCache/internal/checkpoint"
	"github.com/goran-ethernal/BBSCache/internal/store"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// PageParams are the pagination query parameters shared by list endpoints.
type PageParams struct {
	Limit  int `json:"limit" form:"limit"`
	Offset int `json:"offset" form:"offset"`
}

// PaginationResult contains pagination metadata.
type PaginationResult struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ArticlesResponse is a page of cached articles.
type ArticlesResponse struct {
	Articles   []*store.Article `json:"articles"`
	Pagination PaginationResult `json:"pagination"`
}

// CommentsResponse is a page of the comment events replying to one article.
type CommentsResponse struct {
	Article    string               `json:"article"`
	Comments   []*store.CommentEvent `json:"comments"`
	Pagination PaginationResult      `json:"pagination"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status      string                   `json:"status"`
	Timestamp   time.Time                `json:"timestamp"`
	Checkpoints []*checkpoint.Checkpoint `json:"checkpoints"`
	LastPass    *cache.PassReport        `json:"last_pass,omitempty"`
}

// StatsResponse holds the cache row counts.
type StatsResponse struct {
	store.Stats

	LastPassAt *time.Time `json:"last_pass_at,omitempty"`
}
