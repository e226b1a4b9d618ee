package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/goran-ethernal/BBSCache/internal/cache"
	"github.com/goran-ethernal/BBSCache/internal/checkpoint"
	internalcommon "github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/store"
	"github.com/goran-ethernal/BBSCache/internal/testutil"
	"github.com/goran-ethernal/BBSCache/pkg/config"
)

type staticReporter struct {
	report *cache.PassReport
}

func (s *staticReporter) LastReport() *cache.PassReport {
	return s.report
}

type fixture struct {
	store       *store.Store
	checkpoints *checkpoint.Store
	reporter    *staticReporter
	handler     http.Handler
}

var (
	articleTx = common.HexToHash("0x12345678cc")
	commentTx = common.HexToHash("0xc1")
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := testutil.NewTestDB(t, "api.sqlite")
	log := logger.NewNopLogger()

	f := &fixture{
		store:       store.New(database, log),
		checkpoints: checkpoint.NewStore(database, log),
		reporter:    &staticReporter{},
	}

	cfg := &config.APIConfig{
		Enabled:       true,
		ListenAddress: "localhost:0",
		ReadTimeout:   internalcommon.NewDuration(5 * time.Second),
		WriteTimeout:  internalcommon.NewDuration(5 * time.Second),
		IdleTimeout:   internalcommon.NewDuration(time.Minute),
	}
	f.handler = NewServer(cfg, f.store, f.checkpoints, f.reporter, log).Handler()

	return f
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, _, err := f.store.FindOrCreateArticle(ctx, store.Article{BlockNumber: 10, TxID: articleTx, ShortLink: "0W9t3s"})
	require.NoError(t, err)
	_, _, err = f.store.FindOrCreateArticle(ctx, store.Article{BlockNumber: 11, TxID: common.HexToHash("0xa2")})
	require.NoError(t, err)

	_, err = f.store.FindOrCreateComment(ctx, store.CommentEvent{
		BlockNumber: 12,
		TxID:        commentTx,
		ArticleTxID: articleTx,
		Event:       `{"event":"Replied"}`,
	})
	require.NoError(t, err)

	require.NoError(t, f.checkpoints.Set(ctx, "articles", 7))
}

func (f *fixture) get(t *testing.T, path string, out any) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	require.Equal(t, "application/json", w.Header().Get("Content-Type"), path)
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, http.StatusCreated, map[string]string{"key": "value"})

	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{"key":"value"}`, w.Body.String())
}

func TestRespondJSON_EncodingError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, http.StatusOK, math.Inf(1))

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRespondError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondError(w, http.StatusNotFound, "article not found")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, ErrorResponse{Error: "Not Found", Message: "article not found", Code: http.StatusNotFound}, resp)
}

func TestParsePageParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		want    PageParams
		wantErr bool
	}{
		{name: "defaults", query: "", want: PageParams{Limit: defaultLimit}},
		{name: "limit and offset", query: "?limit=10&offset=20", want: PageParams{Limit: 10, Offset: 20}},
		{name: "max limit", query: "?limit=1000", want: PageParams{Limit: maxLimit}},
		{name: "zero limit", query: "?limit=0", wantErr: true},
		{name: "limit too large", query: "?limit=1001", wantErr: true},
		{name: "limit not a number", query: "?limit=abc", wantErr: true},
		{name: "negative offset", query: "?offset=-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params, err := parsePageParams(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, *params)
		})
	}
}

func TestParseTxID(t *testing.T) {
	t.Parallel()

	tx, err := parseTxID(articleTx.Hex())
	require.NoError(t, err)
	require.Equal(t, articleTx, tx)

	for _, bad := range []string{"", "0x", "12345678", "0x1234", articleTx.Hex() + "00", "0xzz"} {
		_, err := parseTxID(bad)
		require.Error(t, err, bad)
	}
}

func TestHandler_ListArticles(t *testing.T) {
	f := newFixture(t)

	var empty ArticlesResponse
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/articles", &empty))
	require.NotNil(t, empty.Articles)
	require.Empty(t, empty.Articles)

	f.seed(t)

	var resp ArticlesResponse
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/articles?limit=1", &resp))
	require.Len(t, resp.Articles, 1)
	require.Equal(t, uint64(11), resp.Articles[0].BlockNumber)
	require.Equal(t, PaginationResult{Total: 2, Limit: 1, Offset: 0, HasMore: true}, resp.Pagination)

	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/articles?limit=1&offset=1", &resp))
	require.Equal(t, articleTx, resp.Articles[0].TxID)
	require.Equal(t, "0W9t3s", resp.Articles[0].ShortLink)
	require.False(t, resp.Pagination.HasMore)

	var errResp ErrorResponse
	require.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/articles?limit=5000", &errResp))
	require.Contains(t, errResp.Message, "invalid limit")
}

func TestHandler_GetArticle(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	var article store.Article
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/articles/"+articleTx.Hex(), &article))
	require.Equal(t, uint64(10), article.BlockNumber)
	require.Equal(t, "0W9t3s", article.ShortLink)

	var errResp ErrorResponse
	require.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/articles/"+common.HexToHash("0xdead").Hex(), &errResp))
	require.Equal(t, "article not found", errResp.Message)

	require.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/articles/0x1234", &errResp))
}

func TestHandler_GetComments(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	var resp CommentsResponse
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/articles/"+articleTx.Hex()+"/comments", &resp))
	require.Equal(t, articleTx.Hex(), resp.Article)
	require.Len(t, resp.Comments, 1)
	require.Equal(t, commentTx, resp.Comments[0].TxID)
	require.Equal(t, 1, resp.Pagination.Total)

	// unknown articles simply have no comments
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/articles/"+common.HexToHash("0xdead").Hex()+"/comments", &resp))
	require.Empty(t, resp.Comments)
	require.NotNil(t, resp.Comments)
}

func TestHandler_ResolveLink(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	var article store.Article
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/links/0W9t3s", &article))
	require.Equal(t, articleTx, article.TxID)

	var errResp ErrorResponse
	require.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/links/000003", &errResp))
	require.Equal(t, "short link not found", errResp.Message)

	// 'a' is not part of the alphabet
	require.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/links/0aaaaa", &errResp))
}

func TestHandler_CheckpointsAndStats(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	var checkpoints []*checkpoint.Checkpoint
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/checkpoints", &checkpoints))
	require.Len(t, checkpoints, 1)
	require.Equal(t, "articles", checkpoints[0].Tag)
	require.Equal(t, uint64(7), *checkpoints[0].LastBlockHeight)

	var stats StatsResponse
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/stats", &stats))
	require.Equal(t, store.Stats{Articles: 2, ArticlesWithLink: 1, Comments: 1}, stats.Stats)
	require.Nil(t, stats.LastPassAt)

	started := time.Unix(1_700_000_000, 0).UTC()
	f.reporter.report = &cache.PassReport{RunID: "run", Started: started}

	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/stats", &stats))
	require.NotNil(t, stats.LastPassAt)
	require.True(t, started.Equal(*stats.LastPassAt))
}

func TestHandler_GetLastPass(t *testing.T) {
	f := newFixture(t)

	var errResp ErrorResponse
	require.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/passes/last", &errResp))

	f.reporter.report = &cache.PassReport{
		RunID:   "0190c2a4-0000-7000-8000-000000000000",
		Streams: []*cache.PassResult{{Stream: "articles", Height: 20, Checkpoint: 15}},
	}

	var report cache.PassReport
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/passes/last", &report))
	require.Equal(t, f.reporter.report.RunID, report.RunID)
	require.Len(t, report.Streams, 1)
	require.Equal(t, uint64(15), report.Streams[0].Checkpoint)
}

func TestHandler_Health(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	var resp HealthResponse
	require.Equal(t, http.StatusOK, f.get(t, "/health", &resp))
	require.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Checkpoints, 1)
	require.Nil(t, resp.LastPass)
}

func TestHandler_HealthUnavailable(t *testing.T) {
	database := testutil.NewTestDB(t, "api_closed.sqlite")
	log := logger.NewNopLogger()
	h := NewHandler(store.New(database, log), checkpoint.NewStore(database, log), &staticReporter{}, log)
	require.NoError(t, database.Close())

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "unavailable", resp.Status)
	require.NotNil(t, resp.Checkpoints)
}
