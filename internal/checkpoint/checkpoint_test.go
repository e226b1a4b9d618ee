package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/testutil"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t, "checkpoint.sqlite")

	log, err := logger.NewLogger("debug", true)
	require.NoError(t, err)

	store := NewStore(database, log)

	// unseen tag is created with a NULL height
	height, err := store.Get(ctx, "articles")
	require.NoError(t, err)
	require.Nil(t, height)

	// a second get does not create a second row
	height, err = store.Get(ctx, "articles")
	require.NoError(t, err)
	require.Nil(t, height)

	var rows int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM checkpoints`).Scan(&rows))
	require.Equal(t, 1, rows)

	require.NoError(t, store.Set(ctx, "articles", 245))

	height, err = store.Get(ctx, "articles")
	require.NoError(t, err)
	require.NotNil(t, height)
	require.Equal(t, uint64(245), *height)

	require.NoError(t, store.Set(ctx, "articles", 300))
	height, err = store.Get(ctx, "articles")
	require.NoError(t, err)
	require.Equal(t, uint64(300), *height)

	// set on an unseen tag creates it
	require.NoError(t, store.Set(ctx, "comments", 0))
	height, err = store.Get(ctx, "comments")
	require.NoError(t, err)
	require.NotNil(t, height)
	require.Equal(t, uint64(0), *height)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.NewTestDB(t, "checkpoint_list.sqlite"), logger.NewNopLogger())

	checkpoints, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, checkpoints)

	_, err = store.Get(ctx, "comments")
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "articles", 42))

	checkpoints, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, checkpoints, 2)

	require.Equal(t, "articles", checkpoints[0].Tag)
	require.NotNil(t, checkpoints[0].LastBlockHeight)
	require.Equal(t, uint64(42), *checkpoints[0].LastBlockHeight)
	require.Positive(t, checkpoints[0].UpdatedAt)

	require.Equal(t, "comments", checkpoints[1].Tag)
	require.Nil(t, checkpoints[1].LastBlockHeight)
}

func TestStore_ClosedDB(t *testing.T) {
	database := testutil.NewTestDB(t, "checkpoint_closed.sqlite")
	store := NewStore(database, logger.NewNopLogger())
	require.NoError(t, database.Close())

	_, err := store.Get(context.Background(), "articles")
	require.ErrorContains(t, err, "failed to create checkpoint articles")

	err = store.Set(context.Background(), "articles", 1)
	require.ErrorContains(t, err, "failed to save checkpoint articles")
}
