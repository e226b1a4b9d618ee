package db

import (
	"database/sql"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestHashMeddler(t *testing.T) {
	t.Parallel()

	h := HashMeddler{}
	tx := common.HexToHash("0x8f4b1c2e9d0a3b5c7e1f2a4b6c8d0e1f3a5b7c9d1e2f4a6b8c0d2e4f6a8b0c1d")

	saved, err := h.PreWrite(tx)
	require.NoError(t, err)
	require.Equal(t, tx.Hex(), saved)

	saved, err = h.PreWrite(&tx)
	require.NoError(t, err)
	require.Equal(t, tx.Hex(), saved)

	saved, err = h.PreWrite((*common.Hash)(nil))
	require.NoError(t, err)
	require.Nil(t, saved)

	_, err = h.PreWrite(tx.Hex())
	require.Error(t, err)

	target, err := h.PreRead(nil)
	require.NoError(t, err)
	require.IsType(t, &sql.NullString{}, target)

	var got common.Hash
	require.NoError(t, h.PostRead(&got, &sql.NullString{String: tx.Hex(), Valid: true}))
	require.Equal(t, tx, got)

	var gotPtr *common.Hash
	require.NoError(t, h.PostRead(&gotPtr, &sql.NullString{String: tx.Hex(), Valid: true}))
	require.Equal(t, &tx, gotPtr)

	require.NoError(t, h.PostRead(&gotPtr, &sql.NullString{}))
	require.Nil(t, gotPtr)

	require.NoError(t, h.PostRead(&got, &sql.NullString{}))
	require.Equal(t, common.Hash{}, got)
}

func TestHashMeddler_Malformed(t *testing.T) {
	t.Parallel()

	h := HashMeddler{}
	var got common.Hash

	for _, bad := range []string{"", "0x", "0x1234", "a1", tx64NoPrefix} {
		require.Error(t, h.PostRead(&got, &sql.NullString{String: bad, Valid: true}), bad)
	}

	var s string
	require.Error(t, h.PostRead(&s, &sql.NullString{}))
	require.Error(t, h.PostRead(&got, new(string)))
}

const tx64NoPrefix = "8f4b1c2e9d0a3b5c7e1f2a4b6c8d0e1f3a5b7c9d1e2f4a6b8c0d2e4f6a8b0c1d"
