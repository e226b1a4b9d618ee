package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "query with range",
			err:     &ChainQueryError{Op: "Posted", FromBlock: 100, ToBlock: 149, Err: cause},
			message: "chain query Posted [100, 149] failed: boom",
		},
		{
			name:    "query without range",
			err:     &ChainQueryError{Op: "links", Err: cause},
			message: "chain query links failed: boom",
		},
		{
			name:    "write",
			err:     &ChainWriteError{TxID: common.HexToHash("0x01"), Err: cause},
			message: "link write for 0x0000000000000000000000000000000000000000000000000000000000000001 failed: boom",
		},
		{
			name:    "persistence",
			err:     &PersistenceError{Table: "articles", Key: "0xab", Err: cause},
			message: "persist articles 0xab failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, cause)

			wrapped := fmt.Errorf("pass: %w", tt.err)
			require.ErrorIs(t, wrapped, cause)
		})
	}

	var queryErr *ChainQueryError
	require.ErrorAs(t, fmt.Errorf("scan: %w", tests[0].err), &queryErr)
	require.Equal(t, uint64(149), queryErr.ToBlock)

	var writeErr *ChainWriteError
	require.False(t, errors.As(tests[0].err, &writeErr))
}
