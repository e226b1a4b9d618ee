package types

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// BlockFinality selects which header counts as the current chain height.
// Scanning stops at that height, so a stricter finality trades freshness for fewer reorged events.
type BlockFinality string

const (
	FinalityFinalized BlockFinality = "finalized"
	FinalitySafe      BlockFinality = "safe"
	FinalityLatest    BlockFinality = "latest"
)

func (f BlockFinality) String() string {
	return string(f)
}

// IsValid reports whether f is one of the known finalities.
func (f BlockFinality) IsValid() bool {
	return f == FinalityFinalized || f == FinalitySafe || f == FinalityLatest
}

// ParseBlockFinality parses s case-insensitively. An empty string is rejected,
// defaults are applied by the configuration.
func ParseBlockFinality(s string) (BlockFinality, error) {
	f := BlockFinality(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid block finality %q (must be one of: %s, %s, %s)",
			s, FinalityLatest, FinalitySafe, FinalityFinalized)
	}
	return f, nil
}

// BlockTag returns the HeaderByNumber argument selecting the header of f.
// Latest maps to nil, which go-ethereum sends as "latest".
func (f BlockFinality) BlockTag() *big.Int {
	switch f {
	case FinalityFinalized:
		return big.NewInt(int64(rpc.FinalizedBlockNumber))
	case FinalitySafe:
		return big.NewInt(int64(rpc.SafeBlockNumber))
	default:
		return nil
	}
}
