package rpc

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/goran-ethernal/BBSCache/internal/common"
)

var (
	// providers phrase an oversized eth_getLogs answer differently
	tooManyResultsRe = regexp.MustCompile(
		`(?i)query returned more than \d+ results|log response size exceeded|block range (is )?too (large|wide)`)

	suggestedRangeRe = regexp.MustCompile(`\[(0x[0-9a-fA-F]+),\s*(0x[0-9a-fA-F]+)\]`)
)

// IsTooManyResultsError reports whether err is a provider refusing a log query because the range
// holds too many results. It returns the provider text, which may carry a suggested range.
// The text is looked up in the JSON-RPC error data first and in the error message otherwise.
func IsTooManyResultsError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		text := fmt.Sprintf("%v", dataErr.ErrorData())
		if tooManyResultsRe.MatchString(text) {
			return true, text
		}
	}

	text := err.Error()
	return tooManyResultsRe.MatchString(text), text
}

// ParseSuggestedBlockRange extracts the range a provider suggests retrying with, e.g.
// "Query returned more than 10000 results. Try with this block range [0x2fd3c4, 0x2fd9a0]."
func ParseSuggestedBlockRange(text string) (fromBlock, toBlock uint64, ok bool) {
	matches := suggestedRangeRe.FindStringSubmatch(text)
	if len(matches) != 3 {
		return 0, 0, false
	}

	from, err := common.ParseUint64orHex(&matches[1])
	if err != nil {
		return 0, 0, false
	}
	to, err := common.ParseUint64orHex(&matches[2])
	if err != nil || to < from {
		return 0, 0, false
	}

	return from, to, true
}
