package contract

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/goran-ethernal/BBSCache/pkg/chain"
)

// decodeEvent turns a raw log into a chain.Event carrying both indexed and data arguments.
func decodeEvent(contractABI abi.ABI, name string, log types.Log) (chain.Event, error) {
	event, ok := contractABI.Events[name]
	if !ok {
		return chain.Event{}, fmt.Errorf("unknown event %s", name)
	}

	if len(log.Topics) == 0 || log.Topics[0] != event.ID {
		return chain.Event{}, fmt.Errorf("log %d in tx %s is not a %s event", log.Index, log.TxHash.Hex(), name)
	}

	values := make(map[string]any, len(event.Inputs))
	if len(log.Data) > 0 {
		if err := contractABI.UnpackIntoMap(values, name, log.Data); err != nil {
			return chain.Event{}, fmt.Errorf("failed to unpack %s data: %w", name, err)
		}
	}

	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopicsIntoMap(values, indexed, log.Topics[1:]); err != nil {
		return chain.Event{}, fmt.Errorf("failed to parse %s topics: %w", name, err)
	}

	for k, v := range values {
		if b, ok := v.([32]byte); ok {
			values[k] = common.Hash(b)
		}
	}

	return chain.Event{
		Name:         name,
		Address:      log.Address,
		BlockNumber:  log.BlockNumber,
		BlockHash:    log.BlockHash,
		TxHash:       log.TxHash,
		TxIndex:      log.TxIndex,
		LogIndex:     log.Index,
		ReturnValues: values,
	}, nil
}
