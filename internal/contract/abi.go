package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// BBSABI describes the events emitted by the BBS contract.
const BBSABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "user", "type": "address"},
      {"indexed": false, "internalType": "string", "name": "content", "type": "string"}
    ],
    "name": "Posted",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "bytes32", "name": "origin", "type": "bytes32"},
      {"indexed": true, "internalType": "address", "name": "user", "type": "address"},
      {"indexed": false, "internalType": "string", "name": "content", "type": "string"}
    ],
    "name": "Replied",
    "type": "event"
  }
]`

// BBSCacheABI describes the link mapping of the BBSCache contract.
const BBSCacheABI = `[
  {
    "inputs": [
      {"internalType": "bytes32", "name": "txid", "type": "bytes32"},
      {"internalType": "bytes32", "name": "code", "type": "bytes32"}
    ],
    "name": "link",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "bytes32", "name": "", "type": "bytes32"}],
    "name": "links",
    "outputs": [{"internalType": "bytes32", "name": "", "type": "bytes32"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const (
	methodLink  = "link"
	methodLinks = "links"
)

func parseABIs() (bbs abi.ABI, cache abi.ABI, err error) {
	bbs, err = abi.JSON(strings.NewReader(BBSABI))
	if err != nil {
		return abi.ABI{}, abi.ABI{}, err
	}
	cache, err = abi.JSON(strings.NewReader(BBSCacheABI))
	if err != nil {
		return abi.ABI{}, abi.ABI{}, err
	}
	return bbs, cache, nil
}
