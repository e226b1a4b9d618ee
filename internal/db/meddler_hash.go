package db

import (
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/russross/meddler"
)

func init() {
	meddler.Register("hash", HashMeddler{})
}

// HashMeddler stores common.Hash and *common.Hash fields as 0x prefixed lowercase hex TEXT,
// the form the txid columns are keyed and compared by. A nil *common.Hash maps to NULL.
type HashMeddler struct{}

// PreRead scans into a sql.NullString.
func (HashMeddler) PreRead(any) (any, error) {
	return new(sql.NullString), nil
}

// PostRead parses the scanned text. Values that are not exactly 32 bytes of hex are rejected.
func (HashMeddler) PostRead(fieldAddr, scanTarget any) error {
	ns, ok := scanTarget.(*sql.NullString)
	if !ok {
		return fmt.Errorf("hash meddler: expected *sql.NullString, got %T", scanTarget)
	}

	var hash *common.Hash
	if ns.Valid {
		b, err := hexutil.Decode(ns.String)
		if err != nil || len(b) != common.HashLength {
			return fmt.Errorf("hash meddler: malformed hash %q", ns.String)
		}
		h := common.BytesToHash(b)
		hash = &h
	}

	switch ptr := fieldAddr.(type) {
	case **common.Hash:
		*ptr = hash
	case *common.Hash:
		if hash == nil {
			*ptr = common.Hash{}
		} else {
			*ptr = *hash
		}
	default:
		return fmt.Errorf("hash meddler: expected *common.Hash or **common.Hash, got %T", fieldAddr)
	}

	return nil
}

// PreWrite returns the hex text of the hash.
func (HashMeddler) PreWrite(field any) (any, error) {
	switch v := field.(type) {
	case common.Hash:
		return v.Hex(), nil
	case *common.Hash:
		if v == nil {
			return nil, nil
		}
		return v.Hex(), nil
	default:
		return nil, fmt.Errorf("hash meddler: expected common.Hash or *common.Hash, got %T", field)
	}
}
