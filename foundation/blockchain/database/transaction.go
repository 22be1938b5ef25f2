package database

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Output represents a single payment made by a transaction.
type Output struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// Tx represents the parts of a transaction a light client needs to decide
// whether the transaction belongs to a watched address. Signatures and
// balances are never checked here.
type Tx struct {
	ID            common.Hash `json:"id"`
	SourceAddress string      `json:"source_address"`
	Outputs       []Output    `json:"outputs"`
}

// Involves reports whether the address is the source or one of the
// destinations of the transaction.
func (tx Tx) Involves(address string) bool {
	if tx.SourceAddress == address {
		return true
	}

	for _, out := range tx.Outputs {
		if out.Address == address {
			return true
		}
	}

	return false
}

// String implements the Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s:%d", tx.ID.Hex()[:10], tx.SourceAddress, len(tx.Outputs))
}
