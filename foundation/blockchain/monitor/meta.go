package monitor

import (
	"fmt"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/merkle"
	"github.com/ethereum/go-ethereum/common"
)

// TxState represents the confirmation state of a transaction.
type TxState int

// Set of confirmation states.
const (
	Unknown TxState = iota
	Pending
	Confirmed
)

var stateNames = map[TxState]string{
	Unknown:   "UNKNOWN",
	Pending:   "PENDING",
	Confirmed: "CONFIRMED",
}

// String implements the Stringer interface.
func (s TxState) String() string {
	if name, exists := stateNames[s]; exists {
		return name
	}

	return fmt.Sprintf("TxState(%d)", int(s))
}

// MarshalText implements the TextMarshaler interface.
func (s TxState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements the TextUnmarshaler interface.
func (s *TxState) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}

	return fmt.Errorf("unknown transaction state %q", text)
}

// =============================================================================

// TxMeta represents what is known about the confirmation of a transaction.
// The block fields and the branch are set only while the transaction is
// confirmed.
type TxMeta struct {
	Tx          database.Tx    `json:"tx"`
	State       TxState        `json:"state"`
	BlockHash   *common.Hash   `json:"block_hash,omitempty"`
	BlockHeight *uint64        `json:"block_height,omitempty"`
	Depth       uint64         `json:"depth"`
	Branch      *merkle.Branch `json:"branch,omitempty"`
}

// confirm marks the transaction as included in the block.
func (tm *TxMeta) confirm(block database.Block, depth uint64) {
	hash := block.Hash
	height := block.Header.Height

	tm.State = Confirmed
	tm.BlockHash = &hash
	tm.BlockHeight = &height
	tm.Depth = depth
	tm.Branch = nil

	if branch, exists := block.Tree().Path(tm.Tx.ID); exists {
		tm.Branch = &branch
	}
}

// forget drops a confirmation that no longer holds.
func (tm *TxMeta) forget() {
	tm.State = Unknown
	tm.BlockHash = nil
	tm.BlockHeight = nil
	tm.Depth = 0
	tm.Branch = nil
}

// copy returns a value that shares no memory with the tracked meta.
func (tm *TxMeta) copy() TxMeta {
	cp := *tm
	cp.Tx.Outputs = append([]database.Output(nil), tm.Tx.Outputs...)

	if tm.BlockHash != nil {
		hash := *tm.BlockHash
		cp.BlockHash = &hash
	}

	if tm.BlockHeight != nil {
		height := *tm.BlockHeight
		cp.BlockHeight = &height
	}

	if tm.Branch != nil {
		branch := *tm.Branch
		branch.Siblings = append([][]byte(nil), tm.Branch.Siblings...)
		cp.Branch = &branch
	}

	return cp
}
