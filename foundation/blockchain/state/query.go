package state

import (
	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/genesis"
	"github.com/ethereum/go-ethereum/common"
)

// Size returns the number of distinct blocks ever stored, including blocks
// of losing branches.
func (s *State) Size() uint64 {
	return s.db.Size()
}

// ChainHead returns the newest block of the best branch.
func (s *State) ChainHead() database.StoredBlock {
	return s.db.Tip()
}

// First returns the oldest block of the best branch still indexed by height.
func (s *State) First() database.StoredBlock {
	return s.db.First()
}

// WindowBounds returns the oldest and newest blocks of the best branch
// indexed by height and the number of blocks between them. The values come
// from one view of the window, a concurrent change can't mix them.
func (s *State) WindowBounds() (first database.StoredBlock, tip database.StoredBlock, length int) {
	return s.db.Bounds()
}

// BlockByHeight returns the block of the best branch at the height. Only
// heights inside the window are found.
func (s *State) BlockByHeight(height uint64) (database.StoredBlock, bool) {
	return s.db.Get(height)
}

// BlockByHash returns any stored block, whichever branch it belongs to.
func (s *State) BlockByHash(hash common.Hash) (database.StoredBlock, bool, error) {
	return s.db.ReadBlock(hash)
}

// Window returns a copy of the blocks of the best branch indexed by height,
// oldest first.
func (s *State) Window() []database.StoredBlock {
	return s.db.Window()
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveConsensus returns the consensus functions of the chain.
func (s *State) RetrieveConsensus() Consensus {
	return s.consensus
}
