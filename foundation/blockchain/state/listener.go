package state

import "github.com/ardanlabs/spvchain/foundation/blockchain/database"

// ChainExtended is delivered when blocks are added on top of the chain head
// without replacing any block of the best branch.
type ChainExtended struct {
	Added []database.StoredBlock
}

// ChainReorganized is delivered when the best branch switches to a branch
// with more cumulative work. Both lists hold the blocks above the fork point
// in ascending height order.
type ChainReorganized struct {
	Old []database.StoredBlock
	New []database.StoredBlock
}

// ForkHeight returns the height of the last block shared by both branches.
func (cr ChainReorganized) ForkHeight() uint64 {
	return cr.New[0].Height() - 1
}

// Listener represents the behavior required to receive chain notifications.
// Notifications are delivered synchronously while the chain is locked, a
// listener must not call AcceptBlock and must return quickly. The blocks
// share big integers with the chain and must not be modified.
type Listener interface {
	OnChainExtended(ev ChainExtended)
	OnChainReorganized(ev ChainReorganized)
}

// =============================================================================

func (s *State) notifyExtended(added []database.StoredBlock) {
	for _, l := range s.listeners {
		l.OnChainExtended(ChainExtended{
			Added: append([]database.StoredBlock(nil), added...),
		})
	}
}

func (s *State) notifyReorganized(oldBlocks []database.StoredBlock, newBlocks []database.StoredBlock) {
	for _, l := range s.listeners {
		l.OnChainReorganized(ChainReorganized{
			Old: append([]database.StoredBlock(nil), oldBlocks...),
			New: append([]database.StoredBlock(nil), newBlocks...),
		})
	}
}
