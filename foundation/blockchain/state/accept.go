package state

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
)

// Set of outcomes reported to Metrics for every accepted header.
const (
	OutcomeKnown       = "known"
	OutcomeOrphan      = "orphan"
	OutcomeInvalid     = "invalid"
	OutcomeStored      = "stored"
	OutcomeExtended    = "extended"
	OutcomeReorganized = "reorganized"
	OutcomeTooDeep     = "too_deep"
	OutcomeError       = "error"
)

// AcceptBlock validates the header, stores it and, when it carries more
// cumulative work than the chain head, makes its branch the best branch.
//
// It returns false when the parent is unknown or the header is invalid, the
// caller may deliver an orphan again once its parent is known. It returns
// true for known headers, headers stored on a losing branch, headers that
// became the chain head, and headers whose branch forks too deep below the
// chain head to be promoted. The error is reserved for storage failures.
func (s *State) AcceptBlock(header database.BlockHeader) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted, outcome, err := s.acceptBlock(header)
	if err != nil {
		outcome = OutcomeError
	}
	s.metrics.BlockAccepted(outcome)

	return accepted, err
}

// acceptBlock does the work for AcceptBlock. The caller must hold the lock.
func (s *State) acceptBlock(header database.BlockHeader) (bool, string, error) {
	hash := s.consensus.HashHeader(header)

	// Known headers are never validated again. A known block with more work
	// than the chain head was stored by a call that failed before promoting
	// it, so it gets promoted now.
	known, exists, err := s.db.ReadBlock(hash)
	if err != nil {
		return false, "", err
	}
	if exists {
		if known.CumulativeWork.Cmp(s.db.Tip().CumulativeWork) <= 0 {
			return true, OutcomeKnown, nil
		}

		s.evHandler("state: AcceptBlock: PROMOTE STORED: blk[%s]: height[%d]", hash, known.Height())
		return s.promote(known)
	}

	parent, exists, err := s.db.ReadBlock(header.PreviousHash)
	if err != nil {
		return false, "", err
	}
	if !exists {
		s.evHandler("state: AcceptBlock: ORPHAN: blk[%s]: prevBlk[%s]", hash, header.PreviousHash)
		return false, OutcomeOrphan, nil
	}

	if header.Height != parent.Height()+1 {
		s.evHandler("state: AcceptBlock: INVALID: blk[%s]: height[%d]: exp[%d]", hash, header.Height, parent.Height()+1)
		return false, OutcomeInvalid, nil
	}

	if !s.consensus.IsValidProofOfWork(header) {
		s.evHandler("state: AcceptBlock: INVALID: blk[%s]: proof of work", hash)
		return false, OutcomeInvalid, nil
	}

	work := s.consensus.DecodeWork(header.Difficulty)

	sb := database.StoredBlock{
		Hash:           hash,
		Header:         header,
		Work:           work,
		CumulativeWork: new(big.Int).Add(parent.CumulativeWork, work),
	}

	if err := s.db.WriteBlock(sb); err != nil {
		return false, "", err
	}

	return s.promote(sb)
}

// promote makes the stored block the chain head when it carries more work
// than the current one. The caller must hold the lock.
func (s *State) promote(sb database.StoredBlock) (bool, string, error) {

	// A branch that doesn't beat the chain head is kept for a future
	// reorganization.
	tip := s.db.Tip()
	if sb.CumulativeWork.Cmp(tip.CumulativeWork) <= 0 {
		return true, OutcomeStored, nil
	}

	if sb.Header.PreviousHash == tip.Hash {
		if err := s.db.Append(sb); err != nil {
			return false, "", err
		}

		s.metrics.ChainHeadChanged(sb.Height(), s.db.Len())
		s.notifyExtended([]database.StoredBlock{sb})

		return true, OutcomeExtended, nil
	}

	return s.reorganize(sb, tip)
}

// reorganize switches the best branch to the branch ending with the block.
// The caller must hold the lock.
func (s *State) reorganize(sb database.StoredBlock, tip database.StoredBlock) (bool, string, error) {
	first := s.db.First()

	// Walk the new branch back through the hash-keyed store until it meets
	// the best branch. Once the walk drops below the window the fork point
	// is deeper than a reorganization is allowed to reach.
	newBlocks := []database.StoredBlock{sb}
	cursor := sb
	var fork database.StoredBlock

	for {
		parent, exists, err := s.db.ReadBlock(cursor.Header.PreviousHash)
		if err != nil {
			return false, "", err
		}
		if !exists {
			return false, "", fmt.Errorf("ancestor %s of stored block %s is missing", cursor.Header.PreviousHash, cursor.Hash)
		}

		if parent.Height() < first.Height() {
			s.evHandler("state: AcceptBlock: TOO DEEP: blk[%s]: tip[%d]: first[%d]", sb.Hash, tip.Height(), first.Height())
			return true, OutcomeTooDeep, nil
		}

		if wb, ok := s.db.Get(parent.Height()); ok && wb.Hash == parent.Hash {
			fork = parent
			break
		}

		newBlocks = append(newBlocks, parent)
		cursor = parent
	}

	slices.Reverse(newBlocks)

	oldBlocks := make([]database.StoredBlock, 0, tip.Height()-fork.Height())
	for h := fork.Height() + 1; h <= tip.Height(); h++ {
		ob, ok := s.db.Get(h)
		if !ok {
			return false, "", fmt.Errorf("best branch block at height %d missing from window", h)
		}
		oldBlocks = append(oldBlocks, ob)
	}

	if err := s.db.ReplaceWindow(fork.Height()+1, newBlocks); err != nil {
		return false, "", err
	}

	s.metrics.ChainHeadChanged(sb.Height(), s.db.Len())

	// A fork point at the chain head means blocks that didn't add work
	// were skipped earlier, nothing of the best branch is replaced.
	if len(oldBlocks) == 0 {
		s.notifyExtended(newBlocks)
		return true, OutcomeExtended, nil
	}

	s.evHandler("state: AcceptBlock: REORGANIZED: fork[%d]: old[%d]: new[%d]: tip[%s]", fork.Height(), len(oldBlocks), len(newBlocks), sb.Hash)

	s.metrics.ChainReorganized(len(oldBlocks))
	s.notifyReorganized(oldBlocks, newBlocks)

	return true, OutcomeReorganized, nil
}
