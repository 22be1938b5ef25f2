// Package pow provides the proof-of-work rules for the header chain: how a
// header is hashed, how its encoded difficulty decodes to work, and how a
// header is checked against that work.
package pow

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// twoTo256 is the size of the hash space.
var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

// Engine implements the consensus functions used by the chain state.
type Engine struct{}

// HashHeader hashes the RLP encoding of the header with double sha256.
func (Engine) HashHeader(header database.BlockHeader) common.Hash {
	data, err := rlp.EncodeToBytes(header)
	if err != nil {
		// Every field of the header has a fixed RLP representation.
		panic(fmt.Sprintf("pow: encode header: %v", err))
	}

	return common.BytesToHash(chainhash.DoubleHashB(data))
}

// DecodeWork returns the work represented by the compact difficulty.
func (Engine) DecodeWork(difficulty uint32) *big.Int {
	return blockchain.CompactToBig(difficulty)
}

// IsValidProofOfWork reports whether the header hash, read as a big-endian
// integer, is within the target implied by the header's work. A header that
// claims no work is never valid.
func (e Engine) IsValidProofOfWork(header database.BlockHeader) bool {
	target, ok := Target(e.DecodeWork(header.Difficulty))
	if !ok {
		return false
	}

	hash := e.HashHeader(header)
	return new(big.Int).SetBytes(hash.Bytes()).Cmp(target) <= 0
}

// Target returns the largest hash value that satisfies the work.
func Target(work *big.Int) (*big.Int, bool) {
	if work == nil || work.Sign() <= 0 {
		return nil, false
	}

	return new(big.Int).Div(twoTo256, work), true
}

// Difficulty returns the compact encoding of the work.
func Difficulty(work *big.Int) uint32 {
	return blockchain.BigToCompact(work)
}

// =============================================================================

// Solve searches for a nonce that makes the header satisfy its own
// difficulty. The search starts at a random nonce and runs until a solution
// is found or the context is cancelled.
func Solve(ctx context.Context, engine Engine, header database.BlockHeader, ev func(v string, args ...any)) (database.BlockHeader, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("pow: Solve: MINING: started: height[%d]", header.Height)
	defer ev("pow: Solve: MINING: completed: height[%d]", header.Height)

	if _, ok := Target(engine.DecodeWork(header.Difficulty)); !ok {
		return database.BlockHeader{}, fmt.Errorf("difficulty %#x carries no work", header.Difficulty)
	}

	// Choose a random starting point for the nonce. After this, the nonce
	// will be incremented by 1 until a solution is found.
	nBig, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return database.BlockHeader{}, err
	}
	header.Nonce = nBig.Uint64()

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("pow: Solve: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			ev("pow: Solve: MINING: CANCELLED")
			return database.BlockHeader{}, ctx.Err()
		}

		if !engine.IsValidProofOfWork(header) {
			header.Nonce++
			continue
		}

		ev("pow: Solve: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", header.PreviousHash, engine.HashHeader(header), attempts)

		return header, nil
	}
}
