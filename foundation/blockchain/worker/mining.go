package worker

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/monitor"
	"github.com/ardanlabs/spvchain/foundation/blockchain/pow"
	"github.com/ardanlabs/spvchain/foundation/blockchain/state"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ethereum/go-ethereum/common"
)

const (
	// keystoneInterval is the distance between two keystone blocks.
	keystoneInterval = 20

	// merkleRootSize is the number of root bytes published in the header.
	merkleRootSize = 24

	// minerReward is the amount paid to the miner by the pop transaction.
	minerReward = 50
)

// ErrNotAccepted is returned when the chain refuses a freshly mined block.
var ErrNotAccepted = errors.New("mined block not accepted")

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines a block on top of the chain head with the
// transactions waiting in the queue.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	txs := w.drainPending()

	// Create a context so mining can be cancelled by a shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-w.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	t := time.Now()
	block, err := MineBlock(ctx, w.state, w.bodies, w.miner, txs, w.evHandler)
	duration := time.Since(t)

	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

	if err != nil {
		switch {
		case ctx.Err() != nil:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
		default:
			w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		}
		return
	}

	w.evHandler("worker: runMiningOperation: MINING: blk[%s]: height[%d]: txs[%d]", block.Hash, block.Header.Height, len(block.RegularTxs))
}

// drainPending takes every queued transaction without blocking.
func (w *Worker) drainPending() []database.Tx {
	var txs []database.Tx
	for {
		select {
		case tx := <-w.pending:
			txs = append(txs, tx)
		default:
			return txs
		}
	}
}

// =============================================================================

// MineBlock builds a block holding the transactions on top of the chain
// head, solves its proof of work and hands it to the chain. The contents of
// the block are kept in bodies so listeners can fetch them.
func MineBlock(ctx context.Context, st *state.State, bodies *monitor.Bodies, miner string, txs []database.Tx, ev state.EventHandler) (database.Block, error) {
	tip := st.ChainHead()

	difficulty := st.RetrieveGenesis().Difficulty
	if difficulty == 0 {
		difficulty = tip.Header.Difficulty
	}

	var metapackage common.Hash
	if _, err := rand.Read(metapackage[:]); err != nil {
		return database.Block{}, fmt.Errorf("metapackage: %w", err)
	}

	block := database.Block{
		MetapackageHash: metapackage,
		RegularTxs:      txs,
	}

	if miner != "" {
		block.PopTxs = []database.Tx{rewardTx(tip.Height()+1, miner, metapackage)}
	}

	previousKeystone, secondPreviousKeystone := keystones(tip)

	header := database.BlockHeader{
		Height:                     tip.Height() + 1,
		Version:                    tip.Header.Version,
		PreviousHash:               tip.Hash,
		PreviousKeystoneHash:       previousKeystone,
		SecondPreviousKeystoneHash: secondPreviousKeystone,
		MerkleRoot:                 block.Tree().Root[:merkleRootSize],
		Timestamp:                  uint32(time.Now().Unix()),
		Difficulty:                 difficulty,
	}

	var engine pow.Engine
	header, err := pow.Solve(ctx, engine, header, ev)
	if err != nil {
		return database.Block{}, err
	}

	block.Hash = engine.HashHeader(header)
	block.Header = header

	// The contents must be known before the chain notifies listeners.
	if bodies != nil {
		bodies.Add(block)
	}

	accepted, err := st.AcceptBlock(header)
	if err != nil {
		return database.Block{}, fmt.Errorf("accept block: %w", err)
	}
	if !accepted {
		return database.Block{}, ErrNotAccepted
	}

	return block, nil
}

// keystones returns the keystone hashes a child of the block refers to.
func keystones(parent database.StoredBlock) (common.Hash, common.Hash) {
	if parent.Height()%keystoneInterval == 0 {
		return parent.Hash, parent.Header.PreviousKeystoneHash
	}

	return parent.Header.PreviousKeystoneHash, parent.Header.SecondPreviousKeystoneHash
}

// rewardTx constructs the pop transaction paying the miner of the block.
func rewardTx(height uint64, miner string, metapackage common.Hash) database.Tx {
	data := binary.BigEndian.AppendUint64(nil, height)
	data = append(data, metapackage.Bytes()...)
	data = append(data, miner...)

	return database.Tx{
		ID:      common.BytesToHash(chainhash.DoubleHashB(data)),
		Outputs: []database.Output{{Address: miner, Amount: minerReward}},
	}
}
