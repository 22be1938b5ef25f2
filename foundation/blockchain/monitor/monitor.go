// Package monitor tracks the confirmation state of the transactions of a
// watched address as the header chain grows and reorganizes.
package monitor

import (
	"bytes"
	"errors"
	"slices"
	"sync"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common"
)

// ErrNotInvolved is returned when a transaction that doesn't involve the
// watched address is tracked.
var ErrNotInvolved = errors.New("transaction does not involve the watched address")

// Monitor tracks every known transaction of one address.
type Monitor struct {
	address  string
	onChange func(TxMeta)

	mu  sync.Mutex
	txs map[common.Hash]*TxMeta
}

// New constructs a monitor for the address. The onChange function, when not
// nil, receives a copy of every meta that changes. It is called after the
// monitor is unlocked.
func New(address string, onChange func(TxMeta)) *Monitor {
	return &Monitor{
		address:  address,
		onChange: onChange,
		txs:      make(map[common.Hash]*TxMeta),
	}
}

// Address returns the watched address.
func (m *Monitor) Address() string {
	return m.address
}

// Track registers a transaction that is expected to be mined, it starts as
// PENDING. Tracking a transaction that is already known changes nothing.
func (m *Monitor) Track(tx database.Tx) error {
	if !tx.Involves(m.address) {
		return ErrNotInvolved
	}

	m.mu.Lock()
	if _, exists := m.txs[tx.ID]; exists {
		m.mu.Unlock()
		return nil
	}

	tm := TxMeta{
		Tx:    tx,
		State: Pending,
	}
	m.txs[tx.ID] = &tm
	changed := []TxMeta{tm.copy()}
	m.mu.Unlock()

	m.report(changed)

	return nil
}

// Meta returns a copy of what is known about the transaction.
func (m *Monitor) Meta(id common.Hash) (TxMeta, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tm, exists := m.txs[id]
	if !exists {
		return TxMeta{}, false
	}

	return tm.copy(), true
}

// Transactions returns a copy of every known transaction ordered by id.
func (m *Monitor) Transactions() []TxMeta {
	m.mu.Lock()
	defer m.mu.Unlock()

	metas := make([]TxMeta, 0, len(m.txs))
	for _, tm := range m.txs {
		metas = append(metas, tm.copy())
	}

	slices.SortFunc(metas, func(a, b TxMeta) int {
		return bytes.Compare(a.Tx.ID.Bytes(), b.Tx.ID.Bytes())
	})

	return metas
}

// =============================================================================

// OnChainDownloadCompleted reconciles the known transactions with the blocks
// of the best branch once a download finishes. Confirmations in blocks that
// aren't supplied are dropped, the remaining ones take the number of
// supplied blocks as their depth, and transactions of the address found in
// the blocks for the first time are confirmed with a depth of 1.
func (m *Monitor) OnChainDownloadCompleted(blocksByHash map[common.Hash]database.Block) {
	m.mu.Lock()

	changes := newChangeSet()
	for _, tm := range m.txs {
		if tm.State != Confirmed {
			continue
		}

		if _, exists := blocksByHash[*tm.BlockHash]; !exists {
			tm.forget()
			changes.add(tm)
			continue
		}

		if depth := uint64(len(blocksByHash)); tm.Depth != depth {
			tm.Depth = depth
			changes.add(tm)
		}
	}

	for _, block := range byHeight(blocksByHash) {
		for _, tx := range m.watched(block) {
			tm := m.meta(tx)
			if tm.State == Confirmed {
				continue
			}

			tm.confirm(block, 1)
			changes.add(tm)
		}
	}

	changed := changes.list()
	m.mu.Unlock()

	m.report(changed)
}

// OnChainExtended moves confirmations deeper as blocks are added on top of
// the best branch and confirms transactions found in the added blocks.
func (m *Monitor) OnChainExtended(added []database.Block) {
	if len(added) == 0 {
		return
	}

	m.mu.Lock()

	changes := newChangeSet()
	for _, tm := range m.txs {
		if tm.State == Confirmed {
			tm.Depth += uint64(len(added))
			changes.add(tm)
		}
	}

	tip := tipHeight(added)
	for _, block := range added {
		for _, tx := range m.watched(block) {
			tm := m.meta(tx)
			tm.confirm(block, tip-block.Header.Height+1)
			changes.add(tm)
		}
	}

	changed := changes.list()
	m.mu.Unlock()

	m.report(changed)
}

// OnReorganized applies a switch of the best branch. Both lists hold the
// blocks above the fork point in ascending height order.
//
// A confirmation in a replaced block whose transaction isn't in the new
// blocks is dropped. A confirmation below the fork point has its depth
// raised by the number of replaced blocks, which matches the distance from
// the new chain head only when both branches have the same length.
// Transactions found in the new blocks are confirmed again with a fresh
// branch and their distance from the new chain head as depth.
func (m *Monitor) OnReorganized(oldBlocks []database.Block, newBlocks []database.Block) {
	if len(newBlocks) == 0 {
		return
	}

	m.mu.Lock()

	oldSet := make(map[common.Hash]struct{}, len(oldBlocks))
	for _, block := range oldBlocks {
		oldSet[block.Hash] = struct{}{}
	}

	newSet := make(map[common.Hash]struct{}, len(newBlocks))
	found := make(map[common.Hash]struct{})
	for _, block := range newBlocks {
		newSet[block.Hash] = struct{}{}
		for _, tx := range m.watched(block) {
			found[tx.ID] = struct{}{}
		}
	}

	changes := newChangeSet()
	for id, tm := range m.txs {
		if tm.State != Confirmed {
			continue
		}

		if _, exists := found[id]; exists {
			continue
		}

		if _, exists := oldSet[*tm.BlockHash]; exists {
			tm.forget()
			changes.add(tm)
			continue
		}

		if _, exists := newSet[*tm.BlockHash]; !exists {
			tm.Depth += uint64(len(oldBlocks))
			changes.add(tm)
		}
	}

	tip := tipHeight(newBlocks)
	for _, block := range newBlocks {
		for _, tx := range m.watched(block) {
			tm := m.meta(tx)
			tm.confirm(block, tip-block.Header.Height+1)
			changes.add(tm)
		}
	}

	changed := changes.list()
	m.mu.Unlock()

	m.report(changed)
}

// =============================================================================

// watched returns the transactions of the block that involve the address or
// are already tracked. The caller must hold the lock.
func (m *Monitor) watched(block database.Block) []database.Tx {
	var txs []database.Tx
	for _, list := range [][]database.Tx{block.PopTxs, block.RegularTxs} {
		for _, tx := range list {
			if _, tracked := m.txs[tx.ID]; tracked || tx.Involves(m.address) {
				txs = append(txs, tx)
			}
		}
	}

	return txs
}

// meta returns the tracked meta for the transaction, adding it as UNKNOWN
// when it isn't tracked yet. The caller must hold the lock.
func (m *Monitor) meta(tx database.Tx) *TxMeta {
	tm, exists := m.txs[tx.ID]
	if !exists {
		tm = &TxMeta{Tx: tx, State: Unknown}
		m.txs[tx.ID] = tm
	}

	return tm
}

func (m *Monitor) report(changed []TxMeta) {
	if m.onChange == nil {
		return
	}

	for _, tm := range changed {
		m.onChange(tm)
	}
}

// =============================================================================

// changeSet collects the metas changed by one notification, each once, in
// the order they first changed.
type changeSet struct {
	seen  map[*TxMeta]struct{}
	order []*TxMeta
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(map[*TxMeta]struct{})}
}

func (cs *changeSet) add(tm *TxMeta) {
	if _, exists := cs.seen[tm]; exists {
		return
	}

	cs.seen[tm] = struct{}{}
	cs.order = append(cs.order, tm)
}

func (cs *changeSet) list() []TxMeta {
	metas := make([]TxMeta, len(cs.order))
	for i, tm := range cs.order {
		metas[i] = tm.copy()
	}

	return metas
}

func byHeight(blocksByHash map[common.Hash]database.Block) []database.Block {
	blocks := make([]database.Block, 0, len(blocksByHash))
	for _, block := range blocksByHash {
		blocks = append(blocks, block)
	}

	slices.SortFunc(blocks, func(a, b database.Block) int {
		switch {
		case a.Header.Height < b.Header.Height:
			return -1
		case a.Header.Height > b.Header.Height:
			return 1
		}
		return bytes.Compare(a.Hash.Bytes(), b.Hash.Bytes())
	})

	return blocks
}

func tipHeight(blocks []database.Block) uint64 {
	var tip uint64
	for _, block := range blocks {
		tip = max(tip, block.Header.Height)
	}

	return tip
}
