// Package database handles all the lower level support for maintaining the
// header chain. Every validated header is kept in a durable, hash-keyed medium
// while a fixed capacity, height-indexed window tracks the most recent blocks
// of the best branch.
package database

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotFound is returned by a Serializer when the requested record does
// not exist in the medium.
var ErrNotFound = errors.New("not found")

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading the header chain.
type Serializer interface {
	Write(blockData BlockData) error
	GetBlock(hash common.Hash) (BlockData, error)
	Count() (uint64, error)
	WriteChainHead(hash common.Hash) error
	ChainHead() (common.Hash, error)
	Close() error
}

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Database manages the stored headers and the window of the best branch.
// Writes must be serialized by the caller, reads are safe at any time. The
// big integers inside returned blocks are shared and must not be modified.
type Database struct {
	mu         sync.Mutex
	capacity   int
	size       atomic.Uint64
	active     atomic.Pointer[window]
	serializer Serializer
	evHandler  EventHandler
}

// New constructs a database on top of the specified serializer. An empty
// medium is seeded with the genesis block. Otherwise the window is rebuilt by
// walking back from the persisted chain head.
func New(serializer Serializer, genesis StoredBlock, capacity int, evHandler EventHandler) (*Database, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("window capacity must be positive, got %d", capacity)
	}

	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		capacity:   capacity,
		serializer: serializer,
		evHandler:  ev,
	}

	head, err := serializer.ChainHead()
	switch {
	case errors.Is(err, ErrNotFound):
		ev("database: New: seeding genesis: blk[%s]", genesis.Hash)

		if err := serializer.Write(NewBlockData(genesis)); err != nil {
			return nil, fmt.Errorf("write genesis: %w", err)
		}
		if err := serializer.WriteChainHead(genesis.Hash); err != nil {
			return nil, fmt.Errorf("write chain head: %w", err)
		}
		head = genesis.Hash

	case err != nil:
		return nil, fmt.Errorf("read chain head: %w", err)
	}

	if _, exists, err := db.ReadBlock(genesis.Hash); err != nil || !exists {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("genesis block %s is not part of this medium", genesis.Hash)
	}

	blocks, err := db.ancestors(head, capacity)
	if err != nil {
		return nil, err
	}
	db.active.Store(&window{blocks: blocks})

	count, err := serializer.Count()
	if err != nil {
		return nil, fmt.Errorf("count blocks: %w", err)
	}
	db.size.Store(count)

	ev("database: New: loaded: tip[%d]: first[%d]: size[%d]", db.Tip().Height(), db.First().Height(), count)

	return &db, nil
}

// Close closes the underlying medium.
func (db *Database) Close() error {
	return db.serializer.Close()
}

// ReadBlock returns the block stored under the specified hash. Absence is not
// an error, the error is reserved for a failing medium.
func (db *Database) ReadBlock(hash common.Hash) (StoredBlock, bool, error) {
	blockData, err := db.serializer.GetBlock(hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return StoredBlock{}, false, nil
		}
		return StoredBlock{}, false, fmt.Errorf("read block %s: %w", hash, err)
	}

	return ToStoredBlock(blockData), true, nil
}

// WriteBlock stores the block under its hash, overwriting any existing record.
func (db *Database) WriteBlock(sb StoredBlock) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, exists, err := db.ReadBlock(sb.Hash)
	if err != nil {
		return err
	}

	if err := db.serializer.Write(NewBlockData(sb)); err != nil {
		return fmt.Errorf("write block %s: %w", sb.Hash, err)
	}

	if !exists {
		db.size.Add(1)
	}

	return nil
}

// Size returns the number of distinct blocks ever written.
func (db *Database) Size() uint64 {
	return db.size.Load()
}

// Capacity returns the maximum number of blocks held by the window.
func (db *Database) Capacity() int {
	return db.capacity
}

// Tip returns the newest block of the best branch.
func (db *Database) Tip() StoredBlock {
	return db.active.Load().tip()
}

// First returns the oldest block still held by the window.
func (db *Database) First() StoredBlock {
	return db.active.Load().first()
}

// Get returns the block of the best branch at the specified height. Heights
// outside the window are reported as not found.
func (db *Database) Get(height uint64) (StoredBlock, bool) {
	return db.active.Load().get(height)
}

// Len returns the number of blocks held by the window.
func (db *Database) Len() int {
	return len(db.active.Load().blocks)
}

// Bounds returns the oldest and newest blocks of the window and the number
// of blocks it holds, all read from the same published window.
func (db *Database) Bounds() (first StoredBlock, tip StoredBlock, length int) {
	w := db.active.Load()
	return w.first(), w.tip(), len(w.blocks)
}

// Window returns a copy of the blocks held by the window, oldest first.
func (db *Database) Window() []StoredBlock {
	return db.active.Load().list()
}

// Append extends the best branch by one block, evicting the oldest block if
// the window is full.
func (db *Database) Append(sb StoredBlock) error {
	return db.ReplaceWindow(sb.Height(), []StoredBlock{sb})
}

// ReplaceWindow replaces every block of the best branch from the specified
// height on with the provided ascending blocks. The new chain head is made
// durable first and the new window is then published in one step.
func (db *Database) ReplaceWindow(fromHeight uint64, blocks []StoredBlock) error {
	if len(blocks) == 0 {
		return errors.New("no blocks to place in the window")
	}

	current := db.active.Load()
	first, tip := current.first().Height(), current.tip().Height()

	if fromHeight <= first || fromHeight > tip+1 {
		return fmt.Errorf("replace height %d outside window (%d, %d]", fromHeight, first, tip+1)
	}

	for i, sb := range blocks {
		if sb.Height() != fromHeight+uint64(i) {
			return fmt.Errorf("block %s at position %d has height %d, exp %d", sb.Hash, i, sb.Height(), fromHeight+uint64(i))
		}
	}

	head := blocks[len(blocks)-1]
	if err := db.serializer.WriteChainHead(head.Hash); err != nil {
		return fmt.Errorf("write chain head %s: %w", head.Hash, err)
	}

	db.active.Store(current.replace(fromHeight, blocks, db.capacity))

	if len(blocks) > 1 || fromHeight <= tip {
		db.evHandler("database: ReplaceWindow: from[%d]: blocks[%d]: head[%s]", fromHeight, len(blocks), head.Hash)
	}

	return nil
}

// =============================================================================

// ancestors walks back from the specified hash and returns up to limit blocks
// ending with that block, oldest first.
func (db *Database) ancestors(hash common.Hash, limit int) ([]*StoredBlock, error) {
	blocks := make([]*StoredBlock, limit)
	idx := limit

	for idx > 0 {
		sb, exists, err := db.ReadBlock(hash)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("ancestor %s missing from medium", hash)
		}

		idx--
		blocks[idx] = &sb

		if sb.Height() == 0 {
			break
		}
		hash = sb.Header.PreviousHash
	}

	return blocks[idx:], nil
}
