// Package memory implements the ability to read and write header records to
// memory using a map keyed by block hash.
package memory

import (
	"sync"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common"
)

// Memory represents the serialization implementation for reading and storing
// blocks in memory. This implements the database.Serializer interface.
type Memory struct {
	mu     sync.RWMutex
	blocks map[common.Hash]database.BlockData
	head   *common.Hash
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{
		blocks: make(map[common.Hash]database.BlockData),
	}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write stores the block under its hash, replacing any existing record.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks[blockData.Hash] = blockData
	return nil
}

// GetBlock returns the record stored under the specified hash.
func (m *Memory) GetBlock(hash common.Hash) (database.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blockData, exists := m.blocks[hash]
	if !exists {
		return database.BlockData{}, database.ErrNotFound
	}

	return blockData, nil
}

// Count returns the number of distinct records.
func (m *Memory) Count() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return uint64(len(m.blocks)), nil
}

// WriteChainHead records the hash of the best block.
func (m *Memory) WriteChainHead(hash common.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.head = &hash
	return nil
}

// ChainHead returns the hash of the best block.
func (m *Memory) ChainHead() (common.Hash, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.head == nil {
		return common.Hash{}, database.ErrNotFound
	}

	return *m.head, nil
}
