package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common"
	bolt "go.etcd.io/bbolt"
)

var (
	// blocksBucket holds every header record keyed by block hash.
	blocksBucket = []byte("blocks")

	// metaBucket holds the chain head pointer and the record count.
	metaBucket = []byte("meta")

	// chainHeadKey is the key of the chain head inside metaBucket.
	chainHeadKey = []byte("chain-head")

	// countKey is the key of the number of records inside metaBucket.
	countKey = []byte("count")
)

// Bolt represents the serialization implementation for reading and storing
// blocks in a single bbolt database file. This implements the
// database.Serializer interface.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens, creating if required, the bbolt database at the path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{blocksBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Write stores the block under its hash, replacing any existing record.
// The record count is raised in the same transaction when the hash is new.
func (b *Bolt) Write(blockData database.BlockData) error {
	data, err := encode(blockData)
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		blocks := tx.Bucket(blocksBucket)
		key := blockData.Hash.Bytes()

		if blocks.Get(key) == nil {
			meta := tx.Bucket(metaBucket)
			count := readCount(meta) + 1
			if err := meta.Put(countKey, binary.BigEndian.AppendUint64(nil, count)); err != nil {
				return err
			}
		}

		return blocks.Put(key, data)
	})
}

// GetBlock returns the record stored under the specified hash.
func (b *Bolt) GetBlock(hash common.Hash) (database.BlockData, error) {
	var blockData database.BlockData
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(blocksBucket).Get(hash.Bytes())
		if data == nil {
			return database.ErrNotFound
		}

		// The slice returned by Get is only valid for the life of the
		// transaction, decoding copies what we need.
		var err error
		blockData, err = decode(data)
		return err
	})

	return blockData, err
}

// Count returns the number of distinct records.
func (b *Bolt) Count() (uint64, error) {
	var count uint64
	err := b.db.View(func(tx *bolt.Tx) error {
		count = readCount(tx.Bucket(metaBucket))
		return nil
	})

	return count, err
}

// WriteChainHead records the hash of the best block.
func (b *Bolt) WriteChainHead(hash common.Hash) error {
	data, err := json.Marshal(head{Hash: hash.Hex()})
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(chainHeadKey, data)
	})
}

// ChainHead returns the hash of the best block.
func (b *Bolt) ChainHead() (common.Hash, error) {
	var h head
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get(chainHeadKey)
		if data == nil {
			return database.ErrNotFound
		}
		return json.Unmarshal(data, &h)
	})
	if err != nil {
		return common.Hash{}, err
	}

	return common.HexToHash(h.Hash), nil
}

// =============================================================================

// readCount returns the record count kept in the meta bucket.
func readCount(meta *bolt.Bucket) uint64 {
	data := meta.Get(countKey)
	if len(data) != 8 {
		return 0
	}

	return binary.BigEndian.Uint64(data)
}
