package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common"
)

const (
	blocksFolder = "blocks"
	headFile     = "head.json"
)

// Disk represents the serialization implementation for reading and storing
// blocks in their own separate files on disk, named by block hash. This
// implements the database.Serializer interface.
type Disk struct {
	dbPath string
	mu     sync.Mutex
	count  uint64
}

// NewDisk constructs a Disk value for use.
func NewDisk(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Join(dbPath, blocksFolder), 0755); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(dbPath, blocksFolder))
	if err != nil {
		return nil, err
	}

	var count uint64
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			count++
		}
	}

	return &Disk{dbPath: dbPath, count: count}, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each new block and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified block and stores it on disk in a file labeled
// with the block hash.
func (d *Disk) Write(blockData database.BlockData) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Marshal the block for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(blockData, "", "  ")
	if err != nil {
		return err
	}

	path := d.getPath(blockData.Hash)

	_, err = os.Stat(path)
	exists := err == nil

	if err := writeFile(path, data); err != nil {
		return err
	}

	if !exists {
		d.count++
	}

	return nil
}

// GetBlock locates and returns the contents of the block stored under the
// specified hash.
func (d *Disk) GetBlock(hash common.Hash) (database.BlockData, error) {
	data, err := os.ReadFile(d.getPath(hash))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return database.BlockData{}, database.ErrNotFound
		}
		return database.BlockData{}, err
	}

	return decode(data)
}

// Count returns the number of block files on disk.
func (d *Disk) Count() (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.count, nil
}

// WriteChainHead records the hash of the best block.
func (d *Disk) WriteChainHead(hash common.Hash) error {
	data, err := json.Marshal(head{Hash: hash.Hex()})
	if err != nil {
		return err
	}

	return writeFile(filepath.Join(d.dbPath, headFile), data)
}

// ChainHead returns the hash of the best block.
func (d *Disk) ChainHead() (common.Hash, error) {
	data, err := os.ReadFile(filepath.Join(d.dbPath, headFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.Hash{}, database.ErrNotFound
		}
		return common.Hash{}, err
	}

	var h head
	if err := json.Unmarshal(data, &h); err != nil {
		return common.Hash{}, fmt.Errorf("decode chain head: %w", err)
	}

	return common.HexToHash(h.Hash), nil
}

// getPath forms the path to the specified block.
func (d *Disk) getPath(hash common.Hash) string {
	return filepath.Join(d.dbPath, blocksFolder, fmt.Sprintf("%s.json", hash.Hex()))
}

// writeFile replaces the contents of the file by writing a temporary file
// and renaming it, so a crash never leaves a partially written record.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
