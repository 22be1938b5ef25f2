// Package storage handles all the lower level support for reading and writing
// header records to a durable medium. Every implementation satisfies the
// database.Serializer interface.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/database/storage/memory"
)

// Supported engines for configuration.
const (
	EngineMemory = "memory"
	EngineDisk   = "disk"
	EngineBolt   = "bolt"
)

// Open constructs the serializer for the named engine.
func Open(engine string, path string) (database.Serializer, error) {
	switch engine {
	case EngineDisk:
		return NewDisk(path)
	case EngineBolt:
		return NewBolt(path)
	case EngineMemory:
		return memory.New(), nil
	}

	return nil, fmt.Errorf("unknown storage engine %q", engine)
}

// =============================================================================

// head represents the chain head pointer written to the medium.
type head struct {
	Hash string `json:"hash"`
}

func encode(blockData database.BlockData) ([]byte, error) {
	return json.Marshal(blockData)
}

func decode(data []byte) (database.BlockData, error) {
	var blockData database.BlockData
	if err := json.Unmarshal(data, &blockData); err != nil {
		return database.BlockData{}, err
	}

	return blockData, nil
}
