// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultWindowSize is the number of recent blocks of the best branch kept
// indexed by height when the genesis file doesn't say otherwise.
const DefaultWindowSize = 2001

// Consensus represents the functions needed to turn the genesis header into
// a stored block.
type Consensus interface {
	HashHeader(header database.BlockHeader) common.Hash
	DecodeWork(difficulty uint32) *big.Int
}

// Genesis represents the genesis file.
type Genesis struct {
	Date       time.Time            `json:"date"`
	Network    string               `json:"network"`     // Name of the network these parameters belong to.
	WindowSize int                  `json:"window_size"` // Blocks of the best branch indexed by height.
	Difficulty uint32               `json:"difficulty"`  // Compact difficulty used when mining locally.
	Header     database.BlockHeader `json:"header"`      // Header of the block at height 0.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, fmt.Errorf("genesis %s: %w", path, err)
	}

	return genesis, nil
}

// Validate checks the parameters and applies defaults.
func (g *Genesis) Validate() error {
	if g.WindowSize == 0 {
		g.WindowSize = DefaultWindowSize
	}

	if g.WindowSize < 1 {
		return fmt.Errorf("window size must be positive, got %d", g.WindowSize)
	}

	if g.Header.Height != 0 {
		return fmt.Errorf("genesis header must be at height 0, got %d", g.Header.Height)
	}

	return nil
}

// StoredBlock returns the genesis block as it is written to the database.
func (g Genesis) StoredBlock(c Consensus) database.StoredBlock {
	work := c.DecodeWork(g.Header.Difficulty)

	return database.StoredBlock{
		Hash:           c.HashHeader(g.Header),
		Header:         g.Header,
		Work:           work,
		CumulativeWork: new(big.Int).Set(work),
	}
}
