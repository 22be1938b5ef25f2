// Package state is the core API for the header chain and implements the fork
// choice and reorganization rules.
package state

import (
	"math/big"
	"sync"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/genesis"
	"github.com/ethereum/go-ethereum/common"
)

// EventHandler defines a function that is called when events
// occur in the processing of accepting blocks.
type EventHandler func(v string, args ...any)

// Consensus represents the functions owned by the consensus rules of the
// network. They must be pure.
type Consensus interface {
	HashHeader(header database.BlockHeader) common.Hash
	DecodeWork(difficulty uint32) *big.Int
	IsValidProofOfWork(header database.BlockHeader) bool
}

// Metrics represents the behavior used to report chain activity. A nil
// Metrics in the Config disables reporting.
type Metrics interface {
	BlockAccepted(outcome string)
	ChainReorganized(depth int)
	ChainHeadChanged(height uint64, windowSize int)
}

// Worker interface represents the behavior required to be implemented by any
// package providing support for producing blocks locally.
type Worker interface {
	Shutdown()
}

// =============================================================================

// Config represents the configuration required to start the header chain.
type Config struct {
	Genesis    genesis.Genesis
	Serializer database.Serializer
	Consensus  Consensus
	Listeners  []Listener
	Metrics    Metrics
	EvHandler  EventHandler
}

// State manages the header chain. AcceptBlock is the only way to change it.
type State struct {
	mu sync.Mutex

	genesis   genesis.Genesis
	consensus Consensus
	listeners []Listener
	metrics   Metrics
	evHandler EventHandler
	db        *database.Database

	Worker Worker
}

// New constructs the header chain on top of the serializer. An empty medium
// is seeded with the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	// Open the database, rebuilding the window from the persisted
	// chain head when there is one.
	db, err := database.New(cfg.Serializer, cfg.Genesis.StoredBlock(cfg.Consensus), cfg.Genesis.WindowSize, database.EventHandler(ev))
	if err != nil {
		return nil, err
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noMetrics{}
	}

	state := State{
		genesis:   cfg.Genesis,
		consensus: cfg.Consensus,
		listeners: cfg.Listeners,
		metrics:   metrics,
		evHandler: ev,
		db:        db,
	}

	tip := db.Tip()
	metrics.ChainHeadChanged(tip.Height(), db.Len())

	return &state, nil
}

// Shutdown cleanly brings the chain down.
func (s *State) Shutdown() error {

	// Stop all block producing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	// Make sure the database is properly closed.
	return s.db.Close()
}

// =============================================================================

type noMetrics struct{}

func (noMetrics) BlockAccepted(string) {}
func (noMetrics) ChainReorganized(int) {}
func (noMetrics) ChainHeadChanged(uint64, int) {}
