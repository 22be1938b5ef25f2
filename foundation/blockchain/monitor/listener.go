package monitor

import (
	"errors"
	"sync"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/state"
	"github.com/ethereum/go-ethereum/common"
)

// ErrBlockNotFound is returned by a BlockFetcher that doesn't have the
// contents of the requested block.
var ErrBlockNotFound = errors.New("block contents not found")

// BlockFetcher represents the behavior required to obtain the transactions
// of a block the chain knows only by its header.
type BlockFetcher interface {
	FetchBlock(hash common.Hash) (database.Block, error)
}

// EventHandler defines a function that is called when events
// occur in the processing of chain notifications.
type EventHandler func(v string, args ...any)

// =============================================================================

// Listener feeds chain notifications to a set of monitors. It implements
// the state.Listener interface.
type Listener struct {
	fetcher   BlockFetcher
	evHandler EventHandler

	mu       sync.RWMutex
	monitors []*Monitor
}

// NewListener constructs a listener that fetches block contents with the
// fetcher.
func NewListener(fetcher BlockFetcher, evHandler EventHandler, monitors ...*Monitor) *Listener {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Listener{
		fetcher:   fetcher,
		evHandler: ev,
		monitors:  monitors,
	}
}

// Add registers another monitor.
func (l *Listener) Add(m *Monitor) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.monitors = append(l.monitors, m)
}

// OnChainExtended implements the state.Listener interface.
func (l *Listener) OnChainExtended(ev state.ChainExtended) {
	added := l.fetch(ev.Added)

	for _, m := range l.list() {
		m.OnChainExtended(added)
	}
}

// OnChainReorganized implements the state.Listener interface.
func (l *Listener) OnChainReorganized(ev state.ChainReorganized) {
	oldBlocks := l.fetch(ev.Old)
	newBlocks := l.fetch(ev.New)

	l.evHandler("monitor: OnChainReorganized: fork[%d]: old[%d]: new[%d]", ev.ForkHeight(), len(oldBlocks), len(newBlocks))

	for _, m := range l.list() {
		m.OnReorganized(oldBlocks, newBlocks)
	}
}

// DownloadCompleted reconciles every monitor with the blocks of the best
// branch, usually the chain window once a download finishes.
func (l *Listener) DownloadCompleted(stored []database.StoredBlock) {
	blocks := l.fetch(stored)

	blocksByHash := make(map[common.Hash]database.Block, len(blocks))
	for _, block := range blocks {
		blocksByHash[block.Hash] = block
	}

	for _, m := range l.list() {
		m.OnChainDownloadCompleted(blocksByHash)
	}
}

// =============================================================================

func (l *Listener) list() []*Monitor {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]*Monitor(nil), l.monitors...)
}

// fetch obtains the contents of the blocks. A block whose contents can't be
// fetched is passed on with its header only, so it still counts for depth
// and membership.
func (l *Listener) fetch(stored []database.StoredBlock) []database.Block {
	blocks := make([]database.Block, len(stored))

	for i, sb := range stored {
		block, err := l.fetcher.FetchBlock(sb.Hash)
		if err != nil {
			if !errors.Is(err, ErrBlockNotFound) {
				l.evHandler("monitor: fetch: blk[%s]: ERROR: %s", sb.Hash, err)
			}
			block = database.Block{}
		}

		block.Hash = sb.Hash
		block.Header = sb.Header
		blocks[i] = block
	}

	return blocks
}

// =============================================================================

// Bodies keeps the contents of blocks received from peers or mined locally
// so the listener can fetch them. It implements the BlockFetcher interface.
type Bodies struct {
	mu     sync.RWMutex
	blocks map[common.Hash]database.Block
}

// NewBodies constructs an empty set of block contents.
func NewBodies() *Bodies {
	return &Bodies{
		blocks: make(map[common.Hash]database.Block),
	}
}

// Add stores the contents of the block.
func (b *Bodies) Add(block database.Block) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blocks[block.Hash] = block
}

// FetchBlock implements the BlockFetcher interface.
func (b *Bodies) FetchBlock(hash common.Hash) (database.Block, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	block, exists := b.blocks[hash]
	if !exists {
		return database.Block{}, ErrBlockNotFound
	}

	return block, nil
}
