// Package worker implements local block production for the header chain. It
// is meant for private test networks where this node is the only miner.
package worker

import (
	"sync"
	"time"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/monitor"
	"github.com/ardanlabs/spvchain/foundation/blockchain/state"
)

// maxPendingTxs represents the max number of transactions waiting for the
// next block. If the channel does become full, new transactions are dropped.
const maxPendingTxs = 100

// Config represents what the worker needs besides the chain state.
type Config struct {
	Bodies       *monitor.Bodies
	MinerAddress string
	Interval     time.Duration
	EvHandler    state.EventHandler
}

// =============================================================================

// Worker manages the mining workflow for the header chain.
type Worker struct {
	state     *state.State
	bodies    *monitor.Bodies
	miner     string
	wg        sync.WaitGroup
	ticker    *time.Ticker
	shut      chan struct{}
	pending   chan database.Tx
	evHandler state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up the background mining process.
func Run(st *state.State, cfg Config) *Worker {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	bodies := cfg.Bodies
	if bodies == nil {
		bodies = monitor.NewBodies()
	}

	w := Worker{
		state:     st,
		bodies:    bodies,
		miner:     cfg.MinerAddress,
		ticker:    time.NewTicker(interval),
		shut:      make(chan struct{}),
		pending:   make(chan database.Tx, maxPendingTxs),
		evHandler: ev,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.miningOperations()
	}()

	<-hasStarted

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// =============================================================================

// SignalSubmitTx queues a transaction for the next mined block.
func (w *Worker) SignalSubmitTx(tx database.Tx) bool {
	select {
	case w.pending <- tx:
		w.evHandler("worker: SignalSubmitTx: tx[%s] queued", tx)
		return true
	default:
		w.evHandler("worker: SignalSubmitTx: queue full, tx[%s] dropped", tx)
		return false
	}
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
