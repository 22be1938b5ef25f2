// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/spvchain/business/sys/validate"
	"github.com/ardanlabs/spvchain/business/web/errs"
	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/merkle"
	"github.com/ardanlabs/spvchain/foundation/blockchain/monitor"
	"github.com/ardanlabs/spvchain/foundation/blockchain/state"
	"github.com/ardanlabs/spvchain/foundation/blockchain/worker"
	"github.com/ardanlabs/spvchain/foundation/events"
	"github.com/ardanlabs/spvchain/foundation/web"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of chain and monitor endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	State   *state.State
	Monitor *monitor.Monitor
	Worker  *worker.Worker
	WS      websocket.Upgrader
	Evts    *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// ChainHead returns the newest block of the best branch.
func (h Handlers) ChainHead(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	first, tip, length := h.State.WindowBounds()

	head := chainHead{
		Network:   h.State.RetrieveGenesis().Network,
		Head:      database.NewBlockData(tip),
		First:     first.Height(),
		Window:    length,
		StoreSize: h.State.Size(),
	}

	return web.Respond(ctx, w, head, http.StatusOK)
}

// BlockByHeight returns the block of the best branch at the height.
func (h Handlers) BlockByHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	height, err := strconv.ParseUint(web.Param(r, "height"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid height: %w", err), http.StatusBadRequest)
	}

	sb, exists := h.State.BlockByHeight(height)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("no block at height %d in the window", height), http.StatusNotFound)
	}

	return web.Respond(ctx, w, database.NewBlockData(sb), http.StatusOK)
}

// BlockByHash returns any stored block.
func (h Handlers) BlockByHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash, err := merkle.ParseHash(web.Param(r, "hash"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	sb, exists, err := h.State.BlockByHash(hash)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NewTrusted(fmt.Errorf("block %s not found", hash), http.StatusNotFound)
	}

	return web.Respond(ctx, w, database.NewBlockData(sb), http.StatusOK)
}

// Transactions returns every transaction known to the monitor.
func (h Handlers) Transactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	list := txList{
		Address:      h.Monitor.Address(),
		Transactions: h.Monitor.Transactions(),
	}

	return web.Respond(ctx, w, list, http.StatusOK)
}

// Transaction returns what the monitor knows about one transaction.
func (h Handlers) Transaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := merkle.ParseHash(web.Param(r, "id"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tm, exists := h.Monitor.Meta(id)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("transaction %s not tracked", id), http.StatusNotFound)
	}

	return web.Respond(ctx, w, tm, http.StatusOK)
}

// Track starts tracking a transaction of the watched address. When the node
// mines locally, the transaction can be queued for the next block.
func (h Handlers) Track(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req track
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	tx := req.toTx()
	if tx.ID == (common.Hash{}) {
		return errs.NewTrusted(errors.New("transaction id is required"), http.StatusBadRequest)
	}

	h.Log.Infow("track tx", "traceid", v.TraceID, "tx", tx, "mine", req.Mine)

	if err := h.Monitor.Track(tx); err != nil {
		if errors.Is(err, monitor.ErrNotInvolved) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	if req.Mine {
		if h.Worker == nil {
			return errs.NewTrusted(errors.New("this node does not mine"), http.StatusConflict)
		}
		if !h.Worker.SignalSubmitTx(tx) {
			return errs.NewTrusted(errors.New("mining queue is full"), http.StatusServiceUnavailable)
		}
	}

	tm, _ := h.Monitor.Meta(tx.ID)
	return web.Respond(ctx, w, tm, http.StatusAccepted)
}

// VerifyProof checks a compact merkle branch against a published root.
func (h Handlers) VerifyProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	branch, err := merkle.ParseBranch(q.Get("branch"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	root, err := merkle.ParseRoot(q.Get("root"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	result := proofResult{
		Branch: branch.String(),
		Root:   hexutil.Encode(root),
		Valid:  branch.Verify(root),
	}

	return web.Respond(ctx, w, result, http.StatusOK)
}
