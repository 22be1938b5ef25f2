// Package private maintains the group of handlers for node to node access.
package private

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ardanlabs/spvchain/business/sys/validate"
	"github.com/ardanlabs/spvchain/business/web/errs"
	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/monitor"
	"github.com/ardanlabs/spvchain/foundation/blockchain/state"
	"github.com/ardanlabs/spvchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Bodies *monitor.Bodies
}

// SubmitHeaders hands a batch of headers received from a peer to the chain.
// Headers are processed in order and orphans are reported as not accepted,
// the peer may deliver them again once their parents are known.
func (h Handlers) SubmitHeaders(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var batch headerBatch
	if err := web.Decode(r, &batch); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(batch); err != nil {
		return err
	}

	h.Log.Infow("submit headers", "traceid", v.TraceID, "headers", len(batch.Headers))

	headers := make([]database.BlockHeader, len(batch.Headers))
	for i, hdr := range batch.Headers {
		headers[i] = hdr.toBlockHeader()
	}

	resp, err := h.accept(headers)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitBlocks stores the contents of full blocks received from a peer and
// hands their headers to the chain. A block whose contents don't match the
// merkle root of its header is refused.
func (h Handlers) SubmitBlocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var batch blockBatch
	if err := web.Decode(r, &batch); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(batch); err != nil {
		return err
	}

	h.Log.Infow("submit blocks", "traceid", v.TraceID, "blocks", len(batch.Blocks))

	consensus := h.State.RetrieveConsensus()

	headers := make([]database.BlockHeader, len(batch.Blocks))
	for i, block := range batch.Blocks {
		root := block.Tree().Root
		published := block.Header.MerkleRoot
		if len(published) == 0 || len(published) > len(root) || !bytes.Equal(root[:len(published)], published) {
			return errs.NewTrusted(fmt.Errorf("block %d: contents don't match the merkle root", i), http.StatusBadRequest)
		}

		// The contents must be known before the chain notifies listeners.
		block.Hash = consensus.HashHeader(block.Header)
		h.Bodies.Add(block)

		headers[i] = block.Header
	}

	resp, err := h.accept(headers)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	first, tip, _ := h.State.WindowBounds()

	st := status{
		Network:     h.State.RetrieveGenesis().Network,
		HeadHash:    tip.Hash,
		HeadHeight:  tip.Height(),
		FirstHeight: first.Height(),
		StoreSize:   h.State.Size(),
	}

	return web.Respond(ctx, w, st, http.StatusOK)
}

// BlocksByHeight returns the blocks of the best branch based on the
// specified from/to values. Only heights inside the window are returned.
func (h Handlers) BlocksByHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	first, head, _ := h.State.WindowBounds()
	tip := head.Height()

	parse := func(s string) (uint64, error) {
		if s == "latest" || s == "" {
			return tip, nil
		}
		return strconv.ParseUint(s, 10, 64)
	}

	from, err := parse(web.Param(r, "from"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	to, err := parse(web.Param(r, "to"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	var blockData []database.BlockData
	for height := max(from, first.Height()); height <= min(to, tip); height++ {
		sb, exists := h.State.BlockByHeight(height)
		if !exists {
			break
		}
		blockData = append(blockData, database.NewBlockData(sb))
	}

	if len(blockData) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blockData, http.StatusOK)
}

// =============================================================================

func (h Handlers) accept(headers []database.BlockHeader) (acceptResponse, error) {
	consensus := h.State.RetrieveConsensus()

	results := make([]acceptResult, len(headers))
	for i, hdr := range headers {
		accepted, err := h.State.AcceptBlock(hdr)
		if err != nil {
			return acceptResponse{}, fmt.Errorf("accept header %d: %w", i, err)
		}

		results[i] = acceptResult{
			Hash:     consensus.HashHeader(hdr),
			Height:   hdr.Height,
			Accepted: accepted,
		}
	}

	tip := h.State.ChainHead()

	resp := acceptResponse{
		Results: results,
		Head:    tip.Hash,
		Height:  tip.Height(),
	}

	return resp, nil
}
