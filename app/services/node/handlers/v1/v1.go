// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/spvchain/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/spvchain/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/spvchain/foundation/blockchain/monitor"
	"github.com/ardanlabs/spvchain/foundation/blockchain/state"
	"github.com/ardanlabs/spvchain/foundation/blockchain/worker"
	"github.com/ardanlabs/spvchain/foundation/events"
	"github.com/ardanlabs/spvchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	State   *state.State
	Monitor *monitor.Monitor
	Bodies  *monitor.Bodies
	Worker  *worker.Worker
	Evts    *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:     cfg.Log,
		State:   cfg.State,
		Monitor: cfg.Monitor,
		Worker:  cfg.Worker,
		WS:      websocket.Upgrader{},
		Evts:    cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/chain/head", pbl.ChainHead)
	app.Handle(http.MethodGet, version, "/chain/height/:height", pbl.BlockByHeight)
	app.Handle(http.MethodGet, version, "/chain/hash/:hash", pbl.BlockByHash)
	app.Handle(http.MethodGet, version, "/tx", pbl.Transactions)
	app.Handle(http.MethodGet, version, "/tx/:id", pbl.Transaction)
	app.Handle(http.MethodPost, version, "/tx", pbl.Track)
	app.Handle(http.MethodGet, version, "/proof/verify", pbl.VerifyProof)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:    cfg.Log,
		State:  cfg.State,
		Bodies: cfg.Bodies,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/chain/list/:from/:to", prv.BlocksByHeight)
	app.Handle(http.MethodPost, version, "/node/chain/headers", prv.SubmitHeaders)
	app.Handle(http.MethodPost, version, "/node/chain/blocks", prv.SubmitBlocks)
}
