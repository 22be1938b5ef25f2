package public

import (
	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/monitor"
	"github.com/ethereum/go-ethereum/common"
)

type chainHead struct {
	Network   string             `json:"network"`
	Head      database.BlockData `json:"head"`
	First     uint64             `json:"first_height"`
	Window    int                `json:"window_size"`
	StoreSize uint64             `json:"store_size"`
}

type output struct {
	Address string `json:"address" validate:"required"`
	Amount  uint64 `json:"amount"`
}

// track is the payload used to start tracking a transaction of the watched
// address.
type track struct {
	ID            common.Hash `json:"id"`
	SourceAddress string      `json:"source_address" validate:"required"`
	Outputs       []output    `json:"outputs" validate:"required,min=1,dive"`
	Mine          bool        `json:"mine"`
}

func (t track) toTx() database.Tx {
	outs := make([]database.Output, len(t.Outputs))
	for i, out := range t.Outputs {
		outs[i] = database.Output{Address: out.Address, Amount: out.Amount}
	}

	return database.Tx{
		ID:            t.ID,
		SourceAddress: t.SourceAddress,
		Outputs:       outs,
	}
}

type txList struct {
	Address      string           `json:"address"`
	Transactions []monitor.TxMeta `json:"transactions"`
}

type proofResult struct {
	Branch string `json:"branch"`
	Root   string `json:"root"`
	Valid  bool   `json:"valid"`
}
