package private

import (
	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// header is the wire form of a header delivered by a peer.
type header struct {
	Height                     uint64        `json:"height"`
	Version                    uint16        `json:"version"`
	PreviousHash               common.Hash   `json:"previous_hash"`
	PreviousKeystoneHash       common.Hash   `json:"previous_keystone_hash"`
	SecondPreviousKeystoneHash common.Hash   `json:"second_previous_keystone_hash"`
	MerkleRoot                 hexutil.Bytes `json:"merkle_root" validate:"required,min=1,max=32"`
	Timestamp                  uint32        `json:"timestamp" validate:"required"`
	Difficulty                 uint32        `json:"difficulty" validate:"required"`
	Nonce                      uint64        `json:"nonce"`
}

func (h header) toBlockHeader() database.BlockHeader {
	return database.BlockHeader{
		Height:                     h.Height,
		Version:                    h.Version,
		PreviousHash:               h.PreviousHash,
		PreviousKeystoneHash:       h.PreviousKeystoneHash,
		SecondPreviousKeystoneHash: h.SecondPreviousKeystoneHash,
		MerkleRoot:                 h.MerkleRoot,
		Timestamp:                  h.Timestamp,
		Difficulty:                 h.Difficulty,
		Nonce:                      h.Nonce,
	}
}

type headerBatch struct {
	Headers []header `json:"headers" validate:"required,min=1,max=2000,dive"`
}

type blockBatch struct {
	Blocks []database.Block `json:"blocks" validate:"required,min=1,max=2000"`
}

type acceptResult struct {
	Hash     common.Hash `json:"hash"`
	Height   uint64      `json:"height"`
	Accepted bool        `json:"accepted"`
}

type acceptResponse struct {
	Results []acceptResult `json:"results"`
	Head    common.Hash    `json:"head"`
	Height  uint64         `json:"height"`
}

type status struct {
	Network     string      `json:"network"`
	HeadHash    common.Hash `json:"head_hash"`
	HeadHeight  uint64      `json:"head_height"`
	FirstHeight uint64      `json:"first_height"`
	StoreSize   uint64      `json:"store_size"`
}
