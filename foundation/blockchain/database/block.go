package database

import (
	"math/big"

	"github.com/ardanlabs/spvchain/foundation/blockchain/merkle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockHeader represents the information a light client tracks for each
// block. The block hash is a pure function of these fields and is computed
// by the consensus collaborator, never stored in the header itself.
type BlockHeader struct {
	Height                     uint64        `json:"height"`                        // Distance from genesis.
	Version                    uint16        `json:"version"`                       // Header format version.
	PreviousHash               common.Hash   `json:"previous_hash"`                 // Hash of the parent block.
	PreviousKeystoneHash       common.Hash   `json:"previous_keystone_hash"`        // Hash of the last keystone block.
	SecondPreviousKeystoneHash common.Hash   `json:"second_previous_keystone_hash"` // Hash of the keystone before that.
	MerkleRoot                 hexutil.Bytes `json:"merkle_root"`                   // Published, possibly truncated, merkle root.
	Timestamp                  uint32        `json:"timestamp"`                     // Time the block was mined.
	Difficulty                 uint32        `json:"difficulty"`                    // Compact encoding of the block's work.
	Nonce                      uint64        `json:"nonce"`                         // Value identified to solve the hash solution.
}

// =============================================================================

// StoredBlock is the record kept for every header that passed validation. It
// is immutable once written.
type StoredBlock struct {
	Hash           common.Hash
	Header         BlockHeader
	Work           *big.Int
	CumulativeWork *big.Int
}

// Height returns the height of the block.
func (sb StoredBlock) Height() uint64 {
	return sb.Header.Height
}

// IsZero reports whether the value was never populated.
func (sb StoredBlock) IsZero() bool {
	return sb.CumulativeWork == nil
}

// =============================================================================

// BlockData represents what is written to the durable medium.
type BlockData struct {
	Hash           common.Hash  `json:"hash"`
	Header         BlockHeader  `json:"header"`
	Work           *hexutil.Big `json:"work"`
	CumulativeWork *hexutil.Big `json:"cumulative_work"`
}

// NewBlockData constructs the value to serialize to the medium.
func NewBlockData(sb StoredBlock) BlockData {
	return BlockData{
		Hash:           sb.Hash,
		Header:         sb.Header,
		Work:           (*hexutil.Big)(new(big.Int).Set(sb.Work)),
		CumulativeWork: (*hexutil.Big)(new(big.Int).Set(sb.CumulativeWork)),
	}
}

// ToStoredBlock converts a BlockData read from the medium into a StoredBlock.
func ToStoredBlock(bd BlockData) StoredBlock {
	work := new(big.Int)
	if bd.Work != nil {
		work.Set(bd.Work.ToInt())
	}

	cumulative := new(big.Int)
	if bd.CumulativeWork != nil {
		cumulative.Set(bd.CumulativeWork.ToInt())
	}

	return StoredBlock{
		Hash:           bd.Hash,
		Header:         bd.Header,
		Work:           work,
		CumulativeWork: cumulative,
	}
}

// =============================================================================

// Block represents a header together with the transaction content needed to
// build inclusion proofs. Light clients obtain these from peers on demand.
type Block struct {
	Hash            common.Hash `json:"hash"`
	Header          BlockHeader `json:"header"`
	MetapackageHash common.Hash `json:"metapackage_hash"`
	PopTxs          []Tx        `json:"pop_txs"`
	RegularTxs      []Tx        `json:"regular_txs"`
}

// Tree builds the merkle tree over the block's transaction ids.
func (b Block) Tree(options ...merkle.Option) *merkle.Tree {
	return merkle.Build(b.MetapackageHash, txIDs(b.PopTxs), txIDs(b.RegularTxs), options...)
}

// FindTx locates the transaction with the specified id in the block.
func (b Block) FindTx(id common.Hash) (Tx, bool) {
	for _, txs := range [][]Tx{b.PopTxs, b.RegularTxs} {
		for _, tx := range txs {
			if tx.ID == id {
				return tx, true
			}
		}
	}

	return Tx{}, false
}

// TxsFor returns the transactions in the block that involve the address.
func (b Block) TxsFor(address string) []Tx {
	var txs []Tx
	for _, list := range [][]Tx{b.PopTxs, b.RegularTxs} {
		for _, tx := range list {
			if tx.Involves(address) {
				txs = append(txs, tx)
			}
		}
	}

	return txs
}

func txIDs(txs []Tx) []common.Hash {
	ids := make([]common.Hash, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
	}

	return ids
}
