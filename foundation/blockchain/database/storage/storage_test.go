package storage_test

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/database/storage"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func Test_Engines(t *testing.T) {
	engines := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: storage.EngineMemory, path: func(t *testing.T) string { return "" }},
		{name: storage.EngineDisk, path: func(t *testing.T) string { return t.TempDir() }},
		{name: storage.EngineBolt, path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "chain.db") }},
	}

	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			ser, err := storage.Open(engine.name, engine.path(t))
			require.NoError(t, err)
			defer ser.Close()

			_, err = ser.ChainHead()
			require.ErrorIs(t, err, database.ErrNotFound)

			_, err = ser.GetBlock(common.Hash{1})
			require.ErrorIs(t, err, database.ErrNotFound)

			bd := blockData(1, 7)
			require.NoError(t, ser.Write(bd))
			require.NoError(t, ser.Write(bd))

			count, err := ser.Count()
			require.NoError(t, err)
			require.Equal(t, uint64(1), count)

			got, err := ser.GetBlock(bd.Hash)
			require.NoError(t, err)
			require.Equal(t, bd.Header, got.Header)
			require.Equal(t, 0, got.CumulativeWork.ToInt().Cmp(bd.CumulativeWork.ToInt()))

			require.NoError(t, ser.WriteChainHead(bd.Hash))
			head, err := ser.ChainHead()
			require.NoError(t, err)
			require.Equal(t, bd.Hash, head)
		})
	}
}

func Test_Reopen(t *testing.T) {
	engines := []struct {
		name string
		path string
	}{
		{name: storage.EngineDisk, path: t.TempDir()},
		{name: storage.EngineBolt, path: filepath.Join(t.TempDir(), "chain.db")},
	}

	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			ser, err := storage.Open(engine.name, engine.path)
			require.NoError(t, err)

			for i := range 3 {
				require.NoError(t, ser.Write(blockData(byte(i+1), uint64(i))))
			}
			require.NoError(t, ser.WriteChainHead(common.Hash{3}))
			require.NoError(t, ser.Close())

			ser, err = storage.Open(engine.name, engine.path)
			require.NoError(t, err)
			defer ser.Close()

			count, err := ser.Count()
			require.NoError(t, err)
			require.Equal(t, uint64(3), count)

			head, err := ser.ChainHead()
			require.NoError(t, err)
			require.Equal(t, common.Hash{3}, head)

			got, err := ser.GetBlock(common.Hash{2})
			require.NoError(t, err)
			require.Equal(t, uint64(1), got.Header.Height)

			// The count survives the reopen and only grows for new hashes.
			require.NoError(t, ser.Write(blockData(2, 1)))
			require.NoError(t, ser.Write(blockData(4, 3)))

			count, err = ser.Count()
			require.NoError(t, err)
			require.Equal(t, uint64(4), count)
		})
	}
}

func Test_UnknownEngine(t *testing.T) {
	_, err := storage.Open("tape", "")
	require.Error(t, err)
}

// =============================================================================

func blockData(id byte, height uint64) database.BlockData {
	return database.NewBlockData(database.StoredBlock{
		Hash: common.Hash{id},
		Header: database.BlockHeader{
			Height:     height,
			Difficulty: 0x01010000,
			MerkleRoot: []byte{0xde, 0xad, 0xbe, 0xef},
		},
		Work:           big.NewInt(1),
		CumulativeWork: new(big.Int).SetUint64(height + 1),
	})
}
