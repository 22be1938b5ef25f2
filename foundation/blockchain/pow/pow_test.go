package pow_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/pow"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func header(difficulty uint32) database.BlockHeader {
	return database.BlockHeader{
		Height:       1,
		Version:      1,
		PreviousHash: common.HexToHash("0x01"),
		MerkleRoot:   []byte{0xAA, 0xBB},
		Timestamp:    1700000000,
		Difficulty:   difficulty,
	}
}

func TestDecodeWork(t *testing.T) {
	tests := []struct {
		name string
		work int64
	}{
		{name: "one", work: 1},
		{name: "small", work: 1000},
		{name: "large", work: 1 << 40},
	}

	var engine pow.Engine
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := big.NewInt(tt.work)
			require.Zero(t, work.Cmp(engine.DecodeWork(pow.Difficulty(work))))
		})
	}
}

func TestHashHeader(t *testing.T) {
	var engine pow.Engine

	h := header(pow.Difficulty(big.NewInt(1)))
	require.Equal(t, engine.HashHeader(h), engine.HashHeader(h))

	other := h
	other.Nonce++
	require.NotEqual(t, engine.HashHeader(h), engine.HashHeader(other))
}

func TestIsValidProofOfWork(t *testing.T) {
	var engine pow.Engine

	require.True(t, engine.IsValidProofOfWork(header(pow.Difficulty(big.NewInt(1)))))
	require.False(t, engine.IsValidProofOfWork(header(0)))

	// A target of 2 is out of reach for any real hash.
	impossible := new(big.Int).Lsh(big.NewInt(1), 255)
	require.False(t, engine.IsValidProofOfWork(header(pow.Difficulty(impossible))))
}

func TestSolve(t *testing.T) {
	var engine pow.Engine

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	solved, err := pow.Solve(ctx, engine, header(pow.Difficulty(big.NewInt(16))), nil)
	require.NoError(t, err)
	require.True(t, engine.IsValidProofOfWork(solved))

	_, err = pow.Solve(ctx, engine, header(0), nil)
	require.Error(t, err)

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()

	_, err = pow.Solve(cancelled, engine, header(pow.Difficulty(new(big.Int).Lsh(big.NewInt(1), 255))), nil)
	require.ErrorIs(t, err, context.Canceled)
}
