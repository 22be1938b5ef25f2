package state_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/ardanlabs/spvchain/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/spvchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/spvchain/foundation/blockchain/pow"
	"github.com/ardanlabs/spvchain/foundation/blockchain/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
)

//go:generate mockgen -destination=mocks_test.go -package=state_test github.com/ardanlabs/spvchain/foundation/blockchain/database Serializer

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// windowSize is the number of blocks of the best branch indexed by height.
const windowSize = 2001

var engine pow.Engine

// difficulty is the compact encoding of one unit of work, every hash
// satisfies it.
var difficulty = pow.Difficulty(big.NewInt(1))

// =============================================================================

func Test_FreshChain(t *testing.T) {
	t.Log("Given the need to start a chain with only the genesis block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling a new memory store.", testID)
		{
			st, _ := newState(t)
			gen := newGenesis().StoredBlock(engine)

			if st.Size() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have a size of 1: %d", failed, testID, st.Size())
			}
			t.Logf("\t%s\tTest %d:\tShould have a size of 1.", success, testID)

			if st.ChainHead().Hash != gen.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould have genesis as the chain head.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have genesis as the chain head.", success, testID)

			if sb, ok := st.BlockByHeight(0); !ok || sb.Hash != gen.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould find genesis at height 0.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould find genesis at height 0.", success, testID)

			if _, ok := st.BlockByHeight(1); ok {
				t.Fatalf("\t%s\tTest %d:\tShould not find a block at height 1.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not find a block at height 1.", success, testID)
		}
	}
}

func Test_WindowBound(t *testing.T) {
	t.Log("Given the need to keep a bounded window of the best branch.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen accepting 2100 blocks above genesis.", testID)
		{
			st, rec := newState(t)
			main := extend(t, st, st.ChainHead(), 2100, 0)

			if st.Size() != 2101 {
				t.Fatalf("\t%s\tTest %d:\tShould have a size of 2101: %d", failed, testID, st.Size())
			}
			t.Logf("\t%s\tTest %d:\tShould have a size of 2101.", success, testID)

			if st.First().Height() != 100 {
				t.Fatalf("\t%s\tTest %d:\tShould have the window start at height 100: %d", failed, testID, st.First().Height())
			}
			t.Logf("\t%s\tTest %d:\tShould have the window start at height 100.", success, testID)

			first, tip, length := st.WindowBounds()
			if first.Height() != 100 || tip.Hash != main[len(main)-1].Hash || length != windowSize {
				t.Fatalf("\t%s\tTest %d:\tShould report the window bounds: first[%d] tip[%d] len[%d]", failed, testID, first.Height(), tip.Height(), length)
			}
			t.Logf("\t%s\tTest %d:\tShould report the window bounds.", success, testID)

			if st.ChainHead().Hash != main[len(main)-1].Hash {
				t.Fatalf("\t%s\tTest %d:\tShould have the last block as the chain head.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have the last block as the chain head.", success, testID)

			for h := uint64(0); h <= 2100; h++ {
				_, ok := st.BlockByHeight(h)
				if ok != (h >= 100) {
					t.Fatalf("\t%s\tTest %d:\tShould only find heights inside the window: height[%d] found[%t]", failed, testID, h, ok)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould only find heights inside the window.", success, testID)

			if _, ok := st.BlockByHeight(2000); !ok {
				t.Fatalf("\t%s\tTest %d:\tShould find height 2000.", failed, testID)
			}
			if _, ok := st.BlockByHeight(5); ok {
				t.Fatalf("\t%s\tTest %d:\tShould not find height 5.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould find height 2000 but not height 5.", success, testID)

			if len(rec.extended) != 2100 || len(rec.reorganized) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould report 2100 extensions: %d %d", failed, testID, len(rec.extended), len(rec.reorganized))
			}
			t.Logf("\t%s\tTest %d:\tShould report 2100 extensions.", success, testID)

			// Evicted blocks stay reachable by hash.
			if _, exists, err := st.BlockByHash(main[4].Hash); err != nil || !exists {
				t.Fatalf("\t%s\tTest %d:\tShould find an evicted block by hash: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould find an evicted block by hash.", success, testID)
		}
	}
}

func Test_WindowBoundsConcurrent(t *testing.T) {
	t.Log("Given the need to read the window bounds while the chain grows.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen 300 blocks are accepted on a window of 10.", testID)
		{
			st, _ := newState(t, withWindow(10))

			done := make(chan error, 1)
			go func() {
				parent := st.ChainHead()
				for range 300 {
					h := header(parent, 0)
					if _, err := st.AcceptBlock(h); err != nil {
						done <- err
						return
					}
					parent, _, _ = st.BlockByHash(engine.HashHeader(h))
				}
				done <- nil
			}()

			for {
				first, tip, length := st.WindowBounds()
				if tip.Height()-first.Height()+1 != uint64(length) || length > 10 {
					t.Fatalf("\t%s\tTest %d:\tShould read consistent bounds: first[%d] tip[%d] len[%d]", failed, testID, first.Height(), tip.Height(), length)
				}

				select {
				case err := <-done:
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould accept every block: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould read consistent bounds.", success, testID)

					if st.ChainHead().Height() != 300 {
						t.Fatalf("\t%s\tTest %d:\tShould reach height 300: %d", failed, testID, st.ChainHead().Height())
					}
					t.Logf("\t%s\tTest %d:\tShould reach height 300.", success, testID)
					return
				default:
				}
			}
		}
	}
}

func Test_Reorganize(t *testing.T) {
	t.Log("Given the need to switch to a branch with more work.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a 2001 block branch forks at height 100.", testID)
		{
			st, rec := newState(t)
			main := extend(t, st, st.ChainHead(), 2100, 0)

			forkPoint, ok := st.BlockByHeight(100)
			if !ok {
				t.Fatalf("\t%s\tTest %d:\tShould find the fork point.", failed, testID)
			}

			branch := extend(t, st, forkPoint, 2001, 1)
			last := branch[len(branch)-1]

			if st.ChainHead().Hash != last.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould have the last branch block as the chain head.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have the last branch block as the chain head.", success, testID)

			if st.Size() != 1+2100+2001 {
				t.Fatalf("\t%s\tTest %d:\tShould have a size of %d: %d", failed, testID, 1+2100+2001, st.Size())
			}
			t.Logf("\t%s\tTest %d:\tShould have a size of %d.", success, testID, 1+2100+2001)

			if len(rec.reorganized) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould report one reorganization: %d", failed, testID, len(rec.reorganized))
			}
			t.Logf("\t%s\tTest %d:\tShould report one reorganization.", success, testID)

			ev := rec.reorganized[0]
			if len(ev.Old) != 2000 || len(ev.New) != 2001 || ev.ForkHeight() != 100 {
				t.Fatalf("\t%s\tTest %d:\tShould report the replaced blocks: old[%d] new[%d] fork[%d]", failed, testID, len(ev.Old), len(ev.New), ev.ForkHeight())
			}
			if ev.Old[0].Hash != main[100].Hash || ev.Old[len(ev.Old)-1].Hash != main[len(main)-1].Hash {
				t.Fatalf("\t%s\tTest %d:\tShould report the old blocks in ascending order.", failed, testID)
			}
			if ev.New[0].Hash != branch[0].Hash || ev.New[len(ev.New)-1].Hash != last.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould report the new blocks in ascending order.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould report the replaced blocks in ascending order.", success, testID)

			if sb, ok := st.BlockByHeight(2000); !ok || sb.Hash != branch[1899].Hash {
				t.Fatalf("\t%s\tTest %d:\tShould index the new branch by height.", failed, testID)
			}
			if st.First().Height() != 101 {
				t.Fatalf("\t%s\tTest %d:\tShould slide the window: first[%d]", failed, testID, st.First().Height())
			}
			t.Logf("\t%s\tTest %d:\tShould index the new branch by height.", success, testID)
		}
	}
}

func Test_FinalityGuard(t *testing.T) {
	t.Log("Given the need to refuse reorganizations deeper than the window.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a 2500 block branch forks at height 99.", testID)
		{
			st, rec := newState(t)
			main := extend(t, st, st.ChainHead(), 2100, 0)
			tip := st.ChainHead()

			branch := extend(t, st, main[98], 2500, 1)

			if st.ChainHead().Hash != tip.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould keep the chain head.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the chain head.", success, testID)

			if st.Size() != 2101+2500 {
				t.Fatalf("\t%s\tTest %d:\tShould store every branch block: %d", failed, testID, st.Size())
			}
			t.Logf("\t%s\tTest %d:\tShould store every branch block.", success, testID)

			if len(rec.reorganized) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not report a reorganization.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not report a reorganization.", success, testID)

			last := branch[len(branch)-1]
			if last.CumulativeWork.Cmp(tip.CumulativeWork) <= 0 {
				t.Fatalf("\t%s\tTest %d:\tShould have a branch with more work.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have a branch with more work.", success, testID)
		}
	}
}

func Test_Rejections(t *testing.T) {
	t.Log("Given the need to reject headers that can't be connected or validated.")
	{
		met := counter{}
		st, _ := newState(t, withMetrics(met))
		gen := st.ChainHead()

		testID := 0
		t.Logf("\tTest %d:\tWhen the parent is unknown.", testID)
		{
			h := header(gen, 0)
			h.PreviousHash = engine.HashHeader(database.BlockHeader{Nonce: 99})

			accepted, err := st.AcceptBlock(h)
			if err != nil || accepted {
				t.Fatalf("\t%s\tTest %d:\tShould reject the orphan: %t %v", failed, testID, accepted, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the orphan.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the proof of work is invalid.", testID)
		{
			h := header(gen, 0)
			h.Difficulty = 0

			accepted, err := st.AcceptBlock(h)
			if err != nil || accepted {
				t.Fatalf("\t%s\tTest %d:\tShould reject the header: %t %v", failed, testID, accepted, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the header.", success, testID)

			if _, exists, _ := st.BlockByHash(engine.HashHeader(h)); exists || st.Size() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not store the header.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not store the header.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the height doesn't follow the parent.", testID)
		{
			h := header(gen, 0)
			h.Height = 5

			accepted, err := st.AcceptBlock(h)
			if err != nil || accepted {
				t.Fatalf("\t%s\tTest %d:\tShould reject the header: %t %v", failed, testID, accepted, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the header.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the same header is accepted twice.", testID)
		{
			h := header(gen, 0)

			for i := range 2 {
				accepted, err := st.AcceptBlock(h)
				if err != nil || !accepted {
					t.Fatalf("\t%s\tTest %d:\tShould accept the header on call %d: %t %v", failed, testID, i, accepted, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould accept the header on both calls.", success, testID)

			if st.Size() != 2 || st.ChainHead().Height() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould store the header once: %d", failed, testID, st.Size())
			}
			t.Logf("\t%s\tTest %d:\tShould store the header once.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen reporting metrics.", testID)
		{
			exp := map[string]int{
				state.OutcomeOrphan:   1,
				state.OutcomeInvalid:  2,
				state.OutcomeExtended: 1,
				state.OutcomeKnown:    1,
			}

			for outcome, n := range exp {
				if met[outcome] != n {
					t.Fatalf("\t%s\tTest %d:\tShould count outcome %s: got[%d] exp[%d]", failed, testID, outcome, met[outcome], n)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould count every outcome.", success, testID)
		}
	}
}

func Test_LosingBranch(t *testing.T) {
	t.Log("Given the need to keep branches that don't beat the chain head.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a competing branch has equal work.", testID)
		{
			st, rec := newState(t)
			gen := st.ChainHead()

			main := extend(t, st, gen, 3, 0)
			branch := extend(t, st, main[0], 2, 1)

			if st.ChainHead().Hash != main[2].Hash {
				t.Fatalf("\t%s\tTest %d:\tShould keep the first branch.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the first branch.", success, testID)

			if st.Size() != 6 {
				t.Fatalf("\t%s\tTest %d:\tShould store the competing branch: %d", failed, testID, st.Size())
			}
			t.Logf("\t%s\tTest %d:\tShould store the competing branch.", success, testID)

			more := extend(t, st, branch[1], 1, 1)

			if st.ChainHead().Hash != more[0].Hash {
				t.Fatalf("\t%s\tTest %d:\tShould switch once the branch has more work.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould switch once the branch has more work.", success, testID)

			ev := rec.reorganized[0]
			if len(ev.Old) != 2 || len(ev.New) != 3 || ev.ForkHeight() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould report the switch: old[%d] new[%d]", failed, testID, len(ev.Old), len(ev.New))
			}
			t.Logf("\t%s\tTest %d:\tShould report the switch.", success, testID)

			for i, sb := range append(append([]database.StoredBlock{gen, main[0]}, branch...), more...) {
				got, ok := st.BlockByHeight(uint64(i))
				if !ok || got.Hash != sb.Hash {
					t.Fatalf("\t%s\tTest %d:\tShould index the new branch at height %d.", failed, testID, i)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould index the new branch.", success, testID)
		}
	}
}

func Test_Determinism(t *testing.T) {
	t.Log("Given the need to replay the same headers.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen replaying headers with forks on a fresh store.", testID)
		{
			st1, _ := newState(t, withWindow(10))
			main := extend(t, st1, st1.ChainHead(), 20, 0)
			extend(t, st1, main[14], 8, 1)
			extend(t, st1, main[2], 30, 2)

			st2, _ := newState(t, withWindow(10))
			main = extend(t, st2, st2.ChainHead(), 20, 0)
			extend(t, st2, main[14], 8, 1)
			extend(t, st2, main[2], 30, 2)

			w1, w2 := st1.Window(), st2.Window()
			if len(w1) != len(w2) || st1.ChainHead().Hash != st2.ChainHead().Hash {
				t.Fatalf("\t%s\tTest %d:\tShould produce the same chain head.", failed, testID)
			}
			for i := range w1 {
				if w1[i].Hash != w2[i].Hash {
					t.Fatalf("\t%s\tTest %d:\tShould produce the same window at %d.", failed, testID, i)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould produce the same chain head and window.", success, testID)

			if st1.ChainHead().Height() != 23 || len(w1) != 10 {
				t.Fatalf("\t%s\tTest %d:\tShould follow the branch with the most work: %d", failed, testID, st1.ChainHead().Height())
			}
			t.Logf("\t%s\tTest %d:\tShould follow the branch with the most work.", success, testID)
		}
	}
}

func Test_StorageFailure(t *testing.T) {
	errDisk := errors.New("disk failure")

	gen := newGenesis()
	genBlock := gen.StoredBlock(engine)
	child := header(genBlock, 0)
	childHash := engine.HashHeader(child)

	tests := []struct {
		name  string
		setup func(m *MockSerializer)
	}{
		{
			name: "read",
			setup: func(m *MockSerializer) {
				m.EXPECT().GetBlock(childHash).Return(database.BlockData{}, errDisk)
			},
		},
		{
			name: "write",
			setup: func(m *MockSerializer) {
				m.EXPECT().GetBlock(childHash).Return(database.BlockData{}, database.ErrNotFound).Times(2)
				m.EXPECT().Write(gomock.Any()).Return(errDisk)
			},
		},
		{
			name: "chain head",
			setup: func(m *MockSerializer) {
				m.EXPECT().GetBlock(childHash).Return(database.BlockData{}, database.ErrNotFound).Times(2)
				m.EXPECT().Write(gomock.Any()).Return(nil)
				m.EXPECT().WriteChainHead(childHash).Return(errDisk)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			t.Cleanup(ctrl.Finish)

			m := NewMockSerializer(ctrl)
			m.EXPECT().ChainHead().Return(genBlock.Hash, nil)
			m.EXPECT().GetBlock(genBlock.Hash).Return(database.NewBlockData(genBlock), nil).AnyTimes()
			m.EXPECT().Count().Return(uint64(1), nil)
			tt.setup(m)

			st, err := state.New(state.Config{
				Genesis:    gen,
				Serializer: m,
				Consensus:  engine,
			})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			accepted, err := st.AcceptBlock(child)
			if !errors.Is(err, errDisk) {
				t.Fatalf("AcceptBlock() error = %v, want %v", err, errDisk)
			}
			if accepted {
				t.Fatalf("AcceptBlock() accepted = true, want false")
			}
			if st.ChainHead().Hash != genBlock.Hash {
				t.Fatalf("ChainHead() changed after a failure")
			}
		})
	}

	// A header stored by a call that failed to move the chain head must
	// still become the chain head when it is delivered again.
	t.Run("chain head redelivered", func(t *testing.T) {
		ser := headFailure{Memory: memory.New()}
		st, rec := newState(t, withSerializer(&ser))
		ser.err = errDisk

		accepted, err := st.AcceptBlock(child)
		if accepted || !errors.Is(err, errDisk) {
			t.Fatalf("AcceptBlock() = %t, %v, want false, %v", accepted, err, errDisk)
		}
		if st.ChainHead().Hash != genBlock.Hash {
			t.Fatalf("ChainHead() changed after a failure")
		}

		accepted, err = st.AcceptBlock(child)
		if err != nil || !accepted {
			t.Fatalf("AcceptBlock() redelivered = %t, %v, want true, nil", accepted, err)
		}
		if st.ChainHead().Hash != childHash {
			t.Fatalf("ChainHead() = %s, want %s", st.ChainHead().Hash, childHash)
		}
		if st.Size() != 2 {
			t.Fatalf("Size() = %d, want 2", st.Size())
		}
		if len(rec.extended) != 1 {
			t.Fatalf("extensions = %d, want 1", len(rec.extended))
		}

		accepted, err = st.AcceptBlock(child)
		if err != nil || !accepted || st.ChainHead().Hash != childHash || len(rec.extended) != 1 {
			t.Fatalf("AcceptBlock() known = %t, %v, want true, nil and no change", accepted, err)
		}
	})
}

// =============================================================================

type recorder struct {
	extended    []state.ChainExtended
	reorganized []state.ChainReorganized
}

func (r *recorder) OnChainExtended(ev state.ChainExtended) {
	r.extended = append(r.extended, ev)
}

func (r *recorder) OnChainReorganized(ev state.ChainReorganized) {
	r.reorganized = append(r.reorganized, ev)
}

type counter map[string]int

func (c counter) BlockAccepted(outcome string)  { c[outcome]++ }
func (c counter) ChainReorganized(int) {}
func (c counter) ChainHeadChanged(uint64, int) {}

// headFailure fails the next chain head write with err.
type headFailure struct {
	*memory.Memory
	err error
}

func (hf *headFailure) WriteChainHead(hash common.Hash) error {
	if err := hf.err; err != nil {
		hf.err = nil
		return err
	}

	return hf.Memory.WriteChainHead(hash)
}

type option func(cfg *state.Config)

func withWindow(size int) option {
	return func(cfg *state.Config) {
		cfg.Genesis.WindowSize = size
	}
}

func withSerializer(ser database.Serializer) option {
	return func(cfg *state.Config) {
		cfg.Serializer = ser
	}
}

func withMetrics(m state.Metrics) option {
	return func(cfg *state.Config) {
		cfg.Metrics = m
	}
}

func newGenesis() genesis.Genesis {
	return genesis.Genesis{
		Network:    "test",
		WindowSize: windowSize,
		Difficulty: difficulty,
		Header: database.BlockHeader{
			Version:    1,
			Difficulty: difficulty,
		},
	}
}

func newState(t *testing.T, opts ...option) (*state.State, *recorder) {
	t.Helper()

	rec := recorder{}
	cfg := state.Config{
		Genesis:    newGenesis(),
		Serializer: memory.New(),
		Consensus:  engine,
		Listeners:  []state.Listener{&rec},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := state.New(cfg)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	return st, &rec
}

// header builds the header that follows the parent. The salt separates
// branches built on the same parent.
func header(parent database.StoredBlock, salt uint64) database.BlockHeader {
	return database.BlockHeader{
		Height:       parent.Height() + 1,
		Version:      1,
		PreviousHash: parent.Hash,
		Timestamp:    uint32(parent.Height() + 1),
		Difficulty:   difficulty,
		Nonce:        salt,
	}
}

// extend accepts n headers on top of the parent and returns the stored
// blocks in ascending order.
func extend(t *testing.T, st *state.State, parent database.StoredBlock, n int, salt uint64) []database.StoredBlock {
	t.Helper()

	blocks := make([]database.StoredBlock, 0, n)
	for range n {
		h := header(parent, salt)

		accepted, err := st.AcceptBlock(h)
		if err != nil || !accepted {
			t.Fatalf("\t%s\tShould be able to accept block at height %d: %t %v", failed, h.Height, accepted, err)
		}

		sb, exists, err := st.BlockByHash(engine.HashHeader(h))
		if err != nil || !exists {
			t.Fatalf("\t%s\tShould be able to read block at height %d: %v", failed, h.Height, err)
		}

		blocks = append(blocks, sb)
		parent = sb
	}

	return blocks
}
