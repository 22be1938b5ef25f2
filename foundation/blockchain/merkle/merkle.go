// Package merkle provides the merkle tree built over the transactions of a
// block and the inclusion proofs light clients use to validate that a
// transaction is part of a block.
//
// A block holds two lists of transaction ids, proof-of-proof transactions and
// regular transactions. Each list is reduced to its own root, the two roots
// are combined, and the overall root is the hash of the metapackage hash
// followed by the combined root.
//
//	                 root
//	               /      \
//	     metapackage       combined
//	                      /        \
//	                pop root    regular root
//	                 /    \        /    \
//	               ...    ...    ...    ...
package merkle

import (
	"bytes"
	"crypto/sha256"
	"hash"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Subtree identifies which transaction list a leaf belongs to.
type Subtree int

// Set of subtrees a leaf can belong to. The values are part of the compact
// branch encoding.
const (
	Pop     Subtree = 0
	Regular Subtree = 1
)

// String implements the Stringer interface.
func (s Subtree) String() string {
	switch s {
	case Pop:
		return "pop"
	case Regular:
		return "regular"
	}

	return "unknown"
}

// =============================================================================

// Option changes how trees are built and branches are verified.
type Option func(o *options)

type options struct {
	hashStrategy func() hash.Hash
}

// WithHashStrategy is used to change the default hash strategy of using sha256
// when constructing a tree or verifying a branch.
func WithHashStrategy(hashStrategy func() hash.Hash) Option {
	return func(o *options) {
		o.hashStrategy = hashStrategy
	}
}

func newOptions(opts []Option) options {
	o := options{
		hashStrategy: sha256.New,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// sum hashes the concatenation of the two values.
func (o options) sum(left []byte, right []byte) []byte {
	h := o.hashStrategy()
	h.Write(left)
	h.Write(right)

	return h.Sum(nil)
}

// zero returns the hash used in place of an empty transaction list.
func (o options) zero() []byte {
	return make([]byte, o.hashStrategy().Size())
}

// =============================================================================

// Tree represents the merkle tree of a block. It is rebuilt on demand and
// never persisted.
type Tree struct {
	Metapackage []byte
	PopRoot     []byte
	RegularRoot []byte
	Combined    []byte
	Root        []byte

	subtrees [2]subtree
}

// subtree holds the leaves of one transaction list and, for each leaf, the
// siblings met on the way up to the subtree root.
type subtree struct {
	leafs  [][]byte
	trails [][][]byte
}

// Build constructs the tree for a block from its metapackage hash and the
// ids of its proof-of-proof and regular transactions.
func Build(metapackage common.Hash, popTxIDs []common.Hash, regularTxIDs []common.Hash, opts ...Option) *Tree {
	o := newOptions(opts)

	t := Tree{
		Metapackage: metapackage.Bytes(),
	}

	for i, ids := range [][]common.Hash{popTxIDs, regularTxIDs} {
		leafs := make([][]byte, len(ids))
		for j, id := range ids {
			leafs[j] = id.Bytes()
		}

		root, trails := reduce(o, leafs)

		t.subtrees[i] = subtree{leafs: leafs, trails: trails}
		if Subtree(i) == Pop {
			t.PopRoot = root
			continue
		}
		t.RegularRoot = root
	}

	t.Combined = o.sum(t.PopRoot, t.RegularRoot)
	t.Root = o.sum(t.Metapackage, t.Combined)

	return &t
}

// RootHex converts the merkle root to a hex encoded string.
func (t *Tree) RootHex() string {
	return hexutil.Encode(t.Root)
}

// Path returns the inclusion proof for the leaf. The siblings run from the
// leaf's immediate sibling up to, but excluding, the root. When an id appears
// more than once the first occurrence is used, proof-of-proof transactions
// first.
func (t *Tree) Path(leaf common.Hash) (Branch, bool) {
	for i, st := range t.subtrees {
		for idx, l := range st.leafs {
			if !bytes.Equal(l, leaf.Bytes()) {
				continue
			}

			other := t.RegularRoot
			if Subtree(i) == Regular {
				other = t.PopRoot
			}

			siblings := make([][]byte, 0, len(st.trails[idx])+2)
			siblings = append(siblings, st.trails[idx]...)
			siblings = append(siblings, other, t.Metapackage)

			b := Branch{
				Subtree:  Subtree(i),
				Index:    idx,
				Leaf:     leaf.Bytes(),
				Siblings: siblings,
			}

			return b, true
		}
	}

	return Branch{}, false
}

// =============================================================================

// reduce hashes the level pairwise, duplicating the last node of an odd
// level, until one node remains. It returns that root and, for every node of
// the level, the siblings met on the way up. An empty level reduces to the
// zero hash and a single node is its own root.
func reduce(o options, level [][]byte) ([]byte, [][][]byte) {
	switch len(level) {
	case 0:
		return o.zero(), nil
	case 1:
		return level[0], [][][]byte{nil}
	}

	parents := make([][]byte, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		right := i + 1
		if right == len(level) {
			right = i
		}
		parents = append(parents, o.sum(level[i], level[right]))
	}

	root, upper := reduce(o, parents)

	trails := make([][][]byte, len(level))
	for i := range level {
		sibling := i ^ 1
		if sibling == len(level) {
			sibling = i
		}

		trail := make([][]byte, 0, len(upper[i/2])+1)
		trail = append(trail, level[sibling])
		trails[i] = append(trail, upper[i/2]...)
	}

	return root, trails
}
