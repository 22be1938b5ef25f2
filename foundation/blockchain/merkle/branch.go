package merkle

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidBranch is returned when a compact branch can't be parsed.
var ErrInvalidBranch = errors.New("invalid merkle branch")

// Branch represents the proof that a transaction is included in a block.
// The last two siblings are always the root of the other subtree and the
// metapackage hash.
type Branch struct {
	Subtree  Subtree
	Index    int
	Leaf     []byte
	Siblings [][]byte
}

// String returns the compact encoding of the branch:
//
//	<subtree>:<index>:<leaf>:<sibling0>:...:<siblingK>
//
// with every hash in upper-case hex.
func (b Branch) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(int(b.Subtree)))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(b.Index))
	sb.WriteByte(':')
	sb.WriteString(upperHex(b.Leaf))

	for _, sibling := range b.Siblings {
		sb.WriteByte(':')
		sb.WriteString(upperHex(sibling))
	}

	return sb.String()
}

// MarshalText implements the TextMarshaler interface using the compact
// encoding.
func (b Branch) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements the TextUnmarshaler interface using the compact
// encoding.
func (b *Branch) UnmarshalText(text []byte) error {
	branch, err := ParseBranch(string(text))
	if err != nil {
		return err
	}

	*b = branch
	return nil
}

// ParseBranch decodes the compact encoding produced by String. Hex digits are
// accepted in either case.
func ParseBranch(s string) (Branch, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return Branch{}, fmt.Errorf("%w: expected at least 3 fields, got %d", ErrInvalidBranch, len(parts))
	}

	subtree, err := strconv.Atoi(parts[0])
	if err != nil || (Subtree(subtree) != Pop && Subtree(subtree) != Regular) {
		return Branch{}, fmt.Errorf("%w: subtree %q", ErrInvalidBranch, parts[0])
	}

	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return Branch{}, fmt.Errorf("%w: index %q", ErrInvalidBranch, parts[1])
	}

	leaf, err := hex.DecodeString(parts[2])
	if err != nil || len(leaf) == 0 {
		return Branch{}, fmt.Errorf("%w: leaf %q", ErrInvalidBranch, parts[2])
	}

	siblings := make([][]byte, 0, len(parts)-3)
	for i, part := range parts[3:] {
		sibling, err := hex.DecodeString(part)
		if err != nil || len(sibling) == 0 {
			return Branch{}, fmt.Errorf("%w: sibling %d %q", ErrInvalidBranch, i, part)
		}
		siblings = append(siblings, sibling)
	}

	b := Branch{
		Subtree:  Subtree(subtree),
		Index:    index,
		Leaf:     leaf,
		Siblings: siblings,
	}

	return b, nil
}

// ParseRoot decodes a published merkle root, or a truncated prefix of one,
// written in hex with or without a 0x prefix.
func ParseRoot(s string) ([]byte, error) {
	root, err := decodeHex(s)
	if err != nil || len(root) == 0 {
		return nil, fmt.Errorf("invalid merkle root %q", s)
	}

	return root, nil
}

// ParseHash decodes a transaction id or metapackage hash written in hex with
// or without a 0x prefix.
func ParseHash(s string) (common.Hash, error) {
	b, err := decodeHex(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid hash %q", s)
	}

	return common.BytesToHash(b), nil
}

// Verify recomputes the root from the leaf and the siblings and compares it
// with the expected root. The expected root may be a truncated prefix of the
// full root, only its width is compared. Malformed branches never verify.
//
// Below the subtree root bit i of the index decides the order at level i, a
// 0 bit hashes current||sibling and a 1 bit hashes sibling||current. At the
// subtree level the proof-of-proof root is always on the left. The final
// level always hashes metapackage||current.
func (b Branch) Verify(expectedRoot []byte, opts ...Option) bool {
	if len(expectedRoot) == 0 || len(b.Leaf) == 0 || len(b.Siblings) < 2 || b.Index < 0 {
		return false
	}

	levels := len(b.Siblings) - 2
	if levels < 63 && b.Index>>levels != 0 {
		return false
	}

	o := newOptions(opts)

	current := b.Leaf
	for i := range levels {
		if (b.Index>>i)&1 == 0 {
			current = o.sum(current, b.Siblings[i])
			continue
		}
		current = o.sum(b.Siblings[i], current)
	}

	switch b.Subtree {
	case Pop:
		current = o.sum(current, b.Siblings[levels])
	case Regular:
		current = o.sum(b.Siblings[levels], current)
	default:
		return false
	}

	current = o.sum(b.Siblings[levels+1], current)

	if len(current) < len(expectedRoot) {
		return false
	}

	return bytes.Equal(current[:len(expectedRoot)], expectedRoot)
}

// decodeHex accepts hex digits in either case and an optional 0x prefix.
func decodeHex(s string) ([]byte, error) {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}

	return hex.DecodeString(s)
}

func upperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
