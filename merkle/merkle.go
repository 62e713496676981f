// Package merkle builds the state and ASP trees from fetched leaf
// values and produces the inclusion paths the withdrawal circuit
// consumes. A proof is a path that starts with the raw leaf value
// (not hashed) followed by the sibling hashes up to but excluding the
// root, matching the circuit's verifier.
package merkle

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/veilpool/VeilPool-sdk/config"
	"github.com/veilpool/VeilPool-sdk/field"
)

type Tree struct {
	depth      int
	hashFunc   config.HashFunc
	zeroHashes [][]byte
	leaves     [][]byte // raw leaf values, in insertion order
	leafHashes [][]byte
}

func NewTree(c config.TreeConfig) *Tree {
	return &Tree{
		depth:      c.Depth,
		hashFunc:   config.Hash,
		zeroHashes: c.ZeroHashes,
		leaves:     make([][]byte, 0, 100),
		leafHashes: make([][]byte, 0, 100),
	}
}

// BuildTree constructs a tree holding the given scalar leaves in order.
func BuildTree(c config.TreeConfig, leaves []*big.Int) *Tree {
	t := NewTree(c)
	for _, leaf := range leaves {
		t.AddLeaf(field.Bytes32(leaf))
	}
	return t
}

// AddLeaf appends a leaf value and returns its index.
func (t *Tree) AddLeaf(leaf []byte) int {
	t.leaves = append(t.leaves, leaf)
	t.leafHashes = append(t.leafHashes, t.hashFunc(leaf))
	return len(t.leaves) - 1
}

// Size returns the number of inserted leaves.
func (t *Tree) Size() int {
	return len(t.leaves)
}

// IndexOf returns the index of the given scalar leaf value, or false if
// it is not in the tree.
func (t *Tree) IndexOf(leaf *big.Int) (int, bool) {
	b := field.Bytes32(leaf)
	for i, v := range t.leaves {
		if bytes.Equal(v, b) {
			return i, true
		}
	}
	return 0, false
}

// Root returns the root of the tree with empty positions filled by the
// per-level zero hashes.
func (t *Tree) Root() []byte {
	level := make([][]byte, len(t.leafHashes))
	copy(level, t.leafHashes)
	if len(level) == 0 {
		level = append(level, t.zeroHashes[0])
	}
	for i := 0; i < t.depth; i++ {
		if len(level)%2 == 1 {
			level = append(level, t.zeroHashes[i])
		}
		next := make([][]byte, len(level)/2)
		for j := 0; j < len(level); j += 2 {
			next[j/2] = t.hashFunc(level[j], level[j+1])
		}
		level = next
	}
	return level[0]
}

// CreateProof returns the Merkle proof for the leaf at the given index.
// The proof starts with the leaf value and includes the sibling hashes
// up to but excluding the root.
func (t *Tree) CreateProof(index int) ([][]byte, error) {
	if index < 0 || index >= len(t.leaves) {
		return nil, errors.New("leaf index out of range")
	}

	proof := make([][]byte, 1, t.depth+1)
	proof[0] = t.leaves[index]

	level := make([][]byte, len(t.leafHashes))
	copy(level, t.leafHashes)
	idx := index
	// We decide whether we are left or right by the low bit of the
	// index at each level, append the sibling, and shift for the next
	// level up.
	for i := 0; i < t.depth; i++ {
		if len(level)%2 == 1 {
			level = append(level, t.zeroHashes[i])
		}
		if idx&1 == 0 {
			proof = append(proof, level[idx+1])
		} else {
			proof = append(proof, level[idx-1])
		}
		next := make([][]byte, len(level)/2)
		for j := 0; j < len(level); j += 2 {
			next[j/2] = t.hashFunc(level[j], level[j+1])
		}
		level = next
		idx >>= 1
	}

	return proof, nil
}

// Verify reports whether the leaf at path[0] is included in the tree
// under the given root. path is the proof returned by CreateProof.
func (t *Tree) Verify(leafIndex int, path [][]byte, root []byte) bool {
	if len(path) == 0 {
		return false
	}
	currentHash := t.hashFunc(path[0])
	for i := 1; i < len(path); i++ {
		if leafIndex&1 == 0 {
			currentHash = t.hashFunc(currentHash, path[i])
		} else {
			currentHash = t.hashFunc(path[i], currentHash)
		}
		leafIndex >>= 1
	}
	return bytes.Equal(currentHash, root)
}
