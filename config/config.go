package config

import (
	"github.com/veilpool/VeilPool-sdk/mimc"

	"github.com/consensys/gnark-crypto/ecc"
)

// protocol constants
const (
	StateTreeLevels = 32
	ASPTreeLevels   = 20
	Curve           = ecc.BN254

	// relay fee charged on every withdrawal, in basis points of the
	// withdrawn amount; protocol-wide, not user supplied
	RelayFeeBasisPoints = 1000

	// microalgos per whole Algo; user-facing amounts are decimal Algo strings
	MicroUnit = 1_000_000

	WithdrawalMethodName = "withdraw"
	NoOpMethodName       = "noop"

	// box names on the pool application
	LeavesBoxName  = "leaves"
	LabelsBoxName  = "labels"
	SubtreeBoxName = "subtree"
	RootsBoxName   = "roots"

	// global state key holding the pool scope
	ScopeStateKey = "scope"
)

// transaction fees required
const (
	// # top level transactions needed for logicsig verifier opcode budget
	VerifierTopLevelTxnNeeded = 8

	// fees needed for a withdrawal transaction group
	WithdrawalMinFeeMultiplier = 180

	// MBR for each nullifier box storage
	NullifierMbr = 15_300 // 2500 + 400*32
)

type HashFunc = func(...[]byte) []byte

type TreeConfig struct {
	Depth      int
	ZeroValue  []byte
	ZeroHashes [][]byte
}

var (
	StateTree TreeConfig
	ASPTree   TreeConfig
	Hash      HashFunc
)

func init() {
	Hash = mimc.NewMimcF(Curve)
	StateTree = TreeConfig{Depth: StateTreeLevels, ZeroValue: []byte{0}}
	StateTree.ZeroHashes = GenerateZeroHashes(StateTree.Depth, StateTree.ZeroValue)
	ASPTree = TreeConfig{Depth: ASPTreeLevels, ZeroValue: []byte{0}}
	ASPTree.ZeroHashes = GenerateZeroHashes(ASPTree.Depth, ASPTree.ZeroValue)
}

func GenerateZeroHashes(depth int, zeroValue []byte) [][]byte {
	subtree := make([][]byte, depth+1)
	subtree[0] = Hash(zeroValue)
	for i := 1; i <= depth; i++ {
		subtree[i] = Hash(subtree[i-1], subtree[i-1])
	}
	return subtree
}
