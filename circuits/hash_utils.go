package circuits

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// noteCommitment computes hash(value, label, hash(nullifier, secret)),
// the commitment stored in the state tree for a note. The inner hash is
// the note's precommitment; revealing the nullifier later marks the
// note spent without linking it to the commitment.
func noteCommitment(mimc *mimc.MiMC,
	value, label, nullifier, secret frontend.Variable) frontend.Variable {

	mimc.Reset()
	mimc.Write(nullifier)
	mimc.Write(secret)
	precommitment := mimc.Sum()

	mimc.Reset()
	mimc.Write(value)
	mimc.Write(label)
	mimc.Write(precommitment)
	h := mimc.Sum()

	mimc.Reset()
	return h
}
