package pdb

import (
	"github.com/andrew-torda/fragmatch/pdb/cmmn"
)

// MinOcc is the lowest occupancy we accept for an atom.
const MinOcc = 0.1

// resBuilder collects atoms, in file order, into residues. Atoms of
// one residue must come together, which is true of every file from
// the PDB.
type resBuilder struct {
	structID string
	model    int  // first model seen, others are ignored
	haveMod  bool // have we seen a model number
	res      []cmmn.Residue
	alt      byte // alternate location we settled on for the current residue
	nDrop    int  // atoms dropped for occupancy or alternate locations
}

// wantModel says if atoms from model m should be kept. The first model
// number we see wins.
func (b *resBuilder) wantModel(m int) bool {
	if !b.haveMod {
		b.model, b.haveMod = m, true
	}
	return m == b.model
}

// add puts an atom into the current residue or starts a new one.
func (b *resBuilder) add(id cmmn.ResID, name string, alt byte, xyz cmmn.Xyz, occ float64) {
	id.Struct = b.structID
	id.Model = b.model
	n := len(b.res)
	if n == 0 || b.res[n-1].ID != id {
		b.res = append(b.res, cmmn.Residue{ID: id, Atoms: make([]cmmn.Atom, 0, 8)})
		b.alt = 0
		n++
	}
	r := &b.res[n-1]
	if occ < MinOcc {
		b.nDrop++
		return
	}
	if alt != 0 {
		if b.alt == 0 {
			b.alt = alt
		}
		if alt != b.alt {
			b.nDrop++
			return
		}
	}
	if _, dup := r.Atom(name); dup {
		b.nDrop++
		return
	}
	r.Atoms = append(r.Atoms, cmmn.Atom{Name: name, Xyz: xyz, Occ: occ})
}

// done returns the residues with a complete backbone.
func (b *resBuilder) done() []cmmn.Residue {
	keep := b.res[:0]
	for _, r := range b.res {
		if r.HasBackbone() {
			keep = append(keep, r)
		}
	}
	return keep
}
