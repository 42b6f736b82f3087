// Package pdb/cmmn has common definitions for coordinates, atoms and
// residues. Everything downstream of the file readers talks in these
// types.
package cmmn

import (
	"math"
	"strconv"
)

// Does our data come from a file or a gzipped file ?
const (
	FileSrc byte = iota
	GzipSrc
)

// maxPeptide is the longest C to N distance we still call a peptide bond.
const maxPeptide = 2.0

type Xyz struct{ X, Y, Z float64 }
type XyzSl []Xyz // xyz's are coordinates

var BrokenXyz = Xyz{math.MaxFloat64, 0, -math.MaxFloat64}

func (xyz *Xyz) Ok() bool {
	if *xyz != BrokenXyz {
		return true
	}
	return false
}

// Add returns a + b
func (a Xyz) Add(b Xyz) Xyz { return Xyz{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b
func (a Xyz) Sub(b Xyz) Xyz { return Xyz{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale multiplies each component by f
func (a Xyz) Scale(f float64) Xyz { return Xyz{a.X * f, a.Y * f, a.Z * f} }

// Atom is one atom from a coordinate file.
type Atom struct {
	Name string
	Xyz  Xyz
	Occ  float64
}

// ResID is everything we need to say which residue we are talking about.
// It is small and comparable, so it can be a map key.
type ResID struct {
	Struct  string // structure id, usually the file name or a pdb code
	Model   int
	Chain   string
	Num     int  // residue number from the file
	InsCode byte // insertion code, 0 if there is none
	Name    string
}

// Key returns the residue identity without the residue name, which is
// what we want when comparing positions.
func (r ResID) Key() ResID {
	r.Name = ""
	return r
}

// String gives chain, number and insertion code like "A:42b"
func (r ResID) String() string {
	s := r.Chain + ":" + strconv.Itoa(r.Num)
	if r.InsCode != 0 && r.InsCode != ' ' {
		s += string(r.InsCode)
	}
	return s
}

// Follows says if r comes straight after prev according to the
// numbering only. Used where we have identities, but no coordinates.
func (r ResID) Follows(prev ResID) bool {
	if r.Struct != prev.Struct || r.Model != prev.Model || r.Chain != prev.Chain {
		return false
	}
	if r.Num == prev.Num+1 {
		return true
	}
	if r.Num == prev.Num && r.InsCode > prev.InsCode {
		return true // 52, 52A, 52B
	}
	return false
}

// Residue is a residue with its atoms. Atoms are few, so a slice and
// a linear search is cheaper than a map.
type Residue struct {
	ID    ResID
	Atoms []Atom
}

// Atom returns the named atom and whether it was there.
func (r *Residue) Atom(name string) (Atom, bool) {
	for _, a := range r.Atoms {
		if a.Name == name {
			return a, true
		}
	}
	return Atom{}, false
}

// HasBackbone is true if the residue has all of N, CA, C and O.
func (r *Residue) HasBackbone() bool {
	for _, n := range []string{"N", "CA", "C", "O"} {
		if _, ok := r.Atom(n); !ok {
			return false
		}
	}
	return true
}

// SeqAdjacent says if b follows a in the same chain. If both have the
// peptide atoms, we trust the geometry. Otherwise we fall back to the
// residue numbering.
func SeqAdjacent(a, b *Residue) bool {
	ia, ib := a.ID, b.ID
	if ia.Struct != ib.Struct || ia.Model != ib.Model || ia.Chain != ib.Chain {
		return false
	}
	c, okc := a.Atom("C")
	n, okn := b.Atom("N")
	if okc && okn {
		d := n.Xyz.Sub(c.Xyz)
		return d.X*d.X+d.Y*d.Y+d.Z*d.Z <= maxPeptide*maxPeptide
	}
	return ib.Follows(ia)
}

var oneLetter = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLN": 'Q', "GLU": 'E', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"MSE": 'M', "SEC": 'U', "PYL": 'O',
}

// OneLetter converts a three letter residue name. Unknown gives 'X'.
func OneLetter(name string) byte {
	if c, ok := oneLetter[name]; ok {
		return c
	}
	return 'X'
}

// Sequence returns the one letter sequence of a list of residue ids.
func Sequence(ids []ResID) string {
	b := make([]byte, len(ids))
	for i, id := range ids {
		b[i] = OneLetter(id.Name)
	}
	return string(b)
}
