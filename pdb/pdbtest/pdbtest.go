// Package pdbtest builds small, idealised protein pieces for tests.
// Each residue gets N, CA, C and O. The O-CA vectors are chosen so the
// averages over three residues have the shape of a helix, a strand or
// a coil, which is all the structure code looks at.
package pdbtest

import (
	"fmt"
	"io"
	"math"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pdb/geom"
)

type Xyz = cmmn.Xyz

const deg = math.Pi / 180

// Helix geometry. CA rises along the axis. Averaged O-CA vectors have
// length HelixCVL, lean HelixTilt off the axis and turn by HelixTurn
// each residue, so neighbouring averages are about 20 degrees apart.
const (
	HelixRise = 1.5
	HelixCVL  = 2.2
	HelixTilt = 30.0
	HelixTurn = 40.6
)

// Strand geometry. Averages are StrandCVL long and alternate
// StrandAngle degrees apart.
const (
	StrandRise  = 3.3
	StrandCVL   = 1.39
	StrandAngle = 54.0
)

// CoilCVL is well away from both helix and strand.
const CoilCVL = 3.2

func unit(v Xyz) Xyz { return v.Scale(1 / geom.Norm(v)) }

// perp returns a unit vector at right angles to a.
func perp(a Xyz) Xyz {
	t := Xyz{X: 1}
	if math.Abs(a.X) > 0.9*geom.Norm(a) {
		t = Xyz{Y: 1}
	}
	return unit(geom.Cross(a, t))
}

// Build makes residues from CA positions and O-CA vectors. N and C
// sit on the line between neighbouring CAs, so a peptide bond is
// always found between neighbours. Names are three letter codes,
// "ALA" is used when names runs out.
func Build(structID, chain string, start int, names []string, ca, dir []Xyz) []cmmn.Residue {
	n := len(ca)
	res := make([]cmmn.Residue, n)
	for k := range ca {
		var prev, next Xyz
		switch {
		case n == 1:
			prev, next = Xyz{X: -1}, Xyz{X: 1}
		case k == 0:
			next = ca[1].Sub(ca[0])
			prev = next
		case k == n-1:
			prev = ca[k].Sub(ca[k-1])
			next = prev
		default:
			prev, next = ca[k].Sub(ca[k-1]), ca[k+1].Sub(ca[k])
		}
		name := "ALA"
		if k < len(names) {
			name = names[k]
		}
		res[k] = cmmn.Residue{
			ID: cmmn.ResID{Struct: structID, Model: 1, Chain: chain, Num: start + k, Name: name},
			Atoms: []cmmn.Atom{
				{Name: "N", Xyz: ca[k].Sub(prev.Scale(0.45)), Occ: 1},
				{Name: "CA", Xyz: ca[k], Occ: 1},
				{Name: "C", Xyz: ca[k].Add(next.Scale(0.45)), Occ: 1},
				{Name: "O", Xyz: ca[k].Add(dir[k]), Occ: 1},
			},
		}
	}
	return res
}

// Helix makes n residues starting at origin and running along axis.
// The per-residue vectors lean a little more than the averages, since
// averaging three of them shrinks the sideways part.
func Helix(structID, chain string, start, n int, origin, axis Xyz) []cmmn.Residue {
	axis = unit(axis)
	u := perp(axis)
	w := geom.Cross(axis, u)
	turn := HelixTurn * deg
	shrink := (1 + 2*math.Cos(turn)) / 3
	along := HelixCVL * math.Cos(HelixTilt*deg)
	side := HelixCVL * math.Sin(HelixTilt*deg) / shrink
	ca := make([]Xyz, n)
	dir := make([]Xyz, n)
	for k := 0; k < n; k++ {
		ca[k] = origin.Add(axis.Scale(HelixRise * float64(k)))
		phi := turn * float64(k)
		s := u.Scale(math.Cos(phi)).Add(w.Scale(math.Sin(phi)))
		dir[k] = axis.Scale(along).Add(s.Scale(side))
	}
	return Build(structID, chain, start, nil, ca, dir)
}

// Strand makes n residues from origin along the direction along. The
// averaged vectors point towards side and swing either way around it,
// so a partner strand placed along side is in reach of them.
func Strand(structID, chain string, start, n int, origin, along, side Xyz) []cmmn.Residue {
	along = unit(along)
	side = unit(side)
	up := unit(geom.Cross(along, side))
	half := StrandAngle / 2 * deg
	toward := StrandCVL * math.Cos(half)
	swing := 3 * StrandCVL * math.Sin(half) // three averaged give one
	ca := make([]Xyz, n)
	dir := make([]Xyz, n)
	for k := 0; k < n; k++ {
		ca[k] = origin.Add(along.Scale(StrandRise * float64(k)))
		sgn := 1.0
		if k%2 == 1 {
			sgn = -1
		}
		dir[k] = side.Scale(toward).Add(up.Scale(sgn * swing))
	}
	return Build(structID, chain, start, nil, ca, dir)
}

// Coil makes n residues along a line with all vectors parallel and
// too long for a helix or strand.
func Coil(structID, chain string, start, n int, origin, along Xyz) []cmmn.Residue {
	along = unit(along)
	up := perp(along)
	ca := make([]Xyz, n)
	dir := make([]Xyz, n)
	for k := 0; k < n; k++ {
		ca[k] = origin.Add(along.Scale(3.8 * float64(k)))
		dir[k] = up.Scale(CoilCVL)
	}
	return Build(structID, chain, start, nil, ca, dir)
}

// Renumber sets residue numbers from start onwards.
func Renumber(res []cmmn.Residue, start int) {
	for i := range res {
		res[i].ID.Num = start + i
	}
}

// SetNames sets residue names from one letter codes. Unknown letters
// become ALA.
func SetNames(res []cmmn.Residue, seq string) {
	three := map[byte]string{
		'A': "ALA", 'C': "CYS", 'G': "GLY", 'P': "PRO", 'L': "LEU",
		'K': "LYS", 'E': "GLU", 'V': "VAL", 'S': "SER", 'W': "TRP",
	}
	for i := range res {
		if i >= len(seq) {
			return
		}
		if s, ok := three[seq[i]]; ok {
			res[i].ID.Name = s
		} else {
			res[i].ID.Name = "ALA"
		}
	}
}

// Transform applies rot (rows of a rotation matrix) and then shift to
// every atom.
func Transform(res []cmmn.Residue, rot [3]Xyz, shift Xyz) []cmmn.Residue {
	out := make([]cmmn.Residue, len(res))
	for i, r := range res {
		out[i] = cmmn.Residue{ID: r.ID, Atoms: make([]cmmn.Atom, len(r.Atoms))}
		for j, a := range r.Atoms {
			x := a.Xyz
			a.Xyz = Xyz{X: geom.Dot(rot[0], x), Y: geom.Dot(rot[1], x), Z: geom.Dot(rot[2], x)}.Add(shift)
			out[i].Atoms[j] = a
		}
	}
	return out
}

// RotZ is a rotation about z by ang degrees.
func RotZ(ang float64) [3]Xyz {
	c, s := math.Cos(ang*deg), math.Sin(ang*deg)
	return [3]Xyz{{X: c, Y: -s}, {X: s, Y: c}, {Z: 1}}
}

// WritePDB writes residues as ATOM records.
func WritePDB(w io.Writer, res []cmmn.Residue) error {
	n := 1
	for _, r := range res {
		ins := byte(' ')
		if r.ID.InsCode != 0 {
			ins = r.ID.InsCode
		}
		chain := r.ID.Chain
		if chain == "" {
			chain = " "
		}
		for _, a := range r.Atoms {
			_, err := fmt.Fprintf(w, "ATOM  %5d  %-3s %3s %1s%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f\n",
				n, a.Name, r.ID.Name, chain[:1], r.ID.Num, ins, a.Xyz.X, a.Xyz.Y, a.Xyz.Z, a.Occ, 20.0)
			if err != nil {
				return err
			}
			n++
		}
	}
	_, err := fmt.Fprintln(w, "END")
	return err
}
