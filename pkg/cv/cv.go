// Package cv turns residues into characteristic vectors. A CV is the
// mean CA and mean O over a window of residues. The distance between
// the two means (CVL) is small for strands and larger for helices.
package cv

import (
	"fmt"
	"math"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pdb/geom"
	"github.com/andrew-torda/fragmatch/pkg/config"
)

// InvalidCVL marks a window whose residues are not joined up.
const InvalidCVL = 100.0

type Error string

func (e Error) Error() string { return string(e) }

const ErrInsufficientResidues = Error("insufficient residues")

// minResidues is the least we will work with, whatever the window.
const minResidues = 3

// CV is one window
type CV struct {
	Index    int
	CVL      float64
	CA, O    cmmn.Xyz // mean positions over the window
	Residues []cmmn.ResID
}

// Valid is false if the window runs over a chain break.
func (c *CV) Valid() bool { return c.CVL != InvalidCVL }

// Dir is the direction of the window, mean O minus mean CA.
func (c *CV) Dir() cmmn.Xyz { return c.O.Sub(c.CA) }

// Mid is half way between the mean CA and mean O.
func (c *CV) Mid() cmmn.Xyz { return c.CA.Add(c.O).Scale(0.5) }

// Range is the CVs [Start, End) of one chain.
type Range struct {
	Chain      string
	Start, End int
}

func (r Range) Len() int { return r.End - r.Start }

// Set is everything computed for one structure.
type Set struct {
	StructID string
	Window   int
	CVs      []CV
	Chains   []Range        // only filled with more than one chain
	Dropped  []string       // chains removed as copies of earlier ones
	Residues []cmmn.Residue // the residues that were used, CV i starts at Residues[i]
}

// NResidue is the number of residues the CVs were built from.
func (s *Set) NResidue() int { return len(s.Residues) }

// usable drops residues without CA or O.
func usable(res []cmmn.Residue) []cmmn.Residue {
	out := make([]cmmn.Residue, 0, len(res))
	for _, r := range res {
		_, okCA := r.Atom("CA")
		_, okO := r.Atom("O")
		if okCA && okO {
			out = append(out, r)
		}
	}
	return out
}

// Compute makes CVs from res. If there is more than one chain and
// cfg.DedupChains is set, chains that repeat an earlier one are taken
// out before the CVs are returned.
func Compute(structID string, res []cmmn.Residue, cfg config.CV) (*Set, error) {
	set, err := compute(structID, usable(res), cfg.Window)
	if err != nil {
		return nil, err
	}
	if !cfg.DedupChains || len(set.Chains) < 2 {
		return set, nil
	}
	dups := DuplicateChains(set, cfg.DedupDistTol, cfg.DedupAngleTol)
	if len(dups) == 0 {
		return set, nil
	}
	drop := make(map[string]bool, len(dups))
	for _, c := range dups {
		drop[c] = true
	}
	kept := make([]cmmn.Residue, 0, len(set.Residues))
	for _, r := range set.Residues {
		if !drop[r.ID.Chain] {
			kept = append(kept, r)
		}
	}
	if set, err = compute(structID, kept, cfg.Window); err != nil {
		return nil, err
	}
	set.Dropped = dups
	return set, nil
}

// compute does the work on residues we know have CA and O. The means
// for window 0 are summed directly. After that each window adds the
// residue coming in and takes away the one going out.
func compute(structID string, res []cmmn.Residue, window int) (*Set, error) {
	n := len(res)
	if n < max(minResidues, window) {
		return nil, fmt.Errorf("%s: %w, have %d", structID, ErrInsufficientResidues, n)
	}
	ca := make([]cmmn.Xyz, n)
	o := make([]cmmn.Xyz, n)
	for i := range res {
		a, _ := res[i].Atom("CA")
		b, _ := res[i].Atom("O")
		ca[i], o[i] = a.Xyz, b.Xyz
	}

	nbreak := make([]int, n) // nbreak[i] is breaks between residues 0..i
	for i := 1; i < n; i++ {
		nbreak[i] = nbreak[i-1]
		if !cmmn.SeqAdjacent(&res[i-1], &res[i]) {
			nbreak[i]++
		}
	}

	ncv := n - window + 1
	set := &Set{StructID: structID, Window: window, CVs: make([]CV, ncv), Residues: res}
	ids := make([]cmmn.ResID, n)
	for i := range res {
		ids[i] = res[i].ID
	}
	scale := 1 / float64(window)
	mca := geom.Mean(ca[:window])
	mo := geom.Mean(o[:window])
	for i := 0; i < ncv; i++ {
		if i > 0 {
			last := i + window - 1
			mca = mca.Add(ca[last].Sub(ca[i-1]).Scale(scale))
			mo = mo.Add(o[last].Sub(o[i-1]).Scale(scale))
		}
		c := &set.CVs[i]
		c.Index, c.CA, c.O = i, mca, mo
		c.Residues = ids[i : i+window : i+window]
		if nbreak[i+window-1] != nbreak[i] {
			c.CVL = InvalidCVL
		} else {
			c.CVL = geom.Norm(mo.Sub(mca))
		}
	}
	set.Chains = chainRanges(set)
	return set, nil
}

// chainRanges groups CVs by chain. Windows with residues from two
// chains belong to neither. One chain gives nil.
func chainRanges(set *Set) []Range {
	var rr []Range
	open := false
	for i := range set.CVs {
		ids := set.CVs[i].Residues
		ch := ids[0].Chain
		if ids[len(ids)-1].Chain != ch {
			open = false
			continue
		}
		if !open || rr[len(rr)-1].Chain != ch {
			rr = append(rr, Range{Chain: ch, Start: i})
			open = true
		}
		rr[len(rr)-1].End = i + 1
	}
	if len(rr) < 2 {
		return nil
	}
	return rr
}

// pairGeom is the angle and distance between CVs i and i+1. A zero
// length direction gives angle 0.
func pairGeom(cvs []CV, i int) (ang, dist float64) {
	dist, _ = geom.Distance(cvs[i].CA, cvs[i+1].CA)
	ang, err := geom.Angle(cvs[i].Dir(), cvs[i+1].Dir(), nil, false)
	if err != nil {
		ang = 0
	}
	return ang, dist
}

// sameChain says if two chain ranges have the same sequence and the
// same geometry between every pair of neighbouring CVs.
func sameChain(set *Set, a, b Range, distTol, angTol float64) bool {
	if a.Len() != b.Len() {
		return false
	}
	cvs := set.CVs
	for k := 0; k < a.Len(); k++ {
		ra, rb := cvs[a.Start+k].Residues, cvs[b.Start+k].Residues
		for m := range ra {
			if ra[m].Name != rb[m].Name {
				return false
			}
		}
		if cvs[a.Start+k].Valid() != cvs[b.Start+k].Valid() {
			return false
		}
	}
	for k := 0; k < a.Len()-1; k++ {
		angA, distA := pairGeom(cvs, a.Start+k)
		angB, distB := pairGeom(cvs, b.Start+k)
		if math.Abs(angA-angB) > angTol || math.Abs(distA-distB) > distTol {
			return false
		}
	}
	return true
}

// DuplicateChains returns the chains that are copies of an earlier
// chain in the set.
func DuplicateChains(set *Set, distTol, angTol float64) []string {
	var dups []string
	isDup := make([]bool, len(set.Chains))
	for j := 1; j < len(set.Chains); j++ {
		for i := 0; i < j; i++ {
			if isDup[i] {
				continue
			}
			if sameChain(set, set.Chains[i], set.Chains[j], distTol, angTol) {
				isDup[j] = true
				dups = append(dups, set.Chains[j].Chain)
				break
			}
		}
	}
	return dups
}
