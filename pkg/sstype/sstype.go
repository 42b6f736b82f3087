// Package sstype assigns secondary structure from CVs. Neighbouring
// CV pairs are scored against helix and strand bands, the scores are
// turned into per residue votes and the votes into fragments.
// This is done twice. The second time, strand scores also look at
// whether a CV has partners nearby in space, as in a sheet.
// Strands are then grouped into sheets and all fragments go into a
// graph.
package sstype

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/cv"
	"github.com/andrew-torda/fragmatch/pkg/logger"
	"github.com/andrew-torda/fragmatch/pkg/relation"
)

// SS is a secondary structure label
type SS uint8

const (
	Coil SS = iota
	Helix
	Strand
	HardCoil // forced coil, only lives inside the classifier
	nSS
)

var ssNames = [nSS]string{"coil", "helix", "strand", "COIL"}

func (s SS) String() string {
	if s < nSS {
		return ssNames[s]
	}
	return fmt.Sprintf("SS(%d)", s)
}

// Letter is the usual one letter code, H, E or C.
func (s SS) Letter() byte {
	switch s {
	case Helix:
		return 'H'
	case Strand:
		return 'E'
	}
	return 'C'
}

type Error string

func (e Error) Error() string { return string(e) }

// ErrAmbiguousSheet is logged for a strand that pairs with nothing.
const ErrAmbiguousSheet = Error("strand not in any sheet")

// Fragment is a run of residues with one label.
type Fragment struct {
	ID         int
	SS         SS
	Start, End int // residues [Start, End) of the CV set
	Residues   []cmmn.ResID
	CVs        []int // valid CVs lying completely inside
	Sequence   string
	SheetID    int // 0 means no sheet
}

// Len is the number of residues
func (f *Fragment) Len() int { return f.End - f.Start }

// classifier carries what every step needs.
type classifier struct {
	set *cv.Set
	mat *relation.Matrix
	cfg *config.SSType
	lg  *log.Logger
	brk []bool // brk[k] is true if residue k does not follow k-1
}

// rel gets a relation from the matrix, or computes it if the matrix
// was pruned or built for neighbours only.
func (c *classifier) rel(i, j int) relation.Relation {
	if r := c.mat.Get(i, j); r != nil {
		return *r
	}
	if i > j {
		i, j = j, i
	}
	return relation.Compute(&c.set.CVs[i], &c.set.CVs[j], c.mat.Continuity(i, j), false)
}

// pairScores gives helix and strand scores for CVs i and i+1. ok is
// false if the two are not continuous.
func (c *classifier) pairScores(i int) (h, s float64, ok bool) {
	if c.mat.Continuity(i, i+1) != 1 {
		return 0, 0, false
	}
	r := c.rel(i, i+1)
	h, s = pairScores(&r, c.cfg)
	return h, s, true
}

// breaks marks residues that do not follow the one before.
func breaks(res []cmmn.Residue) []bool {
	brk := make([]bool, len(res))
	for k := range res {
		brk[k] = k == 0 || !cmmn.SeqAdjacent(&res[k-1], &res[k])
	}
	return brk
}

// fragments turns pair labels into residue labels and those into
// fragments.
func (c *classifier) fragments(pairs []SS) []Fragment {
	labels := c.guard(labelCVs(pairs, len(c.set.CVs)))
	res := residueLabels(c.associations(labels), c.brk)
	minLength(res, c.brk, c.cfg.MinHelixLen, c.cfg.MinStrandLen)
	if c.cfg.GlyProJoints {
		if peelGlyPro(res, c.brk, c.set.Residues) > 0 {
			minLength(res, c.brk, c.cfg.MinHelixLen, c.cfg.MinStrandLen)
		}
	}
	return c.makeFragments(res)
}

// makeFragments collects the runs of residue labels.
func (c *classifier) makeFragments(labels []SS) []Fragment {
	rr := runs(labels, c.brk)
	frags := make([]Fragment, len(rr))
	ids := make([]cmmn.ResID, len(c.set.Residues))
	for k := range c.set.Residues {
		ids[k] = c.set.Residues[k].ID
	}
	w := c.set.Window
	for n, r := range rr {
		f := &frags[n]
		f.ID, f.SS, f.Start, f.End = n, r.ss, r.start, r.end
		f.Residues = ids[r.start:r.end:r.end]
		f.Sequence = cmmn.Sequence(f.Residues)
		for i := r.start; i+w <= r.end; i++ {
			if c.set.CVs[i].Valid() {
				f.CVs = append(f.CVs, i)
			}
		}
	}
	return frags
}

// Classify labels a structure and returns its fragment graph. A nil
// logger is allowed.
func Classify(set *cv.Set, mat *relation.Matrix, cfg config.SSType, lg *log.Logger) (*Graph, error) {
	if set == nil || mat == nil {
		return nil, errors.New("sstype: nil CV set or matrix")
	}
	if mat.Set != set {
		return nil, fmt.Errorf("%s: relation matrix was built for another CV set", set.StructID)
	}
	c := &classifier{set: set, mat: mat, cfg: &cfg, lg: logger.OrDiscard(lg), brk: breaks(set.Residues)}
	lg = c.lg.With("structure", set.StructID)

	ncv := len(set.CVs)
	hs := make([][2]float64, max(ncv-1, 0))
	ok := make([]bool, len(hs))
	pairs := make([]SS, len(hs))
	for i := range hs {
		hs[i][0], hs[i][1], ok[i] = c.pairScores(i)
		if ok[i] {
			pairs[i] = pairLabel(hs[i][0], hs[i][1], c.cfg)
		}
	}
	first := c.fragments(pairs)
	lg.Debug("round one", "fragments", len(first))

	adj := c.strandAdjust(first)
	touch := c.touchesStrandCoil(first)
	nchanged := 0
	for i := range pairs {
		if !ok[i] || !(touch[i] || touch[i+1]) {
			continue
		}
		s := hs[i][1] + (adj[i]+adj[i+1])/2
		if l := pairLabel(hs[i][0], s, c.cfg); l != pairs[i] {
			pairs[i] = l
			nchanged++
		}
	}
	final := c.fragments(pairs)
	lg.Debug("round two", "fragments", len(final), "pairs changed", nchanged)

	c.assignSheets(final)
	g := newGraph(c, final)
	for _, id := range g.Unassigned {
		lg.Warn(ErrAmbiguousSheet.Error(), "fragment", id, "residues", final[id].Residues[0].String()+"-"+final[id].Residues[final[id].Len()-1].String())
	}
	return g, nil
}

// Labels returns one letter per residue of the set.
func (g *Graph) Labels() string {
	n := 0
	for _, f := range g.Nodes {
		n = max(n, f.End)
	}
	b := make([]byte, n)
	for _, f := range g.Nodes {
		for k := f.Start; k < f.End; k++ {
			b[k] = f.SS.Letter()
		}
	}
	return string(b)
}
