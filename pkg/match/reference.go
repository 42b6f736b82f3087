package match

import (
	"fmt"
	"strings"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pdb/geom"
	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/cv"
	"github.com/andrew-torda/fragmatch/pkg/relation"
	"github.com/andrew-torda/fragmatch/pkg/sstype"
)

// SG to SG distance of a disulfide bridge
const (
	minSS = 2.00
	maxSS = 2.10
)

// refFrag is one reference fragment we look for.
type refFrag struct {
	node  int // in the graph
	start int // first CV
	n     int // number of CVs
	ss    sstype.SS
	sheet int
	chain string
	d, c  *matrix.FMatrix2d
}

// cross are the matrices between two reference fragments.
type cross struct {
	d, c *matrix.FMatrix2d
	w    float64
}

// Reference is a structure prepared for searching. Once built it is
// only read, so one Reference can serve many searches at once.
type Reference struct {
	Set   *cv.Set
	Mat   *relation.Matrix
	Graph *sstype.Graph

	frags   []refFrag
	cross   [][]cross // cross[p][q], p < q
	nres    int       // residues covered by the fragments
	mask    string
	bridges [][2]int // cysteine pairs, positions in the fragment residues
}

// NFragment is how many fragments are searched for.
func (r *Reference) NFragment() int { return len(r.frags) }

// Fragments returns the graph nodes that are searched for, in order.
func (r *Reference) Fragments() []int {
	out := make([]int, len(r.frags))
	for k := range r.frags {
		out[k] = r.frags[k].node
	}
	return out
}

// weight says how much a pair of reference fragments counts when
// fragments are put together.
func weight(a, b *refFrag, cfg *config.Match) float64 {
	w := 1.0
	if a.ss == b.ss {
		w *= cfg.SameSSWeight
	}
	if a.ss == sstype.Strand && b.ss == sstype.Strand && a.sheet != 0 && a.sheet == b.sheet {
		w *= cfg.SameSheetWeight
	}
	return w
}

// NewReference picks the fragments to search for from g. Coil is only
// used if cfg.IncludeCoil is set and fragments need at least
// cfg.MinFragmentCVs CVs.
func NewReference(set *cv.Set, mat *relation.Matrix, g *sstype.Graph, cfg config.Match) (*Reference, error) {
	if set == nil || mat == nil || g == nil {
		return nil, fmt.Errorf("match: reference is incomplete")
	}
	ref := &Reference{Set: set, Mat: mat, Graph: g}
	for n := range g.Nodes {
		f := &g.Nodes[n]
		if (f.SS == sstype.Coil && !cfg.IncludeCoil) || len(f.CVs) < max(cfg.MinFragmentCVs, 1) {
			continue
		}
		rf := refFrag{
			node:  n,
			start: f.CVs[0],
			n:     len(f.CVs),
			ss:    f.SS,
			sheet: f.SheetID,
			chain: set.CVs[f.CVs[0]].Residues[0].Chain,
			d:     new(matrix.FMatrix2d),
			c:     new(matrix.FMatrix2d),
		}
		s := span(rf.start, rf.n)
		geometry(set.CVs, s, s, rf.d, rf.c)
		ref.frags = append(ref.frags, rf)
		ref.nres += rf.n + set.Window - 1
	}
	if len(ref.frags) == 0 {
		return nil, fmt.Errorf("%s: %w", set.StructID, ErrNoFragments)
	}

	nf := len(ref.frags)
	ref.cross = make([][]cross, nf)
	for p := range ref.frags {
		ref.cross[p] = make([]cross, nf)
		for q := p + 1; q < nf; q++ {
			a, b := &ref.frags[p], &ref.frags[q]
			x := cross{d: new(matrix.FMatrix2d), c: new(matrix.FMatrix2d), w: weight(a, b, &cfg)}
			geometry(set.CVs, span(a.start, a.n), span(b.start, b.n), x.d, x.c)
			ref.cross[p][q] = x
		}
	}

	if cfg.Sequence != "" {
		mask, err := ref.fitSequence(set, cfg.Sequence)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", set.StructID, err)
		}
		ref.mask = mask
	}
	if cfg.Disulfide {
		ref.bridges = findBridges(ref.residues(set, ref.starts()))
	}
	return ref, nil
}

// fitSequence turns a query into a mask with one character per
// fragment residue. A query of the right length is used as it is,
// anything else is aligned to the fragments' own sequence and has to
// agree with it at half its letters.
func (r *Reference) fitSequence(set *cv.Set, query string) (string, error) {
	query = strings.ToUpper(query)
	if len(query) == r.nres {
		return query, nil
	}
	res := r.residues(set, r.starts())
	ids := make([]cmmn.ResID, len(res))
	for i, rr := range res {
		ids[i] = rr.ID
	}
	mask, ident := alignMask(query, cmmn.Sequence(ids))
	nletter := 0
	for i := 0; i < len(query); i++ {
		if !wild(query[i]) {
			nletter++
		}
	}
	if ident*2 < nletter {
		return "", fmt.Errorf("%w, %d of %d query letters agree", ErrSequenceFit, ident, nletter)
	}
	return mask, nil
}

// starts are the first CV of each reference fragment.
func (r *Reference) starts() []int {
	s := make([]int, len(r.frags))
	for k := range r.frags {
		s[k] = r.frags[k].start
	}
	return s
}

// residues collects, fragment by fragment, the residues of set covered
// by placements beginning at the CVs in at.
func (r *Reference) residues(set *cv.Set, at []int) []*cmmn.Residue {
	out := make([]*cmmn.Residue, 0, r.nres)
	for k, s := range at {
		for i := s; i < s+r.frags[k].n+set.Window-1; i++ {
			out = append(out, &set.Residues[i])
		}
	}
	return out
}

// bridged is true if a and b are cysteines whose SG atoms are as far
// apart as in a disulfide.
func bridged(a, b *cmmn.Residue) bool {
	if a.ID.Name != "CYS" || b.ID.Name != "CYS" {
		return false
	}
	sa, oka := a.Atom("SG")
	sb, okb := b.Atom("SG")
	if !oka || !okb {
		return false
	}
	d, _ := geom.Distance(sa.Xyz, sb.Xyz)
	return d >= minSS && d <= maxSS
}

// findBridges lists the bridged cysteine pairs in res.
func findBridges(res []*cmmn.Residue) [][2]int {
	var out [][2]int
	for i := range res {
		if res[i].ID.Name != "CYS" {
			continue
		}
		for j := i + 1; j < len(res); j++ {
			if bridged(res[i], res[j]) {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// Target is a structure to be searched.
type Target struct {
	Set *cv.Set
	Mat *relation.Matrix
}

// NewTarget wraps a CV set and its relation matrix.
func NewTarget(set *cv.Set, mat *relation.Matrix) *Target {
	return &Target{Set: set, Mat: mat}
}
