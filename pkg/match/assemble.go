package match

import (
	"math"
	"slices"

	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/relation"
)

// candidate is one place in the target for one reference fragment.
type candidate struct {
	start  int
	dd, da float64
}

func (c candidate) score() float64 { return c.dd + c.da }

// K is how many candidates are kept per fragment. A similarity of 100
// gives cfg.KMin, 0 gives cfg.KMax.
func K(cfg *config.Match) int {
	k := float64(cfg.KMax) - cfg.Similarity/100*float64(cfg.KMax-cfg.KMin)
	return max(int(math.Round(k)), 1)
}

// candidates slides fragment k over every bound of the target. A
// placement is kept if its distances or its angles are close enough.
// The best K come back, best first.
func (s *search) candidates(k int) []candidate {
	rf := &s.ref.frags[k]
	cut := s.cfg.ContinuousCutoff / 100
	var out []candidate
	for _, b := range s.tgt.Mat.Bounds {
		for st := b.Start; st+rf.n <= b.End; st++ {
			sp := span(st, rf.n)
			geometry(s.tgt.Set.CVs, sp, sp, &s.tmp.d, &s.tmp.c)
			dd, da := dissim(rf.d, rf.c, &s.tmp.d, &s.tmp.c, true)
			s.stats.Placements++
			if dd < cut || da < cut {
				out = append(out, candidate{start: st, dd: dd, da: da})
			}
		}
	}
	slices.SortStableFunc(out, func(a, b candidate) int {
		if c := cmpFloat(a.score(), b.score()); c != 0 {
			return c
		}
		return a.start - b.start
	})
	if len(out) > s.k {
		out = out[:s.k]
	}
	s.stats.Candidates += len(out)
	return out
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// partial is a partial solution, one placement per fragment so far.
type partial struct {
	at     []int // first target CV of each fragment
	dd, da float64
	nterm  int
}

func (p *partial) score() float64 { return (p.dd + p.da) / float64(max(p.nterm, 1)) }

// overlaps says if CV ranges [a, a+na) and [b, b+nb) share a CV.
func overlaps(a, na, b, nb int) bool { return a < b+nb && b < a+na }

// order describes how fragment b sits relative to fragment a.
type order struct {
	sameChain bool
	after     bool
}

func orderOf(chainA, chainB string, startA, startB int) order {
	return order{sameChain: chainA == chainB, after: startB > startA}
}

// connected says if the target keeps the reference's chain and
// sequence order. Across chains, only the chain relation counts.
func connected(ref, tgt order) bool {
	if ref.sameChain != tgt.sameChain {
		return false
	}
	return !ref.sameChain || ref.after == tgt.after
}

// signature gives the sizes in residues of the groups covered by two
// placements. Placements in one bound whose residues touch or overlap
// form a single group, then the second size is 0.
func signature(mat *relation.Matrix, window, a, na, b, nb int) [2]int {
	ra, rb := na+window-1, nb+window-1
	if mat.BoundOf(a) >= 0 && mat.BoundOf(a) == mat.BoundOf(b) {
		lo, hi := min(a, b), max(a+ra, b+rb)
		if a <= b && b <= a+ra || b <= a && a <= b+rb {
			return [2]int{hi - lo, 0}
		}
	}
	if b < a {
		ra, rb = rb, ra
	}
	return [2]int{ra, rb}
}

// fits tests placing fragment k at st onto p. Overlap is checked
// against every placed fragment, order and group sizes against the one
// before and the cross geometry against all of them. On success it
// returns the summed cross dissimilarities.
func (s *search) fits(p *partial, k, st int) (dd, da float64, ok bool) {
	ref, tgt := s.ref, s.tgt
	rk := &ref.frags[k]
	for q, at := range p.at {
		if overlaps(at, ref.frags[q].n, st, rk.n) {
			return 0, 0, false
		}
	}
	if k > 0 {
		q := k - 1
		rq := &ref.frags[q]
		if s.cfg.Connected {
			ro := orderOf(rq.chain, rk.chain, rq.start, rk.start)
			to := orderOf(s.chain(p.at[q]), s.chain(st), p.at[q], st)
			if !connected(ro, to) {
				return 0, 0, false
			}
		}
		w := ref.Set.Window
		if signature(ref.Mat, w, rq.start, rq.n, rk.start, rk.n) !=
			signature(tgt.Mat, tgt.Set.Window, p.at[q], rq.n, st, rk.n) {
			return 0, 0, false
		}
	}
	cut := s.cfg.JumpCutoff / 100
	for q, at := range p.at {
		x := &ref.cross[q][k]
		geometry(tgt.Set.CVs, span(at, ref.frags[q].n), span(st, rk.n), &s.tmp.d, &s.tmp.c)
		xd, xa := dissim(x.d, x.c, &s.tmp.d, &s.tmp.c, false)
		if xd*x.w >= cut || xa*x.w >= cut {
			return 0, 0, false
		}
		dd += xd
		da += xa
	}
	return dd, da, true
}

func (s *search) chain(cvi int) string { return s.tgt.Set.CVs[cvi].Residues[0].Chain }

// extend tries every candidate of fragment k on every partial solution
// and keeps the best capacity of the results.
func (s *search) extend(beam []partial, k int, cands []candidate) []partial {
	var next []partial
	for i := range beam {
		p := &beam[i]
		for _, c := range cands {
			s.stats.Extensions++
			dd, da, ok := s.fits(p, k, c.start)
			if !ok {
				continue
			}
			at := make([]int, len(p.at)+1)
			copy(at, p.at)
			at[len(p.at)] = c.start
			next = append(next, partial{
				at:    at,
				dd:    p.dd + dd + c.dd,
				da:    p.da + da + c.da,
				nterm: p.nterm + len(p.at) + 1,
			})
		}
	}
	s.stats.Kept += len(next)
	return trim(next, s.k*s.cfg.BeamFactor)
}

// trim sorts partial solutions, best first, and keeps at most n.
func trim(pp []partial, n int) []partial {
	slices.SortStableFunc(pp, func(a, b partial) int {
		if c := cmpFloat(a.score(), b.score()); c != 0 {
			return c
		}
		return slices.Compare(a.at, b.at)
	})
	if len(pp) > n {
		pp = pp[:n]
	}
	return pp
}
