package sstype

import (
	"github.com/andrew-torda/fragmatch/pkg/relation"
)

// cvFragments says which fragment each CV belongs to, going by the
// residue in the middle of its window.
func (c *classifier) cvFragments(frags []Fragment) []int {
	fragOfRes := make([]int, len(c.set.Residues))
	for n, f := range frags {
		for k := f.Start; k < f.End; k++ {
			fragOfRes[k] = n
		}
	}
	out := make([]int, len(c.set.CVs))
	for i := range out {
		out[i] = fragOfRes[i+c.set.Window/2]
	}
	return out
}

// touchesStrandCoil marks CVs sitting in strand or coil fragments.
func (c *classifier) touchesStrandCoil(frags []Fragment) []bool {
	fragOf := c.cvFragments(frags)
	out := make([]bool, len(fragOf))
	for i, n := range fragOf {
		ss := frags[n].SS
		out[i] = ss == Strand || ss == Coil
	}
	return out
}

// strandAdjust looks for partners in space for every CV in a strand or
// coil fragment. Partners are CVs of other strand or coil fragments
// that are not sequence neighbours. Close partners pointing the right
// way lower the strand score, having none at all raises it. The return
// value is what to add to the strand score of each CV.
func (c *classifier) strandAdjust(frags []Fragment) []float64 {
	fragOf := c.cvFragments(frags)
	touch := c.touchesStrandCoil(frags)
	adj := make([]float64, len(c.set.CVs))
	var cand []int
	for i := range c.set.CVs {
		if touch[i] && c.set.CVs[i].Valid() {
			cand = append(cand, i)
		}
	}
	cfg := c.cfg
	for _, i := range cand {
		near, paired := 0, 0
		for _, j := range cand {
			if fragOf[j] == fragOf[i] {
				continue
			}
			if cont := c.mat.Continuity(i, j); cont != relation.NoContinuity && cont <= c.set.Window {
				continue
			}
			r := c.rel(i, j)
			if r.Distance > cfg.ProximityCutoff {
				continue
			}
			near++
			if r.Distance <= cfg.PairingDistance && r.AngleDistance <= cfg.ExternalAngleMax {
				paired++
			}
		}
		adj[i] = -cfg.PairingBonus * float64(min(paired, cfg.MaxPartners))
		if near < cfg.MinExternal {
			adj[i] += cfg.IsolationPenalty
		}
	}
	return adj
}

// closest returns how many CVs of from have a nearest CV in to within
// the proximity cutoff, and how many of those look like pairing.
func (c *classifier) closest(from, to []int) (nsample, nfav int) {
	for _, i := range from {
		best := -1
		var bestRel relation.Relation
		for _, j := range to {
			r := c.rel(i, j)
			if r.Distance > c.cfg.ProximityCutoff {
				continue
			}
			if best < 0 || r.Distance < bestRel.Distance {
				best, bestRel = j, r
			}
		}
		if best < 0 {
			continue
		}
		nsample++
		if bestRel.AngleDistance <= c.cfg.ExternalAngleMax {
			nfav++
		}
	}
	return nsample, nfav
}

// find is the union-find lookup with path halving.
func find(parent []int, x int) int {
	for parent[x] != x {
		parent[x] = parent[parent[x]]
		x = parent[x]
	}
	return x
}

// assignSheets puts strands that pair with each other into the same
// sheet. Sheet ids start at 1 and follow the order of the first strand
// in each sheet. A strand pairing with nothing keeps SheetID 0.
func (c *classifier) assignSheets(frags []Fragment) {
	var strands []int
	for n := range frags {
		frags[n].SheetID = 0
		if frags[n].SS == Strand {
			strands = append(strands, n)
		}
	}
	parent := make([]int, len(frags))
	for n := range parent {
		parent[n] = n
	}
	for x, a := range strands {
		for _, b := range strands[x+1:] {
			s1, f1 := c.closest(frags[a].CVs, frags[b].CVs)
			s2, f2 := c.closest(frags[b].CVs, frags[a].CVs)
			nsample, nfav := s1+s2, f1+f2
			if nsample == 0 || float64(nfav) < c.cfg.SheetFraction*float64(nsample) {
				continue
			}
			ra, rb := find(parent, a), find(parent, b)
			if ra != rb {
				parent[max(ra, rb)] = min(ra, rb)
			}
		}
	}
	size := make(map[int]int)
	for _, n := range strands {
		size[find(parent, n)]++
	}
	ids := make(map[int]int)
	for _, n := range strands {
		root := find(parent, n)
		if size[root] < 2 {
			continue
		}
		if _, ok := ids[root]; !ok {
			ids[root] = len(ids) + 1
		}
		frags[n].SheetID = ids[root]
	}
}
