package sstype

import (
	"github.com/andrew-torda/fragmatch/pdb/cmmn"
)

// votes counts, for one residue, the labels of the CVs covering it.
type votes [nSS]int

// associations gives each residue the votes of the valid CVs that
// cover it.
func (c *classifier) associations(labels []SS) []votes {
	v := make([]votes, len(c.set.Residues))
	for i, l := range labels {
		if !c.set.CVs[i].Valid() {
			continue
		}
		for k := i; k < i+c.set.Window; k++ {
			v[k][l]++
		}
	}
	return v
}

// resolve picks a residue label from its votes. prev is the label
// already given to the residue before it.
// Hard coil wins if it has at least as many votes as helix or strand.
// Helix needs to beat strand and at least match coil. Strand needs to
// beat helix and coil, but a draw with coil goes to strand unless the
// residue before is helix. A helix and strand draw is coil.
func resolve(v votes, prev SS) SS {
	h, s, c, hc := v[Helix], v[Strand], v[Coil], v[HardCoil]
	switch {
	case hc > 0 && hc >= max(h, s):
		return HardCoil
	case h > s && h >= c:
		return Helix
	case s > h && s > c:
		return Strand
	case s > h && s == c && prev != Helix:
		return Strand
	}
	return Coil
}

// residueLabels resolves votes along the chain. After this hard coil
// is just coil.
func residueLabels(v []votes, brk []bool) []SS {
	out := make([]SS, len(v))
	prev := Coil
	for k := range v {
		if brk[k] {
			prev = Coil
		}
		out[k] = resolve(v[k], prev)
		if out[k] == HardCoil {
			out[k] = Coil
		}
		prev = out[k]
	}
	return out
}

// run is residues [start, end) with one label.
type run struct {
	start, end int
	ss         SS
}

// runs cuts residue labels into runs. A chain break always starts a
// new run.
func runs(labels []SS, brk []bool) []run {
	var rr []run
	for k, l := range labels {
		if k == 0 || brk[k] || l != labels[k-1] {
			rr = append(rr, run{start: k, ss: l})
		}
		rr[len(rr)-1].end = k + 1
	}
	return rr
}

// minLength turns helix and strand runs that are too short into coil.
func minLength(labels []SS, brk []bool, minHelix, minStrand int) {
	for _, r := range runs(labels, brk) {
		n := r.end - r.start
		if (r.ss == Helix && n < minHelix) || (r.ss == Strand && n < minStrand) {
			for k := r.start; k < r.end; k++ {
				labels[k] = Coil
			}
		}
	}
}

func isGlyPro(name string) bool { return name == "GLY" || name == "PRO" }

// peelGlyPro looks at every place where a helix or strand runs
// straight into another. If the last residue of the first run is Gly
// or Pro, it becomes a coil joint. Otherwise the first residue of the
// second run is tried.
func peelGlyPro(labels []SS, brk []bool, res []cmmn.Residue) (npeel int) {
	rr := runs(labels, brk)
	for n := 1; n < len(rr); n++ {
		a, b := rr[n-1], rr[n]
		if a.ss == Coil || b.ss == Coil || brk[b.start] {
			continue
		}
		switch {
		case isGlyPro(res[a.end-1].ID.Name):
			labels[a.end-1] = Coil
			npeel++
		case isGlyPro(res[b.start].ID.Name):
			labels[b.start] = Coil
			npeel++
		}
	}
	return npeel
}
