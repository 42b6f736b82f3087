package match

import (
	"slices"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
)

func sortSolutions(sols []Solution) {
	slices.SortStableFunc(sols, func(a, b Solution) int {
		return cmpFloat(a.Score(), b.Score())
	})
}

// overlap is the fraction of the smaller of two residue sets that the
// other one also has.
func overlap(a, b map[cmmn.ResID]bool) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return 0
	}
	n := 0
	for r := range a {
		if b[r] {
			n++
		}
	}
	return float64(n) / float64(len(a))
}

// dedup walks through sorted solutions and drops any whose residues
// overlap those of a better one by frac or more.
func dedup(sols []Solution, frac float64) []Solution {
	var kept []Solution
	var sets []map[cmmn.ResID]bool
	for _, s := range sols {
		set := make(map[cmmn.ResID]bool, len(s.Residues))
		for _, r := range s.Residues {
			set[r.Key()] = true
		}
		redundant := false
		for _, o := range sets {
			if overlap(set, o) >= frac {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, s)
			sets = append(sets, set)
		}
	}
	return kept
}

// seqOK checks residues against a query. X and - match anything and an
// empty query matches everything.
func seqOK(mask string, res []*cmmn.Residue) bool {
	if mask == "" {
		return true
	}
	if len(mask) != len(res) {
		return false
	}
	for i, r := range res {
		if m := mask[i]; m != 'X' && m != '-' && m != cmmn.OneLetter(r.ID.Name) {
			return false
		}
	}
	return true
}

// bridgesOK needs every bridge of the reference to be a bridge in res.
func bridgesOK(bridges [][2]int, res []*cmmn.Residue) bool {
	for _, b := range bridges {
		if !bridged(res[b[0]], res[b[1]]) {
			return false
		}
	}
	return true
}
