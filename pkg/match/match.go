// Package match looks for the fragments of a reference structure in a
// target. Each reference fragment is first placed on its own, by
// comparing the distances and angles between its CVs with those of
// every stretch of the target of the same length. The best placements
// are then put together, one fragment at a time, in a beam of partial
// solutions. A partial solution only grows if the new fragment sits
// relative to the ones already placed as it does in the reference.
package match

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/logger"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoFragments = Error("no fragments to search for")
	ErrSequenceFit = Error("query sequence does not fit the fragments")
)

// Status says how a search ended. Only StatusOK can come with
// solutions.
type Status uint8

const (
	StatusOK          Status = iota
	IncompatibleSizes        // target cannot hold the reference
	NoCandidates             // a fragment could not be placed anywhere
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case IncompatibleSizes:
		return "incompatible sizes"
	case NoCandidates:
		return "no candidates"
	}
	return fmt.Sprintf("Status(%d)", s)
}

// Stats counts the work done. Searches over many targets can be added
// up with Merge.
type Stats struct {
	Placements int // single fragment placements scored
	Candidates int // placements kept
	Extensions int // partial solution extensions tried
	Kept       int // extensions that fitted
	Solutions  int // solutions returned
}

// Merge adds o to s.
func (s *Stats) Merge(o Stats) {
	s.Placements += o.Placements
	s.Candidates += o.Candidates
	s.Extensions += o.Extensions
	s.Kept += o.Kept
	s.Solutions += o.Solutions
}

// Placement puts a reference fragment (its index in the graph) onto
// target CVs [Start, End).
type Placement struct {
	Fragment   int
	Start, End int
}

// Solution places every reference fragment in the target.
type Solution struct {
	Placements            []Placement
	DistanceDissimilarity float64
	AngleDissimilarity    float64
	Residues              []cmmn.ResID // target residues, in reference order
	Atoms                 []cmmn.Atom  // their N, CA, C and O
	RMSD                  float64      // of the CV CA means after superposition
}

// Score is what solutions are ranked by. Lower is better.
func (s *Solution) Score() float64 { return s.DistanceDissimilarity + s.AngleDissimilarity }

// Result of one search
type Result struct {
	Status    Status
	Solutions []Solution
	Stats     Stats
}

// search is the state of one Search call.
type search struct {
	ref   *Reference
	tgt   *Target
	cfg   *config.Match
	lg    *log.Logger
	k     int
	tmp   scratch
	stats Stats
}

// SizesFit says if a target of nres residues can hold ref. Fewer
// residues never fit. With cfg.StrictSize the counts must be equal.
func SizesFit(ref *Reference, nres int, cfg *config.Match) bool {
	nr := ref.Set.NResidue()
	return nres >= nr && (!cfg.StrictSize || nres == nr)
}

// Search looks for ref in tgt. It never fails. A target too small for
// the reference or a fragment without candidates give an empty result
// with a status saying why.
func Search(ref *Reference, tgt *Target, cfg config.Match, lg *log.Logger) Result {
	lg = logger.OrDiscard(lg).With("reference", ref.Set.StructID, "target", tgt.Set.StructID)
	if !SizesFit(ref, tgt.Set.NResidue(), &cfg) {
		lg.Debug("sizes do not fit", "reference residues", ref.Set.NResidue(), "target residues", tgt.Set.NResidue())
		return Result{Status: IncompatibleSizes}
	}
	s := &search{ref: ref, tgt: tgt, cfg: &cfg, lg: lg, k: K(&cfg)}

	cands := make([][]candidate, ref.NFragment())
	for k := range cands {
		if cands[k] = s.candidates(k); len(cands[k]) == 0 {
			lg.Debug("no candidates", "fragment", ref.frags[k].node)
			return Result{Status: NoCandidates, Stats: s.stats}
		}
	}

	beam := make([]partial, 0, len(cands[0]))
	for _, c := range cands[0] {
		beam = append(beam, partial{at: []int{c.start}, dd: c.dd, da: c.da, nterm: 1})
	}
	beam = trim(beam, s.k*cfg.BeamFactor)
	for k := 1; k < len(cands) && len(beam) > 0; k++ {
		beam = s.extend(beam, k, cands[k])
		lg.Debug("extended", "fragment", ref.frags[k].node, "partial solutions", len(beam))
	}

	sols := make([]Solution, 0, len(beam))
	for i := range beam {
		if sol, ok := s.solution(&beam[i]); ok {
			sols = append(sols, sol)
		}
	}
	sortSolutions(sols)
	sols = dedup(sols, cfg.DedupOverlap)
	if cfg.MaxSolutions > 0 && len(sols) > cfg.MaxSolutions {
		sols = sols[:cfg.MaxSolutions]
	}
	s.stats.Solutions = len(sols)
	lg.Debug("done", "solutions", len(sols))
	return Result{Status: StatusOK, Solutions: sols, Stats: s.stats}
}

// solution turns a finished partial solution into a Solution, if it
// gets through the sequence and disulfide filters.
func (s *search) solution(p *partial) (Solution, bool) {
	ref, tgt := s.ref, s.tgt
	res := ref.residues(tgt.Set, p.at)
	if !seqOK(ref.mask, res) || !bridgesOK(ref.bridges, res) {
		return Solution{}, false
	}
	var sol Solution
	var rcv, tcv []int
	for k, at := range p.at {
		rf := &ref.frags[k]
		sol.Placements = append(sol.Placements, Placement{Fragment: rf.node, Start: at, End: at + rf.n})
		rcv = append(rcv, span(rf.start, rf.n)...)
		tcv = append(tcv, span(at, rf.n)...)
	}
	var rd scratch
	geometry(ref.Set.CVs, rcv, rcv, &rd.d, &rd.c)
	geometry(tgt.Set.CVs, tcv, tcv, &s.tmp.d, &s.tmp.c)
	sol.DistanceDissimilarity, sol.AngleDissimilarity = dissim(&rd.d, &rd.c, &s.tmp.d, &s.tmp.c, true)

	sol.Residues = make([]cmmn.ResID, len(res))
	for i, r := range res {
		sol.Residues[i] = r.ID
		for _, name := range []string{"N", "CA", "C", "O"} {
			if a, ok := r.Atom(name); ok {
				sol.Atoms = append(sol.Atoms, a)
			}
		}
	}

	rx := make([]cmmn.Xyz, len(rcv))
	tx := make([]cmmn.Xyz, len(tcv))
	for i := range rcv {
		rx[i], tx[i] = ref.Set.CVs[rcv[i]].CA, tgt.Set.CVs[tcv[i]].CA
	}
	rmsd, err := RMSD(rx, tx)
	if err != nil {
		s.lg.Warn("no rmsd", "err", err)
	}
	sol.RMSD = rmsd
	return sol, true
}
