// Package relation compares pairs of CVs. For every pair we keep the
// angle between the two windows, the distance between them and how
// the windows point at each other.
package relation

import (
	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pdb/geom"
	"github.com/andrew-torda/fragmatch/pkg/cv"
)

// Guess is a first look at secondary structure from CVL alone.
type Guess string

const (
	Helix  Guess = "ah"
	Strand Guess = "bs"
	None   Guess = "nn"
)

// Bands for guessing. These are fixed, the classifier has its own.
const (
	helixCVL, helixTol   = 2.2, 0.18
	strandCVL, strandTol = 1.39, 0.24
)

// NoContinuity is the continuity of two CVs not in one continuous run.
// The gap is not kept. For CVs i < j it is j - i.
const NoContinuity = -1

// GuessOf puts a CVL into a band.
func GuessOf(cvl float64) Guess {
	switch {
	case cvl >= helixCVL-helixTol && cvl <= helixCVL+helixTol:
		return Helix
	case cvl >= strandCVL-strandTol && cvl <= strandCVL+strandTol:
		return Strand
	}
	return None
}

// Relation is what we know about CVs I and J, I <= J.
type Relation struct {
	I, J int

	// 0 for the same window, J-I inside one continuous run,
	// NoContinuity otherwise
	Continuity int

	CVL           [2]float64
	Angle         float64 // between window directions, degrees
	Distance      float64 // between mean CA positions
	AngleDistance float64 // window direction against the line joining them, smaller of the two
	Union         []cmmn.ResID
	Guess         [2]Guess
}

// angleOr0 is an angle where a zero length vector gives 0.
func angleOr0(a, b cmmn.Xyz, normal *cmmn.Xyz, signed bool) (float64, bool) {
	ang, err := geom.Angle(a, b, normal, signed)
	if err != nil {
		return 0, false
	}
	return ang, true
}

// Compute fills out a relation. cont is the continuity the caller has
// worked out, since that needs to know about the runs of valid CVs.
// With signed set, the angle takes its sign from the vector joining
// the two windows.
func Compute(a, b *cv.CV, cont int, signed bool) Relation {
	r := Relation{
		I: a.Index, J: b.Index, Continuity: cont,
		CVL:   [2]float64{a.CVL, b.CVL},
		Guess: [2]Guess{GuessOf(a.CVL), GuessOf(b.CVL)},
	}
	switch cont {
	case 0:
		r.Union = append([]cmmn.ResID(nil), a.Residues...)
		return r // same window, nothing to measure
	case 1:
		r.Union = make([]cmmn.ResID, 0, len(a.Residues)+1)
		r.Union = append(r.Union, a.Residues...)
		r.Union = append(r.Union, b.Residues[len(b.Residues)-1])
	}
	dist, ab := geom.Distance(a.CA, b.CA)
	r.Distance = dist
	var normal *cmmn.Xyz
	if signed && dist > 0 {
		normal = &ab
	}
	r.Angle, _ = angleOr0(a.Dir(), b.Dir(), normal, signed)
	if dist == 0 {
		return r // AngleDistance stays 0
	}
	angA, okA := angleOr0(a.Dir(), ab, nil, false)
	angB, okB := angleOr0(b.Dir(), ab.Scale(-1), nil, false)
	switch {
	case okA && okB:
		r.AngleDistance = min(angA, angB)
	case okA:
		r.AngleDistance = angA
	case okB:
		r.AngleDistance = angB
	}
	return r
}
