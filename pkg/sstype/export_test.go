package sstype

import (
	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/cv"
	"github.com/andrew-torda/fragmatch/pkg/logger"
	"github.com/andrew-torda/fragmatch/pkg/relation"
)

// Export some internals for testing
var (
	ClassifyPass = classifyPass
	LabelCVs     = labelCVs
	PairLabel    = pairLabel
	Resolve      = resolve
	MinLength    = minLength
	PeelGlyPro   = peelGlyPro
)

type Votes = votes

func newClassifier(set *cv.Set, mat *relation.Matrix, cfg config.SSType) *classifier {
	return &classifier{set: set, mat: mat, cfg: &cfg, lg: logger.OrDiscard(nil), brk: breaks(set.Residues)}
}

func Guard(set *cv.Set, mat *relation.Matrix, cfg config.SSType, labels []SS) []SS {
	return newClassifier(set, mat, cfg).guard(labels)
}

func StrandAdjust(set *cv.Set, mat *relation.Matrix, cfg config.SSType, frags []Fragment) []float64 {
	return newClassifier(set, mat, cfg).strandAdjust(frags)
}
