package sstype

import (
	"math"

	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/relation"
)

// term is how far x is from mean in units of the falloff on that side.
func term(x, mean, below, above float64) float64 {
	if x < mean {
		return (mean - x) / below
	}
	return (x - mean) / above
}

// bandScore is the weighted CVL and angle distance of one pair of
// neighbouring CVs from a band. Lower is better.
func bandScore(r *relation.Relation, b *config.Band, cfg *config.SSType) float64 {
	cvl := (term(r.CVL[0], b.CVL, b.CVLBelow, b.CVLAbove) +
		term(r.CVL[1], b.CVL, b.CVLBelow, b.CVLAbove)) / 2
	ang := term(math.Abs(r.Angle), b.Angle, b.AngleBelow, b.AngleAbove)
	return cfg.CVLWeight*cvl + cfg.AngleWeight*ang
}

// pairScores returns the helix and strand scores.
func pairScores(r *relation.Relation, cfg *config.SSType) (h, s float64) {
	return bandScore(r, &cfg.Helix, cfg), bandScore(r, &cfg.Strand, cfg)
}

// pairLabel decides between helix, strand and coil. A winner must be
// under MaxScore and ahead of the other by its strictness.
func pairLabel(h, s float64, cfg *config.SSType) SS {
	switch {
	case s < h && s <= cfg.MaxScore && h-s >= cfg.StrandStrictness:
		return Strand
	case h < s && h <= cfg.MaxScore && s-h >= cfg.HelixStrictness:
		return Helix
	}
	return Coil
}

// classifyPass applies the label of the pair (i, i+1) to both CVs and
// returns their new labels. A coil pair changes nothing. CV i+1 always
// takes the pair's label, but CV i keeps a label it already got from
// the pair before it.
func classifyPass(labels []SS, pair SS, i int) (li, lj SS) {
	li, lj = labels[i], labels[i+1]
	if pair == Coil {
		return li, lj
	}
	if li == Coil {
		li = pair
	}
	return li, pair
}

// labelCVs runs classifyPass along a chain of pair labels. pairs[i]
// is the label of CVs i and i+1, Coil where there is no pair.
func labelCVs(pairs []SS, ncv int) []SS {
	labels := make([]SS, ncv)
	for i := range pairs {
		labels[i], labels[i+1] = classifyPass(labels, pairs[i], i)
	}
	return labels
}

// guard finds CVs three apart with the same label, where the angle
// between them is too far from that label's mean. Both become hard
// coil. Comparisons are made on the labels as they came in.
func (c *classifier) guard(labels []SS) []SS {
	out := append([]SS(nil), labels...)
	const gap = 3
	for i := 0; i+gap < len(labels); i++ {
		l := labels[i]
		if (l != Helix && l != Strand) || labels[i+gap] != l {
			continue
		}
		if c.mat.Continuity(i, i+gap) != gap {
			continue
		}
		band := &c.cfg.Helix
		if l == Strand {
			band = &c.cfg.Strand
		}
		r := c.rel(i, i+gap)
		if math.Abs(math.Abs(r.Angle)-band.Angle) > c.cfg.GuardAngle {
			out[i], out[i+gap] = HardCoil, HardCoil
		}
	}
	return out
}
