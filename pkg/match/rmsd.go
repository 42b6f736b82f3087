package match

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pdb/geom"
)

// centred returns the points as an n by 3 matrix with their mean
// taken away, and the sum of squares of what is left.
func centred(p []cmmn.Xyz) (*mat.Dense, float64) {
	m := geom.Mean(p)
	d := mat.NewDense(len(p), 3, nil)
	var ss float64
	for i, x := range p {
		x = x.Sub(m)
		d.SetRow(i, []float64{x.X, x.Y, x.Z})
		ss += geom.Dot(x, x)
	}
	return d, ss
}

// RMSD is the root mean square deviation of a and b after the best
// rigid superposition (Kabsch). It comes from the singular values of
// the correlation matrix, so no rotation is built.
func RMSD(a, b []cmmn.Xyz) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("rmsd: %d points against %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	pa, ssa := centred(a)
	pb, ssb := centred(b)
	var h mat.Dense
	h.Mul(pa.T(), pb)

	var svd mat.SVD
	if ok := svd.Factorize(&h, mat.SVDFull); !ok {
		return 0, fmt.Errorf("rmsd: svd failed")
	}
	sv := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	if mat.Det(&u)*mat.Det(&v) < 0 { // reflection
		sv[2] = -sv[2]
	}
	e := ssa + ssb - 2*(sv[0]+sv[1]+sv[2])
	return math.Sqrt(max(e, 0) / float64(len(a))), nil
}
