package match

import (
	"math"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/fragmatch/pdb/geom"
	"github.com/andrew-torda/fragmatch/pkg/cv"
)

// span returns the CV indices [start, start+n).
func span(start, n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = start + i
	}
	return s
}

// geometry fills d with the squared distances between the midpoints of
// the rows and cols CVs and c with the cosines between their
// directions. The matrices are resized as needed, so scratch matrices
// can be passed in over and over.
func geometry(cvs []cv.CV, rows, cols []int, d, c *matrix.FMatrix2d) {
	d.Resize(len(rows), len(cols))
	c.Resize(len(rows), len(cols))
	for a, i := range rows {
		mi, di := cvs[i].Mid(), cvs[i].Dir()
		ni := geom.Norm(di)
		for b, j := range cols {
			_, v := geom.Distance(mi, cvs[j].Mid())
			d.Mat[a][b] = float32(geom.Dot(v, v))
			dj := cvs[j].Dir()
			nj := geom.Norm(dj)
			if ni == 0 || nj == 0 {
				c.Mat[a][b] = 0
				continue
			}
			c.Mat[a][b] = float32(geom.Dot(di, dj) / (ni * nj))
		}
	}
}

// dissim compares reference and target matrices of the same size.
// Distances get a Bray-Curtis ratio, sum|r-t| / sum(r+t). Cosines get
// the mean of |r-t|/2. Both are 0 for identical geometry and at most
// 1. With upper set, the matrices are square and symmetric and only
// the part above the diagonal is looked at.
func dissim(rd, rc, td, tc *matrix.FMatrix2d, upper bool) (dd, da float64) {
	var num, den, sumc float64
	n := 0
	for a := range rd.Mat {
		b0 := 0
		if upper {
			b0 = a + 1
		}
		for b := b0; b < len(rd.Mat[a]); b++ {
			r, t := float64(rd.Mat[a][b]), float64(td.Mat[a][b])
			num += math.Abs(r - t)
			den += r + t
			sumc += math.Abs(float64(rc.Mat[a][b]) - float64(tc.Mat[a][b]))
			n++
		}
	}
	if den > 0 {
		dd = num / den
	}
	if n > 0 {
		da = sumc / float64(n) / 2
	}
	return dd, da
}

// scratch holds matrices reused through one search.
type scratch struct {
	d, c matrix.FMatrix2d
}
