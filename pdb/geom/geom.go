// Calculate some geometries, lengths and angles.
// Everything here is a pure function on 3-vectors. Nothing is
// normalised on the way in.

package geom

import (
	"math"

	"github.com/andrew-torda/fragmatch/pdb/cmmn"
)

const conv = 180 / math.Pi

type Error string

func (e Error) Error() string { return string(e) }

// ErrZeroVector is returned when an angle is asked of a vector with
// no length. Callers are expected to have caught this already.
const ErrZeroVector = Error("zero length vector")

// Dot returns the dot / scalar product of two vectors
func Dot(u, v cmmn.Xyz) float64 { return u.X*v.X + u.Y*v.Y + u.Z*v.Z }

// Cross returns the vector product of two vectors
func Cross(u, v cmmn.Xyz) (res cmmn.Xyz) {
	res.X = u.Y*v.Z - u.Z*v.Y
	res.Y = u.Z*v.X - u.X*v.Z
	res.Z = u.X*v.Y - u.Y*v.X
	return res
}

// Norm returns the vector length
func Norm(v cmmn.Xyz) float64 { return math.Sqrt(Dot(v, v)) }

// Distance gets the distance between two points and the difference
// vector, end minus start.
func Distance(start, end cmmn.Xyz) (float64, cmmn.Xyz) {
	d := end.Sub(start)
	return Norm(d), d
}

// Angle returns the angle between a and b in degrees.
// atan2 of the cross and dot products behaves near 0 and 180, where
// acos of the normalised dot product loses all its digits.
// If signed is set and we have a normal, the sign of normal.(a x b)
// is applied to the result.
func Angle(a, b cmmn.Xyz, normal *cmmn.Xyz, signed bool) (float64, error) {
	if Dot(a, a) == 0 || Dot(b, b) == 0 {
		return 0, ErrZeroVector
	}
	c := Cross(a, b)
	ang := math.Atan2(Norm(c), Dot(a, b)) * conv
	if signed && normal != nil && Dot(*normal, c) < 0 {
		ang = -ang
	}
	return ang, nil
}

// Mean returns the centroid of a set of points. An empty set gives the
// origin.
func Mean(pts []cmmn.Xyz) cmmn.Xyz {
	var m cmmn.Xyz
	if len(pts) == 0 {
		return m
	}
	for _, p := range pts {
		m = m.Add(p)
	}
	return m.Scale(1 / float64(len(pts)))
}
