package gr

import "math"

// Vec3 is a 3-component Cartesian vector.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm2 is the squared Euclidean norm.
func (v Vec3) Norm2() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Norm2())
}

// Body is one particle of the host simulation's snapshot. Acc accumulates:
// the host writes the Newtonian acceleration, the correctors add onto it.
type Body struct {
	Pos  Vec3
	Vel  Vec3
	Mass float64
	Acc  Vec3
}
