// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	qmath "quakeed/math"
)

type Vec3 struct {
	X, Y, Z float64
}

var (
	PosX = Vec3{1, 0, 0}
	PosY = Vec3{0, 1, 0}
	PosZ = Vec3{0, 0, 1}
	NegX = Vec3{-1, 0, 0}
	NegY = Vec3{0, -1, 0}
	NegZ = Vec3{0, 0, -1}
)

func VFromA(a [3]float64) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

func (v Vec3) Array() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func (v Vec3) Idx(i int) float64 {
	switch i {
	default:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
}

// With returns v with component i replaced by s
func (v Vec3) With(i int, s float64) Vec3 {
	switch i {
	default:
		v.X = s
	case 1:
		v.Y = s
	case 2:
		v.Z = s
	}
	return v
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

// Length returns the length of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(Dot(v, v))
}

func (v Vec3) LengthSquared() float64 {
	return Dot(v, v)
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X + b.X,
		Y: a.Y + b.Y,
		Z: a.Z + b.Z,
	}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X - b.X,
		Y: a.Y - b.Y,
		Z: a.Z - b.Z,
	}
}

// Scale returns the vector multiplied by the skalar s
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{
		X: v.X * s,
		Y: v.Y * s,
		Z: v.Z * s,
	}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Normalize returns the normalized vector
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) IsZero(eps float64) bool {
	return qmath.IsZero(v.X, eps) && qmath.IsZero(v.Y, eps) && qmath.IsZero(v.Z, eps)
}

// IsInteger reports whether all components are whole numbers
func (v Vec3) IsInteger() bool {
	return v.X == math.Trunc(v.X) && v.Y == math.Trunc(v.Y) && v.Z == math.Trunc(v.Z)
}

// Dot returns a dot b
func Dot(a Vec3, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns a cross b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Lerp computes a weighted average between two points
func Lerp(a, b Vec3, frac float64) Vec3 {
	fi := 1 - frac
	return Vec3{
		fi*a.X + frac*b.X,
		fi*a.Y + frac*b.Y,
		fi*a.Z + frac*b.Z,
	}
}

// Equal returns a == b
func Equal(a Vec3, b Vec3) bool {
	return a.X == b.X && a.Y == b.Y && a.Z == b.Z
}

// EqualEps returns true if all components of a and b differ by at most eps
func EqualEps(a, b Vec3, eps float64) bool {
	return qmath.Equal(a.X, b.X, eps) &&
		qmath.Equal(a.Y, b.Y, eps) &&
		qmath.Equal(a.Z, b.Z, eps)
}

// Parallel returns true if a and b point along the same line
func Parallel(a, b Vec3, eps float64) bool {
	return Cross(a.Normalize(), b.Normalize()).IsZero(eps)
}

// Less orders vectors lexicographically by x, y, z
func Less(a, b Vec3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

func minmax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}

func MinMax(a, b Vec3) (Vec3, Vec3) {
	var r, s Vec3
	r.X, s.X = minmax(a.X, b.X)
	r.Y, s.Y = minmax(a.Y, b.Y)
	r.Z, s.Z = minmax(a.Z, b.Z)
	return r, s
}

func Min(a, b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

func Max(a, b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Round rounds every component half away from zero
func (v Vec3) Round() Vec3 {
	return Vec3{qmath.Round(v.X), qmath.Round(v.Y), qmath.Round(v.Z)}
}

// Snap moves every component to the nearest multiple of grid
func (v Vec3) Snap(grid float64) Vec3 {
	return Vec3{qmath.Snap(v.X, grid), qmath.Snap(v.Y, grid), qmath.Snap(v.Z, grid)}
}

// Correct rounds every component to the given number of decimals if it is
// within eps of the rounded value.
func (v Vec3) Correct(decimals int, eps float64) Vec3 {
	return Vec3{
		qmath.Correct(v.X, decimals, eps),
		qmath.Correct(v.Y, decimals, eps),
		qmath.Correct(v.Z, decimals, eps),
	}
}

// MajorAxis returns the index of the component with the largest magnitude
func (v Vec3) MajorAxis() int {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

// Center returns the average of the given points
func Center(points []Vec3) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var c Vec3
	for _, p := range points {
		c = Add(c, p)
	}
	return c.Scale(1 / float64(len(points)))
}

func (v Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func FromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Transform applies m to the point v
func (v Vec3) Transform(m mgl64.Mat4) Vec3 {
	return FromMgl(mgl64.TransformCoordinate(v.Mgl(), m))
}

// TransformDir applies the linear part of m to the direction v
func (v Vec3) TransformDir(m mgl64.Mat4) Vec3 {
	return FromMgl(m.Mat3().Mul3x1(v.Mgl()))
}

// TransformNormal applies the inverse transpose of the linear part of m to
// the normal v and renormalizes it
func (v Vec3) TransformNormal(m mgl64.Mat4) Vec3 {
	n := m.Mat3().Inv().Transpose()
	return FromMgl(n.Mul3x1(v.Mgl())).Normalize()
}

// Rotate rotates v by q
func (v Vec3) Rotate(q mgl64.Quat) Vec3 {
	return FromMgl(q.Rotate(v.Mgl()))
}
