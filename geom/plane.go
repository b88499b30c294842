// SPDX-License-Identifier: GPL-2.0-or-later

package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	qmath "quakeed/math"
	"quakeed/math/vec"
)

var (
	ErrDegeneratePlane = errors.New("plane points are collinear")
)

type PointStatus int

const (
	Below PointStatus = iota
	Inside
	Above
)

func (s PointStatus) String() string {
	switch s {
	case Below:
		return "below"
	case Inside:
		return "inside"
	case Above:
		return "above"
	}
	return fmt.Sprintf("PointStatus(%d)", int(s))
}

// Plane is the set of points x with Normal·x = Dist. Normal points away
// from the half space it bounds.
type Plane struct {
	Normal vec.Vec3
	Dist   float64
}

func NewPlane(normal vec.Vec3, anchor vec.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Dist: vec.Dot(n, anchor)}
}

// FromPoints builds the plane through three points. The normal follows the
// map file winding: (p2-p0) x (p1-p0).
func FromPoints(p0, p1, p2 vec.Vec3) (Plane, error) {
	v1 := vec.Sub(p2, p0)
	v2 := vec.Sub(p1, p0)
	n := vec.Cross(v1, v2)
	l := n.Length()
	if l < qmath.AlmostZero || vec.Parallel(v1, v2, qmath.AlmostZero*qmath.AlmostZero) {
		return Plane{}, errors.Wrapf(ErrDegeneratePlane, "%v %v %v", p0, p1, p2)
	}
	n = n.Scale(1 / l)
	return Plane{Normal: n, Dist: vec.Dot(n, p0)}, nil
}

// Distance returns the signed distance of p, positive above the plane.
func (p Plane) Distance(pt vec.Vec3) float64 {
	return vec.Dot(p.Normal, pt) - p.Dist
}

// Classify uses PointStatusEpsilon as the width of the on-plane band.
func (p Plane) Classify(pt vec.Vec3) PointStatus {
	return p.ClassifyEps(pt, qmath.PointStatusEpsilon)
}

func (p Plane) ClassifyEps(pt vec.Vec3, eps float64) PointStatus {
	d := p.Distance(pt)
	switch {
	case d > eps:
		return Above
	case d < -eps:
		return Below
	default:
		return Inside
	}
}

// IntersectWithRay returns the distance along the ray to the plane or NaN
// if the ray runs parallel to it.
func (p Plane) IntersectWithRay(r Ray) float64 {
	d := vec.Dot(p.Normal, r.Direction)
	if math.Abs(d) < qmath.AlmostZero {
		return math.NaN()
	}
	return (p.Dist - vec.Dot(p.Normal, r.Origin)) / d
}

// IntersectWithLine returns the point where the line through a and b meets
// the plane.
func (p Plane) IntersectWithLine(a, b vec.Vec3) (vec.Vec3, bool) {
	da := p.Distance(a)
	db := p.Distance(b)
	if da == db {
		return vec.Vec3{}, false
	}
	return vec.Lerp(a, b, da/(da-db)), true
}

// Project moves pt onto the plane along the normal.
func (p Plane) Project(pt vec.Vec3) vec.Vec3 {
	return vec.Sub(pt, p.Normal.Scale(p.Distance(pt)))
}

// Anchor is the point of the plane closest to the origin.
func (p Plane) Anchor() vec.Vec3 {
	return p.Normal.Scale(p.Dist)
}

func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Neg(), Dist: -p.Dist}
}

func (p Plane) Transform(m mgl64.Mat4) Plane {
	n := p.Normal.TransformNormal(m)
	a := p.Anchor().Transform(m)
	return Plane{Normal: n, Dist: vec.Dot(n, a)}
}

func (p Plane) Equal(o Plane, eps float64) bool {
	return vec.EqualEps(p.Normal, o.Normal, eps) && qmath.Equal(p.Dist, o.Dist, eps)
}

// Basis returns two unit vectors u, v spanning the plane with u x v = Normal.
func (p Plane) Basis() (u, v vec.Vec3) {
	helper := vec.PosZ
	if math.Abs(p.Normal.Z) > 0.9 {
		helper = vec.PosX
	}
	u = vec.Cross(p.Normal, helper).Normalize()
	v = vec.Cross(p.Normal, u)
	return u, v
}

// Points returns three points on the plane in map file winding order.
func (p Plane) Points(size float64) [3]vec.Vec3 {
	u, v := p.Basis()
	a := p.Anchor()
	pts := [3]vec.Vec3{
		a,
		vec.Add(a, v.Scale(size)),
		vec.Add(a, u.Scale(size)),
	}
	for i := range pts {
		pts[i] = pts[i].Correct(0, qmath.CorrectEpsilon)
	}
	return pts
}

func (p Plane) String() string {
	return fmt.Sprintf("%v %g", p.Normal, p.Dist)
}

// BoxSide returns 1 if the box lies above the plane, 2 if below and 3 if
// the plane crosses it.
func (p Plane) BoxSide(b BBox) int {
	var nearest, farthest vec.Vec3
	for i := 0; i < 3; i++ {
		if p.Normal.Idx(i) >= 0 {
			nearest = nearest.With(i, b.Min.Idx(i))
			farthest = farthest.With(i, b.Max.Idx(i))
		} else {
			nearest = nearest.With(i, b.Max.Idx(i))
			farthest = farthest.With(i, b.Min.Idx(i))
		}
	}
	d1 := vec.Dot(p.Normal, farthest)
	d2 := vec.Dot(p.Normal, nearest)
	sides := 0
	if d1 >= p.Dist {
		sides = 1
	}
	if d2 < p.Dist {
		sides |= 2
	}
	return sides
}
