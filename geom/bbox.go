// SPDX-License-Identifier: GPL-2.0-or-later

package geom

import (
	"fmt"
	"math"

	"quakeed/math/vec"
)

// BBox is an axis aligned bounding box
type BBox struct {
	Min vec.Vec3
	Max vec.Vec3
}

// Cube returns the box reaching from -half to +half on every axis
func Cube(half float64) BBox {
	return BBox{
		Min: vec.Vec3{X: -half, Y: -half, Z: -half},
		Max: vec.Vec3{X: half, Y: half, Z: half},
	}
}

// BoundsOf returns the smallest box containing all points
func BoundsOf(points []vec.Vec3) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	b := BBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.MergeWith(p)
	}
	return b
}

func (b BBox) MergeWith(p vec.Vec3) BBox {
	return BBox{Min: vec.Min(b.Min, p), Max: vec.Max(b.Max, p)}
}

func (b BBox) Center() vec.Vec3 {
	return vec.Lerp(b.Min, b.Max, 0.5)
}

func (b BBox) Size() vec.Vec3 {
	return vec.Sub(b.Max, b.Min)
}

func (b BBox) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Contains reports whether p lies in the box, allowing eps of slack
func (b BBox) Contains(p vec.Vec3, eps float64) bool {
	return p.X >= b.Min.X-eps && p.X <= b.Max.X+eps &&
		p.Y >= b.Min.Y-eps && p.Y <= b.Max.Y+eps &&
		p.Z >= b.Min.Z-eps && p.Z <= b.Max.Z+eps
}

func (b BBox) ContainsBox(o BBox, eps float64) bool {
	return b.Contains(o.Min, eps) && b.Contains(o.Max, eps)
}

// Corner returns the corner selected by the bits of i: bit 0 picks max x,
// bit 1 max y and bit 2 max z.
func (b BBox) Corner(i int) vec.Vec3 {
	c := b.Min
	if i&1 != 0 {
		c.X = b.Max.X
	}
	if i&2 != 0 {
		c.Y = b.Max.Y
	}
	if i&4 != 0 {
		c.Z = b.Max.Z
	}
	return c
}

func (b BBox) Expand(d float64) BBox {
	e := vec.Vec3{X: d, Y: d, Z: d}
	return BBox{Min: vec.Sub(b.Min, e), Max: vec.Add(b.Max, e)}
}

func (b BBox) String() string {
	return fmt.Sprintf("[%v %v]", b.Min, b.Max)
}

// Ray is a half line starting at Origin
type Ray struct {
	Origin    vec.Vec3
	Direction vec.Vec3
}

func (r Ray) PointAtDistance(d float64) vec.Vec3 {
	return vec.Add(r.Origin, r.Direction.Scale(d))
}

// Hit reports whether the ray intersects the plane in front of its origin
func (r Ray) Hit(p Plane) (float64, bool) {
	d := p.IntersectWithRay(r)
	if math.IsNaN(d) || d < 0 {
		return 0, false
	}
	return d, true
}
