// SPDX-License-Identifier: GPL-2.0-or-later

package brush

import (
	"math"

	"quakeed/geom"
	"quakeed/math/vec"
)

// ContainsPoint reports whether p lies inside or on the brush.
func (b *Brush) ContainsPoint(p vec.Vec3) bool {
	if b.geometry == nil {
		return false
	}
	for _, f := range b.faces {
		if f.plane.ClassifyEps(p, b.cfg.PointStatusEpsilon) == geom.Above {
			return false
		}
	}
	return true
}

// Pick returns the closest face hit from the front by r and the distance
// along r.
func (b *Brush) Pick(r geom.Ray) (*Face, float64, bool) {
	var best *Face
	bestDist := math.Inf(1)
	for _, f := range b.faces {
		if vec.Dot(f.plane.Normal, r.Direction) >= 0 {
			continue
		}
		d, ok := r.Hit(f.plane)
		if !ok || d >= bestDist {
			continue
		}
		if !f.polygonContains(r.PointAtDistance(d), b.cfg.PointStatusEpsilon) {
			continue
		}
		best, bestDist = f, d
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}

// polygonContains reports whether p, a point on the plane of f, lies
// within eps of the polygon of f.
func (f *Face) polygonContains(p vec.Vec3, eps float64) bool {
	v := f.Vertices()
	if len(v) < 3 {
		return false
	}
	var pos, neg bool
	for i, a := range v {
		e := vec.Sub(v[(i+1)%len(v)], a)
		l := e.Length()
		if l == 0 {
			continue
		}
		// signed distance of p from the edge line inside the plane
		d := vec.Dot(vec.Cross(e, vec.Sub(p, a)), f.plane.Normal) / l
		switch {
		case d > eps:
			pos = true
		case d < -eps:
			neg = true
		}
	}
	return !(pos && neg)
}
