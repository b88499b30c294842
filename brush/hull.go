// SPDX-License-Identifier: GPL-2.0-or-later

package brush

import (
	"fmt"
	"math"
	"slices"

	"github.com/pkg/errors"

	"quakeed/geom"
	"quakeed/math/vec"
)

// facet is one planar polygon of a convex hull, wound counterclockwise seen
// from outside.
type facet struct {
	plane  geom.Plane
	points []vec.Vec3
}

// convexHull returns the facets of the hull of points. Points closer than
// eps to a facet plane count as lying on it.
func convexHull(points []vec.Vec3, eps float64) ([]facet, error) {
	var pts []vec.Vec3
	for _, p := range points {
		if !slices.ContainsFunc(pts, func(q vec.Vec3) bool { return vec.EqualEps(p, q, eps) }) {
			pts = append(pts, p)
		}
	}
	if len(pts) < 4 {
		return nil, errors.Wrapf(ErrBrushIsNull, "hull of %d points", len(pts))
	}

	seen := make(map[string]bool)
	var facets []facet
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			for k := j + 1; k < len(pts); k++ {
				n := vec.Cross(vec.Sub(pts[j], pts[i]), vec.Sub(pts[k], pts[i]))
				if n.Length() < eps {
					continue
				}
				n = n.Normalize()
				d := vec.Dot(n, pts[i])
				above, below := false, false
				for _, p := range pts {
					switch dist := vec.Dot(n, p) - d; {
					case dist > eps:
						above = true
					case dist < -eps:
						below = true
					}
				}
				if above && below {
					continue
				}
				if !above && !below {
					return nil, errors.Wrap(ErrBrushIsNull, "hull points are coplanar")
				}
				if above {
					n = n.Neg()
					d = -d
				}
				var members []int
				for m, p := range pts {
					if math.Abs(vec.Dot(n, p)-d) <= eps {
						members = append(members, m)
					}
				}
				key := fmt.Sprint(members)
				if seen[key] {
					continue
				}
				seen[key] = true
				f, ok := makeFacet(geom.Plane{Normal: n, Dist: d}, pts, members)
				if ok {
					facets = append(facets, f)
				}
			}
		}
	}
	if len(facets) < 4 {
		return nil, errors.Wrapf(ErrBrushIsNull, "hull has %d facets", len(facets))
	}
	return facets, nil
}

// makeFacet orders the members of a facet plane as a convex polygon and
// drops the ones in the middle of an edge.
func makeFacet(plane geom.Plane, pts []vec.Vec3, members []int) (facet, bool) {
	u, v := plane.Basis()
	type planar struct {
		p  vec.Vec2
		at vec.Vec3
	}
	ps := make([]planar, len(members))
	for i, m := range members {
		ps[i] = planar{vec.Vec2{X: vec.Dot(pts[m], u), Y: vec.Dot(pts[m], v)}, pts[m]}
	}
	slices.SortFunc(ps, func(a, b planar) int {
		switch {
		case a.p.X < b.p.X:
			return -1
		case a.p.X > b.p.X:
			return 1
		case a.p.Y < b.p.Y:
			return -1
		case a.p.Y > b.p.Y:
			return 1
		}
		return 0
	})
	turn := func(o, a, b vec.Vec2) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	const collinear = 1e-6
	var hull []planar
	for _, p := range ps {
		for len(hull) >= 2 && turn(hull[len(hull)-2].p, hull[len(hull)-1].p, p.p) <= collinear {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(ps) - 2; i >= 0; i-- {
		p := ps[i]
		for len(hull) >= lower && turn(hull[len(hull)-2].p, hull[len(hull)-1].p, p.p) <= collinear {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]
	if len(hull) < 3 {
		return facet{}, false
	}
	f := facet{plane: plane, points: make([]vec.Vec3, len(hull))}
	for i, h := range hull {
		f.points[i] = h.at
	}
	return f, true
}

// orthogonalCorner returns the three points of the polygon around the
// corner closest to a right angle, in map file winding.
func orthogonalCorner(polygon []vec.Vec3) [3]vec.Vec3 {
	n := len(polygon)
	best := 0
	bestCos := math.Inf(1)
	for i := range polygon {
		a := polygon[i]
		prev := vec.Sub(polygon[(i+n-1)%n], a).Normalize()
		next := vec.Sub(polygon[(i+1)%n], a).Normalize()
		if c := math.Abs(vec.Dot(prev, next)); c < bestCos-1e-9 {
			bestCos = c
			best = i
		}
	}
	return [3]vec.Vec3{polygon[best], polygon[(best+n-1)%n], polygon[(best+1)%n]}
}
