// SPDX-License-Identifier: GPL-2.0-or-later

package texcoord

import (
	"github.com/go-gl/mathgl/mgl64"

	qmath "quakeed/math"
	"quakeed/math/vec"
)

// rotateToNormal turns the axes by the smallest rotation taking the old
// normal to normal and makes them perpendicular to it again.
func (s *System) rotateToNormal(normal vec.Vec3) {
	if s.normal.IsZero(qmath.AlmostZero) {
		s.normal = normal
		return
	}
	if vec.EqualEps(s.normal, normal, qmath.AlmostZero) {
		s.normal = normal
		return
	}
	q := mgl64.QuatBetweenVectors(s.normal.Mgl(), normal.Mgl())
	u := s.uAxis.Rotate(q)
	v := s.vAxis.Rotate(q)
	p := planeThroughOrigin(normal)
	if pu := p(u); !pu.IsZero(qmath.AlmostZero) {
		u = pu.Normalize()
	}
	if pv := p(v); !pv.IsZero(qmath.AlmostZero) {
		v = pv.Normalize()
	}
	s.uAxis = correctAxis(u)
	s.vAxis = correctAxis(v)
	s.normal = normal
}

func (s *System) compensateUVVector(normal, invariant vec.Vec3, m mgl64.Mat4, a Attributes) Attributes {
	cur := s.TexCoords(invariant, a)

	u := s.uAxis.TransformDir(m)
	v := s.vAxis.TransformDir(m)
	lu, lv := u.Length(), v.Length()
	if lu < qmath.AlmostZero || lv < qmath.AlmostZero {
		s.rotateToNormal(normal.TransformNormal(m))
		return a
	}
	s.uAxis = correctAxis(u.Scale(1 / lu))
	s.vAxis = correctAxis(v.Scale(1 / lv))
	s.normal = normal.TransformNormal(m)

	xs, ys := a.scale()
	r := a
	r.XScale = qmath.Correct(xs*lu, 4, qmath.CorrectEpsilon)
	r.YScale = qmath.Correct(ys*lv, 4, qmath.CorrectEpsilon)
	r.XOffset, r.YOffset = 0, 0
	nc := s.TexCoords(invariant.Transform(m), r)
	r.XOffset = qmath.Correct(cur.X-nc.X, 4, qmath.CorrectEpsilon)
	r.YOffset = qmath.Correct(cur.Y-nc.Y, 4, qmath.CorrectEpsilon)
	return r
}
