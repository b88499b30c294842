// SPDX-License-Identifier: GPL-2.0-or-later

package texcoord

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	qmath "quakeed/math"
	"quakeed/math/vec"
)

// BaseAxes holds for every major direction the normal followed by the
// texture x and y axis, as used by qbsp.
var BaseAxes = [18]vec.Vec3{
	vec.PosZ, vec.PosX, vec.NegY, // floor
	vec.NegZ, vec.PosX, vec.NegY, // ceiling
	vec.PosX, vec.PosY, vec.NegZ, // west wall
	vec.NegX, vec.PosY, vec.NegZ, // east wall
	vec.PosY, vec.PosX, vec.NegZ, // south wall
	vec.NegY, vec.PosX, vec.NegZ, // north wall
}

// axesAndIndices selects the base axes for normal. Ties go to the first
// entry of BaseAxes.
func axesAndIndices(normal vec.Vec3) (x, y vec.Vec3, planeNormIndex, faceNormIndex int) {
	best := 0
	bestDot := 0.0
	for i := 0; i < 6; i++ {
		d := vec.Dot(normal, BaseAxes[i*3])
		if d > bestDot {
			bestDot = d
			best = i
		}
	}
	return BaseAxes[best*3+1], BaseAxes[best*3+2], (best / 2) * 6, best * 3
}

// rotateAxes rotates the texture axes about the texture plane normal.
// The Y plane turns the other way, qbsp does it that way.
func rotateAxes(x, y vec.Vec3, rad float64, planeNormIndex int) (vec.Vec3, vec.Vec3) {
	if planeNormIndex == 12 {
		rad = -rad
	}
	q := mgl64.QuatRotate(rad, BaseAxes[planeNormIndex].Mgl())
	return correctAxis(x.Rotate(q)), correctAxis(y.Rotate(q))
}

func (s *System) setParaxial(normal vec.Vec3, rotation float64) {
	x, y, pni, fni := axesAndIndices(normal)
	s.planeNormIndex = pni
	s.faceNormIndex = fni
	s.normal = normal
	s.uAxis, s.vAxis = rotateAxes(x, y, qmath.Radians(rotation), pni)
}

// projectOntoTexturePlane moves the axes along the texture plane normal so
// they lie in the plane through the origin with the given normal.
func projectOntoTexturePlane(normal vec.Vec3, planeNormIndex int, x, y vec.Vec3) (vec.Vec3, vec.Vec3) {
	axis := BaseAxes[planeNormIndex].MajorAxis()
	n := normal.Idx(axis)
	if math.Abs(n) < qmath.AlmostZero {
		return x, y
	}
	project := func(v vec.Vec3) vec.Vec3 {
		v = v.With(axis, 0)
		return v.With(axis, -vec.Dot(v, normal)/n)
	}
	return project(x), project(y)
}

func (s *System) compensateParaxial(normal, invariant vec.Vec3, m mgl64.Mat4, a Attributes) Attributes {
	s.setParaxial(normal, a.Rotation)
	xs, ys := a.scale()
	cur := s.TexCoords(invariant, a)

	newX, newY := projectOntoTexturePlane(normal, s.planeNormIndex, s.uAxis.Scale(xs), s.vAxis.Scale(ys))
	newX = newX.TransformDir(m)
	newY = newY.TransformDir(m)

	newNormal := normal.TransformNormal(m)
	if vec.EqualEps(newNormal, normal, 0.01) {
		newNormal = normal
	}

	baseX, baseY, pni, _ := axesAndIndices(newNormal)
	axis := BaseAxes[pni].MajorAxis()
	newX = newX.With(axis, 0)
	newY = newY.With(axis, 0)

	xScale, yScale := newX.Length(), newY.Length()
	if xScale < qmath.AlmostZero || yScale < qmath.AlmostZero {
		// the transformation collapsed an axis, keep what we have
		s.setParaxial(newNormal, a.Rotation)
		return a
	}
	newX = newX.Scale(1 / xScale)
	newY = newY.Scale(1 / yScale)

	rad := math.Acos(qmath.Clamp(-1, vec.Dot(baseX, newX), 1))
	if vec.Dot(vec.Cross(baseX, newX), BaseAxes[pni]) < 0 {
		rad = -rad
	}
	if pni == 12 {
		rad = -rad
	}
	rotation := qmath.AngleMod(qmath.Correct(qmath.Degrees(rad), 4, qmath.CorrectEpsilon))
	if rotation >= 360 {
		rotation = 0
	}

	rx, ry := rotateAxes(baseX, baseY, qmath.Radians(rotation), pni)
	if vec.Dot(rx, newX) < 0 {
		xScale = -xScale
	}
	if vec.Dot(ry, newY) < 0 {
		yScale = -yScale
	}

	r := Attributes{
		Rotation: rotation,
		XScale:   qmath.Correct(xScale, 4, qmath.CorrectEpsilon),
		YScale:   qmath.Correct(yScale, 4, qmath.CorrectEpsilon),
	}
	s.setParaxial(newNormal, rotation)
	nc := s.TexCoords(invariant.Transform(m), r)
	r.XOffset = qmath.Correct(cur.X-nc.X, 4, qmath.CorrectEpsilon)
	r.YOffset = qmath.Correct(cur.Y-nc.Y, 4, qmath.CorrectEpsilon)
	return r
}
