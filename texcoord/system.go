// SPDX-License-Identifier: GPL-2.0-or-later

package texcoord

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	qmath "quakeed/math"
	"quakeed/math/vec"
)

type Kind int

const (
	// Paraxial is the Quake standard format, axes derived from the normal
	Paraxial Kind = iota
	// UVVector is the Valve 220 format with explicit axes
	UVVector
)

func (k Kind) String() string {
	switch k {
	case Paraxial:
		return "paraxial"
	case UVVector:
		return "valve220"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "paraxial", "quake", "standard":
		return Paraxial, nil
	case "valve220", "valve", "uv":
		return UVVector, nil
	}
	return Paraxial, fmt.Errorf("unknown texture coordinate format %q", s)
}

// System maps points on a face to texture space. It is a tagged variant:
// kind selects the behaviour of every operation.
type System struct {
	kind   Kind
	uAxis  vec.Vec3
	vAxis  vec.Vec3
	normal vec.Vec3

	// paraxial only
	planeNormIndex int
	faceNormIndex  int
}

func NewParaxial(normal vec.Vec3, a Attributes) System {
	s := System{kind: Paraxial}
	s.setParaxial(normal, a.Rotation)
	return s
}

func NewUVVector(normal vec.Vec3, a Attributes) System {
	p := NewParaxial(normal, a)
	return p.ToUVVector()
}

// New creates a system of the given kind for a face with normal.
func New(k Kind, normal vec.Vec3, a Attributes) System {
	if k == UVVector {
		return NewUVVector(normal, a)
	}
	return NewParaxial(normal, a)
}

// FromAxes creates a Valve 220 system with the axes stored in a map file.
func FromAxes(normal, u, v vec.Vec3) System {
	return System{
		kind:   UVVector,
		uAxis:  u.Normalize(),
		vAxis:  v.Normalize(),
		normal: normal,
	}
}

func (s *System) Kind() Kind {
	return s.kind
}

func (s *System) UAxis() vec.Vec3 {
	return s.uAxis
}

func (s *System) VAxis() vec.Vec3 {
	return s.vAxis
}

// ToUVVector returns a Valve 220 system producing the same coordinates.
func (s *System) ToUVVector() System {
	return System{
		kind:   UVVector,
		uAxis:  s.uAxis,
		vAxis:  s.vAxis,
		normal: s.normal,
	}
}

// TexCoords projects p into texture space, in texels.
func (s *System) TexCoords(p vec.Vec3, a Attributes) vec.Vec2 {
	xs, ys := a.scale()
	return vec.Vec2{
		X: vec.Dot(p, s.uAxis)/xs + a.XOffset,
		Y: vec.Dot(p, s.vAxis)/ys + a.YOffset,
	}
}

// Update recomputes the axes after the face plane changed.
func (s *System) Update(normal vec.Vec3, a Attributes) {
	switch s.kind {
	case Paraxial:
		s.setParaxial(normal, a.Rotation)
	case UVVector:
		s.rotateToNormal(normal)
	}
}

// Compensate returns attributes that keep the texture fixed on the face
// while the face is transformed by m. The system is updated to the
// transformed normal. normal is the face normal before the transformation.
func (s *System) Compensate(normal, invariant vec.Vec3, m mgl64.Mat4, a Attributes) Attributes {
	switch s.kind {
	case UVVector:
		return s.compensateUVVector(normal, invariant, m, a)
	default:
		return s.compensateParaxial(normal, invariant, m, a)
	}
}

// MoveTexture shifts the texture by offset measured along the view's right
// and up directions.
func (s *System) MoveTexture(normal, up, right vec.Vec3, offset vec.Vec2, a Attributes) Attributes {
	texX, texY := s.projectedAxes(normal)

	var hAxis, vAxis vec.Vec3
	swap := false
	ax, ay := math.Abs(texX.Z), math.Abs(texY.Z)
	rx, ry := math.Abs(vec.Dot(right, texX)), math.Abs(vec.Dot(right, texY))
	ux, uy := math.Abs(vec.Dot(up, texX)), math.Abs(vec.Dot(up, texY))
	// the axis closer to the XY plane moves horizontally
	switch {
	case ax < ay-qmath.AlmostZero:
	case ay < ax-qmath.AlmostZero:
		swap = true
	case rx > ry+qmath.AlmostZero:
	case ry > rx+qmath.AlmostZero:
		swap = true
	case uy > ux+qmath.AlmostZero:
	case ux > uy+qmath.AlmostZero:
		swap = true
	default:
		return a
	}
	hAxis, vAxis = texX, texY
	if swap {
		hAxis, vAxis = texY, texX
	}

	var h, v float64
	if vec.Dot(right, hAxis) >= 0 {
		h = -offset.X
	} else {
		h = offset.X
	}
	if vec.Dot(up, vAxis) >= 0 {
		v = -offset.Y
	} else {
		v = offset.Y
	}
	if swap {
		h, v = v, h
	}
	a.XOffset += h
	a.YOffset += v
	return a
}

// RotateTexture turns the texture by angle degrees.
func (s *System) RotateTexture(normal vec.Vec3, angle float64, a Attributes) Attributes {
	switch s.kind {
	case UVVector:
		q := mgl64.QuatRotate(qmath.Radians(angle), normal.Mgl())
		s.uAxis = correctAxis(s.uAxis.Rotate(q))
		s.vAxis = correctAxis(s.vAxis.Rotate(q))
		a.Rotation = qmath.AngleMod(a.Rotation + angle)
	default:
		s.setParaxial(normal, a.Rotation)
		if s.planeNormIndex == s.faceNormIndex {
			a.Rotation += angle
		} else {
			a.Rotation -= angle
		}
		a.Rotation = qmath.AngleMod(a.Rotation)
		s.setParaxial(normal, a.Rotation)
	}
	return a
}

// projectedAxes returns the texture axes moved onto the face plane and
// normalized.
func (s *System) projectedAxes(normal vec.Vec3) (vec.Vec3, vec.Vec3) {
	switch s.kind {
	case UVVector:
		p := planeThroughOrigin(normal)
		return p(s.uAxis).Normalize(), p(s.vAxis).Normalize()
	default:
		x, y := projectOntoTexturePlane(normal, s.planeNormIndex, s.uAxis, s.vAxis)
		return x.Normalize(), y.Normalize()
	}
}

func planeThroughOrigin(normal vec.Vec3) func(vec.Vec3) vec.Vec3 {
	return func(v vec.Vec3) vec.Vec3 {
		return vec.Sub(v, normal.Scale(vec.Dot(v, normal)))
	}
}

func correctAxis(v vec.Vec3) vec.Vec3 {
	return v.Correct(9, 1e-12)
}

func (s *System) Clone() System {
	return *s
}
