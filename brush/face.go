// SPDX-License-Identifier: GPL-2.0-or-later

package brush

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"quakeed/geom"
	"quakeed/math/vec"
	"quakeed/texcoord"
)

// Face is one half space of a brush together with its texture.
type Face struct {
	points  [3]vec.Vec3
	plane   geom.Plane
	texture string
	attribs texcoord.Attributes
	system  texcoord.System

	brush      *Brush
	side       SideIndex
	generation uint64
}

// NewFace creates a face through three points given in map file order.
func NewFace(p0, p1, p2 vec.Vec3, texture string, a texcoord.Attributes, k texcoord.Kind) (*Face, error) {
	plane, err := geom.FromPoints(p0, p1, p2)
	if err != nil {
		return nil, err
	}
	return &Face{
		points:  [3]vec.Vec3{p0, p1, p2},
		plane:   plane,
		texture: texture,
		attribs: a,
		system:  texcoord.New(k, plane.Normal, a),
		side:    NoSide,
	}, nil
}

// NewFaceFromPlane creates a face on plane with points derived from it.
func NewFaceFromPlane(plane geom.Plane, texture string, a texcoord.Attributes, k texcoord.Kind) (*Face, error) {
	pts := plane.Points(64)
	return NewFace(pts[0], pts[1], pts[2], texture, a, k)
}

// NewValveFace creates a face with explicit texture axes.
func NewValveFace(p0, p1, p2 vec.Vec3, texture string, u, v vec.Vec3, a texcoord.Attributes) (*Face, error) {
	f, err := NewFace(p0, p1, p2, texture, a, texcoord.UVVector)
	if err != nil {
		return nil, err
	}
	f.system = texcoord.FromAxes(f.plane.Normal, u, v)
	return f, nil
}

func (f *Face) Points() [3]vec.Vec3 {
	return f.points
}

func (f *Face) Plane() geom.Plane {
	return f.plane
}

func (f *Face) Normal() vec.Vec3 {
	return f.plane.Normal
}

func (f *Face) TextureName() string {
	return f.texture
}

func (f *Face) SetTextureName(name string) {
	f.texture = name
}

func (f *Face) Attributes() texcoord.Attributes {
	return f.attribs
}

func (f *Face) SetAttributes(a texcoord.Attributes) {
	f.attribs = a
	f.system.Update(f.plane.Normal, a)
}

func (f *Face) XOffset() float64  { return f.attribs.XOffset }
func (f *Face) YOffset() float64  { return f.attribs.YOffset }
func (f *Face) Rotation() float64 { return f.attribs.Rotation }
func (f *Face) XScale() float64   { return f.attribs.XScale }
func (f *Face) YScale() float64   { return f.attribs.YScale }

func (f *Face) TexCoordSystem() texcoord.System {
	return f.system
}

func (f *Face) TexCoords(p vec.Vec3) vec.Vec2 {
	return f.system.TexCoords(p, f.attribs)
}

// MoveTexture shifts the texture along the view directions up and right.
func (f *Face) MoveTexture(up, right vec.Vec3, offset vec.Vec2) {
	f.attribs = f.system.MoveTexture(f.plane.Normal, up, right, offset, f.attribs)
}

func (f *Face) RotateTexture(angle float64) {
	f.attribs = f.system.RotateTexture(f.plane.Normal, angle, f.attribs)
}

// Brush returns the owner or nil.
func (f *Face) Brush() *Brush {
	return f.brush
}

// Geometry returns the side of the face in the current brush geometry. It
// is nil if the face has no side, is not part of a brush or the geometry
// was rebuilt since the face was last assigned.
func (f *Face) Geometry() *Side {
	if f.brush == nil || f.brush.geometry == nil || f.side == NoSide {
		return nil
	}
	if f.brush.geometry.generation != f.generation {
		return nil
	}
	return &f.brush.geometry.sides[f.side]
}

func (f *Face) Vertices() []vec.Vec3 {
	if f.Geometry() == nil {
		return nil
	}
	return f.brush.geometry.SideVertices(f.side)
}

// Center is the average of the vertices, or the first point without
// geometry.
func (f *Face) Center() vec.Vec3 {
	v := f.Vertices()
	if len(v) == 0 {
		return f.points[0]
	}
	return vec.Center(v)
}

// Clone returns a detached copy.
func (f *Face) Clone() *Face {
	c := *f
	c.brush = nil
	c.side = NoSide
	c.generation = 0
	return &c
}

// setPoints moves the face to the plane through the points.
func (f *Face) setPoints(pts [3]vec.Vec3) error {
	plane, err := geom.FromPoints(pts[0], pts[1], pts[2])
	if err != nil {
		return err
	}
	f.points = pts
	f.plane = plane
	return nil
}

// transform applies m to the face. With lock the texture attributes are
// compensated around center, otherwise the texture system just follows the
// new plane.
func (f *Face) transform(m mgl64.Mat4, center vec.Vec3, lock bool, correct float64) error {
	var pts [3]vec.Vec3
	for i, p := range f.points {
		pts[i] = p.Transform(m).Correct(0, correct)
	}
	if m.Mat3().Det() < 0 {
		pts[1], pts[2] = pts[2], pts[1]
	}
	old := f.plane.Normal
	if err := f.setPoints(pts); err != nil {
		return err
	}
	if lock {
		f.attribs = f.system.Compensate(old, center, m, f.attribs)
	} else {
		f.system.Update(f.plane.Normal, f.attribs)
	}
	return nil
}

func (f *Face) String() string {
	return fmt.Sprintf("%v %v %v %s %v", f.points[0], f.points[1], f.points[2], f.texture, f.attribs)
}
