// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

// Vec3f is the single precision form handed to the renderer
type Vec3f struct {
	X, Y, Z float32
}

func FromVec3(v Vec3) Vec3f {
	return Vec3f{float32(v.X), float32(v.Y), float32(v.Z)}
}

func (v Vec3f) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func (v Vec3f) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3f) Normalize() Vec3f {
	l := v.Length()
	if l == 0 {
		return Vec3f{}
	}
	return Vec3f{v.X / l, v.Y / l, v.Z / l}
}
