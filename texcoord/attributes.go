// SPDX-License-Identifier: GPL-2.0-or-later

package texcoord

import (
	"fmt"

	"quakeed/math/vec"
)

// Attributes are the per face texture parameters written to the map file
type Attributes struct {
	XOffset  float64
	YOffset  float64
	Rotation float64 // degrees
	XScale   float64
	YScale   float64
}

func DefaultAttributes() Attributes {
	return Attributes{XScale: 1, YScale: 1}
}

func (a Attributes) Offset() vec.Vec2 {
	return vec.Vec2{X: a.XOffset, Y: a.YOffset}
}

// scale returns the scale factors with zero replaced by one, the way qbsp
// reads them.
func (a Attributes) scale() (float64, float64) {
	xs, ys := a.XScale, a.YScale
	if xs == 0 {
		xs = 1
	}
	if ys == 0 {
		ys = 1
	}
	return xs, ys
}

func (a Attributes) String() string {
	return fmt.Sprintf("%g %g %g %g %g", a.XOffset, a.YOffset, a.Rotation, a.XScale, a.YScale)
}
