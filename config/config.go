// SPDX-License-Identifier: GPL-2.0-or-later

// Package config holds the editing settings handed to the geometry code.
package config

import (
	"quakeed/geom"
	qmath "quakeed/math"
	"quakeed/texcoord"
)

// Editing is passed to every brush operation. The zero value is not useful,
// start from Default.
type Editing struct {
	AlmostZero         float64
	PointStatusEpsilon float64
	CorrectEpsilon     float64

	GridSize       float64
	LockTextures   bool
	TexCoordFormat texcoord.Kind
	DefaultTexture string
	WorldBounds    geom.BBox
}

// WorldSize is the half extent of the Quake world.
const WorldSize = 4096

func Default() Editing {
	return Editing{
		AlmostZero:         qmath.AlmostZero,
		PointStatusEpsilon: qmath.PointStatusEpsilon,
		CorrectEpsilon:     qmath.CorrectEpsilon,
		GridSize:           16,
		LockTextures:       false,
		TexCoordFormat:     texcoord.Paraxial,
		DefaultTexture:     "__TB_empty",
		WorldBounds:        geom.Cube(WorldSize),
	}
}
