// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvars declares the editor console variables.
package cvars

import (
	"log/slog"

	"quakeed/config"
	"quakeed/cvar"
	"quakeed/geom"
	"quakeed/texcoord"
)

var (
	AlmostZero         *cvar.Cvar
	PointStatusEpsilon *cvar.Cvar
	CorrectEpsilon     *cvar.Cvar
	GridSize           *cvar.Cvar
	LockTextures       *cvar.Cvar
	TexCoordFormat     *cvar.Cvar
	DefaultTexture     *cvar.Cvar
	WorldSize          *cvar.Cvar
	Developer          *cvar.Cvar
)

func init() {
	AlmostZero = cvar.MustRegister("geom_almostzero", "0.001", cvar.NONE)
	PointStatusEpsilon = cvar.MustRegister("geom_pointstatus_epsilon", "0.01", cvar.NONE)
	CorrectEpsilon = cvar.MustRegister("geom_correct_epsilon", "0.001", cvar.NONE)
	GridSize = cvar.MustRegister("edit_grid", "16", cvar.ARCHIVE|cvar.NOTIFY)
	LockTextures = cvar.MustRegister("edit_locktextures", "0", cvar.ARCHIVE)
	TexCoordFormat = cvar.MustRegister("edit_texformat", "paraxial", cvar.ARCHIVE)
	DefaultTexture = cvar.MustRegister("edit_defaulttexture", "__TB_empty", cvar.ARCHIVE)
	WorldSize = cvar.MustRegister("edit_worldsize", "4096", cvar.NONE)
	Developer = cvar.MustRegister("developer", "0", cvar.NONE)
}

// Editing collects the current cvar values into the settings passed to the
// brush code. Values that can not be used fall back to the defaults.
func Editing() config.Editing {
	e := config.Default()
	if v := AlmostZero.Value(); v > 0 {
		e.AlmostZero = v
	}
	if v := PointStatusEpsilon.Value(); v > 0 {
		e.PointStatusEpsilon = v
	}
	if v := CorrectEpsilon.Value(); v > 0 {
		e.CorrectEpsilon = v
	}
	if v := GridSize.Value(); v > 0 {
		e.GridSize = v
	}
	e.LockTextures = LockTextures.Bool()
	if k, err := texcoord.ParseKind(TexCoordFormat.String()); err == nil {
		e.TexCoordFormat = k
	} else {
		slog.Warn("Unknown texture coordinate format", "value", TexCoordFormat.String())
	}
	if s := DefaultTexture.String(); s != "" {
		e.DefaultTexture = s
	}
	if v := WorldSize.Value(); v > 0 {
		e.WorldBounds = geom.Cube(v)
	}
	return e
}
