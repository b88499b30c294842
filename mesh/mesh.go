// SPDX-License-Identifier: GPL-2.0-or-later

// Package mesh turns brush geometry into float32 vertex data for a renderer.
package mesh

import (
	"sort"
	"strings"

	"github.com/chewxy/math32"

	"quakeed/brush"
	"quakeed/math/vec"
)

// Stride is the number of floats per vertex: position, normal and uv.
const Stride = 3 + 3 + 2

type Size struct {
	Width, Height float32
}

// TextureSizes maps lower case texture names to their size in texels.
// Missing textures use DefaultSize.
type TextureSizes map[string]Size

var DefaultSize = Size{64, 64}

func (ts TextureSizes) size(name string) Size {
	if s, ok := ts[strings.ToLower(name)]; ok && s.Width > 0 && s.Height > 0 {
		return s
	}
	return DefaultSize
}

// Batch is a triangle list of all faces sharing a texture.
type Batch struct {
	Texture string
	Data    []float32
}

func (b *Batch) VertexCount() int {
	return len(b.Data) / Stride
}

type vertex struct {
	pos    vec.Vec3f
	normal vec.Vec3f
	u, v   float32
}

// Build returns one batch per texture, sorted by texture name. Faces without
// geometry are skipped.
func Build(b *brush.Brush, sizes TextureSizes) []Batch {
	byTexture := make(map[string]*Batch)
	for _, f := range b.Faces() {
		poly := f.Vertices()
		if len(poly) < 3 {
			continue
		}
		verts := faceVertices(f, poly, sizes.size(f.TextureName()))
		bt, ok := byTexture[f.TextureName()]
		if !ok {
			bt = &Batch{Texture: f.TextureName()}
			byTexture[f.TextureName()] = bt
		}
		// fan around the first vertex
		for i := 1; i+1 < len(verts); i++ {
			bt.Data = appendVertex(bt.Data, verts[0])
			bt.Data = appendVertex(bt.Data, verts[i])
			bt.Data = appendVertex(bt.Data, verts[i+1])
		}
	}
	r := make([]Batch, 0, len(byTexture))
	for _, bt := range byTexture {
		r = append(r, *bt)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Texture < r[j].Texture })
	return r
}

func faceVertices(f *brush.Face, poly []vec.Vec3, s Size) []vertex {
	n := vec.FromVec3(f.Normal()).Normalize()
	r := make([]vertex, len(poly))
	var minU, minV float32
	for i, p := range poly {
		tc := f.TexCoords(p)
		r[i] = vertex{
			pos:    vec.FromVec3(p),
			normal: n,
			u:      float32(tc.X) / s.Width,
			v:      float32(tc.Y) / s.Height,
		}
		if i == 0 {
			minU, minV = r[i].u, r[i].v
		}
		minU = math32.Min(minU, r[i].u)
		minV = math32.Min(minV, r[i].v)
	}
	du, dv := math32.Floor(minU), math32.Floor(minV)
	for i := range r {
		r[i].u -= du
		r[i].v -= dv
	}
	return r
}

func appendVertex(d []float32, v vertex) []float32 {
	return append(d,
		v.pos.X, v.pos.Y, v.pos.Z,
		v.normal.X, v.normal.Y, v.normal.Z,
		v.u, v.v)
}
