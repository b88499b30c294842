// SPDX-License-Identifier: GPL-2.0-or-later

package mesh

import (
	"testing"

	"quakeed/brush"
	"quakeed/config"
	"quakeed/geom"
	"quakeed/math/vec"
	"quakeed/texcoord"
)

func newCube(t *testing.T, half float64) *brush.Brush {
	t.Helper()
	cfg := config.Default()
	a := texcoord.DefaultAttributes()
	var faces []*brush.Face
	for _, n := range []vec.Vec3{vec.PosX, vec.NegX, vec.PosY, vec.NegY, vec.PosZ, vec.NegZ} {
		name := "wall"
		if n == vec.PosZ {
			name = "floor"
		}
		f, err := brush.NewFaceFromPlane(geom.NewPlane(n, n.Scale(half)), name, a, texcoord.Paraxial)
		if err != nil {
			t.Fatalf("NewFaceFromPlane(%v): %v", n, err)
		}
		faces = append(faces, f)
	}
	b, err := brush.New(cfg.WorldBounds, faces, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestBuild(t *testing.T) {
	b := newCube(t, 32)
	batches := Build(b, TextureSizes{"floor": {128, 128}})
	if len(batches) != 2 {
		t.Fatalf("Build returned %d batches, want 2", len(batches))
	}
	floor, wall := batches[0], batches[1]
	if floor.Texture != "floor" || wall.Texture != "wall" {
		t.Fatalf("batch order %q %q", floor.Texture, wall.Texture)
	}
	if got := floor.VertexCount(); got != 6 {
		t.Errorf("floor vertices = %d, want 6", got)
	}
	if got := wall.VertexCount(); got != 30 {
		t.Errorf("wall vertices = %d, want 30", got)
	}
	for i := 0; i < floor.VertexCount(); i++ {
		v := floor.Data[i*Stride : (i+1)*Stride]
		if v[2] != 32 {
			t.Errorf("floor vertex %d z = %v, want 32", i, v[2])
		}
		if v[3] != 0 || v[4] != 0 || v[5] != 1 {
			t.Errorf("floor vertex %d normal = %v", i, v[3:6])
		}
		// 64 units on a 128 texel texture
		if v[6] < 0 || v[6] > 1.5 || v[7] < 0 || v[7] > 1.5 {
			t.Errorf("floor vertex %d uv = %v", i, v[6:8])
		}
	}
	for _, bt := range batches {
		for i := 0; i < bt.VertexCount(); i++ {
			u, v := bt.Data[i*Stride+6], bt.Data[i*Stride+7]
			if u < 0 || u >= 2 || v < 0 || v >= 2 {
				t.Errorf("%s vertex %d uv = %v %v, want in [0,2)", bt.Texture, i, u, v)
			}
		}
	}
}

func TestTextureSizesFallback(t *testing.T) {
	ts := TextureSizes{"broken": {0, 16}}
	if s := ts.size("broken"); s != DefaultSize {
		t.Errorf("size(broken) = %v, want %v", s, DefaultSize)
	}
	if s := ts.size("missing"); s != DefaultSize {
		t.Errorf("size(missing) = %v, want %v", s, DefaultSize)
	}
}
