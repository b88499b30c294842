// SPDX-License-Identifier: GPL-2.0-or-later

package brush

import (
	"bytes"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"quakeed/config"
	"quakeed/geom"
	"quakeed/math/vec"
	"quakeed/texcoord"
)

func newCube(t *testing.T, half float64, kind texcoord.Kind) *Brush {
	t.Helper()
	cfg := config.Default()
	a := texcoord.Attributes{XOffset: 3, YOffset: 5, XScale: 1, YScale: 1}
	var faces []*Face
	for _, p := range cubePlanes(half) {
		f, err := NewFaceFromPlane(p, "wall", a, kind)
		if err != nil {
			t.Fatalf("NewFaceFromPlane(%v): %v", p, err)
		}
		faces = append(faces, f)
	}
	b, err := New(cfg.WorldBounds, faces, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func newFromPoints(t *testing.T, points []vec.Vec3) *Brush {
	t.Helper()
	cfg := config.Default()
	faces, err := (&Brush{cfg: cfg}).facesFromPoints(points)
	if err != nil {
		t.Fatalf("facesFromPoints: %v", err)
	}
	b, err := New(cfg.WorldBounds, faces, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

type counts struct {
	vertices, edges, faces int
}

func countsOf(b *Brush) counts {
	return counts{len(b.Vertices()), len(b.Edges()), len(b.Faces())}
}

func TestNewCube(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	if c := countsOf(b); c != (counts{8, 12, 6}) {
		t.Errorf("counts = %v, want 8 12 6", c)
	}
	for _, f := range b.Faces() {
		s := f.Geometry()
		if s == nil {
			t.Fatalf("face %v has no geometry", f)
		}
		if len(f.Vertices()) != 4 {
			t.Errorf("face %v has %d vertices", f, len(f.Vertices()))
		}
		if c := f.Center(); math.Abs(f.Plane().Distance(c)) > 1e-9 {
			t.Errorf("center %v not on %v", c, f.Plane())
		}
	}
}

func TestNewDiscardsRedundant(t *testing.T) {
	cfg := config.Default()
	var faces []*Face
	for _, p := range append(cubePlanes(32), geom.NewPlane(vec.PosZ, vec.Vec3{X: 0, Y: 0, Z: 64})) {
		f, err := NewFaceFromPlane(p, "wall", texcoord.DefaultAttributes(), texcoord.Paraxial)
		if err != nil {
			t.Fatal(err)
		}
		faces = append(faces, f)
	}
	b, err := New(cfg.WorldBounds, faces, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(b.Faces()) != 6 {
		t.Errorf("New kept %d faces, want 6", len(b.Faces()))
	}
	if faces[6].Brush() != nil {
		t.Errorf("redundant face still owned")
	}
}

func TestAddFace(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	f, err := NewFaceFromPlane(geom.NewPlane(vec.PosX, vec.Vec3{X: 64, Y: 0, Z: 0}), "x", texcoord.DefaultAttributes(), texcoord.Paraxial)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.AddFace(f); !errors.Is(err, ErrFaceIsRedundant) {
		t.Errorf("AddFace = %v, want %v", err, ErrFaceIsRedundant)
	}
	if c := countsOf(b); c != (counts{8, 12, 6}) {
		t.Errorf("counts = %v, want 8 12 6", c)
	}
}

func TestClip(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	f, err := b.Clip(geom.NewPlane(vec.PosX, vec.Vec3{}))
	if err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if f.Geometry() == nil || f.TextureName() != b.Config().DefaultTexture {
		t.Errorf("clip face %v not set up", f)
	}
	if c := countsOf(b); c != (counts{8, 12, 6}) {
		t.Errorf("counts = %v, want 8 12 6", c)
	}
	if bb := b.Bounds(); bb.Max.X != 0 || bb.Min.X != -32 {
		t.Errorf("Bounds = %v, want x from -32 to 0", bb)
	}
	if _, err := b.Clip(geom.NewPlane(vec.PosX, vec.Vec3{X: -64, Y: 0, Z: 0})); !errors.Is(err, ErrBrushIsNull) {
		t.Errorf("Clip everything = %v, want %v", err, ErrBrushIsNull)
	}
	if c := countsOf(b); c != (counts{8, 12, 6}) {
		t.Errorf("counts after failed clip = %v, want 8 12 6", c)
	}
}

func TestRemoveFace(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	f := b.Faces()[0]
	if err := b.RemoveFace(f); !errors.Is(err, ErrBrushIsNull) {
		t.Errorf("RemoveFace = %v, want %v", err, ErrBrushIsNull)
	}
	if len(b.Faces()) != 6 || f.Geometry() == nil {
		t.Errorf("failed RemoveFace changed the brush")
	}
}

func TestMoveFace(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	f := b.Faces()[0]
	if err := b.MoveFace(f, 16); err != nil {
		t.Fatalf("MoveFace: %v", err)
	}
	if bb := b.Bounds(); bb.Max.X != 48 {
		t.Errorf("Bounds = %v, want max x 48", bb)
	}
	if b.Faces()[0] != f || f.Geometry() == nil {
		t.Errorf("moved face lost its identity")
	}
	if err := b.MoveFace(f, -96); err == nil {
		t.Errorf("MoveFace through the brush succeeded")
	}
	if bb := b.Bounds(); bb.Max.X != 48 {
		t.Errorf("Bounds after failed move = %v, want max x 48", bb)
	}
}

func TestSnapVertex(t *testing.T) {
	b := newFromPoints(t, []vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 32, Y: 0, Z: 0}, {X: 1.3, Y: 2.7, Z: 0}, {X: 0, Y: 0, Z: 32}})
	g := b.Geometry()
	if g.FindVertex(vec.Vec3{X: 1.3, Y: 2.7, Z: 0}) == NoVertex {
		t.Fatalf("vertices = %v", b.Vertices())
	}
	if err := b.Snap(1); err != nil {
		t.Fatalf("Snap: %v", err)
	}
	g = b.Geometry()
	if g.FindVertex(vec.Vec3{X: 1, Y: 3, Z: 0}) == NoVertex || g.FindVertex(vec.Vec3{X: 1.3, Y: 2.7, Z: 0}) != NoVertex {
		t.Errorf("Snap(1) vertices = %v, want (1 3 0)", b.Vertices())
	}
	if len(b.Vertices()) != 4 {
		t.Errorf("Snap(1) has %d vertices, want 4", len(b.Vertices()))
	}
}

func TestMoveVertices(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	top := []vec.Vec3{{X: 32, Y: 32, Z: 32}, {X: -32, Y: 32, Z: 32}, {X: -32, Y: -32, Z: 32}, {X: 32, Y: -32, Z: 32}}
	got, err := b.MoveVertices(append(top, vec.Vec3{X: 100, Y: 100, Z: 100}), vec.Vec3{X: 0, Y: 0, Z: 16})
	if err != nil {
		t.Fatalf("MoveVertices: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("MoveVertices moved %d vertices, want 4", len(got))
	}
	if bb := b.Bounds(); bb.Max.Z != 48 {
		t.Errorf("Bounds = %v, want max z 48", bb)
	}
	for _, f := range b.Faces() {
		if f.TextureName() != "wall" {
			t.Errorf("face %v lost its texture", f)
		}
	}
}

func TestMoveVertexInside(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	before := b.Vertices()
	corner := []vec.Vec3{{X: 32, Y: 32, Z: 32}}
	delta := vec.Vec3{X: -32, Y: -32, Z: -32}
	if b.CanMoveVertices(corner, delta) {
		t.Errorf("CanMoveVertices into the brush = true")
	}
	if _, err := b.MoveVertices(corner, delta); !errors.Is(err, ErrInvalidEdit) {
		t.Errorf("MoveVertices = %v, want %v", err, ErrInvalidEdit)
	}
	if !reflect.DeepEqual(before, b.Vertices()) {
		t.Errorf("failed move changed the vertices")
	}
	if !b.CanMoveVertices(corner, vec.Vec3{X: 8, Y: 8, Z: 8}) {
		t.Errorf("CanMoveVertices outwards = false")
	}
	if !reflect.DeepEqual(before, b.Vertices()) {
		t.Errorf("CanMoveVertices changed the vertices")
	}
}

func TestSplitEdge(t *testing.T) {
	start, end := vec.Vec3{X: -32, Y: 32, Z: 32}, vec.Vec3{X: 32, Y: 32, Z: 32}
	tests := []struct {
		name  string
		delta vec.Vec3
		ok    bool
	}{
		{"outwards", vec.Vec3{X: 0, Y: 8, Z: 8}, true},
		{"inwards", vec.Vec3{X: 0, Y: 0, Z: -8}, false},
		{"past another face", vec.Vec3{X: 64, Y: 8, Z: 8}, false},
		{"along the edge", vec.Vec3{X: 8, Y: 0, Z: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newCube(t, 32, texcoord.Paraxial)
			before := countsOf(b)
			if ok := b.CanSplitEdge(start, end, tt.delta); ok != tt.ok {
				t.Errorf("CanSplitEdge = %v, want %v", ok, tt.ok)
			}
			p, err := b.SplitEdge(start, end, tt.delta)
			if !tt.ok {
				if !errors.Is(err, ErrInvalidEdit) {
					t.Errorf("SplitEdge = %v, want %v", err, ErrInvalidEdit)
				}
				if c := countsOf(b); c != before {
					t.Errorf("counts = %v, want %v", c, before)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitEdge: %v", err)
			}
			if !vec.Equal(p, vec.Vec3{X: 0, Y: 40, Z: 40}) {
				t.Errorf("SplitEdge = %v, want (0 40 40)", p)
			}
			if n := len(b.Vertices()); n != 9 {
				t.Errorf("SplitEdge left %d vertices, want 9", n)
			}
			if err := b.Geometry().SanityCheck(); err != nil {
				t.Errorf("SanityCheck: %v", err)
			}
		})
	}
}

func TestSplitFace(t *testing.T) {
	top := []vec.Vec3{{X: 32, Y: 32, Z: 32}, {X: -32, Y: 32, Z: 32}, {X: -32, Y: -32, Z: 32}, {X: 32, Y: -32, Z: 32}}
	tests := []struct {
		name    string
		polygon []vec.Vec3
		delta   vec.Vec3
		want    vec.Vec3
		ok      bool
	}{
		{"outwards", top, vec.Vec3{X: 0, Y: 0, Z: 16}, vec.Vec3{X: 0, Y: 0, Z: 48}, true},
		{"outwards and sideways", top, vec.Vec3{X: 8, Y: 8, Z: 16}, vec.Vec3{X: 8, Y: 8, Z: 48}, true},
		{"inwards", top, vec.Vec3{X: 0, Y: 0, Z: -8}, vec.Vec3{}, false},
		{"on the face", top, vec.Vec3{X: 8, Y: 0, Z: 0}, vec.Vec3{}, false},
		{"past another face", top, vec.Vec3{X: 64, Y: 0, Z: 8}, vec.Vec3{}, false},
		{"no such face", top[:3], vec.Vec3{X: 0, Y: 0, Z: 16}, vec.Vec3{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newCube(t, 32, texcoord.Paraxial)
			before := countsOf(b)
			if ok := b.CanSplitFace(tt.polygon, tt.delta); ok != tt.ok {
				t.Errorf("CanSplitFace = %v, want %v", ok, tt.ok)
			}
			p, err := b.SplitFace(tt.polygon, tt.delta)
			if !tt.ok {
				if !errors.Is(err, ErrInvalidEdit) {
					t.Errorf("SplitFace = %v, want %v", err, ErrInvalidEdit)
				}
				if c := countsOf(b); c != before {
					t.Errorf("counts = %v, want %v", c, before)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitFace: %v", err)
			}
			if !vec.Equal(p, tt.want) {
				t.Errorf("SplitFace = %v, want %v", p, tt.want)
			}
			if c, want := countsOf(b), (counts{9, 16, 9}); c != want {
				t.Errorf("counts = %v, want %v", c, want)
			}
			if err := b.Geometry().SanityCheck(); err != nil {
				t.Errorf("SanityCheck: %v", err)
			}
		})
	}
}

func TestMoveEdges(t *testing.T) {
	edge := [2]vec.Vec3{{X: -32, Y: 32, Z: 32}, {X: 32, Y: 32, Z: 32}}
	tests := []struct {
		name  string
		edges [][2]vec.Vec3
		delta vec.Vec3
		ok    bool
	}{
		{"up", [][2]vec.Vec3{edge}, vec.Vec3{X: 0, Y: 0, Z: 16}, true},
		{"outwards", [][2]vec.Vec3{edge, {{X: -32, Y: 32, Z: -32}, {X: 32, Y: 32, Z: -32}}}, vec.Vec3{X: 0, Y: 16, Z: 0}, true},
		{"inwards", [][2]vec.Vec3{edge}, vec.Vec3{X: 0, Y: -40, Z: -40}, false},
		{"diagonal is no edge", [][2]vec.Vec3{{{X: -32, Y: -32, Z: 32}, {X: 32, Y: 32, Z: 32}}}, vec.Vec3{X: 0, Y: 0, Z: 16}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newCube(t, 32, texcoord.Paraxial)
			before := b.Vertices()
			if ok := b.CanMoveEdges(tt.edges, tt.delta); ok != tt.ok {
				t.Errorf("CanMoveEdges = %v, want %v", ok, tt.ok)
			}
			if !reflect.DeepEqual(before, b.Vertices()) {
				t.Errorf("CanMoveEdges changed the vertices")
			}
			got, err := b.MoveEdges(tt.edges, tt.delta)
			if !tt.ok {
				if !errors.Is(err, ErrInvalidEdit) {
					t.Errorf("MoveEdges = %v, want %v", err, ErrInvalidEdit)
				}
				if !reflect.DeepEqual(before, b.Vertices()) {
					t.Errorf("failed MoveEdges changed the vertices")
				}
				return
			}
			if err != nil {
				t.Fatalf("MoveEdges: %v", err)
			}
			g := b.Geometry()
			for i, e := range got {
				want := [2]vec.Vec3{vec.Add(tt.edges[i][0], tt.delta), vec.Add(tt.edges[i][1], tt.delta)}
				if e != want || g.FindEdge(e[0], e[1]) == NoEdge {
					t.Errorf("edge %d = %v, want %v", i, e, want)
				}
			}
			if n := len(b.Vertices()); n != 8 {
				t.Errorf("MoveEdges left %d vertices, want 8", n)
			}
		})
	}
}

func TestMoveFaces(t *testing.T) {
	top := []vec.Vec3{{X: 32, Y: 32, Z: 32}, {X: -32, Y: 32, Z: 32}, {X: -32, Y: -32, Z: 32}, {X: 32, Y: -32, Z: 32}}
	tests := []struct {
		name     string
		polygons [][]vec.Vec3
		delta    vec.Vec3
		ok       bool
	}{
		{"up", [][]vec.Vec3{top}, vec.Vec3{X: 0, Y: 0, Z: 16}, true},
		{"sideways", [][]vec.Vec3{top}, vec.Vec3{X: 16, Y: 0, Z: 0}, true},
		{"onto the bottom", [][]vec.Vec3{top}, vec.Vec3{X: 0, Y: 0, Z: -64}, false},
		{"through the bottom", [][]vec.Vec3{top}, vec.Vec3{X: 0, Y: 0, Z: -80}, false},
		{"no such face", [][]vec.Vec3{top[:3]}, vec.Vec3{X: 0, Y: 0, Z: 16}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newCube(t, 32, texcoord.Paraxial)
			before := b.Vertices()
			if ok := b.CanMoveFaces(tt.polygons, tt.delta); ok != tt.ok {
				t.Errorf("CanMoveFaces = %v, want %v", ok, tt.ok)
			}
			got, err := b.MoveFaces(tt.polygons, tt.delta)
			if !tt.ok {
				if err == nil {
					t.Errorf("MoveFaces succeeded")
				}
				if !reflect.DeepEqual(before, b.Vertices()) {
					t.Errorf("failed MoveFaces changed the vertices")
				}
				return
			}
			if err != nil {
				t.Fatalf("MoveFaces: %v", err)
			}
			if len(got) != 1 || b.Geometry().FindSide(got[0]) == NoSide {
				t.Errorf("MoveFaces = %v, not a face of %v", got, b.Vertices())
			}
			if c, want := countsOf(b), (counts{8, 12, 6}); c != want {
				t.Errorf("counts = %v, want %v", c, want)
			}
		})
	}
}

func TestContainsPoint(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	tests := []struct {
		p    vec.Vec3
		want bool
	}{
		{vec.Vec3{X: 0, Y: 0, Z: 0}, true},
		{vec.Vec3{X: 32, Y: 0, Z: 0}, true},
		{vec.Vec3{X: 32, Y: 32, Z: 32}, true},
		{vec.Vec3{X: 40, Y: 0, Z: 0}, false},
		{vec.Vec3{X: 0, Y: -33, Z: 0}, false},
	}
	for _, tt := range tests {
		if got := b.ContainsPoint(tt.p); got != tt.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestPick(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	tests := []struct {
		name string
		ray  geom.Ray
		face int
		dist float64
	}{
		{"from +x", geom.Ray{Origin: vec.Vec3{X: 100, Y: 0, Z: 0}, Direction: vec.Vec3{X: -1, Y: 0, Z: 0}}, 0, 68},
		{"from above", geom.Ray{Origin: vec.Vec3{X: 10, Y: -20, Z: 100}, Direction: vec.Vec3{X: 0, Y: 0, Z: -1}}, 4, 68},
		{"slanted", geom.Ray{Origin: vec.Vec3{X: 0, Y: -83, Z: -68}, Direction: vec.Vec3{X: 0, Y: 0.6, Z: 0.8}}, 3, 85},
		{"miss beside", geom.Ray{Origin: vec.Vec3{X: 100, Y: 100, Z: 0}, Direction: vec.Vec3{X: -1, Y: 0, Z: 0}}, -1, 0},
		{"away", geom.Ray{Origin: vec.Vec3{X: 100, Y: 0, Z: 0}, Direction: vec.Vec3{X: 1, Y: 0, Z: 0}}, -1, 0},
		{"from inside", geom.Ray{Origin: vec.Vec3{X: 0, Y: 0, Z: 0}, Direction: vec.Vec3{X: 1, Y: 0, Z: 0}}, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, d, ok := b.Pick(tt.ray)
			if tt.face < 0 {
				if ok {
					t.Errorf("Pick = %v at %v, want no hit", f, d)
				}
				return
			}
			if !ok || f != b.Faces()[tt.face] {
				t.Fatalf("Pick = %v %v, want face %d", f, ok, tt.face)
			}
			if math.Abs(d-tt.dist) > 1e-6 {
				t.Errorf("Pick distance = %v, want %v", d, tt.dist)
			}
		})
	}
}

func TestRejectedEditLogsOneLine(t *testing.T) {
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	defer slog.SetDefault(old)

	b := newCube(t, 32, texcoord.Paraxial)
	if err := b.MoveFace(b.Faces()[0], -96); err == nil {
		t.Fatalf("MoveFace through the brush succeeded")
	}
	out := buf.String()
	if !strings.Contains(out, "Rejected brush edit") {
		t.Fatalf("log = %q, want a rejected edit", out)
	}
	if strings.Contains(out, `\n`) || strings.Contains(out, ".go:") || strings.Contains(out, "runtime.") {
		t.Errorf("log record carries a stack trace: %q", out)
	}
}

func attribsNear(a, b texcoord.Attributes) bool {
	const eps = 1e-3
	dr := math.Mod(math.Abs(a.Rotation-b.Rotation), 360)
	return math.Abs(a.XOffset-b.XOffset) <= eps && math.Abs(a.YOffset-b.YOffset) <= eps &&
		math.Min(dr, 360-dr) <= eps &&
		math.Abs(a.XScale-b.XScale) <= eps && math.Abs(a.YScale-b.YScale) <= eps
}

func TestTransformLockTexturesRoundTrip(t *testing.T) {
	transforms := []struct {
		name string
		m    mgl64.Mat4
	}{
		{"translate", mgl64.Translate3D(16, 8, -32)},
		{"rotate z", mgl64.HomogRotate3DZ(math.Pi / 2)},
		{"rotate x", mgl64.Translate3D(0, 64, 0).Mul4(mgl64.HomogRotate3DX(math.Pi / 2))},
	}
	for _, kind := range []texcoord.Kind{texcoord.Paraxial, texcoord.UVVector} {
		for _, tt := range transforms {
			t.Run(kind.String()+" "+tt.name, func(t *testing.T) {
				b := newCube(t, 32, kind)
				var before []texcoord.Attributes
				for _, f := range b.Faces() {
					before = append(before, f.Attributes())
				}
				if err := b.Transform(tt.m, true); err != nil {
					t.Fatalf("Transform: %v", err)
				}
				if err := b.Transform(tt.m.Inv(), true); err != nil {
					t.Fatalf("Transform inverse: %v", err)
				}
				for i, f := range b.Faces() {
					if !attribsNear(f.Attributes(), before[i]) {
						t.Errorf("face %d attributes = %v, want %v", i, f.Attributes(), before[i])
					}
				}
			})
		}
	}
}

// Paraxial attributes are refitted to the nearest axis plane after an
// off-axis rotation, so only the scale is held to a loose bound.
func TestTransformLockTexturesOffAxis(t *testing.T) {
	m := mgl64.HomogRotate3D(math.Pi/6, mgl64.Vec3{1, 2, 3}.Normalize())
	tests := []struct {
		kind     texcoord.Kind
		scaleTol float64
		exact    bool
	}{
		{texcoord.UVVector, 1e-3, true},
		{texcoord.Paraxial, 0.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			b := newCube(t, 32, tt.kind)
			var before []texcoord.Attributes
			for _, f := range b.Faces() {
				before = append(before, f.Attributes())
			}
			if err := b.Transform(m, true); err != nil {
				t.Fatalf("Transform: %v", err)
			}
			if err := b.Transform(m.Inv(), true); err != nil {
				t.Fatalf("Transform inverse: %v", err)
			}
			for i, f := range b.Faces() {
				a := f.Attributes()
				if tt.exact && !attribsNear(a, before[i]) {
					t.Errorf("face %d attributes = %v, want %v", i, a, before[i])
				}
				if math.Abs(a.XScale-before[i].XScale) > tt.scaleTol ||
					math.Abs(a.YScale-before[i].YScale) > tt.scaleTol {
					t.Errorf("face %d scale = (%v %v), want (%v %v) within %v",
						i, a.XScale, a.YScale, before[i].XScale, before[i].YScale, tt.scaleTol)
				}
			}
		})
	}
}

func TestTransformKeepsTexture(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	f := b.Faces()[4]
	p := f.Center()
	want := f.TexCoords(p)
	if err := b.Translate(vec.Vec3{X: 8, Y: 24, Z: 0}, true); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	got := f.TexCoords(vec.Add(p, vec.Vec3{X: 8, Y: 24, Z: 0}))
	if math.Abs(got.X-want.X) > 1e-3 || math.Abs(got.Y-want.Y) > 1e-3 {
		t.Errorf("TexCoords = %v, want %v", got, want)
	}
}

func TestTransformOutOfBounds(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	before := b.Vertices()
	if err := b.Translate(vec.Vec3{X: 5000, Y: 0, Z: 0}, false); !errors.Is(err, ErrOutOfBounds) && !errors.Is(err, ErrBrushIsNull) {
		t.Errorf("Translate = %v, want out of bounds", err)
	}
	if !reflect.DeepEqual(before, b.Vertices()) {
		t.Errorf("failed Translate changed the vertices")
	}
}

func TestFlipAndRotate(t *testing.T) {
	b := newFromPoints(t, []vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 64, Y: 0, Z: 0}, {X: 0, Y: 32, Z: 0}, {X: 0, Y: 0, Z: 16}})
	if err := b.Flip(0, vec.Vec3{}, false); err != nil {
		t.Fatalf("Flip: %v", err)
	}
	if bb := b.Bounds(); bb.Min.X != -64 || bb.Max.X != 0 {
		t.Errorf("Bounds after Flip = %v", bb)
	}
	if err := b.Rotate(vec.Vec3{}, vec.PosZ, 90, true); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if bb := b.Bounds(); bb.Min.Y != -64 || bb.Max.Y != 0 {
		t.Errorf("Bounds after Rotate = %v", bb)
	}
	g := b.Geometry()
	for _, v := range g.Vertices() {
		for _, f := range b.Faces() {
			if f.Plane().Classify(v.Position) == geom.Above {
				t.Errorf("vertex %v above %v", v.Position, f.Plane())
			}
		}
	}
	if err := g.SanityCheck(); err != nil {
		t.Errorf("SanityCheck: %v", err)
	}
}

func TestFaceGeometryWeak(t *testing.T) {
	b := newCube(t, 32, texcoord.Paraxial)
	f := b.Faces()[2]
	gen := b.Geometry().Generation()
	if f.Geometry() == nil {
		t.Fatalf("face has no geometry")
	}
	if f.Clone().Geometry() != nil {
		t.Errorf("clone has geometry")
	}
	if err := b.Translate(vec.Vec3{X: 16, Y: 0, Z: 0}, false); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if b.Geometry().Generation() == gen {
		t.Errorf("rebuild kept generation %d", gen)
	}
	if f.Geometry() == nil {
		t.Errorf("face lost geometry after rebuild")
	}
	if _, err := b.Clip(geom.NewPlane(vec.PosY, vec.Vec3{X: 0, Y: 0, Z: 0})); err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if f.Geometry() != nil || f.Brush() != nil {
		t.Errorf("clipped away face still attached")
	}
}
