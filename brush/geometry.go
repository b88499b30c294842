// SPDX-License-Identifier: GPL-2.0-or-later

package brush

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"quakeed/geom"
	"quakeed/math/vec"
)

type (
	VertexIndex int
	EdgeIndex   int
	SideIndex   int
)

const (
	NoVertex VertexIndex = -1
	NoEdge   EdgeIndex   = -1
	NoSide   SideIndex   = -1
)

type Vertex struct {
	Position vec.Vec3
}

// Edge connects two vertices. Left is the side whose loop runs from Start
// to End, Right the one running back.
type Edge struct {
	Start VertexIndex
	End   VertexIndex
	Left  SideIndex
	Right SideIndex
}

// Side is the polygon of one face. Vertices wind counterclockwise seen from
// outside, Edges[i] joins Vertices[i] and Vertices[i+1].
// Face is the index into the plane list the geometry was built from, -1 for
// a side of the world bounds.
type Side struct {
	Vertices []VertexIndex
	Edges    []EdgeIndex
	Face     int
}

// Geometry is the boundary representation of a convex polyhedron. Indices
// are only valid for the generation they were obtained from.
type Geometry struct {
	vertices []Vertex
	edges    []Edge
	sides    []Side

	generation uint64
	eps        float64
}

func (g *Geometry) Generation() uint64 {
	return g.generation
}

func (g *Geometry) Vertices() []Vertex {
	return g.vertices
}

func (g *Geometry) Edges() []Edge {
	return g.edges
}

func (g *Geometry) Sides() []Side {
	return g.sides
}

func (g *Geometry) Vertex(i VertexIndex) Vertex {
	return g.vertices[i]
}

func (g *Geometry) Edge(i EdgeIndex) Edge {
	return g.edges[i]
}

func (g *Geometry) Side(i SideIndex) Side {
	return g.sides[i]
}

func (g *Geometry) Positions() []vec.Vec3 {
	r := make([]vec.Vec3, len(g.vertices))
	for i, v := range g.vertices {
		r[i] = v.Position
	}
	return r
}

// SideVertices returns the positions of the side in winding order.
func (g *Geometry) SideVertices(s SideIndex) []vec.Vec3 {
	side := g.sides[s]
	r := make([]vec.Vec3, len(side.Vertices))
	for i, v := range side.Vertices {
		r[i] = g.vertices[v].Position
	}
	return r
}

// OtherSide returns the side across edge e from s.
func (g *Geometry) OtherSide(e EdgeIndex, s SideIndex) SideIndex {
	edge := g.edges[e]
	switch s {
	case edge.Left:
		return edge.Right
	case edge.Right:
		return edge.Left
	}
	return NoSide
}

// IsClosed reports whether the edge loop of s returns to its start.
func (g *Geometry) IsClosed(s SideIndex) bool {
	side := g.sides[s]
	n := len(side.Edges)
	if n < 3 || n != len(side.Vertices) {
		return false
	}
	for i, e := range side.Edges {
		a, b := side.Vertices[i], side.Vertices[(i+1)%n]
		edge := g.edges[e]
		if !(edge.Start == a && edge.End == b) && !(edge.Start == b && edge.End == a) {
			return false
		}
	}
	return true
}

// HasVertexPositions reports whether the side has exactly the given
// vertex positions, in any order.
func (g *Geometry) HasVertexPositions(s SideIndex, positions []vec.Vec3) bool {
	side := g.sides[s]
	if len(side.Vertices) != len(positions) {
		return false
	}
	for _, p := range positions {
		found := false
		for _, v := range side.Vertices {
			if vec.EqualEps(g.vertices[v].Position, p, g.eps) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (g *Geometry) FindVertex(p vec.Vec3) VertexIndex {
	for i, v := range g.vertices {
		if vec.EqualEps(v.Position, p, g.eps) {
			return VertexIndex(i)
		}
	}
	return NoVertex
}

// FindEdge returns the edge between the positions a and b in either
// direction.
func (g *Geometry) FindEdge(a, b vec.Vec3) EdgeIndex {
	va, vb := g.FindVertex(a), g.FindVertex(b)
	if va == NoVertex || vb == NoVertex {
		return NoEdge
	}
	for i, e := range g.edges {
		if (e.Start == va && e.End == vb) || (e.Start == vb && e.End == va) {
			return EdgeIndex(i)
		}
	}
	return NoEdge
}

func (g *Geometry) FindSide(positions []vec.Vec3) SideIndex {
	for i := range g.sides {
		if g.HasVertexPositions(SideIndex(i), positions) {
			return SideIndex(i)
		}
	}
	return NoSide
}

// SideOfFace returns the side built for the plane at index face.
func (g *Geometry) SideOfFace(face int) SideIndex {
	for i, s := range g.sides {
		if s.Face == face {
			return SideIndex(i)
		}
	}
	return NoSide
}

func (g *Geometry) Bounds() geom.BBox {
	return geom.BoundsOf(g.Positions())
}

func (g *Geometry) Center() vec.Vec3 {
	return vec.Center(g.Positions())
}

// Volume sums the signed tetrahedra spanned by the origin and a fan of
// every side.
func (g *Geometry) Volume() float64 {
	v := 0.0
	for _, s := range g.sides {
		if len(s.Vertices) < 3 {
			continue
		}
		p0 := g.vertices[s.Vertices[0]].Position
		for i := 1; i+1 < len(s.Vertices); i++ {
			p1 := g.vertices[s.Vertices[i]].Position
			p2 := g.vertices[s.Vertices[i+1]].Position
			v += vec.Dot(p0, vec.Cross(p1, p2))
		}
	}
	return v / 6
}

// SanityCheck verifies the structure of a closed polyhedron.
func (g *Geometry) SanityCheck() error {
	for i := range g.vertices {
		for j := i + 1; j < len(g.vertices); j++ {
			if vec.EqualEps(g.vertices[i].Position, g.vertices[j].Position, g.eps) {
				return errors.Errorf("duplicate vertex %v", g.vertices[i].Position)
			}
		}
	}
	visits := make([]int, len(g.edges))
	for i, s := range g.sides {
		if !g.IsClosed(SideIndex(i)) {
			return errors.Errorf("side %d is not closed", i)
		}
		for _, e := range s.Edges {
			visits[e]++
			edge := g.edges[e]
			if edge.Left != SideIndex(i) && edge.Right != SideIndex(i) {
				return errors.Errorf("edge %d does not know side %d", e, i)
			}
		}
	}
	for i, n := range visits {
		if n != 2 {
			return errors.Errorf("edge %d is visited %d times", i, n)
		}
		e := g.edges[i]
		for j := i + 1; j < len(g.edges); j++ {
			o := g.edges[j]
			if (e.Start == o.Start && e.End == o.End) || (e.Start == o.End && e.End == o.Start) {
				return errors.Errorf("duplicate edge %d %d", i, j)
			}
		}
	}
	if x := len(g.vertices) - len(g.edges) + len(g.sides); x != 2 {
		return errors.Errorf("euler characteristic is %d", x)
	}
	return nil
}

func (g *Geometry) String() string {
	return fmt.Sprintf("geometry{%d vertices, %d edges, %d sides, volume %g}",
		len(g.vertices), len(g.edges), len(g.sides), math.Abs(g.Volume()))
}
