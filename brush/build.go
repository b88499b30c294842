// SPDX-License-Identifier: GPL-2.0-or-later

package brush

import (
	"log/slog"
	"sync/atomic"

	"github.com/pkg/errors"

	"quakeed/config"
	"quakeed/geom"
	"quakeed/math/vec"
)

// Outcome tells what happened to a plane during a build.
type Outcome int

const (
	// Added planes bound a side of the result.
	Added Outcome = iota
	// Redundant planes did not cut the polyhedron when they were applied.
	Redundant
	// Dropped planes did cut but a later plane removed their side again.
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Redundant:
		return "redundant"
	case Dropped:
		return "dropped"
	}
	return "unknown"
}

// BuildResult holds one entry per plane passed to Build.
type BuildResult struct {
	Outcomes []Outcome
	Sides    []SideIndex
}

// Lost returns the indices of all planes without a side.
func (r BuildResult) Lost() []int {
	var l []int
	for i, o := range r.Outcomes {
		if o != Added {
			l = append(l, i)
		}
	}
	return l
}

// Mark is the state of an edge while one plane is applied.
type Mark int

const (
	Undecided Mark = iota
	Keep
	Drop
	Split
)

var generations atomic.Uint64

func nextGeneration() uint64 {
	return generations.Add(1)
}

type edgeKey struct {
	lo, hi int
}

func keyOf(a, b int) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

type loop struct {
	vertices []int
	face     int
}

// polyhedron is the working state of the builder. Loops reference points
// by index and wind counterclockwise seen from outside.
type polyhedron struct {
	points []vec.Vec3
	loops  []loop
}

// newCuboid returns the box b with all sides tagged as bounds.
func newCuboid(b geom.BBox) *polyhedron {
	p := &polyhedron{}
	for i := 0; i < 8; i++ {
		p.points = append(p.points, b.Corner(i))
	}
	for _, l := range [6][4]int{
		{0, 4, 6, 2}, // -x
		{1, 3, 7, 5}, // +x
		{0, 1, 5, 4}, // -y
		{2, 6, 7, 3}, // +y
		{0, 2, 3, 1}, // -z
		{4, 5, 7, 6}, // +z
	} {
		p.loops = append(p.loops, loop{vertices: l[:], face: -1})
	}
	return p
}

func (p *polyhedron) hasFace(face int) bool {
	for _, l := range p.loops {
		if l.face == face {
			return true
		}
	}
	return false
}

func (p *polyhedron) faces() []int {
	r := make([]int, 0, len(p.loops))
	for _, l := range p.loops {
		r = append(r, l.face)
	}
	return r
}

func markOf(a, b geom.PointStatus) Mark {
	switch {
	case a == geom.Above && b == geom.Above:
		return Drop
	case a != geom.Above && b != geom.Above:
		return Keep
	default:
		return Split
	}
}

// clip cuts away everything above plane and closes the hole with a new
// loop for face.
func (p *polyhedron) clip(plane geom.Plane, face int, eps float64) (Outcome, error) {
	status := make([]geom.PointStatus, len(p.points))
	above, below := 0, 0
	for i, pt := range p.points {
		status[i] = plane.ClassifyEps(pt, eps)
		switch status[i] {
		case geom.Above:
			above++
		case geom.Below:
			below++
		}
	}
	if above == 0 {
		return Redundant, nil
	}
	if below == 0 {
		return Dropped, ErrBrushIsNull
	}

	marks := make(map[edgeKey]Mark)
	for _, l := range p.loops {
		n := len(l.vertices)
		for i, a := range l.vertices {
			b := l.vertices[(i+1)%n]
			k := keyOf(a, b)
			if marks[k] == Undecided {
				marks[k] = markOf(status[a], status[b])
			}
		}
	}

	n0 := len(p.points)
	splits := make(map[edgeKey]int)
	split := func(a, b int) int {
		k := keyOf(a, b)
		if x, ok := splits[k]; ok {
			return x
		}
		var x int
		switch {
		case status[a] == geom.Inside:
			x = a
		case status[b] == geom.Inside:
			x = b
		default:
			pt, _ := plane.IntersectWithLine(p.points[k.lo], p.points[k.hi])
			x = len(p.points)
			p.points = append(p.points, pt)
			status = append(status, geom.Inside)
		}
		splits[k] = x
		return x
	}

	loops := make([]loop, 0, len(p.loops)+1)
	for _, l := range p.loops {
		n := len(l.vertices)
		out := make([]int, 0, n+1)
		for i, a := range l.vertices {
			b := l.vertices[(i+1)%n]
			if status[a] != geom.Above {
				out = append(out, a)
			}
			if marks[keyOf(a, b)] == Split {
				if x := split(a, b); x != a && x != b {
					out = append(out, x)
				}
			}
		}
		if len(out) >= 3 {
			loops = append(loops, loop{vertices: out, face: l.face})
		}
	}

	lid, ok := closeLoop(loops, status)
	if !ok {
		p.points = p.points[:n0]
		slog.Debug("Cannot close clip face", "face", face, "plane", plane)
		return Redundant, nil
	}
	p.loops = append(loops, loop{vertices: lid, face: face})
	p.compact()
	return Added, nil
}

// closeLoop chains the directed edges without a twin into the loop of the
// new side. The new loop runs against them.
func closeLoop(loops []loop, status []geom.PointStatus) ([]int, bool) {
	directed := make(map[[2]int]bool)
	for _, l := range loops {
		n := len(l.vertices)
		for i, a := range l.vertices {
			directed[[2]int{a, l.vertices[(i+1)%n]}] = true
		}
	}
	next := make(map[int]int)
	first := -1
	for _, l := range loops {
		n := len(l.vertices)
		for i, a := range l.vertices {
			b := l.vertices[(i+1)%n]
			if directed[[2]int{b, a}] {
				continue
			}
			if _, dup := next[b]; dup {
				return nil, false
			}
			if status[a] != geom.Inside || status[b] != geom.Inside {
				return nil, false
			}
			next[b] = a
			if first < 0 {
				first = b
			}
		}
	}
	if len(next) < 3 {
		return nil, false
	}
	r := make([]int, 0, len(next))
	for cur := first; ; {
		r = append(r, cur)
		n, ok := next[cur]
		if !ok || len(r) > len(next) {
			return nil, false
		}
		if n == first {
			break
		}
		cur = n
	}
	return r, len(r) == len(next)
}

// compact removes points no loop references.
func (p *polyhedron) compact() {
	used := make([]bool, len(p.points))
	for _, l := range p.loops {
		for _, v := range l.vertices {
			used[v] = true
		}
	}
	remap := make([]int, len(p.points))
	points := p.points[:0:0]
	for i, pt := range p.points {
		if used[i] {
			remap[i] = len(points)
			points = append(points, pt)
		} else {
			remap[i] = -1
		}
	}
	for _, l := range p.loops {
		for i, v := range l.vertices {
			l.vertices[i] = remap[v]
		}
	}
	p.points = points
}

// removeCollinear drops vertices shared by only two loops. They lie in the
// middle of an edge.
func (p *polyhedron) removeCollinear() {
	count := make([]int, len(p.points))
	for _, l := range p.loops {
		for _, v := range l.vertices {
			count[v]++
		}
	}
	for i, l := range p.loops {
		out := l.vertices[:0]
		for _, v := range l.vertices {
			if count[v] > 2 {
				out = append(out, v)
			}
		}
		p.loops[i].vertices = out
	}
	p.compact()
}

// correct rounds every point and merges the ones that end up on top of each
// other. Loops reduced below three vertices are removed.
func (p *polyhedron) correct(eps, almostZero float64) {
	for i, pt := range p.points {
		p.points[i] = pt.Correct(3, 1).Correct(0, eps)
	}
	canon := make([]int, len(p.points))
	for i := range p.points {
		canon[i] = i
		for j := 0; j < i; j++ {
			if canon[j] == j && vec.EqualEps(p.points[i], p.points[j], almostZero) {
				canon[i] = j
				break
			}
		}
	}
	loops := p.loops[:0]
	for _, l := range p.loops {
		out := make([]int, 0, len(l.vertices))
		for _, v := range l.vertices {
			c := canon[v]
			if len(out) > 0 && out[len(out)-1] == c {
				continue
			}
			out = append(out, c)
		}
		for len(out) > 1 && out[0] == out[len(out)-1] {
			out = out[:len(out)-1]
		}
		if len(out) >= 3 {
			loops = append(loops, loop{vertices: out, face: l.face})
		}
	}
	p.loops = loops
	p.compact()
}

func (p *polyhedron) geometry(eps float64) *Geometry {
	g := &Geometry{
		generation: nextGeneration(),
		eps:        eps,
		vertices:   make([]Vertex, len(p.points)),
	}
	for i, pt := range p.points {
		g.vertices[i] = Vertex{Position: pt}
	}
	edgeOf := make(map[edgeKey]EdgeIndex)
	for si, l := range p.loops {
		side := Side{
			Vertices: make([]VertexIndex, len(l.vertices)),
			Edges:    make([]EdgeIndex, len(l.vertices)),
			Face:     l.face,
		}
		n := len(l.vertices)
		for i, a := range l.vertices {
			b := l.vertices[(i+1)%n]
			side.Vertices[i] = VertexIndex(a)
			k := keyOf(a, b)
			e, ok := edgeOf[k]
			if !ok {
				e = EdgeIndex(len(g.edges))
				g.edges = append(g.edges, Edge{
					Start: VertexIndex(a),
					End:   VertexIndex(b),
					Left:  SideIndex(si),
					Right: NoSide,
				})
				edgeOf[k] = e
			} else if g.edges[e].Start == VertexIndex(b) {
				g.edges[e].Right = SideIndex(si)
			}
			side.Edges[i] = e
		}
		g.sides = append(g.sides, side)
	}
	return g
}

// Build intersects the half spaces below planes, limited to bounds. Planes
// are applied in order, which decides which of two equivalent planes is
// reported redundant.
func Build(bounds geom.BBox, planes []geom.Plane, cfg config.Editing) (*Geometry, BuildResult, error) {
	res := BuildResult{
		Outcomes: make([]Outcome, len(planes)),
		Sides:    make([]SideIndex, len(planes)),
	}
	p := newCuboid(bounds.Expand(1))
	for i, pl := range planes {
		before := p.faces()
		o, err := p.clip(pl, i, cfg.PointStatusEpsilon)
		if err != nil {
			return nil, res, errors.Wrapf(err, "face %d (%v)", i, pl)
		}
		res.Outcomes[i] = o
		if o == Redundant {
			slog.Debug("Redundant face", "face", i, "plane", pl)
			continue
		}
		for _, f := range before {
			if f >= 0 && !p.hasFace(f) {
				res.Outcomes[f] = Dropped
				slog.Debug("Dropped face", "face", f, "by", i)
			}
		}
	}
	if p.hasFace(-1) {
		return nil, res, errors.Wrap(ErrBrushIsNull, "brush is unbounded")
	}
	p.removeCollinear()
	p.correct(cfg.CorrectEpsilon, cfg.AlmostZero)

	g := p.geometry(cfg.AlmostZero)
	for i := range res.Sides {
		res.Sides[i] = NoSide
	}
	for si, s := range g.sides {
		res.Sides[s.Face] = SideIndex(si)
	}
	for i, s := range res.Sides {
		if s == NoSide && res.Outcomes[i] == Added {
			res.Outcomes[i] = Dropped
		}
	}
	if err := g.SanityCheck(); err != nil {
		return nil, res, errors.Wrapf(ErrBrushIsNull, "%v", err)
	}
	if g.Volume() < cfg.AlmostZero {
		return nil, res, errors.Wrap(ErrBrushIsNull, "brush has no volume")
	}
	return g, res, nil
}
