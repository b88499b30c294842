// SPDX-License-Identifier: GPL-2.0-or-later

package brush

import (
	"log/slog"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"quakeed/config"
	"quakeed/geom"
	qmath "quakeed/math"
	"quakeed/math/vec"
	"quakeed/texcoord"
)

// Brush is a convex solid bounded by its faces. Every mutating method either
// succeeds or leaves the brush as it was.
type Brush struct {
	id       uuid.UUID
	faces    []*Face
	geometry *Geometry
	cfg      config.Editing
}

// layout is a candidate state of a brush.
type layout struct {
	faces    []*Face
	sides    []SideIndex
	geometry *Geometry
}

// New builds a brush from faces. Faces which do not bound the result are
// discarded.
func New(bounds geom.BBox, faces []*Face, cfg config.Editing) (*Brush, error) {
	cfg.WorldBounds = bounds
	b := &Brush{
		id:  uuid.Must(uuid.NewV7()),
		cfg: cfg,
	}
	for _, f := range faces {
		if f == nil {
			panic("brush.New: nil face")
		}
		if f.brush != nil {
			panic("brush.New: face belongs to another brush")
		}
	}
	l, res, err := b.layout(faces)
	if err != nil {
		return nil, err
	}
	for _, i := range res.Lost() {
		slog.Debug("Discarding face", "face", faces[i], "outcome", res.Outcomes[i])
	}
	b.commit(l)
	return b, nil
}

func (b *Brush) ID() uuid.UUID {
	return b.id
}

func (b *Brush) Config() config.Editing {
	return b.cfg
}

func (b *Brush) Faces() []*Face {
	return b.faces
}

func (b *Brush) Geometry() *Geometry {
	if b.geometry == nil {
		panic("brush has no geometry")
	}
	return b.geometry
}

func (b *Brush) Vertices() []vec.Vec3 {
	return b.Geometry().Positions()
}

// Edges returns the end points of all edges.
func (b *Brush) Edges() [][2]vec.Vec3 {
	g := b.Geometry()
	r := make([][2]vec.Vec3, len(g.edges))
	for i, e := range g.edges {
		r[i] = [2]vec.Vec3{g.vertices[e.Start].Position, g.vertices[e.End].Position}
	}
	return r
}

func (b *Brush) Bounds() geom.BBox {
	return b.Geometry().Bounds()
}

func (b *Brush) Center() vec.Vec3 {
	return b.Geometry().Center()
}

// FaceOfSide returns the face owning side s.
func (b *Brush) FaceOfSide(s SideIndex) *Face {
	for _, f := range b.faces {
		if f.side == s {
			return f
		}
	}
	return nil
}

func (b *Brush) layout(faces []*Face) (layout, BuildResult, error) {
	planes := make([]geom.Plane, len(faces))
	for i, f := range faces {
		planes[i] = f.plane
	}
	g, res, err := Build(b.cfg.WorldBounds, planes, b.cfg)
	if err != nil {
		return layout{}, res, err
	}
	if !b.cfg.WorldBounds.ContainsBox(g.Bounds(), b.cfg.AlmostZero) {
		return layout{}, res, errors.Wrapf(ErrOutOfBounds, "%v", g.Bounds())
	}
	l := layout{geometry: g}
	for i, f := range faces {
		if res.Outcomes[i] == Added {
			l.faces = append(l.faces, f)
			l.sides = append(l.sides, res.Sides[i])
		}
	}
	return l, res, nil
}

// layoutAll is layout for edits which must keep every face.
func (b *Brush) layoutAll(faces []*Face) (layout, error) {
	l, res, err := b.layout(faces)
	if err != nil {
		return l, err
	}
	if lost := res.Lost(); len(lost) != 0 {
		return layout{}, errors.Wrapf(ErrInvalidEdit, "face %v would vanish", faces[lost[0]])
	}
	return l, nil
}

func (b *Brush) commit(l layout) {
	for _, f := range b.faces {
		f.brush = nil
		f.side = NoSide
		f.generation = 0
	}
	b.faces = l.faces
	b.geometry = l.geometry
	for i, f := range b.faces {
		f.brush = b
		f.side = l.sides[i]
		f.generation = l.geometry.generation
	}
}

// commitInPlace stores the edited copies in the existing face objects.
func (b *Brush) commitInPlace(work []*Face, l layout) {
	faces := b.faces
	for i, f := range faces {
		*f = *work[i]
	}
	l.faces = faces
	b.commit(l)
}

func cloneFaces(faces []*Face) []*Face {
	r := make([]*Face, len(faces))
	for i, f := range faces {
		r[i] = f.Clone()
	}
	return r
}

func reject(op string, err error) error {
	slog.Info("Rejected brush edit", "op", op, "err", err.Error())
	return err
}

// AddFace adds f and rebuilds. Faces cut away entirely by f are removed.
func (b *Brush) AddFace(f *Face) error {
	if f.brush != nil {
		panic("AddFace: face belongs to a brush")
	}
	faces := append(slices.Clone(b.faces), f)
	l, res, err := b.layout(faces)
	if err != nil {
		return reject("add face", err)
	}
	if res.Outcomes[len(faces)-1] != Added {
		return reject("add face", errors.Wrapf(ErrFaceIsRedundant, "%v", f))
	}
	for _, i := range res.Lost() {
		slog.Debug("Face cut away", "face", faces[i])
	}
	b.commit(l)
	return nil
}

// Clip cuts the brush with plane. The new face uses the default texture.
func (b *Brush) Clip(plane geom.Plane) (*Face, error) {
	f, err := NewFaceFromPlane(plane, b.cfg.DefaultTexture, texcoord.DefaultAttributes(), b.cfg.TexCoordFormat)
	if err != nil {
		return nil, reject("clip", err)
	}
	if err := b.AddFace(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (b *Brush) RemoveFace(f *Face) error {
	if f.brush != b {
		panic("RemoveFace: face belongs to another brush")
	}
	faces := slices.DeleteFunc(slices.Clone(b.faces), func(o *Face) bool { return o == f })
	l, err := b.layoutAll(faces)
	if err != nil {
		return reject("remove face", err)
	}
	b.commit(l)
	return nil
}

// MoveFace moves f along its normal by dist. No other face may disappear.
func (b *Brush) MoveFace(f *Face, dist float64) error {
	i := slices.Index(b.faces, f)
	if i < 0 {
		panic("MoveFace: face belongs to another brush")
	}
	work := cloneFaces(b.faces)
	m := mgl64.Translate3D(f.plane.Normal.Scale(dist).Mgl().Elem())
	if err := work[i].transform(m, f.Center(), b.cfg.LockTextures, b.cfg.CorrectEpsilon); err != nil {
		return reject("move face", err)
	}
	l, err := b.layoutAll(work)
	if err != nil {
		return reject("move face", err)
	}
	b.commitInPlace(work, l)
	return nil
}

// Transform applies m to every face.
func (b *Brush) Transform(m mgl64.Mat4, lockTextures bool) error {
	work := cloneFaces(b.faces)
	for i, f := range b.faces {
		if err := work[i].transform(m, f.Center(), lockTextures, b.cfg.CorrectEpsilon); err != nil {
			return reject("transform", errors.Wrap(ErrBrushIsNull, err.Error()))
		}
	}
	l, err := b.layoutAll(work)
	if err != nil {
		return reject("transform", err)
	}
	b.commitInPlace(work, l)
	return nil
}

func (b *Brush) Translate(delta vec.Vec3, lockTextures bool) error {
	return b.Transform(mgl64.Translate3D(delta.Mgl().Elem()), lockTextures)
}

// Rotate turns the brush by angle degrees about axis through center.
func (b *Brush) Rotate(center, axis vec.Vec3, angle float64, lockTextures bool) error {
	r := mgl64.HomogRotate3D(qmath.Radians(angle), axis.Normalize().Mgl())
	return b.Transform(aroundPoint(center, r), lockTextures)
}

// Flip mirrors the brush along the given axis through center.
func (b *Brush) Flip(axis int, center vec.Vec3, lockTextures bool) error {
	s := vec.Vec3{X: 1, Y: 1, Z: 1}.With(axis, -1)
	return b.Transform(aroundPoint(center, mgl64.Scale3D(s.Mgl().Elem())), lockTextures)
}

func aroundPoint(c vec.Vec3, m mgl64.Mat4) mgl64.Mat4 {
	return mgl64.Translate3D(c.Mgl().Elem()).Mul4(m).Mul4(mgl64.Translate3D(c.Neg().Mgl().Elem()))
}

type vertexMove struct {
	index VertexIndex
	to    vec.Vec3
}

// CanMoveVertices reports whether MoveVertices would succeed.
func (b *Brush) CanMoveVertices(positions []vec.Vec3, delta vec.Vec3) bool {
	_, err := b.clone().MoveVertices(positions, delta)
	return err == nil
}

// MoveVertices moves the vertices at positions by delta and returns their
// new positions. Positions without a vertex are ignored.
func (b *Brush) MoveVertices(positions []vec.Vec3, delta vec.Vec3) ([]vec.Vec3, error) {
	var moves []vertexMove
	for _, p := range positions {
		i := b.Geometry().FindVertex(p)
		if i == NoVertex {
			slog.Debug("No vertex to move", "position", p)
			continue
		}
		moves = append(moves, vertexMove{i, vec.Add(p, delta)})
	}
	if len(moves) == 0 {
		return nil, nil
	}
	return b.moveVertices("move vertices", moves)
}

// movesOf returns one move by delta for every distinct vertex at
// positions.
func (b *Brush) movesOf(positions []vec.Vec3, delta vec.Vec3) []vertexMove {
	g := b.Geometry()
	seen := make(map[VertexIndex]bool)
	var moves []vertexMove
	for _, p := range positions {
		i := g.FindVertex(p)
		if i == NoVertex || seen[i] {
			continue
		}
		seen[i] = true
		moves = append(moves, vertexMove{i, vec.Add(g.vertices[i].Position, delta)})
	}
	return moves
}

// CanMoveEdges reports whether MoveEdges would succeed.
func (b *Brush) CanMoveEdges(edges [][2]vec.Vec3, delta vec.Vec3) bool {
	_, err := b.clone().MoveEdges(edges, delta)
	return err == nil
}

// MoveEdges moves both vertices of every edge by delta and returns the
// new edge positions. Every edge must exist before and after the move.
func (b *Brush) MoveEdges(edges [][2]vec.Vec3, delta vec.Vec3) ([][2]vec.Vec3, error) {
	const op = "move edges"
	if len(edges) == 0 {
		return nil, nil
	}
	g := b.Geometry()
	var positions []vec.Vec3
	for _, e := range edges {
		if g.FindEdge(e[0], e[1]) == NoEdge {
			return nil, reject(op, errors.Wrapf(ErrInvalidEdit, "no edge %v %v", e[0], e[1]))
		}
		positions = append(positions, e[0], e[1])
	}
	l, _, err := b.layoutMoved(op, b.movesOf(positions, delta))
	if err != nil {
		return nil, err
	}
	result := make([][2]vec.Vec3, len(edges))
	for i, e := range edges {
		start, end := vec.Add(e[0], delta), vec.Add(e[1], delta)
		if l.geometry.FindEdge(start, end) == NoEdge {
			return nil, reject(op, errors.Wrapf(ErrInvalidEdit, "edge %v %v would vanish", start, end))
		}
		result[i] = [2]vec.Vec3{start, end}
	}
	b.commit(l)
	return result, nil
}

// CanMoveFaces reports whether MoveFaces would succeed.
func (b *Brush) CanMoveFaces(polygons [][]vec.Vec3, delta vec.Vec3) bool {
	_, err := b.clone().MoveFaces(polygons, delta)
	return err == nil
}

// MoveFaces moves all vertices of the faces with the vertex positions
// polygons by delta and returns the new polygons. Every face must exist
// before and after the move.
func (b *Brush) MoveFaces(polygons [][]vec.Vec3, delta vec.Vec3) ([][]vec.Vec3, error) {
	const op = "move faces"
	if len(polygons) == 0 {
		return nil, nil
	}
	g := b.Geometry()
	var positions []vec.Vec3
	normals := make([]vec.Vec3, len(polygons))
	for i, poly := range polygons {
		s := g.FindSide(poly)
		f := b.FaceOfSide(s)
		if s == NoSide || f == nil {
			return nil, reject(op, errors.Wrapf(ErrInvalidEdit, "no face %v", poly))
		}
		normals[i] = f.plane.Normal
		positions = append(positions, poly...)
	}
	l, _, err := b.layoutMoved(op, b.movesOf(positions, delta))
	if err != nil {
		return nil, err
	}
	result := make([][]vec.Vec3, len(polygons))
	for i, poly := range polygons {
		moved := make([]vec.Vec3, len(poly))
		for j, p := range poly {
			moved[j] = vec.Add(p, delta)
		}
		s := l.geometry.FindSide(moved)
		if s == NoSide {
			return nil, reject(op, errors.Wrapf(ErrInvalidEdit, "face %v would vanish", moved))
		}
		for j, ls := range l.sides {
			if ls == s && vec.Dot(l.faces[j].plane.Normal, normals[i]) <= 0 {
				return nil, reject(op, errors.Wrapf(ErrInvalidEdit, "face %v would turn over", moved))
			}
		}
		result[i] = moved
	}
	b.commit(l)
	return result, nil
}

// Snap moves every vertex to the closest multiple of grid. A grid of zero
// uses the configured grid size.
func (b *Brush) Snap(grid float64) error {
	if grid <= 0 {
		grid = b.cfg.GridSize
	}
	var moves []vertexMove
	for i, v := range b.Geometry().vertices {
		s := v.Position.Snap(grid)
		if !vec.Equal(s, v.Position) {
			moves = append(moves, vertexMove{VertexIndex(i), s})
		}
	}
	if len(moves) == 0 {
		return nil
	}
	_, err := b.moveVertices("snap", moves)
	return err
}

func (b *Brush) moveVertices(op string, moves []vertexMove) ([]vec.Vec3, error) {
	l, result, err := b.layoutMoved(op, moves)
	if err != nil {
		return nil, err
	}
	b.commit(l)
	return result, nil
}

// layoutMoved lays out the hull of the vertices after moves without
// committing it. Every vertex must survive.
func (b *Brush) layoutMoved(op string, moves []vertexMove) (layout, []vec.Vec3, error) {
	g := b.Geometry()
	points := g.Positions()
	moved := make([]bool, len(points))
	for _, m := range moves {
		if !b.cfg.WorldBounds.Contains(m.to, 0) {
			return layout{}, nil, reject(op, errors.Wrapf(ErrOutOfBounds, "%v", m.to))
		}
		points[m.index] = m.to
		moved[m.index] = true
	}
	faces, err := b.facesFromPoints(points)
	if err != nil {
		return layout{}, nil, reject(op, err)
	}
	l, _, err := b.layout(faces)
	if err != nil {
		return layout{}, nil, reject(op, err)
	}
	result := make([]vec.Vec3, 0, len(moves))
	for _, m := range moves {
		i := l.geometry.FindVertex(m.to)
		if i == NoVertex {
			return layout{}, nil, reject(op, errors.Wrapf(ErrInvalidEdit, "vertex %v would vanish", m.to))
		}
		result = append(result, l.geometry.vertices[i].Position)
	}
	for i, p := range points {
		if !moved[i] && l.geometry.FindVertex(p) == NoVertex {
			return layout{}, nil, reject(op, errors.Wrapf(ErrInvalidEdit, "vertex %v would vanish", p))
		}
	}
	return l, result, nil
}

// facesFromPoints creates the faces of the hull of points. The old vertex
// i is assumed to move to points[i], every facet takes the texture of the
// old face sharing most of its vertices.
func (b *Brush) facesFromPoints(points []vec.Vec3) ([]*Face, error) {
	facets, err := convexHull(points, b.cfg.PointStatusEpsilon)
	if err != nil {
		return nil, err
	}
	faces := make([]*Face, 0, len(facets))
	for _, fc := range facets {
		src := b.sourceFace(fc, points)
		pts := orthogonalCorner(fc.points)
		texture, attribs, kind := b.cfg.DefaultTexture, texcoord.DefaultAttributes(), b.cfg.TexCoordFormat
		if src != nil {
			texture, attribs, kind = src.texture, src.attribs, src.system.Kind()
		}
		f, err := NewFace(pts[0], pts[1], pts[2], texture, attribs, kind)
		if err != nil {
			return nil, errors.Wrap(ErrBrushIsNull, err.Error())
		}
		if src != nil && kind == texcoord.UVVector {
			f.system = src.system.Clone()
			f.system.Update(f.plane.Normal, attribs)
		}
		faces = append(faces, f)
	}
	return faces, nil
}

func (b *Brush) sourceFace(fc facet, points []vec.Vec3) *Face {
	var best *Face
	bestCount, bestDot := -1, math.Inf(-1)
	for _, f := range b.faces {
		s := f.Geometry()
		if s == nil {
			continue
		}
		count := 0
		for _, v := range s.Vertices {
			if math.Abs(fc.plane.Distance(points[v])) <= b.cfg.PointStatusEpsilon {
				count++
			}
		}
		d := vec.Dot(f.plane.Normal, fc.plane.Normal)
		if count > bestCount || (count == bestCount && d > bestDot) {
			best, bestCount, bestDot = f, count, d
		}
	}
	return best
}

// CanSplitEdge reports whether the edge from start to end can be split by
// moving its midpoint by delta. The new point must lie outside one of the
// two faces at the edge but inside all other faces.
func (b *Brush) CanSplitEdge(start, end, delta vec.Vec3) bool {
	_, ok := b.splitPoint(start, end, delta)
	return ok
}

func (b *Brush) splitPoint(start, end, delta vec.Vec3) (vec.Vec3, bool) {
	g := b.Geometry()
	e := g.FindEdge(start, end)
	if e == NoEdge {
		return vec.Vec3{}, false
	}
	edge := g.edges[e]
	left, right := b.FaceOfSide(edge.Left), b.FaceOfSide(edge.Right)
	if left == nil || right == nil {
		return vec.Vec3{}, false
	}
	mid := vec.Lerp(g.vertices[edge.Start].Position, g.vertices[edge.End].Position, 0.5)
	p := vec.Add(mid, delta)
	if !b.cfg.WorldBounds.Contains(p, 0) {
		return p, false
	}
	eps := b.cfg.PointStatusEpsilon
	if vec.Dot(delta, left.plane.Normal) < -b.cfg.AlmostZero ||
		vec.Dot(delta, right.plane.Normal) < -b.cfg.AlmostZero {
		return p, false
	}
	if left.plane.ClassifyEps(p, eps) != geom.Above && right.plane.ClassifyEps(p, eps) != geom.Above {
		return p, false
	}
	for _, f := range b.faces {
		if f == left || f == right {
			continue
		}
		if f.plane.ClassifyEps(p, eps) == geom.Above {
			return p, false
		}
	}
	return p, true
}

// SplitEdge adds a vertex at the midpoint of the edge from start to end
// moved by delta and returns its position.
func (b *Brush) SplitEdge(start, end, delta vec.Vec3) (vec.Vec3, error) {
	p, ok := b.splitPoint(start, end, delta)
	if !ok {
		return p, reject("split edge", errors.Wrapf(ErrInvalidEdit, "cannot split %v %v by %v", start, end, delta))
	}
	return b.addPoint("split edge", p)
}

// CanSplitFace reports whether the face with the vertex positions polygon
// can be split by a new vertex at its center moved by delta. The new point
// must lie outside the face but inside all other faces.
func (b *Brush) CanSplitFace(polygon []vec.Vec3, delta vec.Vec3) bool {
	_, ok := b.splitFacePoint(polygon, delta)
	return ok
}

func (b *Brush) splitFacePoint(polygon []vec.Vec3, delta vec.Vec3) (vec.Vec3, bool) {
	g := b.Geometry()
	s := g.FindSide(polygon)
	if s == NoSide {
		return vec.Vec3{}, false
	}
	face := b.FaceOfSide(s)
	if face == nil {
		return vec.Vec3{}, false
	}
	p := vec.Add(vec.Center(g.SideVertices(s)), delta)
	if !b.cfg.WorldBounds.Contains(p, 0) {
		return p, false
	}
	if vec.Dot(delta, face.plane.Normal) <= b.cfg.AlmostZero {
		return p, false
	}
	eps := b.cfg.PointStatusEpsilon
	if face.plane.ClassifyEps(p, eps) != geom.Above {
		return p, false
	}
	for _, f := range b.faces {
		if f != face && f.plane.ClassifyEps(p, eps) == geom.Above {
			return p, false
		}
	}
	return p, true
}

// SplitFace adds a vertex at the center of the face with the vertex
// positions polygon moved by delta and returns its position.
func (b *Brush) SplitFace(polygon []vec.Vec3, delta vec.Vec3) (vec.Vec3, error) {
	p, ok := b.splitFacePoint(polygon, delta)
	if !ok {
		return p, reject("split face", errors.Wrapf(ErrInvalidEdit, "cannot split %v by %v", polygon, delta))
	}
	return b.addPoint("split face", p)
}

// addPoint rebuilds the brush from the hull of its vertices and p. No
// vertex may vanish.
func (b *Brush) addPoint(op string, p vec.Vec3) (vec.Vec3, error) {
	points := append(b.Geometry().Positions(), p)
	faces, err := b.facesFromPoints(points)
	if err != nil {
		return p, reject(op, err)
	}
	l, _, err := b.layout(faces)
	if err != nil {
		return p, reject(op, err)
	}
	for _, q := range points {
		if l.geometry.FindVertex(q) == NoVertex {
			return p, reject(op, errors.Wrapf(ErrInvalidEdit, "vertex %v would vanish", q))
		}
	}
	b.commit(l)
	return l.geometry.vertices[l.geometry.FindVertex(p)].Position, nil
}

// clone returns an independent brush with the same id for trial edits.
func (b *Brush) clone() *Brush {
	c := &Brush{
		id:       b.id,
		faces:    cloneFaces(b.faces),
		geometry: b.geometry,
		cfg:      b.cfg,
	}
	for i, f := range c.faces {
		f.brush = c
		f.side = b.faces[i].side
		f.generation = b.faces[i].generation
	}
	return c
}
