// SPDX-License-Identifier: GPL-2.0-or-later

// Package editor implements a console session editing a single brush.
package editor

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"quakeed/alias"
	"quakeed/brush"
	"quakeed/cbuf"
	"quakeed/cmd"
	"quakeed/config"
	"quakeed/conlog"
	"quakeed/cvar"
	"quakeed/geom"
	"quakeed/math/vec"
	"quakeed/mesh"
	"quakeed/pack"
	"quakeed/texcoord"
	"quakeed/wad"
)

var ErrNoBrush = errors.New("no brush")

// Session holds the brush being edited, the faces collected for the next
// build and the undo history.
type Session struct {
	editing  func() config.Editing
	brush    *brush.Brush
	pending  []*brush.Face
	history  []*brush.Snapshot
	commands *cmd.Commands
	aliases  *alias.Aliases
	buf      cbuf.CommandBuffer
	sizes    mesh.TextureSizes
	failures int
}

// NewSession creates a session. editing is asked for the current settings
// whenever a command needs them.
func NewSession(editing func() config.Editing) *Session {
	s := &Session{
		editing:  editing,
		commands: cmd.New(),
		aliases:  alias.New(),
		sizes:    make(mesh.TextureSizes),
	}
	cvar.AddCommands(s.commands)
	cmd.Must(s.aliases.Register(s.commands))
	s.addCommands()
	s.buf.SetCommandExecutors([]cbuf.Efunc{
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return s.commands.Execute(a)
		},
		s.aliases.Execute(),
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return cvar.Execute(a)
		},
	})
	return s
}

func (s *Session) Brush() *brush.Brush {
	return s.brush
}

// Failures returns the number of lines which failed so far.
func (s *Session) Failures() int {
	return s.failures
}

// Execute runs a console line. Commands are separated by ';', aliases are
// expanded and a command naming a cvar shows or sets it. The first failing
// command stops the line.
func (s *Session) Execute(line string) error {
	s.buf.AddText(line + "\n")
	return s.buf.Execute()
}

// Run executes every line of r. Failing lines are reported and counted,
// only read errors stop it.
func (s *Session) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		if err := s.Execute(scanner.Text()); err != nil {
			s.failures++
			slog.Debug("Console line failed", "line", n, "err", err.Error())
			conlog.Printf("%d: %v\n", n, err)
		}
	}
	return scanner.Err()
}

func (s *Session) addCommands() {
	for name, f := range map[string]cmd.QFunc{
		"box":       s.box,
		"build":     s.build,
		"clip":      s.clip,
		"face":      s.face,
		"flip":      s.flip,
		"info":      s.info,
		"load":      s.load,
		"mesh":      s.mesh,
		"move":      s.move,
		"rotate":    s.rotate,
		"save":      s.save,
		"snap":      s.snap,
		"split":     s.split,
		"texmove":   s.texMove,
		"texrotate": s.texRotate,
		"translate": s.translate,
		"undo":      s.undo,
		"vertex":    s.vertex,
		"wad":       s.loadWad,
	} {
		cmd.Must(s.commands.Add(name, f))
	}
}

func (s *Session) current() (*brush.Brush, error) {
	if s.brush == nil {
		return nil, ErrNoBrush
	}
	return s.brush, nil
}

// edit runs f on the current brush and records the previous state for undo.
// Brush edits are all or nothing so a failed f leaves nothing to revert.
func (s *Session) edit(op string, f func(b *brush.Brush) error) error {
	b, err := s.current()
	if err != nil {
		return err
	}
	snap := b.Snapshot()
	if err := f(b); err != nil {
		return errors.Wrapf(err, "%s would make the brush invalid", op)
	}
	s.history = append(s.history, &snap)
	return nil
}

// replace installs a new brush, nil history entries stand for no brush.
func (s *Session) replace(b *brush.Brush) {
	if s.brush != nil {
		snap := s.brush.Snapshot()
		s.history = append(s.history, &snap)
	} else {
		s.history = append(s.history, nil)
	}
	s.brush = b
}

func (s *Session) face(a cmd.Arguments) error {
	cfg := s.editing()
	var pts [3]vec.Vec3
	i := 1
	for j := range pts {
		p, n, err := a.Vec3(i)
		if err != nil {
			return errors.Wrap(err, "face ( x y z ) ( x y z ) ( x y z ) [texture [xoff yoff rot xscale yscale]]")
		}
		pts[j], i = p, n
	}
	texture := cfg.DefaultTexture
	if i < len(a.Args()) {
		texture = a.Argv(i).String()
		i++
	}
	attribs := texcoord.DefaultAttributes()
	if i < len(a.Args()) {
		var v [5]float64
		for j := range v {
			f, err := a.Float(i + j)
			if err != nil {
				return err
			}
			v[j] = f
		}
		attribs = texcoord.Attributes{XOffset: v[0], YOffset: v[1], Rotation: v[2], XScale: v[3], YScale: v[4]}
	}
	f, err := brush.NewFace(pts[0], pts[1], pts[2], texture, attribs, cfg.TexCoordFormat)
	if err != nil {
		return err
	}
	s.pending = append(s.pending, f)
	return nil
}

func (s *Session) box(a cmd.Arguments) error {
	cfg := s.editing()
	lo, i, err := a.Vec3(1)
	if err != nil {
		return errors.Wrap(err, "box ( min ) ( max ) [texture]")
	}
	hi, i, err := a.Vec3(i)
	if err != nil {
		return errors.Wrap(err, "box ( min ) ( max ) [texture]")
	}
	texture := cfg.DefaultTexture
	if i < len(a.Args()) {
		texture = a.Argv(i).String()
	}
	lo, hi = vec.MinMax(lo, hi)
	var faces []*brush.Face
	for _, n := range []vec.Vec3{vec.PosX, vec.NegX, vec.PosY, vec.NegY, vec.PosZ, vec.NegZ} {
		anchor := hi
		if vec.Dot(n, vec.Vec3{X: 1, Y: 1, Z: 1}) < 0 {
			anchor = lo
		}
		f, err := brush.NewFaceFromPlane(geom.NewPlane(n, anchor), texture, texcoord.DefaultAttributes(), cfg.TexCoordFormat)
		if err != nil {
			return err
		}
		faces = append(faces, f)
	}
	b, err := brush.New(cfg.WorldBounds, faces, cfg)
	if err != nil {
		return err
	}
	s.replace(b)
	return nil
}

func (s *Session) build(_ cmd.Arguments) error {
	if len(s.pending) == 0 {
		return errors.New("build: no faces, add some with face")
	}
	cfg := s.editing()
	b, err := brush.New(cfg.WorldBounds, s.pending, cfg)
	if err != nil {
		s.pending = nil
		return errors.Wrap(err, "build")
	}
	if d := len(s.pending) - len(b.Faces()); d > 0 {
		conlog.Printf("%d faces discarded\n", d)
	}
	s.pending = nil
	s.replace(b)
	return nil
}

func (s *Session) info(_ cmd.Arguments) error {
	b, err := s.current()
	if err != nil {
		return err
	}
	conlog.Printf("brush %v: %d vertices, %d edges, %d faces, bounds %v\n",
		b.ID(), len(b.Vertices()), len(b.Edges()), len(b.Faces()), b.Bounds())
	for i, f := range b.Faces() {
		conlog.SafePrintf("%d: %v\n", i, f)
	}
	return nil
}

func (s *Session) faceArg(b *brush.Brush, a cmd.Arguments, i int) (*brush.Face, error) {
	n, err := strconv.Atoi(a.Argv(i).String())
	if err != nil || n < 0 || n >= len(b.Faces()) {
		return nil, errors.Errorf("no face %q", a.Argv(i).String())
	}
	return b.Faces()[n], nil
}

func (s *Session) move(a cmd.Arguments) error {
	b, err := s.current()
	if err != nil {
		return err
	}
	f, err := s.faceArg(b, a, 1)
	if err != nil {
		return err
	}
	dist, err := a.Float(2)
	if err != nil {
		return errors.Wrap(err, "move <face> <distance>")
	}
	return s.edit("move", func(b *brush.Brush) error {
		return b.MoveFace(f, dist)
	})
}

func (s *Session) vertex(a cmd.Arguments) error {
	delta, i, err := a.Vec3(1)
	if err != nil {
		return errors.Wrap(err, "vertex ( delta ) ( position ) ...")
	}
	positions, err := a.Vec3s(i)
	if err != nil {
		return err
	}
	return s.edit("vertex", func(b *brush.Brush) error {
		moved, err := b.MoveVertices(positions, delta)
		if err != nil {
			return err
		}
		for _, p := range moved {
			conlog.Printf("vertex %v\n", p)
		}
		return nil
	})
}

func (s *Session) snap(a cmd.Arguments) error {
	var grid float64
	if len(a.Args()) > 1 {
		g, err := a.Float(1)
		if err != nil {
			return errors.Wrap(err, "snap [grid]")
		}
		grid = g
	}
	return s.edit("snap", func(b *brush.Brush) error {
		return b.Snap(grid)
	})
}

func (s *Session) split(a cmd.Arguments) error {
	vs, err := a.Vec3s(1)
	if err != nil || len(vs) != 3 {
		return errors.New("split ( start ) ( end ) ( delta )")
	}
	return s.edit("split", func(b *brush.Brush) error {
		p, err := b.SplitEdge(vs[0], vs[1], vs[2])
		if err != nil {
			return err
		}
		conlog.Printf("vertex %v\n", p)
		return nil
	})
}

func (s *Session) translate(a cmd.Arguments) error {
	delta, _, err := a.Vec3(1)
	if err != nil {
		return errors.Wrap(err, "translate ( delta )")
	}
	lock := s.editing().LockTextures
	return s.edit("translate", func(b *brush.Brush) error {
		return b.Translate(delta, lock)
	})
}

func (s *Session) rotate(a cmd.Arguments) error {
	b, err := s.current()
	if err != nil {
		return err
	}
	axis, i, err := a.Vec3(1)
	if err != nil {
		return errors.Wrap(err, "rotate ( axis ) <angle> [( center )]")
	}
	angle, err := a.Float(i)
	if err != nil {
		return err
	}
	center := b.Bounds().Center()
	if i+1 < len(a.Args()) {
		if center, _, err = a.Vec3(i + 1); err != nil {
			return err
		}
	}
	lock := s.editing().LockTextures
	return s.edit("rotate", func(b *brush.Brush) error {
		return b.Rotate(center, axis, angle, lock)
	})
}

func axisIndex(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "x", "0":
		return 0, true
	case "y", "1":
		return 1, true
	case "z", "2":
		return 2, true
	}
	return 0, false
}

func (s *Session) flip(a cmd.Arguments) error {
	b, err := s.current()
	if err != nil {
		return err
	}
	axis, ok := axisIndex(a.Argv(1).String())
	if !ok {
		return errors.New("flip x|y|z")
	}
	center := b.Bounds().Center()
	lock := s.editing().LockTextures
	return s.edit("flip", func(b *brush.Brush) error {
		return b.Flip(axis, center, lock)
	})
}

func (s *Session) clip(a cmd.Arguments) error {
	vs, err := a.Vec3s(1)
	if err != nil || len(vs) != 3 {
		return errors.New("clip ( x y z ) ( x y z ) ( x y z )")
	}
	plane, err := geom.FromPoints(vs[0], vs[1], vs[2])
	if err != nil {
		return err
	}
	return s.edit("clip", func(b *brush.Brush) error {
		_, err := b.Clip(plane)
		return err
	})
}

func (s *Session) texMove(a cmd.Arguments) error {
	b, err := s.current()
	if err != nil {
		return err
	}
	f, err := s.faceArg(b, a, 1)
	if err != nil {
		return err
	}
	du, err := a.Float(2)
	if err != nil {
		return errors.Wrap(err, "texmove <face> <du> <dv> [( up ) ( right )]")
	}
	dv, err := a.Float(3)
	if err != nil {
		return err
	}
	up, right := vec.PosZ, vec.PosX
	if len(a.Args()) > 4 {
		vs, err := a.Vec3s(4)
		if err != nil || len(vs) != 2 {
			return errors.New("texmove <face> <du> <dv> [( up ) ( right )]")
		}
		up, right = vs[0], vs[1]
	}
	return s.edit("texmove", func(_ *brush.Brush) error {
		f.MoveTexture(up, right, vec.Vec2{X: du, Y: dv})
		return nil
	})
}

func (s *Session) texRotate(a cmd.Arguments) error {
	b, err := s.current()
	if err != nil {
		return err
	}
	f, err := s.faceArg(b, a, 1)
	if err != nil {
		return err
	}
	angle, err := a.Float(2)
	if err != nil {
		return errors.Wrap(err, "texrotate <face> <angle>")
	}
	return s.edit("texrotate", func(_ *brush.Brush) error {
		f.RotateTexture(angle)
		return nil
	})
}

func (s *Session) undo(_ cmd.Arguments) error {
	if len(s.history) == 0 {
		return errors.New("nothing to undo")
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	switch {
	case last == nil:
		s.brush = nil
	case s.brush != nil && s.brush.ID() == last.ID():
		if err := s.brush.Restore(*last); err != nil {
			return errors.Wrap(err, "undo")
		}
	default:
		b, err := brush.FromSnapshot(*last, s.editing())
		if err != nil {
			return errors.Wrap(err, "undo")
		}
		s.brush = b
	}
	return nil
}

func (s *Session) save(a cmd.Arguments) error {
	b, err := s.current()
	if err != nil {
		return err
	}
	name := a.Argv(1).String()
	if name == "" {
		return errors.New("save <file>")
	}
	data, err := b.Snapshot().MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return errors.Wrap(err, "save")
	}
	conlog.Printf("saved %d faces to %s\n", len(b.Faces()), name)
	return nil
}

func (s *Session) load(a cmd.Arguments) error {
	name := a.Argv(1).String()
	if name == "" {
		return errors.New("load <file>")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "load")
	}
	var snap brush.Snapshot
	if err := snap.UnmarshalBinary(data); err != nil {
		return errors.Wrapf(err, "load %s", name)
	}
	b, err := brush.FromSnapshot(snap, s.editing())
	if err != nil {
		return errors.Wrapf(err, "load %s", name)
	}
	s.replace(b)
	return nil
}

func (s *Session) mesh(_ cmd.Arguments) error {
	b, err := s.current()
	if err != nil {
		return err
	}
	for _, bt := range mesh.Build(b, s.sizes) {
		conlog.Printf("%s: %d triangles\n", bt.Texture, bt.VertexCount()/3)
	}
	return nil
}

// loadWad reads texture sizes for mesh. The wad is either a file of its own
// or an entry of a pak.
func (s *Session) loadWad(a cmd.Arguments) error {
	name := a.Argv(1).String()
	if name == "" {
		return errors.New("wad <file> | wad <pak> <entry>")
	}
	var data []byte
	if entry := a.Argv(2).String(); entry != "" {
		p, err := pack.NewPackReader(name)
		if err != nil {
			return errors.Wrapf(err, "wad %s", name)
		}
		defer p.Close()
		if data, err = p.ReadFile(entry); err != nil {
			return errors.Wrapf(err, "wad %s", name)
		}
	} else {
		var err error
		if data, err = os.ReadFile(name); err != nil {
			return errors.Wrapf(err, "wad %s", name)
		}
	}
	textures, err := wad.Textures(data)
	if err != nil {
		return errors.Wrapf(err, "wad %s", name)
	}
	for _, t := range textures {
		s.sizes[t.Name] = mesh.Size{Width: float32(t.Width), Height: float32(t.Height)}
	}
	conlog.Printf("%d textures\n", len(textures))
	return nil
}
