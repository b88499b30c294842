// SPDX-License-Identifier: GPL-2.0-or-later

package brush

import (
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"quakeed/config"
	"quakeed/math/vec"
	"quakeed/texcoord"
)

// Snapshot is a copy of everything needed to rebuild a brush. It shares no
// state with the brush it was taken from.
type Snapshot struct {
	id    uuid.UUID
	faces []faceState
}

type faceState struct {
	points  [3]vec.Vec3
	texture string
	attribs texcoord.Attributes
	kind    texcoord.Kind
	u, v    vec.Vec3
}

func (s Snapshot) ID() uuid.UUID {
	return s.id
}

func (s Snapshot) Len() int {
	return len(s.faces)
}

func (b *Brush) Snapshot() Snapshot {
	s := Snapshot{
		id:    b.id,
		faces: make([]faceState, len(b.faces)),
	}
	for i, f := range b.faces {
		s.faces[i] = faceState{
			points:  f.points,
			texture: f.texture,
			attribs: f.attribs,
			kind:    f.system.Kind(),
			u:       f.system.UAxis(),
			v:       f.system.VAxis(),
		}
	}
	return s
}

func (fs faceState) face() (*Face, error) {
	if fs.kind == texcoord.UVVector {
		return NewValveFace(fs.points[0], fs.points[1], fs.points[2], fs.texture, fs.u, fs.v, fs.attribs)
	}
	return NewFace(fs.points[0], fs.points[1], fs.points[2], fs.texture, fs.attribs, fs.kind)
}

// Restore replaces the faces of b by the ones in s. The face objects are
// new, pointers to the old faces are no longer part of the brush.
func (b *Brush) Restore(s Snapshot) error {
	if s.id != b.id {
		return errors.Wrapf(ErrSnapshotMismatch, "%v is not %v", s.id, b.id)
	}
	faces := make([]*Face, len(s.faces))
	for i, fs := range s.faces {
		f, err := fs.face()
		if err != nil {
			return errors.Wrapf(err, "restore face %d", i)
		}
		faces[i] = f
	}
	l, err := b.layoutAll(faces)
	if err != nil {
		return errors.Wrap(err, "restore")
	}
	b.commit(l)
	return nil
}

// FromSnapshot creates a brush with the id and faces of s.
func FromSnapshot(s Snapshot, cfg config.Editing) (*Brush, error) {
	n := &Brush{id: s.id, cfg: cfg}
	if err := n.Restore(s); err != nil {
		return nil, err
	}
	return n, nil
}

const (
	snapshotID   protowire.Number = 1
	snapshotFace protowire.Number = 2

	facePoints   protowire.Number = 1
	faceTexture  protowire.Number = 2
	faceXOffset  protowire.Number = 3
	faceYOffset  protowire.Number = 4
	faceRotation protowire.Number = 5
	faceXScale   protowire.Number = 6
	faceYScale   protowire.Number = 7
	faceKind     protowire.Number = 8
	faceUAxis    protowire.Number = 9
	faceVAxis    protowire.Number = 10
)

func appendDouble(b []byte, n protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, n, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendVecs(b []byte, n protowire.Number, vs ...vec.Vec3) []byte {
	var packed []byte
	for _, v := range vs {
		for _, c := range v.Array() {
			packed = protowire.AppendFixed64(packed, math.Float64bits(c))
		}
	}
	b = protowire.AppendTag(b, n, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

func (fs faceState) marshal() []byte {
	var b []byte
	b = appendVecs(b, facePoints, fs.points[:]...)
	b = protowire.AppendTag(b, faceTexture, protowire.BytesType)
	b = protowire.AppendString(b, fs.texture)
	b = appendDouble(b, faceXOffset, fs.attribs.XOffset)
	b = appendDouble(b, faceYOffset, fs.attribs.YOffset)
	b = appendDouble(b, faceRotation, fs.attribs.Rotation)
	b = appendDouble(b, faceXScale, fs.attribs.XScale)
	b = appendDouble(b, faceYScale, fs.attribs.YScale)
	b = protowire.AppendTag(b, faceKind, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(fs.kind))
	b = appendVecs(b, faceUAxis, fs.u)
	b = appendVecs(b, faceVAxis, fs.v)
	return b
}

func (s Snapshot) MarshalBinary() ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, snapshotID, protowire.BytesType)
	b = protowire.AppendBytes(b, s.id[:])
	for _, f := range s.faces {
		b = protowire.AppendTag(b, snapshotFace, protowire.BytesType)
		b = protowire.AppendBytes(b, f.marshal())
	}
	return b, nil
}

func consumeVecs(b []byte, dst []vec.Vec3) error {
	if len(b) != len(dst)*24 {
		return errors.Errorf("expected %d vectors, got %d bytes", len(dst), len(b))
	}
	for i := range dst {
		var c [3]float64
		for j := range c {
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			c[j] = math.Float64frombits(v)
			b = b[n:]
		}
		dst[i] = vec.VFromA(c)
	}
	return nil
}

func unmarshalFace(b []byte) (faceState, error) {
	var fs faceState
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fs, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case typ == protowire.BytesType && (num == facePoints || num == faceUAxis || num == faceVAxis || num == faceTexture):
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fs, protowire.ParseError(n)
			}
			b = b[n:]
			var err error
			switch num {
			case facePoints:
				err = consumeVecs(v, fs.points[:])
			case faceUAxis:
				var a [1]vec.Vec3
				err = consumeVecs(v, a[:])
				fs.u = a[0]
			case faceVAxis:
				var a [1]vec.Vec3
				err = consumeVecs(v, a[:])
				fs.v = a[0]
			case faceTexture:
				fs.texture = string(v)
			}
			if err != nil {
				return fs, err
			}
		case typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return fs, protowire.ParseError(n)
			}
			b = b[n:]
			f := math.Float64frombits(v)
			switch num {
			case faceXOffset:
				fs.attribs.XOffset = f
			case faceYOffset:
				fs.attribs.YOffset = f
			case faceRotation:
				fs.attribs.Rotation = f
			case faceXScale:
				fs.attribs.XScale = f
			case faceYScale:
				fs.attribs.YScale = f
			}
		case typ == protowire.VarintType && num == faceKind:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fs, protowire.ParseError(n)
			}
			b = b[n:]
			fs.kind = texcoord.Kind(v)
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fs, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return fs, nil
}

func (s *Snapshot) UnmarshalBinary(b []byte) error {
	*s = Snapshot{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if typ != protowire.BytesType {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case snapshotID:
			id, err := uuid.FromBytes(v)
			if err != nil {
				return errors.Wrap(err, "snapshot id")
			}
			s.id = id
		case snapshotFace:
			fs, err := unmarshalFace(v)
			if err != nil {
				return errors.Wrapf(err, "snapshot face %d", len(s.faces))
			}
			s.faces = append(s.faces, fs)
		}
	}
	return nil
}
