// SPDX-License-Identifier: GPL-2.0-or-later

// Package wad reads texture sizes from WAD2 files.
package wad

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	typPalette    = 0x40
	typQPic       = 0x42 // 66
	typMipTex     = 0x44
	typConsolePic = 0x45
)

type header struct {
	M          [4]byte
	EntryCount uint32
	DirOffset  uint32
}

type lump struct {
	Offset      int32
	Dsize       int32
	Size        int32
	Typ         byte
	Compression byte
	Dummy       int16
	Name        [16]byte
}

type mipTexHeader struct {
	Name    [16]byte
	Width   uint32
	Height  uint32
	Offsets [4]uint32
}

// MipTex is the directory information of a texture.
type MipTex struct {
	Name   string
	Width  int
	Height int
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func getLumps(buf *bytes.Reader) ([]lump, error) {
	h := header{}
	err := binary.Read(buf, binary.LittleEndian, &h)
	if err != nil {
		return nil, err
	}
	if h.M != [4]byte{'W', 'A', 'D', '2'} {
		return nil, errors.New("wad file doesn't have WAD2 id")
	}
	lumps := make([]lump, h.EntryCount)
	_, err = buf.Seek(int64(h.DirOffset), io.SeekStart)
	if err != nil {
		return nil, err
	}
	err = binary.Read(buf, binary.LittleEndian, &lumps)
	if err != nil {
		return nil, err
	}
	return lumps, nil
}

// Textures returns the mip textures of a WAD2 file. Names are lower case.
func Textures(data []byte) ([]MipTex, error) {
	buf := bytes.NewReader(data)
	lumps, err := getLumps(buf)
	if err != nil {
		return nil, errors.Wrap(err, "wad directory")
	}
	var r []MipTex
	for _, l := range lumps {
		if l.Typ != typMipTex || l.Compression != 0 {
			continue
		}
		name := strings.ToLower(cString(l.Name[:]))
		if _, err := buf.Seek(int64(l.Offset), io.SeekStart); err != nil {
			return nil, errors.Wrapf(err, "texture %s", name)
		}
		var mt mipTexHeader
		if err := binary.Read(buf, binary.LittleEndian, &mt); err != nil {
			return nil, errors.Wrapf(err, "texture %s", name)
		}
		r = append(r, MipTex{
			Name:   name,
			Width:  int(mt.Width),
			Height: int(mt.Height),
		})
	}
	return r, nil
}
