package commandline

import (
	"flag"
	"fmt"
	"strconv"
)

var (
	lockTextures bool
	verbose      bool

	snap = boolInt{false, 0}

	grid      float64
	worldSize float64

	format string
	script string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	register(flag.CommandLine)
}

func register(fs *flag.FlagSet) {
	fs.BoolVar(&lockTextures, "locktextures", false, "keep textures fixed to the brush on transforms")
	fs.BoolVar(&verbose, "v", false, "log debug messages")

	fs.Var(&snap, "snap", "snap the brush when done, optional grid size")

	fs.Float64Var(&grid, "grid", -1, "grid size, negative is unset")
	fs.Float64Var(&worldSize, "worldsize", -1, "half extent of the world, negative is unset")

	fs.StringVar(&format, "format", "", "texture coordinate format: paraxial or valve220")
	fs.StringVar(&script, "script", "", "read console commands from this file instead of stdin")
}

func LockTextures() bool {
	return lockTextures
}

func Verbose() bool {
	return verbose
}

func Snap() bool {
	return snap.set
}

func SnapGrid() int {
	return snap.num
}

func Grid() float64 {
	return grid
}

func WorldSize() float64 {
	return worldSize
}

func Format() string {
	return format
}

func Script() string {
	return script
}
