// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	NULL = Vec3{}
)

func TestBasics(t *testing.T) {
	v := Vec3{1, 2, 3}
	if v.Idx(0) != 1 || v.Idx(1) != 2 || v.Idx(2) != 3 {
		t.Errorf("Vector construction is not obvious")
	}
	if w := v.With(1, 7); w != (Vec3{1, 7, 3}) {
		t.Errorf("%v.With(1,7) = %v", v, w)
	}
}

func TestLength(t *testing.T) {
	if NULL.Length() != 0 {
		t.Errorf("Null vector has not 0 length")
	}
	for _, v := range []Vec3{{2, 2, 1}, {2, 1, 2}, {1, 2, 2}} {
		if v.Length() != 3 {
			t.Errorf("%v Length is not 3", v)
		}
	}
}

func TestAddSub(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := Add(NULL, v); got != v {
		t.Errorf("Adding a null vector changed the vector")
	}
	if got, want := Add(v, v), (Vec3{2, 4, 6}); got != want {
		t.Errorf("Add(%v,%v) = %v want %v", v, v, got, want)
	}
	v2 := Vec3{9, 7, 5}
	if got, want := Sub(v2, v), (Vec3{8, 5, 2}); got != want {
		t.Errorf("Sub(%v,%v) = %v want %v", v2, v, got, want)
	}
}

func TestCross(t *testing.T) {
	if got := Cross(PosX, PosY); got != PosZ {
		t.Errorf("Cross(x,y) = %v, want %v", got, PosZ)
	}
	if got := Cross(PosY, PosX); got != NegZ {
		t.Errorf("Cross(y,x) = %v, want %v", got, NegZ)
	}
}

func TestSnap(t *testing.T) {
	got := Vec3{1.3, 2.7, 0}.Snap(1)
	want := Vec3{1, 3, 0}
	if got != want {
		t.Errorf("Snap(1) = %v, want %v", got, want)
	}
	got = Vec3{-1.5, 31, 9}.Snap(16)
	want = Vec3{0, 32, 16}
	if got != want {
		t.Errorf("Snap(16) = %v, want %v", got, want)
	}
}

func TestCorrect(t *testing.T) {
	got := Vec3{15.9999, -0.0004, 3.5}.Correct(0, 0.001)
	want := Vec3{16, 0, 3.5}
	if !EqualEps(got, want, 0) {
		t.Errorf("Correct = %v, want %v", got, want)
	}
}

func TestLess(t *testing.T) {
	if !Less(Vec3{1, 2, 3}, Vec3{2, 0, 0}) {
		t.Errorf("x should dominate")
	}
	if !Less(Vec3{1, 2, 3}, Vec3{1, 2, 4}) {
		t.Errorf("z should break ties")
	}
	if Less(Vec3{1, 2, 3}, Vec3{1, 2, 3}) {
		t.Errorf("equal vectors are not less")
	}
}

func TestTransform(t *testing.T) {
	m := mgl64.Translate3D(1, 2, 3).Mul4(mgl64.HomogRotate3DZ(math.Pi / 2))
	got := Vec3{1, 0, 0}.Transform(m)
	want := Vec3{1, 3, 3}
	if !EqualEps(got, want, 1e-9) {
		t.Errorf("Transform = %v, want %v", got, want)
	}
	dir := Vec3{1, 0, 0}.TransformDir(m)
	if !EqualEps(dir, PosY, 1e-9) {
		t.Errorf("TransformDir = %v, want %v", dir, PosY)
	}
	n := Vec3{1, 0, 0}.TransformNormal(mgl64.Scale3D(2, 1, 1))
	if !EqualEps(n, PosX, 1e-9) {
		t.Errorf("TransformNormal = %v, want %v", n, PosX)
	}
}

func TestEqual(t *testing.T) {
	v1 := Vec3{2, 3, 4}
	v2 := Vec3{4, 3, 2}
	if !Equal(v1, v1) {
		t.Errorf("Vectors are not considered equal to them self")
	}
	if Equal(v1, v2) {
		t.Errorf("Vectors %v and %v are considered equal", v1, v2)
	}
}

func TestVec3f(t *testing.T) {
	f := FromVec3(Vec3{3, 0, 4})
	if f.Length() != 5 {
		t.Errorf("%v Length is not 5", f)
	}
	if n := f.Normalize(); n != (Vec3f{0.6, 0, 0.8}) {
		t.Errorf("%v Normalize = %v", f, n)
	}
}
