// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestRoundHalfAway(t *testing.T) {
	for _, tc := range []struct {
		in, want float64
	}{
		{1.3, 1},
		{2.7, 3},
		{0.5, 1},
		{-0.5, -1},
		{-1.5, -2},
		{2.5, 3},
	} {
		if got := Round(tc.in); got != tc.want {
			t.Errorf("Round(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSnap(t *testing.T) {
	for _, tc := range []struct {
		v, grid, want float64
	}{
		{1.3, 1, 1},
		{2.7, 1, 3},
		{7, 16, 0},
		{8, 16, 16},
		{-8, 16, -16},
		{23, 16, 16},
		{1.3, 0, 1.3},
	} {
		if got := Snap(tc.v, tc.grid); got != tc.want {
			t.Errorf("Snap(%v,%v) = %v, want %v", tc.v, tc.grid, got, tc.want)
		}
	}
}

func TestCorrect(t *testing.T) {
	if got := Correct(63.9996, 0, CorrectEpsilon); got != 64 {
		t.Errorf("Correct(63.9996) = %v, want 64", got)
	}
	if got := Correct(63.99, 0, CorrectEpsilon); got != 63.99 {
		t.Errorf("Correct(63.99) = %v, want 63.99", got)
	}
	if got := Correct(1.00049, 3, CorrectEpsilon); got != 1 {
		t.Errorf("Correct(1.00049, 3) = %v, want 1", got)
	}
}

func TestDegrees(t *testing.T) {
	if got := Degrees(Radians(90)); !Equal(got, 90, 1e-9) {
		t.Errorf("Degrees(Radians(90)) = %v", got)
	}
}
