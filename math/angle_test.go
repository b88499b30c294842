// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestAngleMod(t *testing.T) {
	for _, tc := range []struct {
		in, want float64
	}{
		{180, 180},
		{66.6666, 66.6666},
		{180 + 360, 180},
		{180 - 360, 180},
		{0, 0},
		{360, 0},
		{-90, 270},
		{-720, 0},
	} {
		if got := AngleMod(tc.in); got != tc.want {
			t.Errorf("AngleMod(%v) = %v want %v", tc.in, got, tc.want)
		}
	}
}
