// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	gmath "math"
)

const (
	// AlmostZero is the tolerance used for parallelism and zero length tests.
	AlmostZero = 0.001
	// PointStatusEpsilon is the half width of the band in which a point is
	// considered to lie on a plane.
	PointStatusEpsilon = 0.01
	// CorrectEpsilon is the distance below which a value is pulled onto its
	// rounded counterpart.
	CorrectEpsilon = 0.001
)

// Round rounds half away from zero.
func Round(v float64) float64 {
	return gmath.Round(v)
}

// Correct rounds v to the given number of decimals if it is within eps of
// the rounded value. Otherwise v is returned unchanged.
func Correct(v float64, decimals int, eps float64) float64 {
	m := gmath.Pow(10, float64(decimals))
	r := Round(v*m) / m
	if gmath.Abs(v-r) <= eps {
		return r
	}
	return v
}

// Snap rounds v to the nearest multiple of grid.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return Round(v/grid) * grid
}

func IsZero(v, eps float64) bool {
	return gmath.Abs(v) <= eps
}

func Equal(a, b, eps float64) bool {
	return gmath.Abs(a-b) <= eps
}
