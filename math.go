package acistherm

import (
	"math"
	"sort"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const rad2deg = 180 / math.Pi

// Interpolate returns the linear interpolation of the sampled series
// (times, values) at each target time. The times array must be sorted
// ascending. Targets outside the sampled range clamp to the edge values.
func Interpolate(values, times, at []float64) []float64 {
	out := make([]float64, len(at))
	for i, t := range at {
		out[i] = interpOne(values, times, t)
	}
	return out
}

// InterpolateNearest returns the value of the nearest sample for each
// target time, for quantities which must not be blended.
func InterpolateNearest(values, times, at []float64) []float64 {
	out := make([]float64, len(at))
	for i, t := range at {
		idx := sort.SearchFloat64s(times, t)
		if idx == 0 {
			out[i] = values[0]
			continue
		}
		if idx == len(times) {
			out[i] = values[len(values)-1]
			continue
		}
		if t-times[idx-1] <= times[idx]-t {
			out[i] = values[idx-1]
		} else {
			out[i] = values[idx]
		}
	}
	return out
}

func interpOne(values, times []float64, t float64) float64 {
	idx := sort.SearchFloat64s(times, t)
	if idx < len(times) && times[idx] == t {
		return values[idx] // exact sample, no arithmetic
	}
	if idx == 0 {
		return values[0]
	}
	if idx == len(times) {
		return values[len(values)-1]
	}
	t0, t1 := times[idx-1], times[idx]
	v0, v1 := values[idx-1], values[idx]
	return v0 + (v1-v0)*(t-t0)/(t1-t0)
}

// intervalIndex returns the index of the interval [tstarts[i], tstops[i])
// containing t, or -1. Intervals are sorted and non-overlapping.
func intervalIndex(tstarts, tstops []float64, t float64) int {
	idx := sort.SearchFloat64s(tstarts, t)
	if idx < len(tstarts) && tstarts[idx] == t {
		return idx
	}
	if idx == 0 {
		return -1
	}
	if t < tstops[idx-1] {
		return idx - 1
	}
	return -1
}

// quatToDCM builds the direction cosine matrix of an attitude quaternion
// (vector part first, scalar last).
func quatToDCM(q1, q2, q3, q4 float64) *mat64.Dense {
	n := math.Sqrt(q1*q1 + q2*q2 + q3*q3 + q4*q4)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		panic("cannot build DCM from a nil quaternion")
	}
	q1, q2, q3, q4 = q1/n, q2/n, q3/n, q4/n
	return mat64.NewDense(3, 3, []float64{
		1 - 2*(q2*q2+q3*q3), 2 * (q1*q2 + q3*q4), 2 * (q1*q3 - q2*q4),
		2 * (q1*q2 - q3*q4), 1 - 2*(q1*q1+q3*q3), 2 * (q2*q3 + q1*q4),
		2 * (q1*q3 + q2*q4), 2 * (q2*q3 - q1*q4), 1 - 2*(q1*q1+q2*q2),
	})
}

// OffNominalRoll returns the roll angle in degrees of the attitude
// quaternion about the viewing axis, i.e. the 3-2-1 Euler roll.
func OffNominalRoll(q1, q2, q3, q4 float64) float64 {
	dcm := quatToDCM(q1, q2, q3, q4)
	return math.Atan2(dcm.At(1, 2), dcm.At(2, 2)) * rad2deg
}

// meanFloats returns the arithmetic mean of the slice.
func meanFloats(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return floats.Sum(vals) / float64(len(vals))
}
