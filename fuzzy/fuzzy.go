// Package fuzzy supplies tolerance-based float comparisons and loss
// functions shared by the compiler's tests and by callers scoring a
// trained network.
package fuzzy

import "math"

// DefaultTolerance is a default absolute+relative error bound for callers
// to pass as Equal's tol; Equal itself always uses the tol it is given.
const DefaultTolerance = 1e-9

// Equal reports whether a and b are within tol of each other, using a
// combined absolute/relative check so comparisons near zero and far from
// zero both behave sensibly.
func Equal(a, b, tol float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	largest := math.Max(math.Abs(a), math.Abs(b))
	return diff <= tol*math.Max(1, largest)
}

// EqualSlices reports whether every element of a and b is Equal within tol.
func EqualSlices(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// MSE computes the mean squared error between outputs and targets.
func MSE(outputs, targets []float64) float64 {
	var sum float64
	for i := range outputs {
		d := outputs[i] - targets[i]
		sum += d * d
	}
	return sum / float64(len(outputs))
}

// CrossEntropy computes the binary cross-entropy loss between outputs and
// targets. The (1-x) term is computed directly; it is not clamped to a
// minimum float64 in place of x, which would compute log of the wrong
// quantity for any x other than the one value DBL_MIN was standing in for.
func CrossEntropy(outputs, targets []float64) float64 {
	var sum float64
	for i, x := range outputs {
		t := targets[i]
		sum += -(t*math.Log(x) + (1-t)*math.Log(1-x))
	}
	return sum / float64(len(outputs))
}
