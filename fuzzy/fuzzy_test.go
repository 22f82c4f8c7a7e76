package fuzzy

import "testing"

func TestEqualHandlesExactAndNearValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b, tol float64
		want      bool
	}{
		{1, 1, 0, true},
		{1, 1.0000000001, 1e-6, true},
		{1, 1.1, 1e-6, false},
		{0, 1e-15, 1e-9, true},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b, tc.tol); got != tc.want {
			t.Fatalf("Equal(%v, %v, %v) = %v, want %v", tc.a, tc.b, tc.tol, got, tc.want)
		}
	}
}

func TestEqualSlicesRequiresSameLength(t *testing.T) {
	t.Parallel()

	if EqualSlices([]float64{1, 2}, []float64{1}, 1e-9) {
		t.Fatalf("expected mismatched lengths to be unequal")
	}
}

func TestMSEOfIdenticalSlicesIsZero(t *testing.T) {
	t.Parallel()

	if got := MSE([]float64{0.2, 0.8}, []float64{0.2, 0.8}); got != 0 {
		t.Fatalf("expected zero MSE for identical slices, got %v", got)
	}
}

func TestCrossEntropyPenalizesConfidentWrongAnswers(t *testing.T) {
	t.Parallel()

	confidentWrong := CrossEntropy([]float64{0.99}, []float64{0})
	unsure := CrossEntropy([]float64{0.5}, []float64{0})
	if confidentWrong <= unsure {
		t.Fatalf("expected a confident wrong prediction to cost more than an unsure one: confident=%v unsure=%v", confidentWrong, unsure)
	}
}
