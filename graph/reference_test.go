package graph

import (
	"math/rand"
	"testing"
)

// buildXOR constructs a 2-20-1 all-to-all sigmoid network with small
// pseudo-random initial weights and biases, deterministically seeded so
// repeated test runs see the same network.
func buildXOR() *Network {
	in1, in2 := NewNeuron(Input), NewNeuron(Input)
	hidden := make([]*Neuron, 20)
	rng := rand.New(rand.NewSource(1))
	for i := range hidden {
		hidden[i] = NewNeuron(Hidden)
		hidden[i].Bias = rng.Float64()*0.2 - 0.1
		Connect(in1, hidden[i], rng.Float64()*0.4-0.2)
		Connect(in2, hidden[i], rng.Float64()*0.4-0.2)
	}
	out := NewNeuron(Output)
	out.Bias = rng.Float64()*0.2 - 0.1
	for _, h := range hidden {
		Connect(h, out, rng.Float64()*0.4-0.2)
	}
	return &Network{Layers: []Layer{{in1, in2}, hidden, {out}}}
}

func TestXORReferenceTrainingMeetsSpecBound(t *testing.T) {
	t.Parallel()

	net := buildXOR()
	samples := []struct {
		in  []float64
		out []float64
	}{
		{[]float64{0, 1}, []float64{1}},
		{[]float64{0, 0}, []float64{0}},
		{[]float64{1, 0}, []float64{1}},
		{[]float64{1, 1}, []float64{0}},
	}

	const rate = 0.25
	for i := 0; i < 2500; i++ {
		for _, s := range samples {
			net.Feed(s.in)
			net.Train(rate, s.out)
		}
	}

	if got := net.Feed([]float64{0, 1})[0]; got <= 0.9 {
		t.Fatalf("feed({0,1})[0] = %v, want > 0.9", got)
	}
	if got := net.Feed([]float64{1, 0})[0]; got <= 0.9 {
		t.Fatalf("feed({1,0})[0] = %v, want > 0.9", got)
	}
	if got := net.Feed([]float64{0, 0})[0]; got >= 0.1 {
		t.Fatalf("feed({0,0})[0] = %v, want < 0.1", got)
	}
	if got := net.Feed([]float64{1, 1})[0]; got >= 0.1 {
		t.Fatalf("feed({1,1})[0] = %v, want < 0.1", got)
	}
}

func TestActivateLeavesInputNeuronsUnchanged(t *testing.T) {
	t.Parallel()

	n := NewNeuron(Input)
	n.Activation = 0.42
	got := n.Activate()
	if got != 0.42 {
		t.Fatalf("input neuron Activate() should return its externally-set activation, got %v", got)
	}
}

func TestSelfConnectionRetainsStateAcrossFeeds(t *testing.T) {
	t.Parallel()

	a := NewNeuron(Input)
	n := NewNeuron(Hidden)
	n.Bias = 0
	Connect(a, n, 1)
	SelfConnect(n, 1)

	a.Activation = 1
	first := n.Activate()
	second := n.Activate()

	if second <= first {
		t.Fatalf("expected self-connected state to accumulate across feeds: first=%v second=%v", first, second)
	}
}
