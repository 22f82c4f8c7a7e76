package compile_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/arnewolf/ravel/compile"

	"github.com/arnewolf/ravel/fuzzy"
	"github.com/arnewolf/ravel/graph"
	"github.com/arnewolf/ravel/unrolled"
	"github.com/arnewolf/ravel/vartable"
)

// buildXOR constructs two structurally and numerically identical 2-20-1
// all-to-all networks, deterministically seeded so repeated runs agree:
// one for the pointer-walking reference evaluator, one to compile.
// Keeping construction in one place is what lets the parity test below
// compare like against like.
func buildXOR() (*graph.Network, *graph.Network) {
	build := func(rng *rand.Rand) *graph.Network {
		in1, in2 := graph.NewNeuron(graph.Input), graph.NewNeuron(graph.Input)
		hidden := make([]*graph.Neuron, 20)
		for i := range hidden {
			hidden[i] = graph.NewNeuron(graph.Hidden)
			hidden[i].Bias = rng.Float64()*0.2 - 0.1
			graph.Connect(in1, hidden[i], rng.Float64()*0.4-0.2)
			graph.Connect(in2, hidden[i], rng.Float64()*0.4-0.2)
		}
		out := graph.NewNeuron(graph.Output)
		out.Bias = rng.Float64()*0.2 - 0.1
		for _, h := range hidden {
			graph.Connect(h, out, rng.Float64()*0.4-0.2)
		}
		return &graph.Network{Layers: []graph.Layer{{in1, in2}, hidden, {out}}}
	}
	return build(rand.New(rand.NewSource(1))), build(rand.New(rand.NewSource(1)))
}

var xorSamples = []struct {
	in  []float64
	out []float64
}{
	{[]float64{0, 0}, []float64{0}},
	{[]float64{0, 1}, []float64{1}},
	{[]float64{1, 0}, []float64{1}},
	{[]float64{1, 1}, []float64{0}},
}

func TestCompiledXORMatchesReferenceAfterTraining(t *testing.T) {
	t.Parallel()

	reference, toCompile := buildXOR()

	program, err := compile.Network(toCompile, compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	vm := unrolled.New(program)

	const rate = 0.25
	const iterations = 2500

	for i := 0; i < iterations; i++ {
		for _, s := range xorSamples {
			reference.Feed(s.in)
			reference.Train(rate, s.out)

			if _, err := vm.Feed(s.in); err != nil {
				t.Fatalf("vm feed failed: %v", err)
			}
			if err := vm.Train(rate, s.out); err != nil {
				t.Fatalf("vm train failed: %v", err)
			}
		}
	}

	for _, s := range xorSamples {
		want := reference.Feed(s.in)
		got, err := vm.Feed(s.in)
		if err != nil {
			t.Fatalf("vm feed failed: %v", err)
		}
		if !fuzzy.EqualSlices(want, got, 1e-5) {
			t.Fatalf("compiled VM diverged from reference for input %v: want %v, got %v", s.in, want, got)
		}
	}

	assertBound := func(in []float64, want string) {
		got, err := vm.Feed(in)
		if err != nil {
			t.Fatalf("vm feed failed: %v", err)
		}
		switch want {
		case "high":
			if got[0] <= 0.9 {
				t.Fatalf("feed(%v)[0] = %v, want > 0.9", in, got[0])
			}
		case "low":
			if got[0] >= 0.1 {
				t.Fatalf("feed(%v)[0] = %v, want < 0.1", in, got[0])
			}
		}
	}
	assertBound([]float64{0, 1}, "high")
	assertBound([]float64{1, 0}, "high")
	assertBound([]float64{0, 0}, "low")
	assertBound([]float64{1, 1}, "low")
}

func TestSingleConnectionFeedIsExact(t *testing.T) {
	t.Parallel()

	in := graph.NewNeuron(graph.Input)
	out := graph.NewNeuron(graph.Output)
	out.Bias = -1
	graph.Connect(in, out, 2)

	net := &graph.Network{Layers: []graph.Layer{{in}, {out}}}
	program, err := compile.Network(net, compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	vm := unrolled.New(program)

	got, err := vm.Feed([]float64{0.5})
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}

	want := 1 / (1 + math.Exp(-(-1 + 0.5*2)))
	if math.Abs(got[0]-want) > 1e-12 {
		t.Fatalf("single-connection feed: got %v, want %v", got[0], want)
	}
}

func TestScratchRolesDedupeToOneSlotEach(t *testing.T) {
	t.Parallel()

	_, toCompile := buildXOR()
	program, err := compile.Network(toCompile, compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	if n := program.Table.CountByRole(vartable.RoleErrorAccumulator); n != 1 {
		t.Fatalf("expected exactly one ErrorAccumulator slot across the network, got %d", n)
	}
	if n := program.Table.CountByRole(vartable.RoleGradient); n != 1 {
		t.Fatalf("expected exactly one Gradient slot across the network, got %d", n)
	}
	if n := program.Table.CountByRole(vartable.RoleRate); n != 1 {
		t.Fatalf("expected exactly one Rate slot across the network, got %d", n)
	}
}

func TestFeedRejectsWrongShapeAndLeavesBufferUnchanged(t *testing.T) {
	t.Parallel()

	_, toCompile := buildXOR()
	program, err := compile.Network(toCompile, compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	vm := unrolled.New(program)

	before := append([]float64(nil), vm.Buffer()...)

	if _, err := vm.Feed([]float64{1}); err == nil {
		t.Fatalf("expected a shape mismatch error for a one-element input on a two-input network")
	}

	after := vm.Buffer()
	if len(before) != len(after) {
		t.Fatalf("buffer length changed after a rejected feed")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("buffer slot %d changed after a rejected feed: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestTrainRejectsWrongShape(t *testing.T) {
	t.Parallel()

	_, toCompile := buildXOR()
	program, err := compile.Network(toCompile, compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	vm := unrolled.New(program)

	if _, err := vm.Feed([]float64{0, 1}); err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if err := vm.Train(0.3, []float64{1, 2}); err == nil {
		t.Fatalf("expected a shape mismatch error for two targets on a one-output network")
	}
}
