package compile_test

import (
	"testing"

	"github.com/arnewolf/ravel/compile"

	"github.com/arnewolf/ravel/graph"
	"github.com/arnewolf/ravel/unrolled"
	"github.com/arnewolf/ravel/vartable"
)

// TestFrozenNeuronWeightsAndBiasAreUnchangedAfterTrain builds in -> frozen
// -> out and checks that training never touches the frozen neuron's own
// bias or the weight of its incoming connection, even though it still
// participates in the feed pass and its activation still feeds the
// trainable connection downstream.
func TestFrozenNeuronWeightsAndBiasAreUnchangedAfterTrain(t *testing.T) {
	t.Parallel()

	in := graph.NewNeuron(graph.Input)
	frozen := graph.NewNeuron(graph.Frozen)
	out := graph.NewNeuron(graph.Output)

	frozen.Bias = 0.3
	out.Bias = 0.1

	incoming := graph.Connect(in, frozen, 0.4)
	outgoing := graph.Connect(frozen, out, 0.6)

	net := &graph.Network{Layers: []graph.Layer{{in}, {frozen}, {out}}}
	program, err := compile.Network(net, compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	vm := unrolled.New(program)

	biasSlot, ok := program.Table.Lookup(vartable.NewKey(vartable.RoleBias, frozen.ID))
	if !ok {
		t.Fatalf("expected a bias slot for the frozen neuron")
	}
	incomingWeightSlot, ok := program.Table.Lookup(vartable.NewKey(vartable.RoleWeight, incoming.ID))
	if !ok {
		t.Fatalf("expected a weight slot for the frozen neuron's incoming connection")
	}

	biasBefore := vm.Buffer()[biasSlot]
	weightBefore := vm.Buffer()[incomingWeightSlot]

	for i := 0; i < 50; i++ {
		if _, err := vm.Feed([]float64{0.7}); err != nil {
			t.Fatalf("feed failed: %v", err)
		}
		if err := vm.Train(0.5, []float64{0.9}); err != nil {
			t.Fatalf("train failed: %v", err)
		}
	}

	if got := vm.Buffer()[biasSlot]; got != biasBefore {
		t.Fatalf("frozen neuron's bias changed: before=%v after=%v", biasBefore, got)
	}
	if got := vm.Buffer()[incomingWeightSlot]; got != weightBefore {
		t.Fatalf("frozen neuron's incoming connection weight changed: before=%v after=%v", weightBefore, got)
	}

	outgoingWeightSlot, ok := program.Table.Lookup(vartable.NewKey(vartable.RoleWeight, outgoing.ID))
	if !ok {
		t.Fatalf("expected a weight slot for the connection out of the frozen neuron")
	}
	if got := vm.Buffer()[outgoingWeightSlot]; got == 0.6 {
		t.Fatalf("expected the downstream output neuron's own connection weight to still train, got unchanged %v", got)
	}
}
