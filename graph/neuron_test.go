package graph

import "testing"

func TestGateRecordsNeighbourInfluenceAndExtended(t *testing.T) {
	t.Parallel()

	a := NewNeuron(Input)
	gater := NewNeuron(Hidden)
	target := NewNeuron(Hidden)

	into := Connect(a, target, 0.5)
	intoGater := Connect(a, gater, 0.2)

	Gate(gater, into)

	if len(gater.Gated) != 1 || gater.Gated[0] != into {
		t.Fatalf("expected the gated connection to appear in gater.Gated")
	}
	if gater.Neighbours[target.ID] != target {
		t.Fatalf("expected the gated connection's target to be a neighbour of the gater")
	}
	if len(gater.Influences[target.ID]) != 1 || gater.Influences[target.ID][0] != into {
		t.Fatalf("expected the gated connection to appear in Influences[target]")
	}

	traces, ok := gater.Extended[target.ID]
	if !ok {
		t.Fatalf("expected an extended-trace entry for the gated neighbour")
	}
	if _, ok := traces[intoGater.ID]; !ok {
		t.Fatalf("expected the extended-trace map to be seeded with the gater's own incoming connection")
	}
}

func TestSelfConnectReplacesPreviousSelfConnection(t *testing.T) {
	t.Parallel()

	n := NewNeuron(Hidden)
	first := SelfConnect(n, 1)
	second := SelfConnect(n, 2)

	if n.Self != second {
		t.Fatalf("expected the most recent SelfConnect call to win")
	}
	if first == second {
		t.Fatalf("expected two calls to SelfConnect to produce distinct connections")
	}
}
