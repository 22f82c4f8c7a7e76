// Package compile is the per-neuron and per-network compiler: it walks a
// graph.Network and emits three kernel.Sentence programs (feed, trace,
// train) that an unrolled VM can later execute without ever touching the
// pointer graph again.
package compile

import (
	"github.com/arnewolf/ravel/graph"
	"github.com/arnewolf/ravel/kernel"
	"github.com/arnewolf/ravel/vartable"
)

// mustLookup resolves a slot that a prior neuron's allocation pass is
// required to have already registered. A miss means the allocation pass
// ran out of order or skipped a neuron — a compiler bug, not a malformed
// input graph, so this panics rather than returning an error.
func mustLookup(t *vartable.Table, key vartable.Key) int {
	slot, ok := t.Lookup(key)
	if !ok {
		panic("compile: slot not allocated for " + key.Role.String())
	}
	return slot
}

// emitFeed appends the feed program fragment for one neuron: the state
// update (self-connection, then each incoming connection), the sigmoid
// activation, and publishing the new activation as the gain of every
// connection this neuron gates. Input neurons contribute nothing — their
// activation slot is written directly by the VM's Feed call.
func emitFeed(n *graph.Neuron, s *neuronSlots, t *vartable.Table) *kernel.Sentence {
	sent := &kernel.Sentence{}
	if n.Kind == graph.Input {
		return sent
	}

	sent.Emit(kernel.Mov(s.oldState, s.state))

	switch {
	case s.hasSelf && s.selfGated:
		sent.Emit(kernel.MulAssign(s.state, s.selfGain))
		sent.Emit(kernel.MulAssign(s.state, s.selfWeight))
		sent.Emit(kernel.AddAssign(s.state, s.biasSlot))
	case s.hasSelf:
		sent.Emit(kernel.MulAssign(s.state, s.selfWeight))
		sent.Emit(kernel.AddAssign(s.state, s.biasSlot))
	default:
		sent.Emit(kernel.Mov(s.state, s.biasSlot))
	}

	for _, c := range n.Incoming {
		aSlot := mustLookup(t, vartable.NewKey(vartable.RoleActivation, c.In.ID))
		wSlot := s.weight[c.ID]
		if s.gated[c.ID] {
			sent.Emit(kernel.FMA3(s.state, aSlot, wSlot, s.gain[c.ID]))
		} else {
			sent.Emit(kernel.FMA2(s.state, aSlot, wSlot))
		}
	}

	sent.Emit(kernel.Sigmoid(s.activation, s.state))
	sent.Emit(kernel.SigmoidDerivative(s.derivative, s.activation))

	for _, g := range n.Gated {
		gainSlot := mustLookup(t, vartable.NewKey(vartable.RoleGain, g.ID))
		sent.Emit(kernel.Mov(gainSlot, s.activation))
	}

	return sent
}

// emitTrace appends the trace program fragment for one neuron: the
// influence scratch for each gated neighbour, then the eligibility trace
// and extended eligibility traces for each incoming connection, per the
// eight-way case table (self connected or not, each crossed with gated or
// not, crossed with whether a self-connection is itself gated).
func emitTrace(n *graph.Neuron, s *neuronSlots, t *vartable.Table) *kernel.Sentence {
	sent := &kernel.Sentence{}
	if n.Kind == graph.Input || n.Kind == graph.Frozen {
		return sent
	}

	for nbID, inflSlot := range s.influence {
		nb := n.Neighbours[nbID]
		sent.Emit(kernel.Zero(inflSlot))
		if nb.Self != nil && nb.Self.Gater == n {
			oldStateSlot := mustLookup(t, vartable.NewKey(vartable.RoleOldState, nbID))
			sent.Emit(kernel.AddAssign(inflSlot, oldStateSlot))
		}
		for _, c := range n.Influences[nbID] {
			wSlot := mustLookup(t, vartable.NewKey(vartable.RoleWeight, c.ID))
			aSlot := mustLookup(t, vartable.NewKey(vartable.RoleActivation, c.In.ID))
			sent.Emit(kernel.FMA2(inflSlot, wSlot, aSlot))
		}
	}

	for _, c := range n.Incoming {
		eligSlot := s.eligibility[c.ID]
		aSlot := mustLookup(t, vartable.NewKey(vartable.RoleActivation, c.In.ID))

		switch {
		case s.hasSelf && s.selfGated && s.gated[c.ID]:
			sent.Emit(kernel.MulAssign(eligSlot, s.selfGain))
			sent.Emit(kernel.MulAssign(eligSlot, s.selfWeight))
			sent.Emit(kernel.FMA2(eligSlot, s.gain[c.ID], aSlot))
		case s.hasSelf && s.selfGated:
			sent.Emit(kernel.MulAssign(eligSlot, s.selfGain))
			sent.Emit(kernel.MulAssign(eligSlot, s.selfWeight))
			sent.Emit(kernel.AddAssign(eligSlot, aSlot))
		case s.hasSelf && s.gated[c.ID]:
			sent.Emit(kernel.MulAssign(eligSlot, s.selfWeight))
			sent.Emit(kernel.FMA2(eligSlot, s.gain[c.ID], aSlot))
		case s.hasSelf:
			sent.Emit(kernel.MulAssign(eligSlot, s.selfWeight))
			sent.Emit(kernel.AddAssign(eligSlot, aSlot))
		case s.gated[c.ID]:
			sent.Emit(kernel.Mul2(eligSlot, s.gain[c.ID], aSlot))
		default:
			sent.Emit(kernel.Mov(eligSlot, aSlot))
		}

		for nbID, traces := range s.extended {
			xtSlot := traces[c.ID]
			switch {
			case s.hasSelf && s.selfGated:
				sent.Emit(kernel.MulAssign(xtSlot, s.selfGain))
				sent.Emit(kernel.MulAssign(xtSlot, s.selfWeight))
				sent.Emit(kernel.FMA3(xtSlot, s.derivative, eligSlot, s.influence[nbID]))
			case s.hasSelf:
				sent.Emit(kernel.MulAssign(xtSlot, s.selfWeight))
				sent.Emit(kernel.FMA3(xtSlot, s.derivative, eligSlot, s.influence[nbID]))
			default:
				sent.Emit(kernel.Zero(xtSlot))
				sent.Emit(kernel.FMA3(xtSlot, s.derivative, eligSlot, s.influence[nbID]))
			}
		}
	}

	return sent
}
