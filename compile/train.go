package compile

import (
	"github.com/arnewolf/ravel/graph"
	"github.com/arnewolf/ravel/kernel"
	"github.com/arnewolf/ravel/vartable"
)

// emitTrain appends the train program fragment for one neuron, dispatching
// on its role: asOutput computes responsibility from the target; a hidden
// neuron that both feeds forward and gates combines a projected and a
// gating error term; a hidden neuron with no gated connections uses only
// the projected term; a hidden neuron with no outgoing connections (pure
// gate) uses only the gating term. Every case ends by applying the same
// bias update. emitTrain must run after emitTrace has populated this
// neuron's influence scratch for the same sample.
func emitTrain(n *graph.Neuron, s *neuronSlots, t *vartable.Table) *kernel.Sentence {
	sent := &kernel.Sentence{}
	if n.Kind == graph.Input || n.Kind == graph.Frozen {
		return sent
	}

	hasGated := len(n.Gated) > 0
	hasOutgoing := len(n.Outgoing) > 0

	switch {
	case n.Kind == graph.Output:
		sent.Emit(kernel.Sub2(s.errorResponsibility, s.target, s.activation))
		for _, c := range n.Incoming {
			sent.Emit(kernel.FMA3(s.weight[c.ID], s.rate, s.errorResponsibility, s.eligibility[c.ID]))
		}

	case hasGated && hasOutgoing:
		sent.Emit(kernel.Zero(s.errorAccumulator))
		emitOutgoingAccumulation(sent, n, s, t)
		sent.Emit(kernel.Mul2(s.projectedActivity, s.derivative, s.errorAccumulator))

		sent.Emit(kernel.Zero(s.errorAccumulator))
		for nbID := range n.Neighbours {
			respSlot := mustLookup(t, vartable.NewKey(vartable.RoleErrorResponsibility, nbID))
			sent.Emit(kernel.FMA2(s.errorAccumulator, respSlot, s.influence[nbID]))
		}
		sent.Emit(kernel.Mul2(s.gatingActivity, s.derivative, s.errorAccumulator))

		sent.Emit(kernel.Add2(s.errorResponsibility, s.projectedActivity, s.gatingActivity))

		for _, c := range n.Incoming {
			sent.Emit(kernel.Mul2(s.gradient, s.projectedActivity, s.eligibility[c.ID]))
			for nbID, traces := range s.extended {
				respSlot := mustLookup(t, vartable.NewKey(vartable.RoleErrorResponsibility, nbID))
				sent.Emit(kernel.FMA2(s.gradient, respSlot, traces[c.ID]))
			}
			sent.Emit(kernel.FMA2(s.weight[c.ID], s.rate, s.gradient))
		}

	case !hasGated:
		sent.Emit(kernel.Zero(s.errorAccumulator))
		emitOutgoingAccumulation(sent, n, s, t)
		sent.Emit(kernel.Mul2(s.errorResponsibility, s.derivative, s.errorAccumulator))

		for _, c := range n.Incoming {
			sent.Emit(kernel.FMA3(s.weight[c.ID], s.rate, s.errorResponsibility, s.eligibility[c.ID]))
		}

	default: // hasGated && !hasOutgoing
		sent.Emit(kernel.Zero(s.errorAccumulator))
		for nbID := range n.Neighbours {
			respSlot := mustLookup(t, vartable.NewKey(vartable.RoleErrorResponsibility, nbID))
			sent.Emit(kernel.FMA2(s.errorAccumulator, respSlot, s.influence[nbID]))
		}
		sent.Emit(kernel.Mul2(s.errorResponsibility, s.derivative, s.errorAccumulator))

		for _, c := range n.Incoming {
			sent.Emit(kernel.Zero(s.gradient))
			for nbID, traces := range s.extended {
				respSlot := mustLookup(t, vartable.NewKey(vartable.RoleErrorResponsibility, nbID))
				sent.Emit(kernel.FMA2(s.gradient, respSlot, traces[c.ID]))
			}
			sent.Emit(kernel.FMA2(s.weight[c.ID], s.rate, s.gradient))
		}
	}

	sent.Emit(kernel.FMA2(s.biasSlot, s.rate, s.errorResponsibility))
	return sent
}

// emitOutgoingAccumulation emits errorAccumulator += responsibility(B) *
// gain(O) * weight(O) (or without gain, if O is ungated) for every
// outgoing connection O from n to B.
func emitOutgoingAccumulation(sent *kernel.Sentence, n *graph.Neuron, s *neuronSlots, t *vartable.Table) {
	for _, o := range n.Outgoing {
		respSlot := mustLookup(t, vartable.NewKey(vartable.RoleErrorResponsibility, o.Out.ID))
		wSlot := mustLookup(t, vartable.NewKey(vartable.RoleWeight, o.ID))
		if o.Gater != nil {
			gSlot := mustLookup(t, vartable.NewKey(vartable.RoleGain, o.ID))
			sent.Emit(kernel.FMA3(s.errorAccumulator, respSlot, gSlot, wSlot))
		} else {
			sent.Emit(kernel.FMA2(s.errorAccumulator, respSlot, wSlot))
		}
	}
}
