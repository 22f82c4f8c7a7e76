package unrolled

import (
	"github.com/arnewolf/ravel/graph"
	"github.com/arnewolf/ravel/vartable"
)

// RestoreInto copies every value the VM has been computing on — weights,
// biases, state, eligibility and extended traces — back onto the pointer
// graph net was compiled from, using table to resolve each field's slot.
// A field with no corresponding slot (e.g. a connection never compiled
// into this VM) keeps the value already on the graph.
func RestoreInto(vm *VM, table *vartable.Table, net *graph.Network) error {
	buf := vm.Buffer()

	for _, layer := range net.Layers {
		for _, n := range layer {
			n.Activation = table.Evaluate(buf, vartable.NewKey(vartable.RoleActivation, n.ID), n.Activation)
			if n.Kind == graph.Input {
				continue
			}

			n.Derivative = table.Evaluate(buf, vartable.NewKey(vartable.RoleDerivative, n.ID), n.Derivative)
			n.Bias = table.Evaluate(buf, vartable.NewKey(vartable.RoleBias, n.ID), n.Bias)
			n.State = table.Evaluate(buf, vartable.NewKey(vartable.RoleState, n.ID), n.State)
			n.OldState = table.Evaluate(buf, vartable.NewKey(vartable.RoleOldState, n.ID), n.OldState)
			n.ErrorResponsibility = table.Evaluate(buf, vartable.NewKey(vartable.RoleErrorResponsibility, n.ID), n.ErrorResponsibility)

			if n.Self != nil {
				n.Self.Weight = table.Evaluate(buf, vartable.NewKey(vartable.RoleWeight, n.Self.ID), n.Self.Weight)
				if n.Self.Gater != nil {
					n.Self.Gain = table.Evaluate(buf, vartable.NewKey(vartable.RoleGain, n.Self.ID), n.Self.Gain)
				}
			}

			for _, c := range n.Incoming {
				c.Weight = table.Evaluate(buf, vartable.NewKey(vartable.RoleWeight, c.ID), c.Weight)
				n.Eligibility[c.ID] = table.Evaluate(buf, vartable.NewKey(vartable.RoleEligibility, c.ID), n.Eligibility[c.ID])
				if c.Gater != nil {
					c.Gain = table.Evaluate(buf, vartable.NewKey(vartable.RoleGain, c.ID), c.Gain)
				}
			}

			for nbID, traces := range n.Extended {
				for cID := range traces {
					traces[cID] = table.Evaluate(buf, vartable.NewKey(vartable.RoleExtendedTrace, nbID, cID), traces[cID])
				}
			}
		}
	}

	return nil
}
