package compile

import (
	"github.com/arnewolf/ravel/graph"
	"github.com/arnewolf/ravel/id"
	"github.com/arnewolf/ravel/vartable"
)

// neuronSlots holds every variable-table slot a single neuron's kernel
// fragments reference, resolved once up front so the emission pass below
// never has to call AllocateOrReuse itself.
type neuronSlots struct {
	rate int

	activation int
	derivative int

	biasSlot            int
	state, oldState     int
	errorResponsibility int
	target              int
	projectedActivity   int
	gatingActivity      int

	selfWeight, selfGain int
	hasSelf              bool
	selfGated            bool

	weight, gain, eligibility map[id.ID]int
	gated                     map[id.ID]bool // connection ID -> gated

	// neighbourID -> connectionID -> extended-trace slot
	extended map[id.ID]map[id.ID]int
	// neighbourID -> influence scratch slot
	influence map[id.ID]int

	errorAccumulator int
	gradient         int
}

// allocateSlots resolves every slot a neuron's kernel fragments need, in
// the mandatory order: rate, activation, derivative, then either nothing
// more (input neurons stop here) or bias/state/oldState/self-connection
// slots followed by per-incoming-connection and per-gated-neighbour slots.
func allocateSlots(n *graph.Neuron, t *vartable.Table) *neuronSlots {
	s := &neuronSlots{
		weight:      make(map[id.ID]int),
		gain:        make(map[id.ID]int),
		eligibility: make(map[id.ID]int),
		gated:       make(map[id.ID]bool),
		extended:    make(map[id.ID]map[id.ID]int),
		influence:   make(map[id.ID]int),
	}

	s.rate = t.AllocateOrReuse(0, vartable.ScratchKey(vartable.RoleRate))
	_ = t.RegisterRate(s.rate)

	s.activation = t.AllocateOrReuse(n.Activation, vartable.NewKey(vartable.RoleActivation, n.ID))
	s.derivative = t.AllocateOrReuse(n.Derivative, vartable.NewKey(vartable.RoleDerivative, n.ID))

	if n.Kind == graph.Input {
		t.RegisterInput(s.activation)
		return s
	}

	s.biasSlot = t.AllocateOrReuse(n.Bias, vartable.NewKey(vartable.RoleBias, n.ID))
	s.state = t.AllocateOrReuse(n.State, vartable.NewKey(vartable.RoleState, n.ID))
	s.oldState = t.AllocateOrReuse(n.OldState, vartable.NewKey(vartable.RoleOldState, n.ID))
	s.errorResponsibility = t.AllocateOrReuse(0, vartable.NewKey(vartable.RoleErrorResponsibility, n.ID))

	if n.Self != nil {
		s.hasSelf = true
		s.selfGated = n.Self.Gater != nil
		s.selfWeight = t.AllocateOrReuse(n.Self.Weight, vartable.NewKey(vartable.RoleWeight, n.Self.ID))
		if s.selfGated {
			s.selfGain = t.AllocateOrReuse(n.Self.Gain, vartable.NewKey(vartable.RoleGain, n.Self.ID))
		}
	}

	if n.Kind == graph.Output {
		s.target = t.AllocateOrReuse(0, vartable.NewKey(vartable.RoleTarget, n.ID))
		t.RegisterTarget(s.target)
	}

	if len(n.Gated) > 0 {
		s.projectedActivity = t.AllocateOrReuse(0, vartable.NewKey(vartable.RoleProjectedActivity, n.ID))
		s.gatingActivity = t.AllocateOrReuse(0, vartable.NewKey(vartable.RoleGatingActivity, n.ID))
	}

	for _, c := range n.Incoming {
		s.weight[c.ID] = t.AllocateOrReuse(c.Weight, vartable.NewKey(vartable.RoleWeight, c.ID))
		s.eligibility[c.ID] = t.AllocateOrReuse(n.Eligibility[c.ID], vartable.NewKey(vartable.RoleEligibility, c.ID))
		if c.Gater != nil {
			s.gated[c.ID] = true
			s.gain[c.ID] = t.AllocateOrReuse(c.Gain, vartable.NewKey(vartable.RoleGain, c.ID))
		}
	}

	for nbID, traces := range n.Extended {
		s.extended[nbID] = make(map[id.ID]int, len(traces))
		for cID, xt := range traces {
			s.extended[nbID][cID] = t.AllocateOrReuse(xt, vartable.NewKey(vartable.RoleExtendedTrace, nbID, cID))
		}
		s.influence[nbID] = t.AllocateOrReuse(0, vartable.NewKey(vartable.RoleInfluence, n.ID, nbID))
	}

	s.errorAccumulator = t.AllocateOrReuse(0, vartable.ScratchKey(vartable.RoleErrorAccumulator))
	s.gradient = t.AllocateOrReuse(0, vartable.ScratchKey(vartable.RoleGradient))

	return s
}
