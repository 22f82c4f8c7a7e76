package graph

import "math"

// Layer is an ordered slice of neurons fed or activated together.
type Layer []*Neuron

// Network is a pointer-linked graph grouped into layers, in activation
// order. It exists only as a reference evaluator and as fixture input to
// the compiler — it performs no kernel compilation itself.
type Network struct {
	Layers []Layer
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// Activate runs the feed-forward pass for one neuron directly over the
// pointer graph. Input neurons return their externally-assigned
// Activation unchanged.
func (n *Neuron) Activate() float64 {
	if n.Kind == Input {
		return n.Activation
	}

	n.OldState = n.State
	switch {
	case n.Self != nil && n.Self.Gater != nil:
		n.State = n.Self.Gain*n.Self.Weight*n.State + n.Bias
	case n.Self != nil:
		n.State = n.Self.Weight*n.State + n.Bias
	default:
		n.State = n.Bias
	}

	for _, c := range n.Incoming {
		if c.Gater != nil {
			n.State += c.In.Activation * c.Weight * c.Gain
		} else {
			n.State += c.In.Activation * c.Weight
		}
	}

	n.Activation = sigmoid(n.State)
	n.Derivative = n.Activation * (1 - n.Activation)

	for _, g := range n.Gated {
		g.Gain = n.Activation
	}

	return n.Activation
}

// influence computes, for a gated neighbour nb, the scratch quantity the
// trace and train kernels both call influence: the neighbour's own old
// state if this neuron gates its self-connection, plus the weighted
// activations of every connection into nb that this neuron gates.
func (n *Neuron) influence(nb *Neuron) float64 {
	var v float64
	if nb.Self != nil && nb.Self.Gater == n {
		v = nb.OldState
	}
	for _, c := range n.Influences[nb.ID] {
		v += c.Weight * c.In.Activation
	}
	return v
}

// updateTraces runs the trace kernel for n: the eligibility trace of each
// incoming connection, and the extended eligibility trace of each
// (gated-neighbour, incoming-connection) pair. Must run after Activate for
// the current sample and before propagate.
func (n *Neuron) updateTraces() {
	infl := make(map[*Neuron]float64, len(n.Neighbours))
	for _, nb := range n.Neighbours {
		infl[nb] = n.influence(nb)
	}

	for _, c := range n.Incoming {
		a := c.In
		prevElig := n.Eligibility[c.ID]

		var elig float64
		switch {
		case n.Self != nil && n.Self.Gater != nil && c.Gater != nil:
			elig = n.Self.Gain*n.Self.Weight*prevElig + c.Gain*a.Activation
		case n.Self != nil && n.Self.Gater != nil:
			elig = n.Self.Gain*n.Self.Weight*prevElig + a.Activation
		case n.Self != nil && c.Gater != nil:
			elig = n.Self.Weight*prevElig + c.Gain*a.Activation
		case n.Self != nil:
			elig = n.Self.Weight*prevElig + a.Activation
		case c.Gater != nil:
			elig = c.Gain * a.Activation
		default:
			elig = a.Activation
		}
		n.Eligibility[c.ID] = elig

		for nbID, traces := range n.Extended {
			nb := n.Neighbours[nbID]
			prevXT := traces[c.ID]

			var xt float64
			switch {
			case n.Self != nil && n.Self.Gater != nil:
				xt = n.Self.Gain*n.Self.Weight*prevXT + n.Derivative*elig*infl[nb]
			case n.Self != nil:
				xt = n.Self.Weight*prevXT + n.Derivative*elig*infl[nb]
			default:
				xt = n.Derivative * elig * infl[nb]
			}
			traces[c.ID] = xt
		}
	}
}

// Propagate runs the trace and train kernels for n in one pass: target is
// non-nil only for an output neuron. Downstream neurons (n.Outgoing and
// n.Gated targets) must already have their ErrorResponsibility set for
// this sample, which requires the caller to propagate in reverse
// activation order.
func (n *Neuron) Propagate(rate float64, target *float64) {
	if n.Kind == Input || n.Kind == Frozen {
		return
	}

	n.updateTraces()

	var responsibility float64
	switch {
	case n.Kind == Output:
		responsibility = *target - n.Activation

	case len(n.Gated) > 0 && len(n.Outgoing) > 0:
		var errAcc float64
		for _, o := range n.Outgoing {
			if o.Gater != nil {
				errAcc += o.Out.ErrorResponsibility * o.Gain * o.Weight
			} else {
				errAcc += o.Out.ErrorResponsibility * o.Weight
			}
		}
		n.ProjectedActivity = n.Derivative * errAcc

		errAcc = 0
		for _, nb := range n.Neighbours {
			errAcc += nb.ErrorResponsibility * n.influence(nb)
		}
		n.GatingActivity = n.Derivative * errAcc

		responsibility = n.ProjectedActivity + n.GatingActivity

		for _, c := range n.Incoming {
			grad := n.ProjectedActivity * n.Eligibility[c.ID]
			for nbID, traces := range n.Extended {
				nb := n.Neighbours[nbID]
				grad += nb.ErrorResponsibility * traces[c.ID]
			}
			c.Weight += rate * grad
		}

	case len(n.Gated) == 0:
		var errAcc float64
		for _, o := range n.Outgoing {
			if o.Gater != nil {
				errAcc += o.Out.ErrorResponsibility * o.Gain * o.Weight
			} else {
				errAcc += o.Out.ErrorResponsibility * o.Weight
			}
		}
		responsibility = n.Derivative * errAcc

		for _, c := range n.Incoming {
			c.Weight += rate * responsibility * n.Eligibility[c.ID]
		}

	default: // gated, no outgoing
		var errAcc float64
		for _, nb := range n.Neighbours {
			errAcc += nb.ErrorResponsibility * n.influence(nb)
		}
		responsibility = n.Derivative * errAcc

		for _, c := range n.Incoming {
			var grad float64
			for nbID, traces := range n.Extended {
				nb := n.Neighbours[nbID]
				grad += nb.ErrorResponsibility * traces[c.ID]
			}
			c.Weight += rate * grad
		}
	}

	n.ErrorResponsibility = responsibility
	n.Bias += rate * responsibility
}

// Feed assigns inputs to the input layer's activations and activates every
// subsequent layer in order, returning the final layer's activations.
func (net *Network) Feed(inputs []float64) []float64 {
	in := net.Layers[0]
	for i, n := range in {
		n.Activation = inputs[i]
	}
	for _, layer := range net.Layers[1:] {
		for _, n := range layer {
			n.Activate()
		}
	}
	out := net.Layers[len(net.Layers)-1]
	result := make([]float64, len(out))
	for i, n := range out {
		result[i] = n.Activation
	}
	return result
}

// Train runs one Propagate pass over every non-input layer, in reverse
// activation order, against targets for the final layer.
func (net *Network) Train(rate float64, targets []float64) {
	last := len(net.Layers) - 1
	for li := last; li >= 1; li-- {
		layer := net.Layers[li]
		for ni := len(layer) - 1; ni >= 0; ni-- {
			n := layer[ni]
			if li == last {
				t := targets[ni]
				n.Propagate(rate, &t)
			} else {
				n.Propagate(rate, nil)
			}
		}
	}
}
