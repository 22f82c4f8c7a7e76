package compile

import (
	"github.com/arnewolf/ravel/graph"
	"github.com/arnewolf/ravel/kernel"
	"github.com/arnewolf/ravel/ravelerr"
	"github.com/arnewolf/ravel/vartable"
)

// Program is the compiled output of a graph.Network: three kernel
// sentences sharing one variable table, ready to be handed to an unrolled
// VM. It carries no pointer back into the graph it was compiled from.
type Program struct {
	Table *vartable.Table
	Feed  *kernel.Sentence
	Trace *kernel.Sentence
	Train *kernel.Sentence
}

// Network compiles every neuron of net, in activation order, into a single
// Program. The network compiler makes two passes: first it walks every
// layer allocating each neuron's slots (so every connection's weight,
// gain and eligibility slot exists with its true initial value before any
// other neuron's kernel fragment references it), then it walks the
// layers again to emit the feed and trace fragments in activation order
// and the train fragments in reverse activation order, matching the
// dependency direction of the error-responsibility values the train
// kernel reads from downstream neurons.
func Network(net *graph.Network, opts Options) (*Program, error) {
	if opts.ValidateGraph {
		if err := validate(net); err != nil {
			return nil, err
		}
	}

	log := opts.logger()
	t := vartable.New()

	slotsByID := make(map[string]*neuronSlots)
	for _, layer := range net.Layers {
		for _, n := range layer {
			slotsByID[n.ID.String()] = allocateSlots(n, t)
			if opts.Verbose {
				log.WithField("neuron", n.ID.String()).Debug("allocated slots")
			}
		}
	}

	if len(net.Layers) > 0 {
		for _, n := range net.Layers[len(net.Layers)-1] {
			t.RegisterOutput(slotsByID[n.ID.String()].activation)
		}
	}

	feed := &kernel.Sentence{}
	trace := &kernel.Sentence{}
	for _, layer := range net.Layers {
		for _, n := range layer {
			s := slotsByID[n.ID.String()]
			feed.Append(emitFeed(n, s, t))
			trace.Append(emitTrace(n, s, t))
		}
	}

	train := &kernel.Sentence{}
	for li := len(net.Layers) - 1; li >= 0; li-- {
		layer := net.Layers[li]
		for ni := len(layer) - 1; ni >= 0; ni-- {
			n := layer[ni]
			s := slotsByID[n.ID.String()]
			train.Append(emitTrain(n, s, t))
		}
	}

	if opts.Verbose {
		log.WithFields(map[string]interface{}{
			"slots": t.Size(),
			"feed":  feed.Len(),
			"trace": trace.Len(),
			"train": train.Len(),
		}).Debug("compiled network")
	}

	return &Program{Table: t, Feed: feed, Trace: trace, Train: train}, nil
}

// validate checks the structural invariants the compiler depends on: every
// incoming connection must come from a neuron of net and end at the neuron
// that lists it, every connection a neuron gates must name that neuron as
// its Gater, every gated neighbour must be reachable through Neighbours,
// and a self-connection must loop back to its own neuron.
func validate(net *graph.Network) error {
	present := make(map[*graph.Neuron]bool)
	for _, layer := range net.Layers {
		for _, n := range layer {
			present[n] = true
		}
	}
	for _, layer := range net.Layers {
		for _, n := range layer {
			for _, c := range n.Incoming {
				if c.Out != n || !present[c.In] {
					return ravelerr.GraphInvariantError{Detail: "incoming connection is dangling"}
				}
			}
			for _, g := range n.Gated {
				if g.Gater != n {
					return ravelerr.GraphInvariantError{Detail: "connection in Gated list does not name its gater"}
				}
				if _, ok := n.Neighbours[g.Out.ID]; !ok {
					return ravelerr.GraphInvariantError{Detail: "gated connection's target is not registered as a neighbour"}
				}
			}
			if n.Self != nil && n.Self.In != n {
				return ravelerr.GraphInvariantError{Detail: "self-connection does not loop back to its own neuron"}
			}
		}
	}
	return nil
}
