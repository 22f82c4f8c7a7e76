// Package graph is the object-layer representation of a neuron graph: the
// mutable, pointer-linked structure the external caller wires up before
// handing it to the per-neuron compiler. It also carries a naive reference
// evaluator (Activate/Propagate) that walks the same pointers directly,
// used in tests to check the compiled kernel programs against a
// straightforward, unoptimized implementation of the same algorithm.
package graph

import "github.com/arnewolf/ravel/id"

// Neuron is one node of the graph. The zero value is not usable; construct
// with NewNeuron.
type Neuron struct {
	ID   id.ID
	Kind Kind

	Bias                 float64
	Activation           float64
	Derivative           float64
	State                float64
	OldState             float64
	ErrorResponsibility  float64
	ProjectedActivity    float64
	GatingActivity       float64

	Self *Connection

	Incoming []*Connection
	Outgoing []*Connection
	Gated    []*Connection

	// Neighbours maps a neuron N this neuron gates at least one incoming
	// connection of, to N itself.
	Neighbours map[id.ID]*Neuron
	// Influences maps a gated neighbour N to the set of N's incoming
	// connections this neuron gates.
	Influences map[id.ID][]*Connection
	// Extended maps a gated neighbour N to the extended eligibility trace
	// for each of this neuron's own incoming connections.
	Extended map[id.ID]map[id.ID]float64
	// Eligibility maps one of this neuron's incoming connections to its
	// eligibility trace scalar.
	Eligibility map[id.ID]float64
}

// NewNeuron constructs an unconnected neuron of the given kind.
func NewNeuron(kind Kind) *Neuron {
	return &Neuron{
		ID:          id.New(),
		Kind:        kind,
		Neighbours:  make(map[id.ID]*Neuron),
		Influences:  make(map[id.ID][]*Connection),
		Extended:    make(map[id.ID]map[id.ID]float64),
		Eligibility: make(map[id.ID]float64),
	}
}

// Connect wires a new weighted connection from in to out and returns it.
func Connect(in, out *Neuron, weight float64) *Connection {
	c := newConnection(in, out, weight)
	in.Outgoing = append(in.Outgoing, c)
	out.Incoming = append(out.Incoming, c)
	return c
}

// SelfConnect gives n a self-connection, required for it to retain state
// across feeds. A neuron may have at most one; calling this twice replaces
// the previous self-connection.
func SelfConnect(n *Neuron, weight float64) *Connection {
	c := newConnection(n, n, weight)
	n.Self = c
	return c
}

// Gate makes gater the gate of connection c, and records the bookkeeping
// the trace and train kernels depend on: gater.Gated, gater.Neighbours,
// gater.Influences and gater.Extended. Gate must be called only after all
// of gater's own incoming connections have been added, since Extended is
// seeded from that set at call time.
func Gate(gater *Neuron, c *Connection) {
	c.Gater = gater
	gater.Gated = append(gater.Gated, c)

	target := c.Out
	gater.Neighbours[target.ID] = target
	gater.Influences[target.ID] = append(gater.Influences[target.ID], c)

	if _, ok := gater.Extended[target.ID]; !ok {
		gater.Extended[target.ID] = make(map[id.ID]float64, len(gater.Incoming))
	}
	for _, in := range gater.Incoming {
		if _, ok := gater.Extended[target.ID][in.ID]; !ok {
			gater.Extended[target.ID][in.ID] = 0
		}
	}
}
