package graph

import "github.com/arnewolf/ravel/id"

// Connection is a directed, weighted edge between two neurons, optionally
// gated by a third. Gain is maintained by whichever neuron gates the
// connection and defaults to 1 when ungated.
type Connection struct {
	ID id.ID

	In  *Neuron
	Out *Neuron

	Weight float64
	Gain   float64

	Gater *Neuron
}

func newConnection(in, out *Neuron, weight float64) *Connection {
	return &Connection{
		ID:     id.New(),
		In:     in,
		Out:    out,
		Weight: weight,
		Gain:   1,
	}
}
