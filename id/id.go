// Package id supplies globally unique identifiers for neurons and connections.
//
// Identifiers are opaque, equality-comparable, and usable as composite lookup
// keys — the only contract the rest of the module relies on. Generation is
// backed by github.com/google/uuid so identifiers remain unique across
// process restarts and across independently compiled graphs, unlike a
// process-local counter.
package id

import "github.com/google/uuid"

// ID is an opaque, comparable identifier for a neuron or connection.
type ID struct {
	v uuid.UUID
}

// Nil is the zero ID. It never equals an ID returned by New.
var Nil ID

// New returns a fresh, globally unique ID.
func New() ID {
	return ID{v: uuid.New()}
}

// String renders the identifier for debugging and error messages.
func (i ID) String() string {
	return i.v.String()
}

// IsNil reports whether i is the zero ID.
func (i ID) IsNil() bool {
	return i.v == uuid.Nil
}
