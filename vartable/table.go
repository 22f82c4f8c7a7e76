// Package vartable implements the shared scalar heap that bridges the
// per-neuron compiler and the kernel interpreter.
//
// Every scalar of interest in a compiled network — an activation, a weight,
// an eligibility trace, the learning rate — is assigned a slot index into a
// single dense vector of float64 values. The Table maps symbolic Keys to
// those indices, the way model.Graph maps node IDs to byte offsets in the
// teacher's payload array, except the mapping here is built incrementally
// as the compiler visits the object graph rather than parsed from a
// pre-built spec.
package vartable

import "fmt"

// Table is the compile-time variable allocator. It is mutated by a single
// goroutine while the per-neuron compiler walks the graph; nothing about it
// is safe for concurrent use, matching the kernel's single-threaded
// execution model.
type Table struct {
	values  []float64
	index   map[Key]int
	inputs  []int
	outputs []int
	targets []int
	rate    int
	hasRate bool
}

// New creates an empty variable table.
func New() *Table {
	return &Table{
		index: make(map[Key]int),
	}
}

// AllocateOrReuse returns the slot index for key, allocating a new slot
// initialized to initial if key has not been seen before. The initial value
// of an already-known key is never overwritten — the first caller to
// allocate a key wins, which is why slot allocation order is load-bearing
// for the per-neuron compiler (see compile's allocateSlots).
func (t *Table) AllocateOrReuse(initial float64, key Key) int {
	if slot, ok := t.index[key]; ok {
		return slot
	}
	slot := len(t.values)
	t.values = append(t.values, initial)
	t.index[key] = slot
	return slot
}

// Lookup returns the slot index previously allocated for key, if any.
func (t *Table) Lookup(key Key) (int, bool) {
	slot, ok := t.index[key]
	return slot, ok
}

// RegisterInput records slot as an externally-set input, in the order
// registration happened. This order is the public ordering of the VM's
// Feed input sequence.
func (t *Table) RegisterInput(slot int) {
	t.inputs = append(t.inputs, slot)
}

// RegisterOutput records slot as an externally-observed output, in the
// order registration happened.
func (t *Table) RegisterOutput(slot int) {
	t.outputs = append(t.outputs, slot)
}

// RegisterTarget records slot as an externally-set training target, in the
// order registration happened.
func (t *Table) RegisterTarget(slot int) {
	t.targets = append(t.targets, slot)
}

// RegisterRate records slot as the learning-rate slot. The rate slot is
// singular: registering a second, different slot is a programming error in
// the compiler.
func (t *Table) RegisterRate(slot int) error {
	if t.hasRate && t.rate != slot {
		return fmt.Errorf("vartable: rate slot already registered as %d, got %d", t.rate, slot)
	}
	t.rate = slot
	t.hasRate = true
	return nil
}

// Evaluate reads back the value stored at key's slot from buf, the fallback
// if key was never allocated. buf is typically the live buffer of a
// compiled unrolled.VM, passed in by the caller — the table itself only
// ever owns the compile-time initial-value vector, never a live buffer of a
// VM that may have been swapped, reloaded, or independently instantiated.
func (t *Table) Evaluate(buf []float64, key Key, fallback float64) float64 {
	slot, ok := t.index[key]
	if !ok || slot >= len(buf) {
		return fallback
	}
	return buf[slot]
}

// SnapshotInitialValues returns the buffer an unrolled.VM should start
// from: a fresh copy of every slot's initial value, in allocation order.
func (t *Table) SnapshotInitialValues() []float64 {
	out := make([]float64, len(t.values))
	copy(out, t.values)
	return out
}

// Inputs, Outputs, Targets and Rate expose the registered index lists in
// registration order, and whether a rate slot exists.
func (t *Table) Inputs() []int  { return append([]int(nil), t.inputs...) }
func (t *Table) Outputs() []int { return append([]int(nil), t.outputs...) }
func (t *Table) Targets() []int { return append([]int(nil), t.targets...) }

func (t *Table) Rate() (int, bool) { return t.rate, t.hasRate }

// Size returns the number of allocated slots.
func (t *Table) Size() int { return len(t.values) }

// CountByRole returns the number of distinct slots whose key carries role.
// Exists for tests to check the scratch roles (ErrorAccumulator, Gradient)
// dedupe to a single slot regardless of network size.
func (t *Table) CountByRole(role Role) int {
	n := 0
	for k := range t.index {
		if k.Role == role {
			n++
		}
	}
	return n
}
