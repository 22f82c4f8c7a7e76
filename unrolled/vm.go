// Package unrolled implements the VM that executes a compiled Program: a
// single contiguous float64 buffer plus three straight-line kernel
// sentences, with no remaining reference to the graph it was compiled
// from. Feed and Train are the only two operations it exposes.
package unrolled

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/arnewolf/ravel/compile"
	"github.com/arnewolf/ravel/kernel"
	"github.com/arnewolf/ravel/ravelerr"
)

// VM is an unrolled network: a variable buffer and the three compiled
// kernel sentences that read and write it. The zero value is not usable;
// construct with New.
type VM struct {
	buf []float64

	feed  *kernel.Sentence
	trace *kernel.Sentence
	train *kernel.Sentence

	inputs  []int
	outputs []int
	targets []int
	rate    int
	hasRate bool

	nonFiniteWarned bool
}

// New builds a VM from a compiled Program, taking its own private copy of
// the program's initial buffer so multiple VMs can be instantiated from
// one Program without sharing state.
func New(p *compile.Program) *VM {
	return &VM{
		buf:     p.Table.SnapshotInitialValues(),
		feed:    p.Feed,
		trace:   p.Trace,
		train:   p.Train,
		inputs:  p.Table.Inputs(),
		outputs: p.Table.Outputs(),
		targets: p.Table.Targets(),
		rate:    rateOrZero(p),
		hasRate: hasRate(p),
	}
}

func rateOrZero(p *compile.Program) int {
	slot, ok := p.Table.Rate()
	if !ok {
		return 0
	}
	return slot
}

func hasRate(p *compile.Program) bool {
	_, ok := p.Table.Rate()
	return ok
}

// Feed writes inputs into the input slots, executes the feed kernel, and
// returns the output slots' values. It does not run the trace kernel —
// tracing only matters when a Train call will follow, so Feed-only
// inference skips the extra work.
func (vm *VM) Feed(inputs []float64) ([]float64, error) {
	if len(inputs) != len(vm.inputs) {
		return nil, ravelerr.ShapeMismatchError{Want: len(vm.inputs), Got: len(inputs)}
	}
	for i, slot := range vm.inputs {
		vm.buf[slot] = inputs[i]
	}
	kernel.Execute(vm.buf, vm.feed)

	out := make([]float64, len(vm.outputs))
	for i, slot := range vm.outputs {
		out[i] = vm.buf[slot]
	}
	vm.warnOnNonFinite(out)
	return out, nil
}

// Train runs the trace kernel and then the train kernel against targets,
// using whatever activations are already in the buffer from the most
// recent Feed call. It does not call Feed itself.
func (vm *VM) Train(rate float64, targets []float64) error {
	if len(targets) != len(vm.targets) {
		return ravelerr.ShapeMismatchError{Want: len(vm.targets), Got: len(targets)}
	}
	if vm.hasRate {
		vm.buf[vm.rate] = rate
	}
	for i, slot := range vm.targets {
		vm.buf[slot] = targets[i]
	}
	kernel.Execute(vm.buf, vm.trace)
	kernel.Execute(vm.buf, vm.train)
	vm.warnOnNonFinite(vm.buf)
	return nil
}

// warnOnNonFinite logs once, at Warn level, the first time a feed or train
// result goes non-finite. Numerical blow-ups in this model are silent by
// design — the VM keeps computing with whatever NaN/Inf values result —
// this is diagnostics only and never changes what gets returned.
func (vm *VM) warnOnNonFinite(vals []float64) {
	if vm.nonFiniteWarned {
		return
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			logrus.WithField("value", v).Warn("unrolled: feed/train result went non-finite")
			vm.nonFiniteWarned = true
			return
		}
	}
}

// Buffer returns the VM's live variable buffer. Callers must not retain a
// reference across a Feed or Train call that might reallocate it; none of
// the VM's own operations do, but future growth of the buffer format
// should not be assumed stable.
func (vm *VM) Buffer() []float64 { return vm.buf }
