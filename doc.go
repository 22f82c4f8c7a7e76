// Package ravel compiles gated, self-connected neuron graphs into flat
// kernel programs and runs them with a small virtual machine.
//
// Ravel reimagines recurrent backpropagation (RTRL) as an ahead-of-time
// compilation problem: a graph of neurons and connections, wired up once
// by the caller, is compiled in two phases - an allocation pass that gives
// every neuron's state, bias, weights and scratch values a slot in a flat
// buffer, and emission passes that lower the feed, trace and train
// update equations into three-address kernel statements over those slots.
// The resulting program has no further graph pointers in it; running it
// is pure buffer arithmetic.
//
// # Architecture Overview
//
// The ravel engine consists of several key components:
//
//   - graph: the object-layer neuron/connection representation, plus a
//     naive reference evaluator used to check compiled output against
//   - vartable: the compile-time slot allocator backing a flat buffer
//   - kernel: the opcode/statement/sentence IR and its dispatch loop
//   - compile: lowers a graph into feed/trace/train kernel sentences
//   - unrolled: the VM that owns the buffer and runs compiled sentences
//   - fuzzy: tolerance-based float comparison and loss functions
//   - cmd: command-line tools (ravelc, ravelrun)
//
// # Basic Usage
//
//	// Compile a network description to a binary model
//	ravelc -validate network.json model.ravel
//
//	// Load and run it
//	vm, err := unrolled.Load(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	output, err := vm.Feed([]float64{1.0, 0.5})
//	if err != nil {
//	    log.Fatal(err)
//	}
package ravel
