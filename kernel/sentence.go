package kernel

// Sentence is an append-only ordered sequence of kernel statements — the IR
// the per-neuron compiler emits into and the network compiler concatenates,
// and the VM later interprets. Emission order is semantically load-bearing
// (e.g. oldState := state must precede the update to state), so Sentence
// never reorders or optimizes; it only appends and concatenates.
type Sentence struct {
	stmts []Statement
}

// Emit appends a statement to the end of the sentence.
func (s *Sentence) Emit(st Statement) {
	s.stmts = append(s.stmts, st)
}

// Append concatenates other onto the end of s, in order.
func (s *Sentence) Append(other *Sentence) {
	s.stmts = append(s.stmts, other.stmts...)
}

// Len returns the number of statements in the sentence.
func (s *Sentence) Len() int { return len(s.stmts) }

// Statements returns the sentence's statements, in emission order. The
// returned slice must not be mutated by the caller.
func (s *Sentence) Statements() []Statement { return s.stmts }
