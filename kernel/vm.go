// Package kernel implements the kernel sentence IR and the straight-line
// interpreter that executes it.
//
// The teacher dispatches opcodes through a fixed-size array of functions
// indexed by opcode (kernels.Catalog, kernels.GetKernel) operating in-place
// on a raw []byte SIMD payload. Execute follows the same opcode-indexed
// dispatch-table shape, generalized from byte buffers to a single indexed
// []float64 buffer and from vector transforms to the scalar three-address
// arithmetic the specification requires. No SIMD, assembly, or batching is
// carried forward — the specification's non-goals exclude GPU execution and
// batch evaluation, and every slot in this buffer is a single float64
// scalar, not a vector.
package kernel

import "math"

type execFn func(buf []float64, s Statement)

// dispatch mirrors kernels.Catalog's opcode-indexed function table.
var dispatch = [...]execFn{
	OpConst:              execConst,
	OpMov:                execMov,
	OpZero:               execZero,
	OpAdd2:               execAdd2,
	OpSub2:               execSub2,
	OpMul2:               execMul2,
	OpMulAdd:             execMulAdd,
	OpAddAssign:          execAddAssign,
	OpFMA2:               execFMA2,
	OpFMA3:               execFMA3,
	OpMulAssign:          execMulAssign,
	OpSigmoid:            execSigmoid,
	OpSigmoidDerivative:  execSigmoidDerivative,
}

// Execute runs every statement of sentence against buf, strictly in
// emission order. Statements are pure arithmetic on float64s; overflow or
// non-finite results propagate as NaN/Inf without being trapped, per the
// specification's error-handling policy for numerical errors.
func Execute(buf []float64, sentence *Sentence) {
	for _, st := range sentence.Statements() {
		dispatch[st.Op](buf, st)
	}
}

func execConst(buf []float64, s Statement)   { buf[s.Dst] = s.Lit }
func execMov(buf []float64, s Statement)     { buf[s.Dst] = buf[s.A] }
func execZero(buf []float64, s Statement)    { buf[s.Dst] = 0 }
func execAdd2(buf []float64, s Statement)    { buf[s.Dst] = buf[s.A] + buf[s.B] }
func execSub2(buf []float64, s Statement)    { buf[s.Dst] = buf[s.A] - buf[s.B] }
func execMul2(buf []float64, s Statement)    { buf[s.Dst] = buf[s.A] * buf[s.B] }
func execMulAdd(buf []float64, s Statement)  { buf[s.Dst] = buf[s.A]*buf[s.B] + buf[s.C] }
func execAddAssign(buf []float64, s Statement) { buf[s.Dst] += buf[s.A] }
func execFMA2(buf []float64, s Statement)    { buf[s.Dst] += buf[s.A] * buf[s.B] }
func execFMA3(buf []float64, s Statement)    { buf[s.Dst] += buf[s.A] * buf[s.B] * buf[s.C] }
func execMulAssign(buf []float64, s Statement) { buf[s.Dst] *= buf[s.A] }

func execSigmoid(buf []float64, s Statement) {
	buf[s.Dst] = 1 / (1 + math.Exp(-buf[s.A]))
}

func execSigmoidDerivative(buf []float64, s Statement) {
	a := buf[s.A]
	buf[s.Dst] = a * (1 - a)
}
