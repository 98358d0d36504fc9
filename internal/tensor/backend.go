package tensor

// Backend defines the kernels a compute backend must implement.
//
// Kernels read their operands through any view (strided, offset, broadcast)
// and always return a freshly allocated contiguous RawTensor; they never
// write into an operand. Preconditions (shape compatibility, axes in range)
// are validated by the caller; a kernel receiving invalid operands panics.
//
// Implementations:
//   - CPU: pure Go, single-threaded (internal/backend/cpu)
type Backend interface {
	// Element-wise binary operations with broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, s float32) *RawTensor // x + s
	MulScalar(x *RawTensor, s float32) *RawTensor // x * s
	ScalarDiv(s float32, x *RawTensor) *RawTensor // s / x

	// Math operations (element-wise).
	Neg(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Abs(x *RawTensor) *RawTensor
	Sign(x *RawTensor) *RawTensor
	Pow(x *RawTensor, p float32) *RawTensor
	Clamp(x *RawTensor, lo, hi float32) *RawTensor

	// Masks: 1 where the predicate holds, 0 elsewhere.
	GreaterScalar(x *RawTensor, s float32) *RawTensor // x > s
	InRange(x *RawTensor, lo, hi float32) *RawTensor  // lo <= x <= hi

	// Activation functions.
	Sigmoid(x *RawTensor) *RawTensor
	ReLU(x *RawTensor) *RawTensor
	Softmax(x *RawTensor, axis int) *RawTensor
	LogSoftmax(x *RawTensor, axis int) *RawTensor

	// MatMul multiplies 2-D operands: [m, k] @ [k, n] -> [m, n].
	MatMul(a, b *RawTensor) *RawTensor

	// Reductions over normalized axes.
	SumAxes(x *RawTensor, axes []int, keepDims bool) *RawTensor
	MaxAxes(x *RawTensor, axes []int, keepDims bool) *RawTensor
	MinAxes(x *RawTensor, axes []int, keepDims bool) *RawTensor
	ArgMax(x *RawTensor, axis int) *RawTensor // indices as float32, axis removed

	// ExtremumMask marks, within each group reduced over axes, the first
	// position (row-major) holding the max (largest) or min value.
	ExtremumMask(x *RawTensor, axes []int, largest bool) *RawTensor

	// Indexing.
	Gather(x *RawTensor, axis int, indices []int) *RawTensor
	// ScatterAdd is the adjoint of Gather: a zero tensor of shape with
	// src's slices added at indices along axis.
	ScatterAdd(src *RawTensor, shape Shape, axis int, indices []int) *RawTensor
	// PadSlice is the adjoint of Slice: a zero tensor of shape with src
	// written at [start, start+len) along axis.
	PadSlice(src *RawTensor, shape Shape, axis, start int) *RawTensor

	// Metadata.
	Name() string
}
