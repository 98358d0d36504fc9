// Package autodiff implements reverse-mode automatic differentiation over
// float32 tensors.
//
// Every Tensor is a value (a view over copy-on-write storage) plus a graph
// node. Operations on tensors that require gradients record a GradFn and
// their operands as parents; Backward walks that graph once in reverse
// topological order and accumulates gradients into every reachable node.
//
// Architecture:
//   - Per-tensor graph edges: no global tape, each result points at its parents
//   - GradFn: closed set of derivative rules dispatched by a single switch
//   - Backend: kernels that compute forward values and gradient expressions
//
// Usage:
//
//	backend := cpu.New()
//	x, _ := autodiff.WithGrad([]float32{2, 3, 4}, tensor.Shape{3}, backend)
//	y := x.Pow(3).Sum()
//	_ = y.Backward()
//	fmt.Println(x.Grad()) // 3x² = [12 27 48]
package autodiff

import (
	"fmt"
	"strings"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Tensor is an N-dimensional float32 array with an optional place in a
// computation graph.
//
// Tensors are used through pointers; two Tensors with equal contents are
// distinct graph nodes.
type Tensor struct {
	raw     *tensor.RawTensor
	backend tensor.Backend
	node
}

// FromRaw wraps raw as a leaf tensor. The tensor takes ownership of raw.
func FromRaw(raw *tensor.RawTensor, b tensor.Backend) *Tensor {
	return &Tensor{raw: raw, backend: b, node: newNode(false)}
}

// New creates a leaf tensor holding a copy of data.
// Fails with tensor.ErrShapeMismatch if len(data) != shape.NumElements().
func New(data []float32, shape tensor.Shape, b tensor.Backend) (*Tensor, error) {
	raw, err := tensor.FromSlice(data, shape)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw, b), nil
}

// WithGrad is New with requires_grad set.
func WithGrad(data []float32, shape tensor.Shape, b tensor.Backend) (*Tensor, error) {
	t, err := New(data, shape, b)
	if err != nil {
		return nil, err
	}
	t.requiresGrad = true
	return t, nil
}

// Full creates a leaf tensor filled with value.
func Full(value float32, shape tensor.Shape, b tensor.Backend) (*Tensor, error) {
	raw, err := tensor.Full(shape, value)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw, b), nil
}

// Zeros creates a zero-filled leaf tensor.
func Zeros(shape tensor.Shape, b tensor.Backend) (*Tensor, error) {
	return Full(0, shape, b)
}

// Ones creates a leaf tensor filled with ones.
func Ones(shape tensor.Shape, b tensor.Backend) (*Tensor, error) {
	return Full(1, shape, b)
}

// FromScalar creates a 0-d leaf tensor.
func FromScalar(value float32, b tensor.Backend) *Tensor {
	return FromRaw(tensor.FromBuffer([]float32{value}, tensor.Shape{}), b)
}

// FromFloat16 creates a leaf tensor from half-precision values.
func FromFloat16(data []float16.Float16, shape tensor.Shape, b tensor.Backend) (*Tensor, error) {
	raw, err := tensor.FromFloat16(data, shape)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw, b), nil
}

// Raw returns the underlying RawTensor.
func (t *Tensor) Raw() *tensor.RawTensor {
	return t.raw
}

// Backend returns the backend computing this tensor's ops.
func (t *Tensor) Backend() tensor.Backend {
	return t.backend
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() tensor.Shape {
	return t.raw.Shape()
}

// Strides returns the element strides of the view.
func (t *Tensor) Strides() []int {
	return t.raw.Strides()
}

// Offset returns the view's offset into its storage.
func (t *Tensor) Offset() int {
	return t.raw.Offset()
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return t.raw.Rank()
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.raw.NumElements()
}

// IsScalar reports whether the tensor holds exactly one element.
func (t *Tensor) IsScalar() bool {
	return t.raw.NumElements() == 1
}

// AsScalar returns the single element of a one-element tensor.
func (t *Tensor) AsScalar() (float32, error) {
	if !t.IsScalar() {
		return 0, errors.Wrapf(tensor.ErrShapeMismatch, "as scalar: tensor has shape %v", t.Shape())
	}
	return t.raw.Data()[0], nil
}

// AsSlice returns the flat buffer of a contiguous tensor. It must not be
// modified; fails with tensor.ErrNotContiguous on strided or offset views.
func (t *Tensor) AsSlice() ([]float32, error) {
	return t.raw.AsSlice()
}

// Data returns a copy of the elements in row-major order.
func (t *Tensor) Data() []float32 {
	return t.raw.Data()
}

// Get returns the element at the given multi-index.
func (t *Tensor) Get(indices ...int) (float32, error) {
	return t.raw.Get(indices...)
}

// Set writes value at the given multi-index. Other tensors sharing the
// storage, including state saved for backward, are not affected.
func (t *Tensor) Set(value float32, indices ...int) error {
	return t.raw.Set(value, indices...)
}

// WithMutData hands f a private flat buffer of the tensor's values, for
// in-place updates such as optimizer steps.
func (t *Tensor) WithMutData(f func(data []float32)) {
	t.raw.WithMutData(f)
}

// IsContiguous reports whether the tensor is a zero-offset row-major view.
func (t *Tensor) IsContiguous() bool {
	return t.raw.IsContiguous()
}

// ID returns the node's unique identity.
func (t *Tensor) ID() int64 {
	return t.id
}

// RequiresGrad reports whether gradients flow to this tensor.
func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

// SetRequiresGrad sets the flag and returns t. Turning it off drops the
// tensor's history, as ClearGraph does.
func (t *Tensor) SetRequiresGrad(requiresGrad bool) *Tensor {
	t.requiresGrad = requiresGrad
	if !requiresGrad {
		t.dropHistory()
		t.released = false
	}
	return t
}

// IsLeaf reports whether the tensor has no producing op in the graph.
func (t *Tensor) IsLeaf() bool {
	return t.gradFn == nil
}

// GradFn returns the backward rule that produced t, or nil for leaves.
func (t *Tensor) GradFn() *GradFn {
	return t.gradFn
}

// Parents returns the operands of the op that produced t, in rule order.
func (t *Tensor) Parents() []*Tensor {
	return append([]*Tensor(nil), t.parents...)
}

// Grad returns the accumulated gradient as a new tensor that does not
// require gradients, or nil before any backward contribution.
func (t *Tensor) Grad() *Tensor {
	if t.grad == nil {
		return nil
	}
	return FromRaw(t.grad.Clone(), t.backend)
}

// ZeroGrad clears the accumulated gradient.
func (t *Tensor) ZeroGrad() {
	if t.grad != nil {
		t.grad.Release()
	}
	t.grad = nil
}

// Detach returns a new leaf sharing t's storage, without history and
// without requires_grad.
func (t *Tensor) Detach() *Tensor {
	return FromRaw(t.raw.Clone(), t.backend)
}

// ClearGraph drops t's producing op and parents in place, making it a leaf.
// requires_grad and the accumulated gradient are kept.
func (t *Tensor) ClearGraph() {
	t.dropHistory()
	t.released = false
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	const preview = 8
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor(shape=%v", []int(t.Shape()))
	if t.requiresGrad {
		sb.WriteString(", requires_grad=true")
	}
	if t.gradFn != nil {
		fmt.Fprintf(&sb, ", grad_fn=%s", t.gradFn.kind)
	}
	data := t.Data()
	if len(data) > preview {
		fmt.Fprintf(&sb, ", data=%v...)", data[:preview])
	} else {
		fmt.Fprintf(&sb, ", data=%v)", data)
	}
	return sb.String()
}

// derive wraps the forward result raw as the output of an op over parents.
// The GradFn is built, and the parents kept, only when some parent requires
// gradients.
func derive(raw *tensor.RawTensor, b tensor.Backend, rule func() *GradFn, parents ...*Tensor) *Tensor {
	out := FromRaw(raw, b)
	for _, p := range parents {
		if p.requiresGrad {
			out.requiresGrad = true
			break
		}
	}
	if !out.requiresGrad {
		return out
	}

	fn := rule()
	fn.shapes = make([]tensor.Shape, len(parents))
	for i, p := range parents {
		fn.shapes[i] = p.Shape().Clone()
	}
	out.gradFn = fn
	out.parents = parents
	traceOp(out)
	return out
}
