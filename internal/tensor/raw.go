package tensor

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// RawTensor is the low-level tensor representation: a (shape, strides,
// offset) view over a reference-counted float32 storage.
//
// Several RawTensors may alias the same storage (transpose, slice, broadcast
// views). Writes go through makeUnique, so a mutation through one view is
// never observed through another.
type RawTensor struct {
	buffer *storage // Shared reference-counted buffer
	shape  Shape    // Tensor dimensions
	stride []int    // Per-dimension element strides, 0 on broadcast axes
	offset int      // Offset into buffer for slices
}

// NewRaw creates a zero-filled contiguous RawTensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid shape")
	}
	return &RawTensor{
		buffer: newStorage(make([]float32, shape.NumElements())),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}

// FromSlice creates a contiguous RawTensor holding a copy of data.
// Fails with ErrShapeMismatch if len(data) != shape.NumElements().
func FromSlice(data []float32, shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid shape")
	}
	if len(data) != shape.NumElements() {
		return nil, errors.Wrapf(ErrShapeMismatch, "data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	owned := make([]float32, len(data))
	copy(owned, data)
	return FromBuffer(owned, shape), nil
}

// Full creates a contiguous RawTensor filled with value.
func Full(shape Shape, value float32) (*RawTensor, error) {
	r, err := NewRaw(shape)
	if err != nil {
		return nil, err
	}
	data := r.buffer.data
	for i := range data {
		data[i] = value
	}
	return r, nil
}

// FromBuffer takes ownership of data (no copy) as a contiguous tensor.
// It is meant for kernels that just allocated their result buffer.
func FromBuffer(data []float32, shape Shape) *RawTensor {
	if len(data) != shape.NumElements() {
		exceptions.Panicf("FromBuffer: %d values for shape %v", len(data), shape)
	}
	return &RawTensor{
		buffer: newStorage(data),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}
}

// Shape returns the tensor's shape. The returned slice must not be modified.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's element strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Offset returns the view's offset into its storage.
func (r *RawTensor) Offset() int {
	return r.offset
}

// Rank returns the number of dimensions.
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// IsContiguous reports whether the view has zero offset and canonical
// row-major strides. Only contiguous views expose a flat slice.
func (r *RawTensor) IsContiguous() bool {
	if r.offset != 0 {
		return false
	}
	expected := r.shape.ComputeStrides()
	for i := range expected {
		if r.stride[i] != expected[i] {
			return false
		}
	}
	return true
}

// AsSlice returns the flat buffer of a contiguous view.
// The slice aliases storage and must not be modified; use WithMutData to write.
func (r *RawTensor) AsSlice() ([]float32, error) {
	if !r.IsContiguous() {
		return nil, errors.Wrapf(ErrNotContiguous, "shape %v strides %v offset %d", r.shape, r.stride, r.offset)
	}
	return r.buffer.data[:r.NumElements()], nil
}

// Data returns a copy of the elements in row-major logical order.
// Works for any view.
func (r *RawTensor) Data() []float32 {
	out := make([]float32, r.NumElements())
	if r.IsContiguous() {
		copy(out, r.buffer.data)
		return out
	}
	src := r.buffer.data
	r.forEachOffset(func(i, off int) {
		out[i] = src[off]
	})
	return out
}

// Get returns the element at the given multi-index.
func (r *RawTensor) Get(indices ...int) (float32, error) {
	flat, err := r.flatIndex(indices)
	if err != nil {
		return 0, err
	}
	return r.buffer.data[flat], nil
}

// Set writes value at the given multi-index. A shared storage is cloned
// first.
func (r *RawTensor) Set(value float32, indices ...int) error {
	flat, err := r.flatIndex(indices)
	if err != nil {
		return err
	}
	r.makeUnique()
	r.buffer.data[flat] = value
	return nil
}

// WithMutData hands the caller a private flat buffer of the view's elements.
// Non-contiguous views are materialized into a new contiguous storage first.
func (r *RawTensor) WithMutData(f func(data []float32)) {
	if !r.IsContiguous() {
		materialized := newStorage(r.Data())
		r.buffer.release()
		r.buffer = materialized
		r.stride = r.shape.ComputeStrides()
		r.offset = 0
	} else {
		r.makeUnique()
	}
	f(r.buffer.data[:r.NumElements()])
}

// Clone creates a shallow copy of the RawTensor (shares buffer with reference counting).
// The buffer is copied only when one of the holders writes (copy-on-write).
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		offset: r.offset,
	}
}

// Release decrements the storage reference count. The view must not be used
// afterwards.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique returns true if this view is the only holder of its storage.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}

// SharesStorage reports whether two views alias the same buffer.
func (r *RawTensor) SharesStorage(other *RawTensor) bool {
	return r.buffer == other.buffer
}

// Contiguous returns a contiguous tensor with the same values: a shared
// clone when the view is already contiguous, a fresh copy otherwise.
func (r *RawTensor) Contiguous() *RawTensor {
	if r.IsContiguous() {
		return r.Clone()
	}
	return FromBuffer(r.Data(), r.shape)
}

// String implements fmt.Stringer.
func (r *RawTensor) String() string {
	const preview = 8
	data := r.Data()
	var sb strings.Builder
	fmt.Fprintf(&sb, "RawTensor(shape=%v, strides=%v, offset=%d, data=", []int(r.shape), r.stride, r.offset)
	if len(data) > preview {
		fmt.Fprintf(&sb, "%v...", data[:preview])
	} else {
		fmt.Fprintf(&sb, "%v", data)
	}
	sb.WriteString(")")
	return sb.String()
}

// makeUnique clones the storage when other views hold it.
func (r *RawTensor) makeUnique() {
	if r.buffer.isUnique() {
		return
	}
	private := r.buffer.clone()
	r.buffer.release()
	r.buffer = private
}

// flatIndex maps a multi-index to a storage position:
// offset + Σ idx[i]*strides[i].
func (r *RawTensor) flatIndex(indices []int) (int, error) {
	if len(indices) != len(r.shape) {
		return 0, errors.Wrapf(ErrIndexOutOfBounds, "%d indices for rank %d tensor", len(indices), len(r.shape))
	}
	flat := r.offset
	for i, idx := range indices {
		if idx < 0 || idx >= r.shape[i] {
			return 0, errors.Wrapf(ErrIndexOutOfBounds, "index %d for dimension %d of size %d", idx, i, r.shape[i])
		}
		flat += idx * r.stride[i]
	}
	return flat, nil
}

// forEachOffset calls fn(i, off) for every element in row-major logical
// order, where off is the element's position in storage.
func (r *RawTensor) forEachOffset(fn func(i, off int)) {
	n := r.NumElements()
	rank := len(r.shape)
	idx := make([]int, rank)
	off := r.offset
	for i := 0; i < n; i++ {
		fn(i, off)
		for d := rank - 1; d >= 0; d-- {
			idx[d]++
			off += r.stride[d]
			if idx[d] < r.shape[d] {
				break
			}
			off -= r.stride[d] * r.shape[d]
			idx[d] = 0
		}
	}
}
