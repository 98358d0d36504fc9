package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/pkg/errors"
)

// Shape ops return views sharing t's storage where the layout allows it.
// Writes through either tensor never show through the other.

// Reshape returns t with a new shape of the same element count. Contiguous
// tensors are reshaped as views; others are copied first.
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	raw, err := t.raw.Reshape(tensor.Shape(shape))
	if err != nil {
		return nil, err
	}
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradReshape} }, t), nil
}

// Transpose permutes the axes; with no arguments the axes are reversed.
// The result is a strided view, so AsSlice on it fails until Contiguous is
// called.
func (t *Tensor) Transpose(axes ...int) (*Tensor, error) {
	raw, err := t.raw.Transpose(axes...)
	if err != nil {
		return nil, err
	}
	perm := axes
	if len(perm) == 0 {
		perm = make([]int, t.Rank())
		for i := range perm {
			perm[i] = t.Rank() - 1 - i
		}
	}
	perm = append([]int(nil), perm...)
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradTranspose, axes: perm} }, t), nil
}

// Squeeze removes axis, which must have size 1.
func (t *Tensor) Squeeze(axis int) (*Tensor, error) {
	raw, err := t.raw.Squeeze(axis)
	if err != nil {
		return nil, err
	}
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradReshape} }, t), nil
}

// Unsqueeze inserts a size-1 axis at position axis (0..rank).
func (t *Tensor) Unsqueeze(axis int) (*Tensor, error) {
	raw, err := t.raw.Unsqueeze(axis)
	if err != nil {
		return nil, err
	}
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradReshape} }, t), nil
}

// BroadcastTo expands t to shape without copying: expanded axes get stride 0.
// Fails with tensor.ErrNotBroadcastable on incompatible shapes.
func (t *Tensor) BroadcastTo(shape ...int) (*Tensor, error) {
	raw, err := t.raw.BroadcastTo(tensor.Shape(shape))
	if err != nil {
		return nil, err
	}
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradBroadcast} }, t), nil
}

// Slice returns the view of length elements from start along axis.
func (t *Tensor) Slice(axis, start, length int) (*Tensor, error) {
	raw, err := t.raw.Slice(axis, start, length)
	if err != nil {
		return nil, err
	}
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradSlice, axes: []int{axis}, start: start}
	}, t), nil
}

// Gather selects the slices at indices along axis; indices may repeat.
// The result has t's shape with dimension axis replaced by len(indices).
func (t *Tensor) Gather(axis int, indices []int) (*Tensor, error) {
	if err := checkAxis("gather", axis, t.Rank()); err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, errors.Wrap(tensor.ErrShapeMismatch, "gather: no indices")
	}
	size := t.Shape()[axis]
	for _, idx := range indices {
		if idx < 0 || idx >= size {
			return nil, errors.Wrapf(tensor.ErrIndexOutOfBounds, "gather: index %d for dimension %d of size %d", idx, axis, size)
		}
	}
	indices = append([]int(nil), indices...)
	raw := t.backend.Gather(t.raw, axis, indices)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradGather, axes: []int{axis}, indices: indices}
	}, t), nil
}

// Contiguous returns a row-major copy of t, or a shared view when t is
// already contiguous. Gradients pass through unchanged.
func (t *Tensor) Contiguous() *Tensor {
	return derive(t.raw.Contiguous(), t.backend, func() *GradFn { return &GradFn{kind: GradIdentity} }, t)
}
