package tensor

import "github.com/pkg/errors"

// View operations. Each returns a RawTensor aliasing the receiver's storage
// (reference count incremented) unless noted otherwise. None of them copy
// data, except Reshape on a non-contiguous view.

// Reshape returns a view with a new shape and the same element count.
// Contiguous views are reinterpreted in place; others are materialized first.
func (r *RawTensor) Reshape(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "reshape")
	}
	if shape.NumElements() != r.NumElements() {
		return nil, errors.Wrapf(ErrShapeMismatch, "reshape %v (%d elements) to %v (%d elements)",
			r.shape, r.NumElements(), shape, shape.NumElements())
	}
	if !r.IsContiguous() {
		return FromBuffer(r.Data(), shape), nil
	}
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}

// Transpose permutes the axes. With no arguments all axes are reversed.
func (r *RawTensor) Transpose(axes ...int) (*RawTensor, error) {
	rank := len(r.shape)
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		return nil, errors.Wrapf(ErrShapeMismatch, "transpose: %d axes for rank %d", len(axes), rank)
	}
	seen := make([]bool, rank)
	shape := make(Shape, rank)
	stride := make([]int, rank)
	for i, ax := range axes {
		if ax < 0 || ax >= rank {
			return nil, errors.Wrapf(ErrIndexOutOfBounds, "transpose: axis %d for rank %d", ax, rank)
		}
		if seen[ax] {
			return nil, errors.Wrapf(ErrShapeMismatch, "transpose: duplicate axis %d", ax)
		}
		seen[ax] = true
		shape[i] = r.shape[ax]
		stride[i] = r.stride[ax]
	}
	r.buffer.addRef()
	return &RawTensor{buffer: r.buffer, shape: shape, stride: stride, offset: r.offset}, nil
}

// Slice returns the view of length elements starting at start along axis.
func (r *RawTensor) Slice(axis, start, length int) (*RawTensor, error) {
	if axis < 0 || axis >= len(r.shape) {
		return nil, errors.Wrapf(ErrIndexOutOfBounds, "slice: axis %d for rank %d", axis, len(r.shape))
	}
	if start < 0 || length <= 0 || start+length > r.shape[axis] {
		return nil, errors.Wrapf(ErrIndexOutOfBounds, "slice: [%d, %d) of dimension %d with size %d",
			start, start+length, axis, r.shape[axis])
	}
	shape := r.shape.Clone()
	shape[axis] = length
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  shape,
		stride: append([]int(nil), r.stride...),
		offset: r.offset + start*r.stride[axis],
	}, nil
}

// BroadcastTo returns a view expanded to target. Source dimensions of size 1
// that grow, and new leading dimensions, get stride 0.
func (r *RawTensor) BroadcastTo(target Shape) (*RawTensor, error) {
	if err := target.Validate(); err != nil {
		return nil, errors.WithMessage(err, "broadcast")
	}
	if len(target) < len(r.shape) {
		return nil, errors.Wrapf(ErrNotBroadcastable, "cannot broadcast %v to lower rank %v", r.shape, target)
	}
	lead := len(target) - len(r.shape)
	stride := make([]int, len(target))
	for i := range target {
		if i < lead {
			continue
		}
		src := r.shape[i-lead]
		switch {
		case src == target[i]:
			stride[i] = r.stride[i-lead]
		case src == 1:
			stride[i] = 0
		default:
			return nil, errors.Wrapf(ErrNotBroadcastable, "cannot broadcast %v to %v (dimension %d: %d vs %d)",
				r.shape, target, i, src, target[i])
		}
	}
	r.buffer.addRef()
	return &RawTensor{buffer: r.buffer, shape: target.Clone(), stride: stride, offset: r.offset}, nil
}

// Squeeze removes axis, which must have size 1.
func (r *RawTensor) Squeeze(axis int) (*RawTensor, error) {
	if axis < 0 || axis >= len(r.shape) {
		return nil, errors.Wrapf(ErrIndexOutOfBounds, "squeeze: axis %d for rank %d", axis, len(r.shape))
	}
	if r.shape[axis] != 1 {
		return nil, errors.Wrapf(ErrShapeMismatch, "squeeze: axis %d has size %d", axis, r.shape[axis])
	}
	shape := make(Shape, 0, len(r.shape)-1)
	stride := make([]int, 0, len(r.shape)-1)
	for i := range r.shape {
		if i != axis {
			shape = append(shape, r.shape[i])
			stride = append(stride, r.stride[i])
		}
	}
	r.buffer.addRef()
	return &RawTensor{buffer: r.buffer, shape: shape, stride: stride, offset: r.offset}, nil
}

// Unsqueeze inserts a size-1 axis at position axis (0..rank).
func (r *RawTensor) Unsqueeze(axis int) (*RawTensor, error) {
	rank := len(r.shape)
	if axis < 0 || axis > rank {
		return nil, errors.Wrapf(ErrIndexOutOfBounds, "unsqueeze: axis %d for rank %d", axis, rank)
	}
	inner := 1
	if axis < rank {
		inner = r.stride[axis] * r.shape[axis]
	}
	shape := make(Shape, 0, rank+1)
	stride := make([]int, 0, rank+1)
	shape = append(shape, r.shape[:axis]...)
	shape = append(shape, 1)
	shape = append(shape, r.shape[axis:]...)
	stride = append(stride, r.stride[:axis]...)
	stride = append(stride, inner)
	stride = append(stride, r.stride[axis:]...)
	r.buffer.addRef()
	return &RawTensor{buffer: r.buffer, shape: shape, stride: stride, offset: r.offset}, nil
}
