// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/backend/cpu"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/x448/float16"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
// The empty shape is a 0-d scalar.
type Shape = tensor.Shape

// Tensor is a float32 tensor that participates in automatic differentiation.
//
// Operations on tensors that require gradients record a GradFn and their
// parents; Backward replays the recorded graph in reverse.
//
// Example:
//
//	w := tensor.MustNew([]float32{0.5, -1}, tensor.Shape{2}).SetRequiresGrad(true)
//	x := tensor.MustNew([]float32{3, 4}, tensor.Shape{2})
//	loss, _ := w.Mul(x)
//	_ = loss.Sum().Backward()
//	// w.Grad() == [3 4]
type Tensor = autodiff.Tensor

// RawTensor is the value layer below Tensor: shape, strides and offset over
// shared copy-on-write storage, without graph information.
type RawTensor = tensor.RawTensor

// Backend computes the forward kernels. See backend/cpu.
type Backend = tensor.Backend

// Errors returned by tensor operations. Compare with errors.Is.
var (
	ErrShapeMismatch    = tensor.ErrShapeMismatch
	ErrNotBroadcastable = tensor.ErrNotBroadcastable
	ErrIndexOutOfBounds = tensor.ErrIndexOutOfBounds
	ErrNotContiguous    = tensor.ErrNotContiguous
	ErrDivisionByZero   = tensor.ErrDivisionByZero
)

var defaultBackend = cpu.New()

// DefaultBackend returns the backend used by the constructors of this
// package.
func DefaultBackend() Backend {
	return defaultBackend
}

// New creates a tensor from data, copied, on the default CPU backend.
// Returns ErrShapeMismatch if len(data) differs from shape.NumElements().
func New(data []float32, shape Shape) (*Tensor, error) {
	return autodiff.New(data, shape, defaultBackend)
}

// MustNew is like New but panics on error.
func MustNew(data []float32, shape Shape) *Tensor {
	t, err := New(data, shape)
	if err != nil {
		panic(err)
	}
	return t
}

// WithGrad creates a leaf tensor that requires gradients.
func WithGrad(data []float32, shape Shape) (*Tensor, error) {
	return autodiff.WithGrad(data, shape, defaultBackend)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) (*Tensor, error) {
	return autodiff.Zeros(shape, defaultBackend)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) (*Tensor, error) {
	return autodiff.Ones(shape, defaultBackend)
}

// Full creates a tensor filled with value.
func Full(value float32, shape Shape) (*Tensor, error) {
	return autodiff.Full(value, shape, defaultBackend)
}

// FromScalar creates a 0-d tensor.
func FromScalar(value float32) *Tensor {
	return autodiff.FromScalar(value, defaultBackend)
}

// FromFloat16 creates a tensor from half-precision values, widened to
// float32.
func FromFloat16(data []float16.Float16, shape Shape) (*Tensor, error) {
	return autodiff.FromFloat16(data, shape, defaultBackend)
}

// FromRaw wraps an existing raw tensor as a leaf on backend b.
func FromRaw(raw *RawTensor, b Backend) *Tensor {
	return autodiff.FromRaw(raw, b)
}
