package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/pkg/errors"
)

// Element-wise arithmetic. Binary ops broadcast their operands; shapes that
// cannot be reconciled fail with tensor.ErrNotBroadcastable, which is also a
// tensor.ErrShapeMismatch.

// Add returns t + other.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if err := checkBroadcast("add", t, other); err != nil {
		return nil, err
	}
	raw := t.backend.Add(t.raw, other.raw)
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradAdd} }, t, other), nil
}

// Sub returns t - other.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	if err := checkBroadcast("sub", t, other); err != nil {
		return nil, err
	}
	raw := t.backend.Sub(t.raw, other.raw)
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradSub} }, t, other), nil
}

// Mul returns the element-wise product t * other.
func (t *Tensor) Mul(other *Tensor) (*Tensor, error) {
	if err := checkBroadcast("mul", t, other); err != nil {
		return nil, err
	}
	raw := t.backend.Mul(t.raw, other.raw)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradMul, saved: []*tensor.RawTensor{t.raw.Clone(), other.raw.Clone()}}
	}, t, other), nil
}

// Div returns t / other. Zero divisors are not checked: they give ±Inf or
// NaN per IEEE-754.
func (t *Tensor) Div(other *Tensor) (*Tensor, error) {
	if err := checkBroadcast("div", t, other); err != nil {
		return nil, err
	}
	raw := t.backend.Div(t.raw, other.raw)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradDiv, saved: []*tensor.RawTensor{t.raw.Clone(), other.raw.Clone()}}
	}, t, other), nil
}

// AddScalar returns t + s.
func (t *Tensor) AddScalar(s float32) *Tensor {
	raw := t.backend.AddScalar(t.raw, s)
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradIdentity} }, t)
}

// SubScalar returns t - s.
func (t *Tensor) SubScalar(s float32) *Tensor {
	return t.AddScalar(-s)
}

// MulScalar returns t * s.
func (t *Tensor) MulScalar(s float32) *Tensor {
	raw := t.backend.MulScalar(t.raw, s)
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradScale, scalar: s} }, t)
}

// DivScalar returns t / s. Fails with tensor.ErrDivisionByZero when s is 0.
func (t *Tensor) DivScalar(s float32) (*Tensor, error) {
	if s == 0 {
		return nil, errors.Wrapf(tensor.ErrDivisionByZero, "tensor of shape %v divided by scalar 0", t.Shape())
	}
	divisor := tensor.FromBuffer([]float32{s}, tensor.Shape{})
	raw := t.backend.Div(t.raw, divisor)
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradScale, scalar: 1 / s} }, t), nil
}

// ScalarSub returns s - t.
func (t *Tensor) ScalarSub(s float32) *Tensor {
	raw := t.backend.AddScalar(t.backend.Neg(t.raw), s)
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradNeg} }, t)
}

// ScalarDiv returns s / t. Zero elements of t are not checked.
func (t *Tensor) ScalarDiv(s float32) *Tensor {
	raw := t.backend.ScalarDiv(s, t.raw)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradScalarDiv, saved: []*tensor.RawTensor{t.raw.Clone()}, scalar: s}
	}, t)
}

func checkBroadcast(op string, a, b *Tensor) error {
	if _, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape()); err != nil {
		return errors.WithMessage(err, op)
	}
	return nil
}
