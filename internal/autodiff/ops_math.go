package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
)

// Neg returns -t.
func (t *Tensor) Neg() *Tensor {
	raw := t.backend.Neg(t.raw)
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradNeg} }, t)
}

// Pow raises every element to the power p. A negative base with a
// fractional exponent gives NaN.
func (t *Tensor) Pow(p float32) *Tensor {
	raw := t.backend.Pow(t.raw, p)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradPow, saved: []*tensor.RawTensor{t.raw.Clone()}, scalar: p}
	}, t)
}

// Square returns t².
func (t *Tensor) Square() *Tensor {
	return t.Pow(2)
}

// Exp returns e^t.
func (t *Tensor) Exp() *Tensor {
	raw := t.backend.Exp(t.raw)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradExp, saved: []*tensor.RawTensor{raw.Clone()}}
	}, t)
}

// Log returns the natural logarithm. Non-positive elements give NaN or -Inf.
func (t *Tensor) Log() *Tensor {
	raw := t.backend.Log(t.raw)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradLog, saved: []*tensor.RawTensor{t.raw.Clone()}}
	}, t)
}

// Sqrt returns the element-wise square root.
func (t *Tensor) Sqrt() *Tensor {
	raw := t.backend.Sqrt(t.raw)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradSqrt, saved: []*tensor.RawTensor{raw.Clone()}}
	}, t)
}

// Abs returns |t|. The gradient at 0 is 0.
func (t *Tensor) Abs() *Tensor {
	raw := t.backend.Abs(t.raw)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradAbs, saved: []*tensor.RawTensor{t.raw.Clone()}}
	}, t)
}

// Sign returns -1, 0 or 1 per element. It has no backward rule: a backward
// pass reaching it fails with ErrGradientNotImplemented.
func (t *Tensor) Sign() *Tensor {
	raw := t.backend.Sign(t.raw)
	return derive(raw, t.backend, func() *GradFn { return &GradFn{kind: GradSign} }, t)
}

// Clamp limits every element to [lo, hi]; gradients pass only where
// lo <= t <= hi. When lo > hi every element becomes hi.
func (t *Tensor) Clamp(lo, hi float32) *Tensor {
	raw := t.backend.Clamp(t.raw, lo, hi)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradClamp, saved: []*tensor.RawTensor{t.backend.InRange(t.raw, lo, hi)}}
	}, t)
}
