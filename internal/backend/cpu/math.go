package cpu

import (
	"math"

	"github.com/born-ml/autograd/internal/tensor"
)

// Neg computes element-wise negation: -x.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return -v })
}

// Exp computes element-wise exponential: exp(x).
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Log computes element-wise natural logarithm: ln(x).
// Non-positive inputs give NaN or -Inf.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return float32(math.Log(float64(v))) })
}

// Sqrt computes element-wise square root: sqrt(x).
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

// Abs computes element-wise absolute value: |x|.
func (cpu *CPUBackend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return float32(math.Abs(float64(v))) })
}

// Sign returns -1, 0 or 1 per element. NaN stays NaN.
func (cpu *CPUBackend) Sign(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		default:
			return v // 0, -0 or NaN
		}
	})
}

// Pow raises every element to the power p.
// A negative base with a fractional exponent gives NaN.
func (cpu *CPUBackend) Pow(x *tensor.RawTensor, p float32) *tensor.RawTensor {
	exp := float64(p)
	return unaryOp(x, func(v float32) float32 { return float32(math.Pow(float64(v), exp)) })
}

// Clamp limits every element to [lo, hi]. When lo > hi every element
// becomes hi.
func (cpu *CPUBackend) Clamp(x *tensor.RawTensor, lo, hi float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 {
		return min(max(v, lo), hi)
	})
}
