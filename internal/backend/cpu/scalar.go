package cpu

import (
	"github.com/born-ml/autograd/internal/tensor"
)

// Scalar operations - element-wise operations with a scalar value.

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return v + s })
}

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return v * s })
}

// ScalarDiv divides a scalar by each element of the tensor: s / x.
func (cpu *CPUBackend) ScalarDiv(s float32, x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return s / v })
}

// GreaterScalar returns 1 where x > s and 0 elsewhere.
func (cpu *CPUBackend) GreaterScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 {
		if v > s {
			return 1
		}
		return 0
	})
}

// InRange returns 1 where lo <= x <= hi and 0 elsewhere.
func (cpu *CPUBackend) InRange(x *tensor.RawTensor, lo, hi float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 {
		if v >= lo && v <= hi {
			return 1
		}
		return 0
	})
}
