package cpu

import (
	"math"

	"github.com/born-ml/autograd/internal/tensor"
)

// Sigmoid computes σ(x) = 1 / (1 + exp(-x)) element-wise.
// Uses the numerically stable form for negative inputs.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 {
		if v >= 0 {
			return float32(1 / (1 + math.Exp(-float64(v))))
		}
		e := math.Exp(float64(v))
		return float32(e / (1 + e))
	})
}

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Softmax computes softmax along the specified axis.
// Softmax(x_i) = exp(x_i - max) / sum(exp(x_j - max)) for all j along axis.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, axis int) *tensor.RawTensor {
	outer, size, inner := splitAxis("softmax", x.Shape(), axis)
	data := x.Data()
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*size*inner + i
			maxVal := rowMax(data, base, size, inner)

			var sum float64
			for j := 0; j < size; j++ {
				idx := base + j*inner
				e := math.Exp(float64(data[idx] - maxVal))
				data[idx] = float32(e)
				sum += e
			}
			for j := 0; j < size; j++ {
				idx := base + j*inner
				data[idx] = float32(float64(data[idx]) / sum)
			}
		}
	}
	return tensor.FromBuffer(data, x.Shape())
}

// LogSoftmax computes log(softmax(x)) along axis as x - max - log(sum(exp(x - max))).
func (cpu *CPUBackend) LogSoftmax(x *tensor.RawTensor, axis int) *tensor.RawTensor {
	outer, size, inner := splitAxis("log_softmax", x.Shape(), axis)
	data := x.Data()
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*size*inner + i
			maxVal := rowMax(data, base, size, inner)

			var sum float64
			for j := 0; j < size; j++ {
				sum += math.Exp(float64(data[base+j*inner] - maxVal))
			}
			logSum := float32(math.Log(sum))
			for j := 0; j < size; j++ {
				idx := base + j*inner
				data[idx] = data[idx] - maxVal - logSum
			}
		}
	}
	return tensor.FromBuffer(data, x.Shape())
}

// rowMax returns the largest of size values spaced stride apart from base.
func rowMax(data []float32, base, size, stride int) float32 {
	maxVal := float32(math.Inf(-1))
	for j := 0; j < size; j++ {
		if v := data[base+j*stride]; v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}
