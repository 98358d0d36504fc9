package cpu

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N).
// Operands may be strided views (e.g. transposes); they are read in logical order.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		exceptions.Panicf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		exceptions.Panicf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n)
	}

	c := make([]float32, m*n)
	matmulFloat32(c, a.Data(), b.Data(), m, k, n)
	return tensor.FromBuffer(c, tensor.Shape{m, n})
}

// matmulFloat32 performs naive matrix multiplication.
// C[i,j] = sum_k A[i,k] * B[k,j]
// The summation order over k is fixed, so results are reproducible.
func matmulFloat32(c, a, b []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += a[i*k+kIdx] * b[kIdx*n+j]
			}
			c[i*n+j] = sum
		}
	}
}
