package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/backend/cpu"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// op is a differentiable function of one tensor.
type op func(x *autodiff.Tensor) (*autodiff.Tensor, error)

// infallible adapts ops that cannot fail.
func infallible(f func(x *autodiff.Tensor) *autodiff.Tensor) op {
	return func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return f(x), nil }
}

// weightsFor returns fixed, non-uniform loss weights, so that ops whose
// outputs sum to a constant (softmax) still get a non-trivial gradient.
func weightsFor(n int) []float32 {
	w := make([]float32, n)
	for i := range w {
		w[i] = 0.5 + 0.25*float32(i%5)
	}
	return w
}

// checkGradient compares the backward gradient of loss = Σ w·f(x) with
// central finite differences.
func checkGradient(t *testing.T, f op, data []float32, shape ...int) {
	t.Helper()
	backend := cpu.New()

	x, err := autodiff.WithGrad(data, tensor.Shape(shape), backend)
	require.NoError(t, err)
	y, err := f(x)
	require.NoError(t, err)
	w := weightsFor(y.NumElements())
	wt, err := autodiff.New(w, y.Shape(), backend)
	require.NoError(t, err)
	weighted, err := y.Mul(wt)
	require.NoError(t, err)
	require.NoError(t, weighted.Sum().Backward())
	analytic := gradOf(t, x)

	loss := func(values []float32) float64 {
		xt, err := autodiff.New(values, tensor.Shape(shape), backend)
		require.NoError(t, err)
		yt, err := f(xt)
		require.NoError(t, err)
		var sum float64
		for i, v := range yt.Data() {
			sum += float64(w[i]) * float64(v)
		}
		return sum
	}

	const eps = 1e-3
	probe := append([]float32(nil), data...)
	for i := range data {
		probe[i] = data[i] + eps
		hi := probe[i]
		plus := loss(probe)
		probe[i] = data[i] - eps
		lo := probe[i]
		minus := loss(probe)
		probe[i] = data[i]

		numeric := (plus - minus) / float64(hi-lo)
		tol := 1e-2 + 1e-2*math.Abs(numeric)
		assert.InDelta(t, numeric, analytic[i], tol, "element %d: analytic %v numeric %v", i, analytic[i], numeric)
	}
}

// Distinct positive values, no ties, away from 0.
var positive2x3 = []float32{0.5, 1.2, 2.0, 0.8, 1.5, 0.3}

func TestNumericalGradient_Unary(t *testing.T) {
	tests := []struct {
		name string
		f    op
	}{
		{"neg", infallible((*autodiff.Tensor).Neg)},
		{"pow3", infallible(func(x *autodiff.Tensor) *autodiff.Tensor { return x.Pow(3) })},
		{"pow_half", infallible(func(x *autodiff.Tensor) *autodiff.Tensor { return x.Pow(0.5) })},
		{"square", infallible((*autodiff.Tensor).Square)},
		{"exp", infallible((*autodiff.Tensor).Exp)},
		{"log", infallible((*autodiff.Tensor).Log)},
		{"sqrt", infallible((*autodiff.Tensor).Sqrt)},
		{"abs", infallible(func(x *autodiff.Tensor) *autodiff.Tensor { return x.SubScalar(1).Abs() })},
		{"clamp", infallible(func(x *autodiff.Tensor) *autodiff.Tensor { return x.Clamp(0.4, 1.6) })},
		{"sigmoid", infallible((*autodiff.Tensor).Sigmoid)},
		{"relu", infallible(func(x *autodiff.Tensor) *autodiff.Tensor { return x.SubScalar(1).ReLU() })},
		{"add_scalar", infallible(func(x *autodiff.Tensor) *autodiff.Tensor { return x.AddScalar(3) })},
		{"mul_scalar", infallible(func(x *autodiff.Tensor) *autodiff.Tensor { return x.MulScalar(-2) })},
		{"scalar_sub", infallible(func(x *autodiff.Tensor) *autodiff.Tensor { return x.ScalarSub(1) })},
		{"scalar_div", infallible(func(x *autodiff.Tensor) *autodiff.Tensor { return x.ScalarDiv(2) })},
		{"div_scalar", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.DivScalar(4) }},
		{"contiguous", infallible((*autodiff.Tensor).Contiguous)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradient(t, tt.f, positive2x3, 2, 3)
		})
	}
}

func TestNumericalGradient_Activations(t *testing.T) {
	logits := []float32{0.2, -1.0, 1.5, 0.7, 0.1, -0.4}
	for axis := 0; axis < 2; axis++ {
		checkGradient(t, func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.Softmax(axis) }, logits, 2, 3)
		checkGradient(t, func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.LogSoftmax(axis) }, logits, 2, 3)
	}
}

func TestNumericalGradient_Binary(t *testing.T) {
	other := []float32{1.5, 0.7, 1.1}

	tests := []struct {
		name string
		f    func(x, c *autodiff.Tensor) (*autodiff.Tensor, error)
	}{
		{"add", (*autodiff.Tensor).Add},
		{"sub", (*autodiff.Tensor).Sub},
		{"mul", (*autodiff.Tensor).Mul},
		{"div", (*autodiff.Tensor).Div},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/lhs", func(t *testing.T) {
			c := constant(t, other, 3) // broadcast over rows
			checkGradient(t, func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return tt.f(x, c) }, positive2x3, 2, 3)
		})
		t.Run(tt.name+"/rhs", func(t *testing.T) {
			c := constant(t, positive2x3, 2, 3)
			checkGradient(t, func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return tt.f(c, x) }, other, 3)
		})
	}
}

func TestNumericalGradient_MatMul(t *testing.T) {
	m23 := []float32{0.5, -1, 2, 1.5, 0.3, -0.7}
	m32 := []float32{1, 0.2, -0.5, 0.8, 1.3, -1.1}
	v3 := []float32{0.4, -0.9, 1.7}

	tests := []struct {
		name  string
		data  []float32
		shape []int
		f     op
	}{
		{"2x2/lhs", m23, []int{2, 3}, func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
			return x.MatMul(constant(t, m32, 3, 2))
		}},
		{"2x2/rhs", m32, []int{3, 2}, func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
			return constant(t, m23, 2, 3).MatMul(x)
		}},
		{"1x2/lhs", v3, []int{3}, func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
			return x.MatMul(constant(t, m32, 3, 2))
		}},
		{"1x2/rhs", m32, []int{3, 2}, func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
			return constant(t, v3, 3).MatMul(x)
		}},
		{"2x1/lhs", m23, []int{2, 3}, func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
			return x.MatMul(constant(t, v3, 3))
		}},
		{"2x1/rhs", v3, []int{3}, func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
			return constant(t, m23, 2, 3).MatMul(x)
		}},
		{"1x1", v3, []int{3}, func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
			return x.MatMul(constant(t, []float32{2, -1, 0.5}, 3))
		}},
		{"transposed", m23, []int{2, 3}, func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
			xt, err := x.Transpose()
			if err != nil {
				return nil, err
			}
			return xt.MatMul(x)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradient(t, tt.f, tt.data, tt.shape...)
		})
	}
}

func TestNumericalGradient_Reductions(t *testing.T) {
	tests := []struct {
		name string
		f    op
	}{
		{"sum", infallible((*autodiff.Tensor).Sum)},
		{"mean", infallible((*autodiff.Tensor).Mean)},
		{"max", infallible((*autodiff.Tensor).Max)},
		{"min", infallible((*autodiff.Tensor).Min)},
		{"norm", infallible((*autodiff.Tensor).Norm)},
		{"sum_axis1", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.SumAxes(false, 1) }},
		{"sum_axis0_keep", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.SumAxes(true, 0) }},
		{"mean_axis1_keep", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.MeanAxes(true, 1) }},
		{"max_axis1", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.MaxAxes(false, 1) }},
		{"min_axis0", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.MinAxes(true, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradient(t, tt.f, positive2x3, 2, 3)
		})
	}
}

func TestNumericalGradient_Shape(t *testing.T) {
	tests := []struct {
		name string
		f    op
	}{
		{"reshape", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.Reshape(3, 2) }},
		{"transpose", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.Transpose() }},
		{"unsqueeze", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.Unsqueeze(1) }},
		{"broadcast", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.BroadcastTo(4, 2, 3) }},
		{"slice", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.Slice(1, 1, 2) }},
		{"gather", func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.Gather(1, []int{2, 0, 2}) }},
		{"transpose_then_reshape", func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
			xt, err := x.Transpose()
			if err != nil {
				return nil, err
			}
			return xt.Reshape(6)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradient(t, tt.f, positive2x3, 2, 3)
		})
	}
}

func TestNumericalGradient_Squeeze(t *testing.T) {
	checkGradient(t, func(x *autodiff.Tensor) (*autodiff.Tensor, error) { return x.Squeeze(0) },
		[]float32{0.5, 1.2, 2.0}, 1, 3)
}

func TestNumericalGradient_Composite(t *testing.T) {
	// A small two-layer network with a log-softmax head.
	w1 := constant(t, []float32{0.3, -0.2, 0.5, 0.1, -0.4, 0.6}, 3, 2)
	b1 := constant(t, []float32{0.05, -0.1}, 2)
	checkGradient(t, func(x *autodiff.Tensor) (*autodiff.Tensor, error) {
		h, err := x.MatMul(w1)
		if err != nil {
			return nil, err
		}
		if h, err = h.Add(b1); err != nil {
			return nil, err
		}
		return h.Sigmoid().LogSoftmax(1)
	}, positive2x3, 2, 3)
}
