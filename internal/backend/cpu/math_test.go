package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-5

func isNaN(v float32) bool { return math.IsNaN(float64(v)) }
func isInf(v float32, sign int) bool { return math.IsInf(float64(v), sign) }

func TestUnaryMath(t *testing.T) {
	backend := New()

	tests := []struct {
		name  string
		op    func(*tensor.RawTensor) *tensor.RawTensor
		input []float32
		want  func(float64) float64
	}{
		{"neg", backend.Neg, []float32{-2, 0, 3}, func(v float64) float64 { return -v }},
		{"exp", backend.Exp, []float32{-3, 0, 1, 2}, math.Exp},
		{"log", backend.Log, []float32{0.5, 1, 10}, math.Log},
		{"sqrt", backend.Sqrt, []float32{1, 4, 9, 2}, math.Sqrt},
		{"abs", backend.Abs, []float32{-1.5, 0, 2}, math.Abs},
		{"sigmoid", backend.Sigmoid, []float32{-30, -1, 0, 1, 30}, func(v float64) float64 { return 1 / (1 + math.Exp(-v)) }},
		{"relu", backend.ReLU, []float32{-1, 0, 2}, func(v float64) float64 { return math.Max(0, v) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := raw(t, tt.input, len(tt.input))
			result := tt.op(x)
			require.Equal(t, x.Shape(), result.Shape())
			for i, v := range tt.input {
				assert.InDelta(t, tt.want(float64(v)), result.Data()[i], epsilon, "%s(%v)", tt.name, v)
			}
		})
	}
}

func TestLogNonPositive(t *testing.T) {
	backend := New()
	out := backend.Log(raw(t, []float32{0, -1}, 2)).Data()
	assert.True(t, isInf(out[0], -1))
	assert.True(t, isNaN(out[1]))
}

func TestSign(t *testing.T) {
	backend := New()
	out := backend.Sign(raw(t, []float32{-3, 0, 2}, 3)).Data()
	assert.Equal(t, []float32{-1, 0, 1}, out)
}

func TestPow(t *testing.T) {
	backend := New()
	x := raw(t, []float32{2, 3, 4}, 3)
	assert.Equal(t, []float32{8, 27, 64}, backend.Pow(x, 3).Data())

	neg := backend.Pow(raw(t, []float32{-8}, 1), 0.5).Data()
	assert.True(t, isNaN(neg[0]))
}

func TestClamp(t *testing.T) {
	backend := New()
	x := raw(t, []float32{-2, 0.5, 3}, 3)
	assert.Equal(t, []float32{0, 0.5, 1}, backend.Clamp(x, 0, 1).Data())

	// lo > hi collapses to hi.
	assert.Equal(t, []float32{1, 1, 1}, backend.Clamp(x, 2, 1).Data())
}

func TestSoftmax(t *testing.T) {
	backend := New()
	x := raw(t, []float32{1, 2, 3, 1, 1, 1}, 2, 3)

	s := backend.Softmax(x, 1).Data()
	e1, e2, e3 := math.Exp(1), math.Exp(2), math.Exp(3)
	sum := e1 + e2 + e3
	assert.InDelta(t, e1/sum, s[0], epsilon)
	assert.InDelta(t, e2/sum, s[1], epsilon)
	assert.InDelta(t, e3/sum, s[2], epsilon)
	for i := 3; i < 6; i++ {
		assert.InDelta(t, 1.0/3, s[i], epsilon)
	}

	// Along axis 0 every column sums to one.
	s0 := backend.Softmax(x, 0).Data()
	for col := 0; col < 3; col++ {
		assert.InDelta(t, 1, s0[col]+s0[3+col], epsilon)
	}

	// Large logits must not overflow.
	big := backend.Softmax(raw(t, []float32{1000, 1000}, 2), 0).Data()
	assert.InDelta(t, 0.5, big[0], epsilon)
}

func TestLogSoftmax(t *testing.T) {
	backend := New()
	x := raw(t, []float32{1, 2, 3, -1, 0, 4}, 2, 3)

	ls := backend.LogSoftmax(x, 1).Data()
	s := backend.Softmax(x, 1).Data()
	for i := range ls {
		assert.InDelta(t, math.Log(float64(s[i])), ls[i], epsilon)
	}
	assert.Panics(t, func() { backend.LogSoftmax(x, 2) })
}
