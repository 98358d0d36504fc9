package tensor

import (
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Float16 returns the elements in row-major order converted to IEEE-754
// half precision. Values outside the half range become ±Inf.
func (r *RawTensor) Float16() []float16.Float16 {
	data := r.Data()
	out := make([]float16.Float16, len(data))
	for i, v := range data {
		out[i] = float16.Fromfloat32(v)
	}
	return out
}

// FromFloat16 creates a contiguous float32 RawTensor from half-precision
// values.
func FromFloat16(data []float16.Float16, shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid shape")
	}
	if len(data) != shape.NumElements() {
		return nil, errors.Wrapf(ErrShapeMismatch, "data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	values := make([]float32, len(data))
	for i, h := range data {
		values[i] = h.Float32()
	}
	return FromBuffer(values, shape), nil
}
