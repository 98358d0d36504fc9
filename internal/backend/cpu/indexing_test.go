package cpu

import (
	"testing"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestGather(t *testing.T) {
	backend := New()
	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, 3, 2)

	rows := backend.Gather(x, 0, []int{2, 0, 2})
	assert.Equal(t, tensor.Shape{3, 2}, rows.Shape())
	assert.Equal(t, []float32{5, 6, 1, 2, 5, 6}, rows.Data())

	cols := backend.Gather(x, 1, []int{1})
	assert.Equal(t, tensor.Shape{3, 1}, cols.Shape())
	assert.Equal(t, []float32{2, 4, 6}, cols.Data())

	assert.Panics(t, func() { backend.Gather(x, 0, []int{3}) })
}

func TestScatterAdd(t *testing.T) {
	backend := New()
	src := raw(t, []float32{1, 1, 2, 2, 3, 3}, 3, 2)

	out := backend.ScatterAdd(src, tensor.Shape{3, 2}, 0, []int{2, 0, 2})
	assert.Equal(t, []float32{2, 2, 0, 0, 4, 4}, out.Data())
}

func TestPadSlice(t *testing.T) {
	backend := New()
	src := raw(t, []float32{7, 8, 9, 10}, 2, 2)

	out := backend.PadSlice(src, tensor.Shape{2, 4}, 1, 1)
	assert.Equal(t, []float32{0, 7, 8, 0, 0, 9, 10, 0}, out.Data())

	assert.Panics(t, func() { backend.PadSlice(src, tensor.Shape{2, 4}, 1, 3) })
}
