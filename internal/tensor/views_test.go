package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRaw(t *testing.T, data []float32, shape Shape) *RawTensor {
	t.Helper()
	r, err := FromSlice(data, shape)
	require.NoError(t, err)
	return r
}

func TestComputeStrides(t *testing.T) {
	tests := []struct {
		shape Shape
		want  []int
	}{
		{Shape{}, []int{}},
		{Shape{5}, []int{1}},
		{Shape{2, 3}, []int{3, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.shape.ComputeStrides(), "shape %v", tt.shape)
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b    Shape
		want    Shape
		needsBC bool
		wantErr bool
	}{
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{1, 5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{Shape{5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{}, Shape{2, 2}, Shape{2, 2}, true, false},
		{Shape{3}, Shape{2}, nil, false, true},
		{Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}
	for _, tt := range tests {
		got, needsBC, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrNotBroadcastable, "%v vs %v", tt.a, tt.b)
			require.ErrorIs(t, err, ErrShapeMismatch, "%v vs %v", tt.a, tt.b)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.needsBC, needsBC)
	}
}

func TestNormalizeAxes(t *testing.T) {
	axes, err := NormalizeAxes([]int{2, 0, 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, axes)

	axes, err = NormalizeAxes(nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, axes)

	_, err = NormalizeAxes([]int{3}, 3)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)

	assert.Equal(t, Shape{2, 1}, Shape{2, 3}.ReducedShape([]int{1}, true))
	assert.Equal(t, Shape{2}, Shape{2, 3}.ReducedShape([]int{1}, false))
	assert.Equal(t, Shape{}, Shape{2, 3}.ReducedShape([]int{0, 1}, false))
}

func TestReshapeContiguousIsView(t *testing.T) {
	x := mustRaw(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})

	y, err := x.Reshape(Shape{3, 2})
	require.NoError(t, err)
	assert.True(t, y.SharesStorage(x))

	xs, err := x.AsSlice()
	require.NoError(t, err)
	ys, err := y.AsSlice()
	require.NoError(t, err)
	assert.Equal(t, xs, ys)

	_, err = x.Reshape(Shape{4, 2})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestTransposeNotContiguous(t *testing.T) {
	x := mustRaw(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})

	tr, err := x.Transpose()
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, tr.Shape())
	assert.Equal(t, []int{1, 3}, tr.Strides())
	assert.True(t, tr.SharesStorage(x))

	_, err = tr.AsSlice()
	require.ErrorIs(t, err, ErrNotContiguous)

	c := tr.Contiguous()
	data, err := c.AsSlice()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, data)

	// Reshape of a strided view materializes.
	r, err := tr.Reshape(Shape{6})
	require.NoError(t, err)
	assert.False(t, r.SharesStorage(x))
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, r.Data())
}

func TestTransposeInvalidAxes(t *testing.T) {
	x := mustRaw(t, []float32{1, 2, 3, 4, 5, 6}, Shape{1, 2, 3})

	_, err := x.Transpose(0, 1)
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = x.Transpose(0, 0, 1)
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = x.Transpose(0, 1, 3)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)

	p, err := x.Transpose(2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 1, 2}, p.Shape())
	v, err := p.Get(2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(6), v)
}

func TestSliceView(t *testing.T) {
	x := mustRaw(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, Shape{3, 3})

	rows, err := x.Slice(0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, rows.Offset())
	assert.False(t, rows.IsContiguous())
	assert.Equal(t, []float32{4, 5, 6, 7, 8, 9}, rows.Data())

	cols, err := x.Slice(1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 6, 9}, cols.Data())

	_, err = x.Slice(1, 2, 2)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)
	_, err = x.Slice(2, 0, 1)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestBroadcastToZeroStride(t *testing.T) {
	x := mustRaw(t, []float32{1, 2, 3}, Shape{3, 1})

	b, err := x.BroadcastTo(Shape{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, b.Strides())
	assert.True(t, b.SharesStorage(x))
	v, err := b.Get(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, float32(3), v)

	_, err = x.BroadcastTo(Shape{2, 4})
	require.ErrorIs(t, err, ErrNotBroadcastable)
	_, err = x.BroadcastTo(Shape{3})
	require.ErrorIs(t, err, ErrNotBroadcastable)
}

func TestSqueezeUnsqueeze(t *testing.T) {
	x := mustRaw(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})

	for axis := 0; axis <= 2; axis++ {
		u, err := x.Unsqueeze(axis)
		require.NoError(t, err)
		assert.Equal(t, 3, u.Rank())
		assert.True(t, u.IsContiguous(), "unsqueeze(%d) of a contiguous view stays contiguous", axis)

		s, err := u.Squeeze(axis)
		require.NoError(t, err)
		assert.Equal(t, Shape{2, 3}, s.Shape())
		assert.Equal(t, x.Data(), s.Data())
	}

	_, err := x.Squeeze(0)
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = x.Unsqueeze(3)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)
}
