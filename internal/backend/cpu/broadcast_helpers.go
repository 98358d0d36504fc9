package cpu

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// broadcastValues returns the elements of x expanded to outShape, in
// row-major order. The expansion goes through a zero-stride view, so only
// the returned slice is allocated.
func broadcastValues(op string, x *tensor.RawTensor, outShape tensor.Shape) []float32 {
	if x.Shape().Equal(outShape) {
		return x.Data()
	}
	view, err := x.BroadcastTo(outShape)
	mustShape(op, err)
	defer view.Release()
	return view.Data()
}

// splitAxis factors shape around axis into (outer, size, inner) so that the
// contiguous element [o, j, i] lives at (o*size+j)*inner+i.
func splitAxis(op string, shape tensor.Shape, axis int) (outer, size, inner int) {
	if axis < 0 || axis >= len(shape) {
		exceptions.Panicf("%s: axis %d out of range for rank %d", op, axis, len(shape))
	}
	outer, inner = 1, 1
	for i := 0; i < axis; i++ {
		outer *= shape[i]
	}
	for i := axis + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[axis], inner
}

// withoutAxis returns shape with axis removed.
func withoutAxis(shape tensor.Shape, axis int) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape)-1)
	out = append(out, shape[:axis]...)
	return append(out, shape[axis+1:]...)
}
