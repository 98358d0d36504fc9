package cpu

import (
	"github.com/born-ml/autograd/internal/tensor"
)

// binaryOp evaluates fn over the broadcast of a and b into a fresh
// contiguous tensor. Operands may be arbitrary views.
func binaryOp(op string, a, b *tensor.RawTensor, fn func(x, y float32) float32) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	mustShape(op, err)

	var aData, bData []float32
	if needsBroadcast {
		aData = broadcastValues(op, a, outShape)
		bData = broadcastValues(op, b, outShape)
	} else {
		aData = a.Data()
		bData = b.Data()
	}

	// aData is a private copy, so the result is written into it.
	for i := range aData {
		aData[i] = fn(aData[i], bData[i])
	}
	return tensor.FromBuffer(aData, outShape)
}

// unaryOp maps fn over the elements of x into a fresh contiguous tensor.
func unaryOp(x *tensor.RawTensor, fn func(v float32) float32) *tensor.RawTensor {
	data := x.Data()
	for i, v := range data {
		data[i] = fn(v)
	}
	return tensor.FromBuffer(data, x.Shape())
}
