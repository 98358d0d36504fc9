package cpu

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// Gather selects slices of x along axis. The result has x's shape with
// dimension axis replaced by len(indices):
//
//	out[o, j, i] = x[o, indices[j], i]
//
// Indices may repeat and must lie in [0, x.shape[axis]).
func (cpu *CPUBackend) Gather(x *tensor.RawTensor, axis int, indices []int) *tensor.RawTensor {
	outer, size, inner := splitAxis("gather", x.Shape(), axis)
	checkIndices("gather", indices, size)

	src := x.Data()
	outShape := x.Shape().Clone()
	outShape[axis] = len(indices)
	out := make([]float32, outer*len(indices)*inner)
	for o := 0; o < outer; o++ {
		for j, idx := range indices {
			copy(out[(o*len(indices)+j)*inner:], src[(o*size+idx)*inner:(o*size+idx+1)*inner])
		}
	}
	return tensor.FromBuffer(out, outShape)
}

// ScatterAdd is the adjoint of Gather: it returns zeros of shape with every
// slice j of src added at position indices[j] along axis. Repeated indices
// accumulate.
func (cpu *CPUBackend) ScatterAdd(src *tensor.RawTensor, shape tensor.Shape, axis int, indices []int) *tensor.RawTensor {
	outer, size, inner := splitAxis("scatter_add", shape, axis)
	checkIndices("scatter_add", indices, size)
	if want := outer * len(indices) * inner; src.NumElements() != want {
		exceptions.Panicf("scatter_add: source %v does not match %d indices into %v", src.Shape(), len(indices), shape)
	}

	data := src.Data()
	out := make([]float32, shape.NumElements())
	for o := 0; o < outer; o++ {
		for j, idx := range indices {
			dst := out[(o*size+idx)*inner : (o*size+idx+1)*inner]
			row := data[(o*len(indices)+j)*inner:]
			for i := range dst {
				dst[i] += row[i]
			}
		}
	}
	return tensor.FromBuffer(out, shape)
}

// PadSlice is the adjoint of Slice: it returns zeros of shape with src
// written at [start, start+src.shape[axis]) along axis.
func (cpu *CPUBackend) PadSlice(src *tensor.RawTensor, shape tensor.Shape, axis, start int) *tensor.RawTensor {
	outer, size, inner := splitAxis("pad_slice", shape, axis)
	length := src.Shape()[axis]
	if start < 0 || start+length > size {
		exceptions.Panicf("pad_slice: [%d, %d) outside dimension %d of %v", start, start+length, axis, shape)
	}

	data := src.Data()
	out := make([]float32, shape.NumElements())
	for o := 0; o < outer; o++ {
		copy(out[(o*size+start)*inner:(o*size+start+length)*inner], data[o*length*inner:(o+1)*length*inner])
	}
	return tensor.FromBuffer(out, shape)
}

func checkIndices(op string, indices []int, size int) {
	for _, idx := range indices {
		if idx < 0 || idx >= size {
			exceptions.Panicf("%s: index %d out of range [0, %d)", op, idx, size)
		}
	}
}
