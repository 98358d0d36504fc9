package cpu

import (
	"math"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// SumAxes sums tensor elements over the given axes.
//
// Parameters:
//   - axes: normalized axes to reduce (sorted, unique, in range)
//   - keepDims: if true, keep the reduced axes with size 1; if false, remove them
//
// Example:
//
//	x: shape [2, 3, 4]
//	backend.SumAxes(x, []int{2}, true)     // shape: [2, 3, 1]
//	backend.SumAxes(x, []int{0, 2}, false) // shape: [3]
func (cpu *CPUBackend) SumAxes(x *tensor.RawTensor, axes []int, keepDims bool) *tensor.RawTensor {
	return reduceAxes("sum", x, axes, keepDims, 0, func(acc, v float32) float32 { return acc + v })
}

// MaxAxes returns the maximum over the given axes.
func (cpu *CPUBackend) MaxAxes(x *tensor.RawTensor, axes []int, keepDims bool) *tensor.RawTensor {
	return reduceAxes("max", x, axes, keepDims, float32(math.Inf(-1)), func(acc, v float32) float32 {
		if v > acc {
			return v
		}
		return acc
	})
}

// MinAxes returns the minimum over the given axes.
func (cpu *CPUBackend) MinAxes(x *tensor.RawTensor, axes []int, keepDims bool) *tensor.RawTensor {
	return reduceAxes("min", x, axes, keepDims, float32(math.Inf(1)), func(acc, v float32) float32 {
		if v < acc {
			return v
		}
		return acc
	})
}

// ArgMax returns, for every position of the other axes, the index along axis
// of the largest value (first one on ties). Indices are stored as float32
// and axis is removed from the shape.
func (cpu *CPUBackend) ArgMax(x *tensor.RawTensor, axis int) *tensor.RawTensor {
	outer, size, inner := splitAxis("argmax", x.Shape(), axis)
	data := x.Data()
	out := make([]float32, outer*inner)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*size*inner + i
			best := 0
			for j := 1; j < size; j++ {
				if data[base+j*inner] > data[base+best*inner] {
					best = j
				}
			}
			out[o*inner+i] = float32(best)
		}
	}
	return tensor.FromBuffer(out, withoutAxis(x.Shape(), axis))
}

// ExtremumMask returns a tensor shaped like x holding 1 at the first
// position (row-major) of each reduced group that attains the group's
// maximum (largest) or minimum, and 0 elsewhere.
func (cpu *CPUBackend) ExtremumMask(x *tensor.RawTensor, axes []int, largest bool) *tensor.RawTensor {
	var extremum *tensor.RawTensor
	if largest {
		extremum = cpu.MaxAxes(x, axes, true)
	} else {
		extremum = cpu.MinAxes(x, axes, true)
	}
	target := extremum.Data()
	taken := make([]bool, len(target))

	data := x.Data()
	mask := make([]float32, len(data))
	forEachGroup(x.Shape(), axes, func(i, group int) {
		if !taken[group] && data[i] == target[group] {
			mask[i] = 1
			taken[group] = true
		}
	})
	return tensor.FromBuffer(mask, x.Shape())
}

// reduceAxes folds the elements of every reduced group with combine,
// starting from init. Groups are visited in row-major order.
func reduceAxes(op string, x *tensor.RawTensor, axes []int, keepDims bool, init float32,
	combine func(acc, v float32) float32) *tensor.RawTensor {
	shape := x.Shape()
	for _, ax := range axes {
		if ax < 0 || ax >= len(shape) {
			exceptions.Panicf("%s: axis %d out of range for rank %d", op, ax, len(shape))
		}
	}
	outShape := shape.ReducedShape(axes, keepDims)
	out := make([]float32, outShape.NumElements())
	for i := range out {
		out[i] = init
	}

	data := x.Data()
	forEachGroup(shape, axes, func(i, group int) {
		out[group] = combine(out[group], data[i])
	})
	return tensor.FromBuffer(out, outShape)
}

// forEachGroup calls fn(i, group) for every row-major position i of shape,
// where group is the flat index of i in the shape reduced over axes.
func forEachGroup(shape tensor.Shape, axes []int, fn func(i, group int)) {
	rank := len(shape)
	kept := shape.ReducedShape(axes, true)
	groupStrides := kept.ComputeStrides()
	for _, ax := range axes {
		groupStrides[ax] = 0
	}

	idx := make([]int, rank)
	group := 0
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		fn(i, group)
		for d := rank - 1; d >= 0; d-- {
			idx[d]++
			group += groupStrides[d]
			if idx[d] < shape[d] {
				break
			}
			group -= groupStrides[d] * shape[d]
			idx[d] = 0
		}
	}
}
