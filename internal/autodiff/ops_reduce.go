package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/pkg/errors"
)

// Global reductions return 0-d tensors. Axis reductions take the axes to
// reduce (none means all) and keep them as size-1 dimensions when keepDims
// is set.

// Sum returns the sum of all elements.
func (t *Tensor) Sum() *Tensor {
	return t.reduce(GradSum, allAxes(t.Rank()), false)
}

// Mean returns the mean of all elements.
func (t *Tensor) Mean() *Tensor {
	return t.reduce(GradMean, allAxes(t.Rank()), false)
}

// Max returns the largest element. Its gradient goes to the first position
// holding it.
func (t *Tensor) Max() *Tensor {
	return t.reduce(GradMax, allAxes(t.Rank()), false)
}

// Min returns the smallest element. Its gradient goes to the first position
// holding it.
func (t *Tensor) Min() *Tensor {
	return t.reduce(GradMin, allAxes(t.Rank()), false)
}

// SumAxes sums over axes.
func (t *Tensor) SumAxes(keepDims bool, axes ...int) (*Tensor, error) {
	return t.reduceAxes("sum", GradSum, keepDims, axes)
}

// MeanAxes averages over axes.
func (t *Tensor) MeanAxes(keepDims bool, axes ...int) (*Tensor, error) {
	return t.reduceAxes("mean", GradMean, keepDims, axes)
}

// MaxAxes takes the maximum over axes. Within each reduced group the
// gradient goes to the first position (row-major) holding the maximum.
func (t *Tensor) MaxAxes(keepDims bool, axes ...int) (*Tensor, error) {
	return t.reduceAxes("max", GradMax, keepDims, axes)
}

// MinAxes takes the minimum over axes, routing gradients like MaxAxes.
func (t *Tensor) MinAxes(keepDims bool, axes ...int) (*Tensor, error) {
	return t.reduceAxes("min", GradMin, keepDims, axes)
}

// ArgMax returns the index of the largest element along axis (first one on
// ties), as float32 values with axis removed. The result never requires
// gradients.
func (t *Tensor) ArgMax(axis int) (*Tensor, error) {
	if err := checkAxis("argmax", axis, t.Rank()); err != nil {
		return nil, err
	}
	return FromRaw(t.backend.ArgMax(t.raw, axis), t.backend), nil
}

// Norm returns the Euclidean norm sqrt(Σ t²).
func (t *Tensor) Norm() *Tensor {
	return t.Square().Sum().Sqrt()
}

func (t *Tensor) reduceAxes(op string, kind GradKind, keepDims bool, axes []int) (*Tensor, error) {
	normalized, err := tensor.NormalizeAxes(axes, t.Rank())
	if err != nil {
		return nil, errors.WithMessage(err, op)
	}
	return t.reduce(kind, normalized, keepDims), nil
}

// reduce applies a reduction over normalized axes.
func (t *Tensor) reduce(kind GradKind, axes []int, keepDims bool) *Tensor {
	b := t.backend
	var raw *tensor.RawTensor
	var scale float32
	switch kind {
	case GradSum:
		raw = b.SumAxes(t.raw, axes, keepDims)
	case GradMean:
		count := 1
		for _, ax := range axes {
			count *= t.Shape()[ax]
		}
		scale = 1 / float32(count)
		raw = b.MulScalar(b.SumAxes(t.raw, axes, keepDims), scale)
	case GradMax:
		raw = b.MaxAxes(t.raw, axes, keepDims)
	case GradMin:
		raw = b.MinAxes(t.raw, axes, keepDims)
	}

	return derive(raw, b, func() *GradFn {
		fn := &GradFn{kind: kind, axes: axes, keepDims: keepDims, scalar: scale}
		switch kind {
		case GradMax:
			fn.saved = []*tensor.RawTensor{b.ExtremumMask(t.raw, axes, true)}
		case GradMin:
			fn.saved = []*tensor.RawTensor{b.ExtremumMask(t.raw, axes, false)}
		}
		return fn
	}, t)
}

func allAxes(rank int) []int {
	axes := make([]int, rank)
	for i := range axes {
		axes[i] = i
	}
	return axes
}
