package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/pkg/errors"
)

// MatMul returns the matrix product of t and other.
//
// Operands may be 1-D or 2-D. A 1-D left operand is treated as a row
// vector [1, k] and a 1-D right operand as a column vector [k, 1]; the
// added axes are removed from the result:
//
//	[m, k] @ [k, n] -> [m, n]
//	[k]    @ [k, n] -> [n]
//	[m, k] @ [k]    -> [m]
//	[k]    @ [k]    -> []
//
// Fails with tensor.ErrShapeMismatch when the inner dimensions differ.
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	aShape, bShape := t.Shape(), other.Shape()
	if len(aShape) < 1 || len(aShape) > 2 || len(bShape) < 1 || len(bShape) > 2 {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "matmul: operands must be 1-D or 2-D, got %v @ %v", aShape, bShape)
	}
	if aShape[len(aShape)-1] != bShape[0] {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "matmul: inner dimensions differ in %v @ %v", aShape, bShape)
	}

	a2, err := asMatrix(t.raw, true)
	if err != nil {
		return nil, errors.WithMessage(err, "matmul")
	}
	b2, err := asMatrix(other.raw, false)
	if err != nil {
		return nil, errors.WithMessage(err, "matmul")
	}

	out := t.backend.MatMul(a2, b2)
	outShape := make(tensor.Shape, 0, 2)
	if len(aShape) == 2 {
		outShape = append(outShape, aShape[0])
	}
	if len(bShape) == 2 {
		outShape = append(outShape, bShape[1])
	}
	if !out.Shape().Equal(outShape) {
		if out, err = out.Reshape(outShape); err != nil {
			return nil, errors.WithMessage(err, "matmul")
		}
	}

	result := derive(out, t.backend, func() *GradFn {
		return &GradFn{kind: GradMatMul, saved: []*tensor.RawTensor{a2, b2}}
	}, t, other)
	if result.gradFn == nil {
		a2.Release()
		b2.Release()
	}
	return result, nil
}

// asMatrix views a 1-D operand as a row (left) or column (right) vector.
// 2-D operands are shared as they are.
func asMatrix(r *tensor.RawTensor, left bool) (*tensor.RawTensor, error) {
	if r.Rank() == 2 {
		return r.Clone(), nil
	}
	if left {
		return r.Unsqueeze(0)
	}
	return r.Unsqueeze(1)
}
