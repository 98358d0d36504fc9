package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/pkg/errors"
)

// Sigmoid returns 1 / (1 + e^-t).
func (t *Tensor) Sigmoid() *Tensor {
	raw := t.backend.Sigmoid(t.raw)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradSigmoid, saved: []*tensor.RawTensor{raw.Clone()}}
	}, t)
}

// ReLU returns max(0, t). The gradient at 0 is 0.
func (t *Tensor) ReLU() *Tensor {
	raw := t.backend.ReLU(t.raw)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradReLU, saved: []*tensor.RawTensor{t.backend.GreaterScalar(t.raw, 0)}}
	}, t)
}

// Softmax normalizes t along axis: exp(t_i) / Σ_j exp(t_j).
func (t *Tensor) Softmax(axis int) (*Tensor, error) {
	if err := checkAxis("softmax", axis, t.Rank()); err != nil {
		return nil, err
	}
	raw := t.backend.Softmax(t.raw, axis)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradSoftmax, saved: []*tensor.RawTensor{raw.Clone()}, axes: []int{axis}}
	}, t), nil
}

// LogSoftmax returns log(softmax(t)) along axis, computed stably.
func (t *Tensor) LogSoftmax(axis int) (*Tensor, error) {
	if err := checkAxis("log_softmax", axis, t.Rank()); err != nil {
		return nil, err
	}
	raw := t.backend.LogSoftmax(t.raw, axis)
	return derive(raw, t.backend, func() *GradFn {
		return &GradFn{kind: GradLogSoftmax, saved: []*tensor.RawTensor{t.backend.Exp(raw)}, axes: []int{axis}}
	}, t), nil
}

func checkAxis(op string, axis, rank int) error {
	if axis < 0 || axis >= rank {
		return errors.Wrapf(tensor.ErrIndexOutOfBounds, "%s: axis %d for rank %d", op, axis, rank)
	}
	return nil
}
