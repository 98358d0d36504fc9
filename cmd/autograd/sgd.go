package main

import "github.com/born-ml/autograd/tensor"

// sgd implements gradient descent with optional momentum over leaf tensors.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type sgd struct {
	params     []*tensor.Tensor
	lr         float32
	momentum   float32
	velocities map[int64][]float32
}

func newSGD(params []*tensor.Tensor, lr, momentum float32) *sgd {
	if lr == 0 {
		lr = 0.01
	}
	return &sgd{
		params:     params,
		lr:         lr,
		momentum:   momentum,
		velocities: make(map[int64][]float32),
	}
}

// Step updates every parameter in place from its accumulated gradient.
// Parameters with no gradient are skipped.
func (s *sgd) Step() {
	for _, p := range s.params {
		g := p.Grad()
		if g == nil {
			continue
		}
		grad := g.Data()
		if s.momentum != 0 {
			v, ok := s.velocities[p.ID()]
			if !ok {
				v = make([]float32, len(grad))
				s.velocities[p.ID()] = v
			}
			for i := range v {
				v[i] = s.momentum*v[i] + grad[i]
			}
			grad = v
		}
		p.WithMutData(func(data []float32) {
			for i := range data {
				data[i] -= s.lr * grad[i]
			}
		})
	}
}

// ZeroGrad clears the gradients of all parameters.
func (s *sgd) ZeroGrad() {
	for _, p := range s.params {
		p.ZeroGrad()
	}
}
