package main

import (
	"testing"

	"github.com/born-ml/autograd/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitConverges(t *testing.T) {
	r, err := fit(fitConfig{Steps: 500, LearningRate: 0.5, Samples: 16})
	require.NoError(t, err)
	assert.InDelta(t, trueWeight, r.Weight, 0.05)
	assert.InDelta(t, trueBias, r.Bias, 0.05)
	assert.Less(t, r.Loss, float32(1e-3))
}

func TestFitWithMomentum(t *testing.T) {
	r, err := fit(fitConfig{Steps: 500, LearningRate: 0.1, Momentum: 0.9, Samples: 16})
	require.NoError(t, err)
	assert.InDelta(t, trueWeight, r.Weight, 0.05)
	assert.InDelta(t, trueBias, r.Bias, 0.05)
}

func TestSGDStep(t *testing.T) {
	p := must.M1(tensor.WithGrad([]float32{1, 2}, tensor.Shape{2}))
	frozen := must.M1(tensor.New([]float32{5}, tensor.Shape{1}))
	opt := newSGD([]*tensor.Tensor{p, frozen}, 0.5, 0.5)

	step := func() {
		require.NoError(t, p.Sum().Backward()) // grad = [1, 1]
		opt.Step()
		opt.ZeroGrad()
	}
	step()
	assert.Equal(t, []float32{0.5, 1.5}, p.Data())
	step() // velocity = 0.5*1 + 1
	assert.Equal(t, []float32{-0.25, 0.75}, p.Data())
	assert.Nil(t, p.Grad())
	assert.Equal(t, []float32{5}, frozen.Data(), "tensors without gradients are skipped")
}

func TestFitRejectsEmptyConfig(t *testing.T) {
	_, err := fit(fitConfig{Steps: 0, Samples: 4})
	require.Error(t, err)
}

func TestBuildNetworkGraph(t *testing.T) {
	loss, err := buildNetwork(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, loss.Rank())

	nodes := graphNodes(loss)
	assert.Same(t, loss, nodes[len(nodes)-1], "root comes last")
	assert.Equal(t, []string{"Add", "LogSoftmax", "MatMul", "Mean", "Neg", "ReLU"}, opKinds(loss))

	require.NoError(t, loss.Backward())
	for _, n := range nodes {
		if n.IsLeaf() && n.RequiresGrad() {
			require.NotNil(t, n.Grad())
			assert.Equal(t, n.Shape(), n.Grad().Shape())
		}
	}
}
