package autodiff

import (
	"sync/atomic"

	"github.com/born-ml/autograd/internal/tensor"
)

var lastNodeID atomic.Int64

// node is the graph metadata carried by every Tensor.
//
// Leaves have a nil gradFn and no parents. parents[i] matches the i-th
// gradient returned by gradFn.Apply.
type node struct {
	id           int64
	requiresGrad bool
	grad         *tensor.RawTensor // nil until the first backward contribution
	gradFn       *GradFn
	parents      []*Tensor
	released     bool // history dropped by a backward pass without RetainGraph
}

func newNode(requiresGrad bool) node {
	return node{id: lastNodeID.Add(1), requiresGrad: requiresGrad}
}

// accumulateGrad adds g into the gradient cell. The cell always holds a
// contiguous tensor owned by this node.
func (n *node) accumulateGrad(g *tensor.RawTensor, b tensor.Backend) {
	if n.grad == nil {
		n.grad = g.Contiguous()
		return
	}
	prev := n.grad
	n.grad = b.Add(prev, g)
	prev.Release()
}

// dropHistory turns the node into a leaf.
func (n *node) dropHistory() {
	if n.gradFn != nil {
		n.gradFn.release()
	}
	n.gradFn = nil
	n.parents = nil
}
