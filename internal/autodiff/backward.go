package autodiff

import (
	"math"
	"time"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// BackwardOptions configures a backward pass.
type BackwardOptions struct {
	// RetainGraph keeps the graph after the pass. When false, every interior
	// node reached by the pass drops its GradFn and parents, and a later
	// backward through it fails with ErrNoGradientPath.
	RetainGraph bool
}

// DefaultBackwardOptions returns the options used by Backward.
func DefaultBackwardOptions() BackwardOptions {
	return BackwardOptions{RetainGraph: true}
}

// Backward computes gradients of t with respect to every tensor in its graph
// that requires them, seeding t's gradient with ones.
//
// Gradients accumulate: calling Backward again without ZeroGrad adds a
// second contribution to every reached node.
func (t *Tensor) Backward() error {
	return t.BackwardWithOptions(DefaultBackwardOptions())
}

// BackwardWithOptions is Backward with explicit options.
//
// Algorithm:
//  1. Order the graph with a depth-first post-order walk over parents
//  2. Seed ones as the pending gradient of t
//  3. Walk the order in reverse: apply each node's GradFn to its pending
//     gradient, reduce each contribution to the parent's shape and add it to
//     the parent's pending gradient
//  4. Once the walk succeeded, add every node's pass total to its grad cell
//
// A failing pass returns an error and leaves all grad cells unchanged.
func (t *Tensor) BackwardWithOptions(opts BackwardOptions) error {
	if !t.requiresGrad {
		return errors.Wrapf(ErrNoGradientPath, "backward from node %d: tensor does not require grad", t.id)
	}
	start := time.Now()
	order, err := topoSort(t)
	if err != nil {
		return err
	}

	seed, err := tensor.Full(t.Shape(), 1)
	if err != nil {
		return errors.WithMessage(err, "backward seed")
	}

	var replayErr error
	if caught := exceptions.TryCatch[error](func() {
		replayErr = replay(order, seed)
	}); caught != nil {
		return errors.WithMessagef(caught, "backward from node %d", t.id)
	}
	if replayErr != nil {
		return replayErr
	}

	if !opts.RetainGraph {
		for _, n := range order {
			if n.gradFn != nil {
				n.dropHistory()
				n.released = true
			}
		}
	}
	klog.V(1).Infof("autodiff: backward from node %d replayed %d nodes in %s (retain_graph=%v)",
		t.id, len(order), time.Since(start), opts.RetainGraph)
	return nil
}

// topoSort returns the nodes reachable from root through parents that
// require gradients, parents before children. Shared sub-results appear once.
func topoSort(root *Tensor) ([]*Tensor, error) {
	visited := make(map[int64]bool)
	var order []*Tensor
	var visit func(n *Tensor) error
	visit = func(n *Tensor) error {
		if visited[n.id] {
			return nil
		}
		visited[n.id] = true
		if n.released {
			return errors.Wrapf(ErrNoGradientPath, "node %d: graph was released by a previous backward pass", n.id)
		}
		if n.gradFn != nil && !n.gradFn.kind.Implemented() {
			return errors.Wrapf(ErrGradientNotImplemented, "node %d: no backward rule for %s", n.id, n.gradFn.kind)
		}
		for _, p := range n.parents {
			if !p.requiresGrad {
				continue
			}
			if err := visit(p); err != nil {
				return err
			}
		}
		order = append(order, n)
		return nil
	}
	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// replay walks order from the root down, moving gradients from each node to
// its parents. Grad cells are updated only once the whole walk succeeded, so
// a failing pass leaves every cell as it was.
func replay(order []*Tensor, seed *tensor.RawTensor) error {
	root := order[len(order)-1]
	pending := map[int64]*tensor.RawTensor{root.id: seed}
	reached := make([]*Tensor, 0, len(order))
	totals := make([]*tensor.RawTensor, 0, len(order))

	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		g, ok := pending[n.id]
		if !ok {
			continue
		}
		delete(pending, n.id)
		reached = append(reached, n)
		totals = append(totals, g)
		klog.V(2).Infof("autodiff: node %d (%s) grad %v", n.id, kindOf(n), g.Shape())
		if nonFinite(g) {
			klog.Warningf("autodiff: node %d (%s) received a non-finite gradient", n.id, kindOf(n))
		}
		if n.gradFn == nil {
			continue
		}

		grads, err := n.gradFn.Apply(g, n.backend)
		if err != nil {
			return errors.WithMessagef(err, "backward through node %d (%s)", n.id, n.gradFn.kind)
		}
		for j, p := range n.parents {
			if !p.requiresGrad || grads[j] == nil {
				continue
			}
			contribution := SumToShape(grads[j], p.Shape(), n.backend)
			if prev, ok := pending[p.id]; ok {
				pending[p.id] = n.backend.Add(prev, contribution)
			} else {
				pending[p.id] = contribution
			}
		}
	}

	for i, n := range reached {
		n.accumulateGrad(totals[i], n.backend)
	}
	return nil
}

// SumToShape reduces a gradient produced in a broadcast output shape back to
// target: leading extra axes are summed away, as are axes where target has
// size 1 and the gradient does not.
func SumToShape(g *tensor.RawTensor, target tensor.Shape, b tensor.Backend) *tensor.RawTensor {
	shape := g.Shape()
	if shape.Equal(target) {
		return g
	}
	lead := len(shape) - len(target)
	if lead < 0 {
		exceptions.Panicf("sum to shape: gradient %v has lower rank than %v", shape, target)
	}
	var axes []int
	for i, dim := range shape {
		if i < lead {
			axes = append(axes, i)
			continue
		}
		switch want := target[i-lead]; {
		case want == dim:
		case want == 1:
			axes = append(axes, i)
		default:
			exceptions.Panicf("sum to shape: gradient %v does not broadcast to %v", shape, target)
		}
	}
	summed := b.SumAxes(g, axes, true)
	out, err := summed.Reshape(target)
	if err != nil {
		exceptions.Panicf("sum to shape: %+v", err)
	}
	return out
}

func traceOp(out *Tensor) {
	if !klog.V(3).Enabled() {
		return
	}
	ids := make([]int64, len(out.parents))
	for i, p := range out.parents {
		ids[i] = p.id
	}
	klog.Infof("autodiff: node %d = %s%v shape %v", out.id, out.gradFn.kind, ids, out.Shape())
}

func kindOf(t *Tensor) string {
	if t.gradFn == nil {
		return "leaf"
	}
	return t.gradFn.kind.String()
}

func nonFinite(g *tensor.RawTensor) bool {
	for _, v := range g.Data() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return true
		}
	}
	return false
}
