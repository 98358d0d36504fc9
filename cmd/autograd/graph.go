package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/autograd/autodiff"
	"github.com/born-ml/autograd/tensor"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
)

// buildNetwork records a one-hidden-layer network with a log-softmax
// head and returns the scalar loss.
func buildNetwork(batch, hidden int) (*tensor.Tensor, error) {
	const inputs, classes = 3, 2
	ramp := func(n int, scale float32) []float32 {
		v := make([]float32, n)
		for i := range v {
			v[i] = scale * float32(i%7-3)
		}
		return v
	}
	x := must.M1(tensor.New(ramp(batch*inputs, 0.3), tensor.Shape{batch, inputs}))
	w1 := must.M1(tensor.WithGrad(ramp(inputs*hidden, 0.1), tensor.Shape{inputs, hidden}))
	b1 := must.M1(tensor.Zeros(tensor.Shape{hidden})).SetRequiresGrad(true)
	w2 := must.M1(tensor.WithGrad(ramp(hidden*classes, 0.2), tensor.Shape{hidden, classes}))

	h, err := x.MatMul(w1)
	if err != nil {
		return nil, err
	}
	if h, err = h.Add(b1); err != nil {
		return nil, err
	}
	logits, err := h.ReLU().MatMul(w2)
	if err != nil {
		return nil, err
	}
	logp, err := logits.LogSoftmax(1)
	if err != nil {
		return nil, err
	}
	return logp.Mean().Neg(), nil
}

// graphNodes lists the tensors reachable from root, parents before children.
func graphNodes(root *tensor.Tensor) []*tensor.Tensor {
	var order []*tensor.Tensor
	seen := make(map[int64]bool)
	var visit func(t *tensor.Tensor)
	visit = func(t *tensor.Tensor) {
		if seen[t.ID()] {
			return
		}
		seen[t.ID()] = true
		for _, p := range t.Parents() {
			visit(p)
		}
		order = append(order, t)
	}
	visit(root)
	return order
}

func inspectGraph(batch, hidden int) error {
	loss, err := buildNetwork(batch, hidden)
	if err != nil {
		return err
	}
	before := autodiff.Stats(loss)
	if err := loss.Backward(); err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Graph"))
	table := newPlainTable(lipgloss.Right, lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Right)
	table.Headers("id", "op", "shape", "parents", "grad")
	for _, t := range graphNodes(loss) {
		op := "leaf"
		if fn := t.GradFn(); fn != nil {
			op = fn.String()
		}
		parents := make([]string, 0, 2)
		for _, p := range t.Parents() {
			parents = append(parents, fmt.Sprint(p.ID()))
		}
		grad := "-"
		if t.RequiresGrad() && t.Grad() != nil {
			grad = humanize.Bytes(uint64(t.NumElements() * 4))
		}
		table.Row(fmt.Sprint(t.ID()), op, fmt.Sprint([]int(t.Shape())), strings.Join(parents, ","), grad)
	}
	fmt.Println(table.Render())

	after := autodiff.Stats(loss)
	fmt.Println(titleStyle.Render("Summary"))
	summary := newPlainTable(lipgloss.Right, lipgloss.Left)
	summary.Row("nodes", humanize.Comma(int64(before.Nodes)))
	summary.Row("leaves", humanize.Comma(int64(before.Leaves)))
	summary.Row("edges", humanize.Comma(int64(before.Edges)))
	summary.Row("saved state", humanize.Bytes(uint64(before.SavedBytes)))
	summary.Row("gradients", humanize.Bytes(uint64(after.GradBytes)))
	summary.Row("ops", strings.Join(opKinds(loss), " "))
	fmt.Println(summary.Render())
	return nil
}

// opKinds returns the distinct op names in the graph of root, sorted.
func opKinds(root *tensor.Tensor) []string {
	var kinds []string
	for _, t := range graphNodes(root) {
		if fn := t.GradFn(); fn != nil && !slices.Contains(kinds, fn.String()) {
			kinds = append(kinds, fn.String())
		}
	}
	slices.Sort(kinds)
	return kinds
}
