package autodiff

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// GraphStats summarizes the graph reachable from a tensor.
type GraphStats struct {
	Nodes      int   // distinct tensors, root included
	Leaves     int   // tensors without a producing op
	Edges      int   // parent links
	SavedBytes int64 // forward state held by backward rules
	GradBytes  int64 // accumulated gradient cells
}

// Stats walks every parent link from root, regardless of requires_grad, and
// reports the memory held by the graph.
func Stats(root *Tensor) GraphStats {
	var s GraphStats
	visited := make(map[int64]bool)
	stack := []*Tensor{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n.id] {
			continue
		}
		visited[n.id] = true

		s.Nodes++
		if n.gradFn == nil {
			s.Leaves++
		} else {
			s.SavedBytes += n.gradFn.SavedBytes()
		}
		if n.grad != nil {
			s.GradBytes += int64(n.grad.NumElements()) * 4
		}
		s.Edges += len(n.parents)
		stack = append(stack, n.parents...)
	}
	return s
}

// String implements fmt.Stringer.
func (s GraphStats) String() string {
	return fmt.Sprintf("%d nodes (%d leaves, %d edges), saved state %s, gradients %s",
		s.Nodes, s.Leaves, s.Edges, humanize.Bytes(uint64(s.SavedBytes)), humanize.Bytes(uint64(s.GradBytes)))
}
