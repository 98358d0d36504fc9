// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff exposes the reverse-mode engine behind tensor.Tensor.
//
// Graphs are recorded implicitly by operations on tensors that require
// gradients; this package adds the options, inspection helpers and errors
// of the backward pass.
//
// Example:
//
//	import (
//	    "github.com/born-ml/autograd/autodiff"
//	    "github.com/born-ml/autograd/tensor"
//	)
//
//	func main() {
//	    x := tensor.MustNew([]float32{1, 2}, tensor.Shape{2}).SetRequiresGrad(true)
//	    loss := x.Exp().Sum()
//	    fmt.Println(autodiff.Stats(loss))
//
//	    // Free the interior graph once the gradients are in.
//	    _ = loss.BackwardWithOptions(autodiff.BackwardOptions{RetainGraph: false})
//	}
package autodiff

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// BackwardOptions configures a backward pass.
type BackwardOptions = autodiff.BackwardOptions

// DefaultBackwardOptions returns the options used by Tensor.Backward:
// the graph is retained.
func DefaultBackwardOptions() BackwardOptions {
	return autodiff.DefaultBackwardOptions()
}

// GradFn is the backward rule recorded for a non-leaf tensor.
type GradFn = autodiff.GradFn

// GradKind identifies the operation that produced a tensor.
type GradKind = autodiff.GradKind

// GraphStats summarizes the graph reachable from a tensor.
type GraphStats = autodiff.GraphStats

// Stats walks the graph reachable from root.
func Stats(root *autodiff.Tensor) GraphStats {
	return autodiff.Stats(root)
}

// SumToShape sums a broadcast gradient back to target, the shape of the
// operand before broadcasting.
func SumToShape(g *tensor.RawTensor, target tensor.Shape, b tensor.Backend) *tensor.RawTensor {
	return autodiff.SumToShape(g, target, b)
}

// Errors returned by backward passes. Compare with errors.Is.
var (
	ErrNoGradientPath         = autodiff.ErrNoGradientPath
	ErrGradientNotImplemented = autodiff.ErrGradientNotImplemented
)
