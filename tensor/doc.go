// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides float32 N-dimensional tensors with reverse-mode
// automatic differentiation.
//
// # Overview
//
// A Tensor is a strided view over reference-counted, copy-on-write storage
// plus a node in a dynamically built computation graph:
//   - Row-major layout with NumPy-style broadcasting (stride 0 axes)
//   - Zero-copy reshape, transpose, slice and broadcast views
//   - Graph recording only for operations whose inputs require gradients
//   - Gradients accumulate across backward passes until ZeroGrad
//
// # Basic Usage
//
//	import "github.com/born-ml/autograd/tensor"
//
//	func main() {
//	    x := tensor.MustNew([]float32{1, 2, 3}, tensor.Shape{3}).SetRequiresGrad(true)
//	    y := x.Square().Sum()
//	    if err := y.Backward(); err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(x.Grad()) // [2 4 6]
//	}
//
// # Views and Contiguity
//
// Transpose, Slice and BroadcastTo return strided views. Read-only access
// (Data, Get, String) works on any view; AsSlice requires a contiguous
// tensor and fails with ErrNotContiguous otherwise. Call Contiguous to
// materialize a row-major copy.
//
// # Thread Safety
//
// Tensors are not safe for concurrent mutation. Independent graphs may be
// built and differentiated on separate goroutines.
package tensor
