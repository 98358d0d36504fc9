// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for float32 tensors.
//
// # Overview
//
// This package implements the forward kernels used by the tensor and
// autodiff packages:
//   - Element-wise arithmetic with NumPy-compatible broadcasting
//   - Unary math, sigmoid, ReLU, softmax and log-softmax
//   - 2-D matrix multiplication
//   - Sum, max and min reductions over arbitrary axes
//   - Gather, scatter-add and slice padding for gradient routing
//
// # Numerics
//
// Kernels follow IEEE-754: division by zero yields ±Inf or NaN and log of a
// non-positive value yields -Inf or NaN. Sigmoid and the softmax family are
// evaluated in their numerically stable forms.
//
// # Thread Safety
//
// The CPU backend is stateless and safe for concurrent use.
package cpu
