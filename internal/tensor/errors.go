package tensor

import "github.com/pkg/errors"

// Errors raised by the value layer. Call sites wrap them with context, so
// compare with errors.Is.
var (
	// ErrShapeMismatch reports incompatible shapes (element count, matmul
	// inner dimensions, binary op operands).
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNotBroadcastable reports shapes that the broadcasting rule cannot
	// reconcile. It wraps ErrShapeMismatch.
	ErrNotBroadcastable = errors.WithMessage(ErrShapeMismatch, "not broadcastable")

	// ErrIndexOutOfBounds reports an index or axis beyond its dimension.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrNotContiguous reports flat access to a strided or offset view.
	ErrNotContiguous = errors.New("tensor is not contiguous")

	// ErrDivisionByZero reports division by a literal zero scalar.
	ErrDivisionByZero = errors.New("division by zero")
)
