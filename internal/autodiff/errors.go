package autodiff

import "github.com/pkg/errors"

var (
	// ErrNoGradientPath reports a backward pass started from a tensor that
	// does not require gradients, or through a graph already released.
	ErrNoGradientPath = errors.New("no gradient path")

	// ErrGradientNotImplemented reports an op whose backward rule is
	// intentionally absent.
	ErrGradientNotImplemented = errors.New("gradient not implemented")
)
