package autodiff

import (
	"fmt"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/pkg/errors"
)

// GradKind identifies the local derivative rule of a traced op.
type GradKind int

// Gradient rule kinds, one per traced op family.
const (
	GradIdentity GradKind = iota
	GradNeg
	GradAdd
	GradSub
	GradMul
	GradDiv
	GradScale
	GradScalarDiv
	GradPow
	GradExp
	GradLog
	GradSqrt
	GradAbs
	GradSign
	GradClamp
	GradSigmoid
	GradReLU
	GradSoftmax
	GradLogSoftmax
	GradMatMul
	GradSum
	GradMean
	GradMax
	GradMin
	GradTranspose
	GradReshape
	GradBroadcast
	GradSlice
	GradGather
)

var gradKindNames = [...]string{
	GradIdentity:   "Identity",
	GradNeg:        "Neg",
	GradAdd:        "Add",
	GradSub:        "Sub",
	GradMul:        "Mul",
	GradDiv:        "Div",
	GradScale:      "Scale",
	GradScalarDiv:  "ScalarDiv",
	GradPow:        "Pow",
	GradExp:        "Exp",
	GradLog:        "Log",
	GradSqrt:       "Sqrt",
	GradAbs:        "Abs",
	GradSign:       "Sign",
	GradClamp:      "Clamp",
	GradSigmoid:    "Sigmoid",
	GradReLU:       "ReLU",
	GradSoftmax:    "Softmax",
	GradLogSoftmax: "LogSoftmax",
	GradMatMul:     "MatMul",
	GradSum:        "Sum",
	GradMean:       "Mean",
	GradMax:        "Max",
	GradMin:        "Min",
	GradTranspose:  "Transpose",
	GradReshape:    "Reshape",
	GradBroadcast:  "Broadcast",
	GradSlice:      "Slice",
	GradGather:     "Gather",
}

func (k GradKind) String() string {
	if k < 0 || int(k) >= len(gradKindNames) {
		return fmt.Sprintf("GradKind(%d)", int(k))
	}
	return gradKindNames[k]
}

// Implemented reports whether the kind has a backward rule.
func (k GradKind) Implemented() bool {
	return k != GradSign
}

// GradFn is the backward rule of one traced op invocation: a kind plus the
// forward-pass state that rule reads. It never mutates its captured state.
//
// Captured tensors per kind:
//
//	Mul, Div:          saved = [a, b]
//	ScalarDiv:         saved = [x], scalar = numerator
//	Pow:               saved = [x], scalar = exponent
//	Log, Abs:          saved = [x]
//	Exp, Sqrt, Sigmoid: saved = [output]
//	Clamp, ReLU:       saved = [mask]
//	Max, Min:          saved = [extremum mask]
//	Softmax:           saved = [output]
//	LogSoftmax:        saved = [softmax of the input]
//	MatMul:            saved = [a2d, b2d], the operands viewed as matrices
type GradFn struct {
	kind     GradKind
	saved    []*tensor.RawTensor
	scalar   float32
	axes     []int          // reduced axes, softmax axis, or transpose permutation
	keepDims bool           // reductions
	shapes   []tensor.Shape // shapes of the parents, in parent order
	start    int            // Slice
	indices  []int          // Gather
}

// Kind returns the rule kind.
func (f *GradFn) Kind() GradKind {
	return f.kind
}

// SavedBytes returns the size of the forward state held by the rule.
func (f *GradFn) SavedBytes() int64 {
	var n int64
	for _, s := range f.saved {
		n += int64(s.NumElements()) * 4
	}
	return n
}

func (f *GradFn) String() string {
	return f.kind.String()
}

// release drops the captured forward state.
func (f *GradFn) release() {
	for _, s := range f.saved {
		s.Release()
	}
	f.saved = nil
}

// Apply maps the upstream gradient g (shaped like the op's output) to one
// gradient per parent, in parent order. Returned gradients may still carry
// the broadcast output shape; the engine reduces them to each parent's shape.
func (f *GradFn) Apply(g *tensor.RawTensor, b tensor.Backend) ([]*tensor.RawTensor, error) {
	switch f.kind {
	case GradIdentity, GradBroadcast:
		return []*tensor.RawTensor{g}, nil

	case GradNeg:
		return []*tensor.RawTensor{b.Neg(g)}, nil

	case GradAdd:
		return []*tensor.RawTensor{g, g}, nil

	case GradSub:
		return []*tensor.RawTensor{g, b.Neg(g)}, nil

	case GradMul:
		x, y := f.saved[0], f.saved[1]
		return []*tensor.RawTensor{b.Mul(g, y), b.Mul(g, x)}, nil

	case GradDiv:
		// d(x/y)/dx = 1/y, d(x/y)/dy = -x/y²
		x, y := f.saved[0], f.saved[1]
		gx := b.Div(g, y)
		gy := b.Neg(b.Div(b.Mul(g, x), b.Mul(y, y)))
		return []*tensor.RawTensor{gx, gy}, nil

	case GradScale:
		return []*tensor.RawTensor{b.MulScalar(g, f.scalar)}, nil

	case GradScalarDiv:
		// d(s/x)/dx = -s/x²
		x := f.saved[0]
		return []*tensor.RawTensor{b.Mul(g, b.ScalarDiv(-f.scalar, b.Mul(x, x)))}, nil

	case GradPow:
		if f.scalar == 0 {
			// x⁰ is constant; x^-1 would turn zeros into Inf·0.
			return []*tensor.RawTensor{b.MulScalar(g, 0)}, nil
		}
		x := f.saved[0]
		return []*tensor.RawTensor{b.MulScalar(b.Mul(g, b.Pow(x, f.scalar-1)), f.scalar)}, nil

	case GradExp:
		return []*tensor.RawTensor{b.Mul(g, f.saved[0])}, nil

	case GradLog:
		return []*tensor.RawTensor{b.Div(g, f.saved[0])}, nil

	case GradSqrt:
		return []*tensor.RawTensor{b.Div(g, b.MulScalar(f.saved[0], 2))}, nil

	case GradAbs:
		return []*tensor.RawTensor{b.Mul(g, b.Sign(f.saved[0]))}, nil

	case GradClamp, GradReLU:
		return []*tensor.RawTensor{b.Mul(g, f.saved[0])}, nil

	case GradSigmoid:
		// σ'(x) = σ(x)(1 - σ(x))
		s := f.saved[0]
		return []*tensor.RawTensor{b.Mul(g, b.Mul(s, b.AddScalar(b.Neg(s), 1)))}, nil

	case GradSoftmax:
		// dx = s·(g - Σ(g·s)) along the softmax axis
		s := f.saved[0]
		dot := b.SumAxes(b.Mul(g, s), f.axes, true)
		return []*tensor.RawTensor{b.Mul(s, b.Sub(g, dot))}, nil

	case GradLogSoftmax:
		// dx = g - softmax·Σg along the axis
		sum := b.SumAxes(g, f.axes, true)
		return []*tensor.RawTensor{b.Sub(g, b.Mul(f.saved[0], sum))}, nil

	case GradMatMul:
		return f.matMulGrads(g, b)

	case GradSum, GradMean, GradMax, GradMin:
		gx, err := expandReduced(g, f.shapes[0], f.axes, f.keepDims)
		if err != nil {
			return nil, err
		}
		switch f.kind {
		case GradMean:
			gx = b.MulScalar(gx, f.scalar)
		case GradMax, GradMin:
			gx = b.Mul(gx, f.saved[0])
		}
		return []*tensor.RawTensor{gx}, nil

	case GradTranspose:
		inverse := make([]int, len(f.axes))
		for i, ax := range f.axes {
			inverse[ax] = i
		}
		gx, err := g.Transpose(inverse...)
		if err != nil {
			return nil, errors.WithMessage(err, "transpose backward")
		}
		return []*tensor.RawTensor{gx}, nil

	case GradReshape:
		gx, err := g.Reshape(f.shapes[0])
		if err != nil {
			return nil, errors.WithMessage(err, "reshape backward")
		}
		return []*tensor.RawTensor{gx}, nil

	case GradSlice:
		return []*tensor.RawTensor{b.PadSlice(g, f.shapes[0], f.axes[0], f.start)}, nil

	case GradGather:
		return []*tensor.RawTensor{b.ScatterAdd(g, f.shapes[0], f.axes[0], f.indices)}, nil

	case GradSign:
		return nil, errors.Wrapf(ErrGradientNotImplemented, "%s is piecewise constant", f.kind)
	}
	return nil, errors.Wrapf(ErrGradientNotImplemented, "unknown gradient kind %s", f.kind)
}

// matMulGrads applies dA = g·Bᵀ and dB = Aᵀ·g on the matrix views of the
// operands, then reshapes each gradient back to its parent's shape.
func (f *GradFn) matMulGrads(g *tensor.RawTensor, b tensor.Backend) ([]*tensor.RawTensor, error) {
	a2, b2 := f.saved[0], f.saved[1]
	g2, err := g.Reshape(tensor.Shape{a2.Shape()[0], b2.Shape()[1]})
	if err != nil {
		return nil, errors.WithMessage(err, "matmul backward")
	}
	bt, err := b2.Transpose()
	if err != nil {
		return nil, errors.WithMessage(err, "matmul backward")
	}
	at, err := a2.Transpose()
	if err != nil {
		return nil, errors.WithMessage(err, "matmul backward")
	}
	ga, err := b.MatMul(g2, bt).Reshape(f.shapes[0])
	if err != nil {
		return nil, errors.WithMessage(err, "matmul backward")
	}
	gb, err := b.MatMul(at, g2).Reshape(f.shapes[1])
	if err != nil {
		return nil, errors.WithMessage(err, "matmul backward")
	}
	return []*tensor.RawTensor{ga, gb}, nil
}

// expandReduced broadcasts a reduction's gradient back over the reduced axes
// of inShape.
func expandReduced(g *tensor.RawTensor, inShape tensor.Shape, axes []int, keepDims bool) (*tensor.RawTensor, error) {
	kept := g
	if !keepDims {
		var err error
		kept, err = g.Reshape(inShape.ReducedShape(axes, true))
		if err != nil {
			return nil, errors.WithMessage(err, "reduction backward")
		}
	}
	expanded, err := kept.BroadcastTo(inShape)
	if err != nil {
		return nil, errors.WithMessage(err, "reduction backward")
	}
	return expanded, nil
}
