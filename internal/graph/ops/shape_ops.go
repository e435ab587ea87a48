package ops

import (
	"fmt"
	"slices"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/onnx"
)

// Reshape reinterprets a value under a new shape carried by an int64
// constant, following ONNX semantics: a 0 entry copies the corresponding
// input dimension and a single -1 entry is inferred from the remaining ones.
type Reshape struct{ single }

// NewReshape creates a Reshape operation. When -1 cannot be inferred (the
// input has symbolic or unresolved dimensions) the corresponding output
// dimension stays unresolved rather than failing graph construction; export
// of such a value as a constant would fail later with ErrUnresolvedDimension.
func NewReshape(name string, x graph.Value, shape *Constant) (*Reshape, error) {
	dims, err := shape.Int64Values()
	if err != nil {
		return nil, err
	}
	if shape.Shape().Rank() != 1 {
		return nil, fmt.Errorf("%w: Reshape shape input must be rank 1, got %s", graph.ErrInvalidInput, shape.Shape())
	}

	in := x.Shape()
	out := make(graph.Shape, len(dims))
	infer := -1
	known := int64(1)
	for i, d := range dims {
		switch {
		case d > 0:
			out[i] = graph.FixedDim(d)
			known *= d
		case d == 0:
			if i >= in.Rank() {
				return nil, fmt.Errorf("%w: Reshape dim %d copies input dimension %d, input is %s",
					graph.ErrInvalidInput, i, i, in)
			}
			out[i] = in[i]
			if in[i].Known() {
				known *= in[i].Value()
			} else {
				known = 0 // inference impossible past an unknown copy
			}
		case d == -1:
			if infer >= 0 {
				return nil, fmt.Errorf("%w: Reshape allows at most one -1 entry", graph.ErrInvalidInput)
			}
			infer = i
		default:
			return nil, fmt.Errorf("%w: Reshape dim %d is %d", graph.ErrInvalidInput, i, d)
		}
	}
	if infer >= 0 {
		out[infer] = graph.UnresolvedDim()
		if total, err := in.NumElements(); err == nil && known > 0 && total%known == 0 {
			out[infer] = graph.FixedDim(total / known)
		}
	}

	op := &Reshape{}
	op.init(op, name, []graph.Value{x, shape}, x.DType(), out)
	return op, nil
}

// OpType returns "Reshape".
func (*Reshape) OpType() string { return "Reshape" }

// Transpose permutes the dimensions of a value.
type Transpose struct {
	single
	perm []int64
}

// NewTranspose creates a Transpose operation. A nil perm reverses the
// dimensions, matching the ONNX default.
func NewTranspose(name string, x graph.Value, perm []int64) (*Transpose, error) {
	in := x.Shape()
	rank := int64(in.Rank())
	if perm == nil {
		perm = make([]int64, rank)
		for i := range perm {
			perm[i] = rank - 1 - int64(i)
		}
	}
	if int64(len(perm)) != rank {
		return nil, fmt.Errorf("%w: perm has %d entries for rank %d", graph.ErrInvalidInput, len(perm), rank)
	}
	seen := make([]bool, rank)
	out := make(graph.Shape, rank)
	for i, p := range perm {
		if p < 0 || p >= rank || seen[p] {
			return nil, fmt.Errorf("%w: perm %v is not a permutation of rank %d", graph.ErrInvalidInput, perm, rank)
		}
		seen[p] = true
		out[i] = in[p]
	}

	op := &Transpose{perm: perm}
	op.init(op, name, []graph.Value{x}, x.DType(), out)
	return op, nil
}

// OpType returns "Transpose".
func (*Transpose) OpType() string { return "Transpose" }

// Attributes returns the permutation.
func (t *Transpose) Attributes() []onnx.AttributeProto {
	return []onnx.AttributeProto{intsAttr("perm", t.perm)}
}

// Unsqueeze inserts size-1 dimensions at the axes named by an int64 constant.
type Unsqueeze struct{ single }

// NewUnsqueeze creates an Unsqueeze operation. Axes are interpreted against
// the output rank and may be negative.
func NewUnsqueeze(name string, x graph.Value, axes *Constant) (*Unsqueeze, error) {
	axesVals, err := axes.Int64Values()
	if err != nil {
		return nil, err
	}
	in := x.Shape()
	outRank := int64(in.Rank() + len(axesVals))
	normalized, err := normalizeAxes(axesVals, outRank)
	if err != nil {
		return nil, err
	}

	out := make(graph.Shape, 0, outRank)
	next := 0
	for i := int64(0); i < outRank; i++ {
		if slices.Contains(normalized, i) {
			out = append(out, graph.FixedDim(1))
			continue
		}
		out = append(out, in[next])
		next++
	}

	op := &Unsqueeze{}
	op.init(op, name, []graph.Value{x, axes}, x.DType(), out)
	return op, nil
}

// OpType returns "Unsqueeze".
func (*Unsqueeze) OpType() string { return "Unsqueeze" }

// Squeeze removes size-1 dimensions at the axes named by an int64 constant.
type Squeeze struct{ single }

// NewSqueeze creates a Squeeze operation. Every named axis must be a fixed
// size-1 dimension; squeezing a symbolic dimension is rejected because the
// exporter cannot prove it is 1.
func NewSqueeze(name string, x graph.Value, axes *Constant) (*Squeeze, error) {
	axesVals, err := axes.Int64Values()
	if err != nil {
		return nil, err
	}
	in := x.Shape()
	normalized, err := normalizeAxes(axesVals, int64(in.Rank()))
	if err != nil {
		return nil, err
	}

	out := make(graph.Shape, 0, in.Rank())
	for i, d := range in {
		if slices.Contains(normalized, int64(i)) {
			if !d.Known() || d.Value() != 1 {
				return nil, fmt.Errorf("%w: cannot squeeze dimension %d (%s) of %s",
					graph.ErrShapeMismatch, i, d, in)
			}
			continue
		}
		out = append(out, d)
	}

	op := &Squeeze{}
	op.init(op, name, []graph.Value{x, axes}, x.DType(), out)
	return op, nil
}

// OpType returns "Squeeze".
func (*Squeeze) OpType() string { return "Squeeze" }

// Slice extracts a contiguous range along the leading axes. Start and end
// positions arrive as int64 constants of equal length; axes beyond their
// length are copied whole. Steps and explicit axes are not supported.
type Slice struct{ single }

// NewSlice creates a Slice operation. Negative positions count from the end
// of the axis and out-of-range positions are clamped, following ONNX
// semantics. An axis whose input size is symbolic or unknown yields an
// unresolved output dimension.
func NewSlice(name string, x graph.Value, starts, ends *Constant) (*Slice, error) {
	sv, err := starts.Int64Values()
	if err != nil {
		return nil, err
	}
	ev, err := ends.Int64Values()
	if err != nil {
		return nil, err
	}
	if starts.Shape().Rank() != 1 || ends.Shape().Rank() != 1 {
		return nil, fmt.Errorf("%w: Slice start and end inputs must be rank 1, got %s and %s",
			graph.ErrInvalidInput, starts.Shape(), ends.Shape())
	}
	if len(sv) != len(ev) {
		return nil, fmt.Errorf("%w: Slice has %d starts and %d ends", graph.ErrInvalidInput, len(sv), len(ev))
	}
	in := x.Shape()
	if len(sv) > in.Rank() {
		return nil, fmt.Errorf("%w: Slice names %d axes, input is %s", graph.ErrInvalidInput, len(sv), in)
	}

	out := in.Clone()
	for i := range sv {
		if !in[i].Known() {
			out[i] = graph.UnresolvedDim()
			continue
		}
		size := in[i].Value()
		s := clampSliceIndex(sv[i], size)
		e := clampSliceIndex(ev[i], size)
		if e < s {
			e = s
		}
		out[i] = graph.FixedDim(e - s)
	}

	op := &Slice{}
	op.init(op, name, []graph.Value{x, starts, ends}, x.DType(), out)
	return op, nil
}

// OpType returns "Slice".
func (*Slice) OpType() string { return "Slice" }

// clampSliceIndex resolves a negative position against size and clamps the
// result into [0, size].
func clampSliceIndex(v, size int64) int64 {
	if v < 0 {
		v += size
	}
	return min(max(v, 0), size)
}

// Expand broadcasts a value to the shape carried by an int64 constant.
type Expand struct{ single }

// NewExpand creates an Expand operation. The target entries must be positive
// and broadcast-compatible with the input shape; the output follows the
// usual broadcasting rules, so a target entry of 1 keeps the input
// dimension.
func NewExpand(name string, x graph.Value, shape *Constant) (*Expand, error) {
	dims, err := shape.Int64Values()
	if err != nil {
		return nil, err
	}
	if shape.Shape().Rank() != 1 {
		return nil, fmt.Errorf("%w: Expand shape input must be rank 1, got %s", graph.ErrInvalidInput, shape.Shape())
	}
	target := make(graph.Shape, len(dims))
	for i, d := range dims {
		if d < 1 {
			return nil, fmt.Errorf("%w: Expand dim %d is %d", graph.ErrInvalidInput, i, d)
		}
		target[i] = graph.FixedDim(d)
	}
	out, err := graph.Broadcast(x.Shape(), target)
	if err != nil {
		return nil, err
	}

	op := &Expand{}
	op.init(op, name, []graph.Value{x, shape}, x.DType(), out)
	return op, nil
}

// OpType returns "Expand".
func (*Expand) OpType() string { return "Expand" }

// normalizeAxes resolves negative axes against rank and rejects duplicates
// and out-of-range entries.
func normalizeAxes(axes []int64, rank int64) ([]int64, error) {
	out := make([]int64, 0, len(axes))
	for _, a := range axes {
		if a < 0 {
			a += rank
		}
		if a < 0 || a >= rank {
			return nil, fmt.Errorf("%w: axis %d out of range for rank %d", graph.ErrInvalidInput, a, rank)
		}
		if slices.Contains(out, a) {
			return nil, fmt.Errorf("%w: duplicate axis %d", graph.ErrInvalidInput, a)
		}
		out = append(out, a)
	}
	return out, nil
}
