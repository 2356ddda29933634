package specs

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/google-deepmind/dm-env/tensor"
)

// BoundedArray is an Array spec with inclusive element-wise bounds.
// Bounds are given as rank-0 scalars (broadcast over the shape) or as
// arrays of exactly the spec's shape, and are cast to the spec's dtype
// at construction so later comparisons are exact.
type BoundedArray struct {
	Array
	minimum *tensor.Dense
	maximum *tensor.Dense
}

var _ Spec = &BoundedArray{}

func NewBoundedArray(shape []int, dtype tensor.Dtype, minimum, maximum tensor.Array, name string) (*BoundedArray, error) {
	base, err := NewArray(shape, dtype, name)
	if err != nil {
		return nil, err
	}
	if !dtype.Numeric() {
		return nil, constructionErrorf("bounded specs need a numeric dtype, got %s", dtype)
	}
	lo, err := normalizeBound(shape, dtype, minimum, "minimum")
	if err != nil {
		return nil, err
	}
	hi, err := normalizeBound(shape, dtype, maximum, "maximum")
	if err != nil {
		return nil, err
	}
	n := lo.Len()
	if hi.Len() > n {
		n = hi.Len()
	}
	margin := make([]float64, n)
	for i := range margin {
		margin[i] = boundAt(hi, i) - boundAt(lo, i)
	}
	if n > 0 && floats.Min(margin) < 0 {
		return nil, constructionErrorf("all minimum values must be <= their corresponding maximum, got minimum %v maximum %v", lo, hi)
	}
	return &BoundedArray{Array: *base, minimum: lo, maximum: hi}, nil
}

// NewBoundedArrayFromVecs builds a 1-D bounded spec from gonum vector
// bounds, the usual currency of numeric code producing bound ranges.
func NewBoundedArrayFromVecs(dtype tensor.Dtype, minimum, maximum mat.Vector, name string) (*BoundedArray, error) {
	if minimum == nil || maximum == nil {
		return nil, constructionErrorf("both bound vectors are required")
	}
	if minimum.Len() != maximum.Len() {
		return nil, constructionErrorf("bound vectors differ in length: %d vs %d", minimum.Len(), maximum.Len())
	}
	return NewBoundedArray([]int{minimum.Len()}, dtype,
		tensor.FromVec(minimum), tensor.FromVec(maximum), name)
}

// normalizeBound checks a bound against the spec shape and casts it to
// the spec dtype.
func normalizeBound(shape []int, dtype tensor.Dtype, bound tensor.Array, which string) (*tensor.Dense, error) {
	if bound == nil {
		return nil, constructionErrorf("%s bound is required", which)
	}
	if !bound.Dtype().Numeric() {
		return nil, constructionErrorf("%s bound must be numeric, got dtype %s", which, bound.Dtype())
	}
	scalar := len(bound.Shape()) == 0
	if !scalar {
		if tensor.Numel(shape) < 0 {
			return nil, constructionErrorf("%s bound must be a scalar when shape %v has wildcard dimensions", which, shape)
		}
		if !tensor.ShapeEq(bound.Shape(), shape) {
			return nil, constructionErrorf("%s bound with shape %v is incompatible with spec shape %v", which, bound.Shape(), shape)
		}
	}
	data := make([]float64, bound.Len())
	for i := range data {
		data[i] = bound.At(i)
	}
	out, err := tensor.FromFloats(dtype, bound.Shape(), data)
	if err != nil {
		return nil, constructionErrorf("%s bound: %v", which, err)
	}
	return out, nil
}

// boundAt reads a bound element, broadcasting rank-0 bounds.
func boundAt(bound *tensor.Dense, i int) float64 {
	if bound.Len() == 1 {
		return bound.At(0)
	}
	return bound.At(i)
}

// Minimum returns the lower bound, cast to the spec dtype.
func (b *BoundedArray) Minimum() tensor.Array { return b.minimum }

// Maximum returns the upper bound, cast to the spec dtype.
func (b *BoundedArray) Maximum() tensor.Array { return b.maximum }

func (b *BoundedArray) Validate(value tensor.Array) (tensor.Array, error) {
	if _, err := b.Array.Validate(value); err != nil {
		return nil, err
	}
	for i := 0; i < value.Len(); i++ {
		v := value.At(i)
		if v < boundAt(b.minimum, i) || v > boundAt(b.maximum, i) {
			return nil, validationErrorf(ReasonBounds,
				"element %d value %v outside bounds [%v, %v]",
				i, v, boundAt(b.minimum, i), boundAt(b.maximum, i))
		}
	}
	return value, nil
}

// GenerateValue returns the element-wise minimum of the spec.
func (b *BoundedArray) GenerateValue() tensor.Array {
	shape := make([]int, len(b.shape))
	for i, d := range b.shape {
		if d < 0 {
			d = 0
		}
		shape[i] = d
	}
	data := make([]float64, tensor.Numel(shape))
	for i := range data {
		data[i] = boundAt(b.minimum, i)
	}
	v, err := tensor.FromFloats(b.dtype, shape, data)
	if err != nil {
		panic(err)
	}
	return v
}

func (b *BoundedArray) Replace(o Overrides) (*BoundedArray, error) {
	if o.NumValues != nil {
		return nil, constructionErrorf("bounded array specs have no num values to replace")
	}
	shape, dtype, name := b.shape, b.dtype, b.name
	var lo, hi tensor.Array = b.minimum, b.maximum
	if o.Shape != nil {
		shape = o.Shape
	}
	if o.Dtype != nil {
		dtype = *o.Dtype
	}
	if o.Name != nil {
		name = *o.Name
	}
	if o.Minimum != nil {
		lo = o.Minimum
	}
	if o.Maximum != nil {
		hi = o.Maximum
	}
	return NewBoundedArray(shape, dtype, lo, hi, name)
}

func (b *BoundedArray) Hash() string {
	return fmt.Sprintf("BoundedArray(shape=%v, dtype=%s, minimum=%s, maximum=%s, name=%q)",
		b.shape, b.dtype, b.minimum.Hash(), b.maximum.Hash(), b.name)
}

func (b *BoundedArray) Equal(other Spec) bool {
	return other != nil && b.Hash() == other.Hash()
}

func (b *BoundedArray) String() string { return b.Hash() }

// Discrete represents a single integer in [0, NumValues). It is a
// rank-0 BoundedArray whose dtype must be an integral type wide enough
// to hold NumValues - 1.
type Discrete struct {
	BoundedArray
	numValues int
}

var _ Spec = &Discrete{}

func NewDiscrete(numValues int, dtype tensor.Dtype, name string) (*Discrete, error) {
	if numValues <= 0 {
		return nil, constructionErrorf("num values must be positive, got %d", numValues)
	}
	if !dtype.Integral() {
		return nil, constructionErrorf("discrete specs need an integral dtype, got %s", dtype)
	}
	maxRepresentable, _ := dtype.MaxInt()
	if maxRepresentable < int64(numValues-1) {
		return nil, constructionErrorf("dtype %s is not big enough to hold num values %d", dtype, numValues)
	}
	b, err := NewBoundedArray([]int{}, dtype,
		tensor.IntScalar(dtype, 0), tensor.IntScalar(dtype, int64(numValues-1)), name)
	if err != nil {
		return nil, err
	}
	return &Discrete{BoundedArray: *b, numValues: numValues}, nil
}

// NumValues returns the number of admissible values.
func (d *Discrete) NumValues() int { return d.numValues }

// Replace substitutes NumValues, Dtype or Name. The shape and bounds
// of a discrete spec are derived, so overriding them is rejected.
func (d *Discrete) Replace(o Overrides) (*Discrete, error) {
	if o.Shape != nil || o.Minimum != nil || o.Maximum != nil {
		return nil, constructionErrorf("discrete specs derive shape and bounds from num values")
	}
	numValues, dtype, name := d.numValues, d.dtype, d.name
	if o.NumValues != nil {
		numValues = *o.NumValues
	}
	if o.Dtype != nil {
		dtype = *o.Dtype
	}
	if o.Name != nil {
		name = *o.Name
	}
	return NewDiscrete(numValues, dtype, name)
}

func (d *Discrete) Hash() string {
	return fmt.Sprintf("Discrete(numValues=%d, dtype=%s, name=%q)", d.numValues, d.dtype, d.name)
}

func (d *Discrete) Equal(other Spec) bool {
	return other != nil && d.Hash() == other.Hash()
}

func (d *Discrete) String() string { return d.Hash() }
