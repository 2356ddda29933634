// Package specs describes the admissible shape, element type and
// numeric domain of the array values an environment exchanges with its
// caller. Specs are immutable value objects: they are built bottom-up,
// validated at construction, and safe to share without locking.
package specs

import (
	"fmt"

	"github.com/google-deepmind/dm-env/tensor"
)

// Spec describes the admissible set of values for one array-like slot.
type Spec interface {
	Shape() []int
	Dtype() tensor.Dtype
	Name() string

	// Validate checks value against the spec and returns it unchanged
	// on success. Failures are *ValidationError with a Reason that
	// discriminates shape vs dtype vs bounds mismatches.
	Validate(value tensor.Array) (tensor.Array, error)

	// GenerateValue returns one arbitrary value satisfying the spec,
	// used by conformance checks as a cheap positive fixture.
	GenerateValue() tensor.Array

	// Hash returns a key over the full field tuple (variant, shape,
	// dtype, bounds, name). Two specs are equal iff their keys match.
	Hash() string

	Equal(other Spec) bool

	fmt.Stringer
}

// Overrides names the spec fields a Replace call substitutes. Nil
// fields keep the receiver's value. Minimum/Maximum apply to bounded
// variants only, NumValues to discrete ones.
type Overrides struct {
	Shape     []int
	Dtype     *tensor.Dtype
	Name      *string
	Minimum   tensor.Array
	Maximum   tensor.Array
	NumValues *int
}

// Must panics on a construction error. For statically-known specs.
func Must(s Spec, err error) Spec {
	if err != nil {
		panic(err)
	}
	return s
}

// checkShape rejects negative dimensions other than the -1 wildcard.
func checkShape(shape []int) error {
	for _, d := range shape {
		if d < -1 {
			return constructionErrorf("shape %v contains negative non-wildcard dimension %d", shape, d)
		}
	}
	return nil
}

// shapeMatches reports whether a concrete value shape satisfies a spec
// shape, with -1 matching any size at that position.
func shapeMatches(spec, value []int) bool {
	if len(spec) != len(value) {
		return false
	}
	for i := range spec {
		if spec[i] != -1 && spec[i] != value[i] {
			return false
		}
	}
	return true
}

// Array describes an array by shape and dtype only.
type Array struct {
	shape []int
	dtype tensor.Dtype
	name  string
}

var _ Spec = &Array{}

// NewArray returns an Array spec. A -1 dimension matches any size at
// that position during validation.
func NewArray(shape []int, dtype tensor.Dtype, name string) (*Array, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	return &Array{shape: append([]int{}, shape...), dtype: dtype, name: name}, nil
}

func (a *Array) Shape() []int        { return append([]int{}, a.shape...) }
func (a *Array) Dtype() tensor.Dtype { return a.dtype }
func (a *Array) Name() string        { return a.name }

func (a *Array) Validate(value tensor.Array) (tensor.Array, error) {
	if value == nil {
		return nil, validationErrorf(ReasonShape, "expected shape %v, got no value", a.shape)
	}
	if !shapeMatches(a.shape, value.Shape()) {
		return nil, validationErrorf(ReasonShape, "expected shape %v, got %v", a.shape, value.Shape())
	}
	if value.Dtype() != a.dtype {
		return nil, validationErrorf(ReasonDtype, "expected dtype %s, got %s", a.dtype, value.Dtype())
	}
	return value, nil
}

func (a *Array) GenerateValue() tensor.Array {
	return tensor.Zeros(a.dtype, a.shape)
}

// Replace returns a new Array with the given fields substituted.
func (a *Array) Replace(o Overrides) (*Array, error) {
	shape, dtype, name := a.shape, a.dtype, a.name
	if o.Shape != nil {
		shape = o.Shape
	}
	if o.Dtype != nil {
		dtype = *o.Dtype
	}
	if o.Name != nil {
		name = *o.Name
	}
	if o.Minimum != nil || o.Maximum != nil || o.NumValues != nil {
		return nil, constructionErrorf("array specs have no bounds or num values to replace")
	}
	return NewArray(shape, dtype, name)
}

func (a *Array) Hash() string {
	return fmt.Sprintf("Array(shape=%v, dtype=%s, name=%q)", a.shape, a.dtype, a.name)
}

func (a *Array) Equal(other Spec) bool {
	return other != nil && a.Hash() == other.Hash()
}

func (a *Array) String() string { return a.Hash() }
