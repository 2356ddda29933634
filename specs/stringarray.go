package specs

import (
	"fmt"

	"github.com/google-deepmind/dm-env/tensor"
)

// StringArray describes an array of variable-length text elements.
// Unlike the numeric specs, validation checks the element type
// category: any text-kind value (String or Bytes) satisfies the spec.
type StringArray struct {
	shape []int
	dtype tensor.Dtype
	name  string
}

var _ Spec = &StringArray{}

func NewStringArray(shape []int, dtype tensor.Dtype, name string) (*StringArray, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if dtype.Kind() != tensor.KindString {
		return nil, constructionErrorf("string array specs need a text dtype, got %s", dtype)
	}
	return &StringArray{shape: append([]int{}, shape...), dtype: dtype, name: name}, nil
}

func (s *StringArray) Shape() []int        { return append([]int{}, s.shape...) }
func (s *StringArray) Dtype() tensor.Dtype { return s.dtype }
func (s *StringArray) Name() string        { return s.name }

func (s *StringArray) Validate(value tensor.Array) (tensor.Array, error) {
	if value == nil {
		return nil, validationErrorf(ReasonShape, "expected shape %v, got no value", s.shape)
	}
	if !shapeMatches(s.shape, value.Shape()) {
		return nil, validationErrorf(ReasonShape, "expected shape %v, got %v", s.shape, value.Shape())
	}
	if value.Dtype().Kind() != tensor.KindString {
		return nil, validationErrorf(ReasonElementType, "expected text elements, got dtype %s", value.Dtype())
	}
	return value, nil
}

// GenerateValue returns an array of empty strings.
func (s *StringArray) GenerateValue() tensor.Array {
	return tensor.Zeros(s.dtype, s.shape)
}

func (s *StringArray) Replace(o Overrides) (*StringArray, error) {
	if o.Minimum != nil || o.Maximum != nil || o.NumValues != nil {
		return nil, constructionErrorf("string array specs have no bounds or num values to replace")
	}
	shape, dtype, name := s.shape, s.dtype, s.name
	if o.Shape != nil {
		shape = o.Shape
	}
	if o.Dtype != nil {
		dtype = *o.Dtype
	}
	if o.Name != nil {
		name = *o.Name
	}
	return NewStringArray(shape, dtype, name)
}

func (s *StringArray) Hash() string {
	return fmt.Sprintf("StringArray(shape=%v, dtype=%s, name=%q)", s.shape, s.dtype, s.name)
}

func (s *StringArray) Equal(other Spec) bool {
	return other != nil && s.Hash() == other.Hash()
}

func (s *StringArray) String() string { return s.Hash() }
