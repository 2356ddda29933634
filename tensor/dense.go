// Package tensor holds the minimal array capability the spec system is
// written against: a dtype, a shape and flat element access. Dense is
// the concrete implementation used by toy environments and tests.
package tensor

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Array is the capability surface the spec system validates against.
// Numeric elements are read widened to float64, text elements via StrAt.
type Array interface {
	Dtype() Dtype
	Shape() []int
	Len() int
	At(i int) float64
	StrAt(i int) string
}

// Numel returns the number of elements implied by shape, or -1 if the
// shape contains a wildcard dimension.
func Numel(shape []int) int {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return -1
		}
		n *= d
	}
	return n
}

// ShapeEq reports whether two concrete shapes are identical.
func ShapeEq(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Dense is a flat-buffer array. Numeric dtypes store elements widened
// to float64, text dtypes store strings. Instances are not mutated
// after construction.
type Dense struct {
	dtype  Dtype
	shape  []int
	floats []float64
	strs   []string
}

var _ Array = &Dense{}

// Zeros returns an all-zero (or all-empty-string) array of the given
// dtype and shape. Wildcard dimensions are materialized as size 0.
func Zeros(dtype Dtype, shape []int) *Dense {
	concrete := make([]int, len(shape))
	for i, d := range shape {
		if d < 0 {
			d = 0
		}
		concrete[i] = d
	}
	n := Numel(concrete)
	d := &Dense{dtype: dtype, shape: concrete}
	if dtype.Numeric() {
		d.floats = make([]float64, n)
	} else {
		d.strs = make([]string, n)
	}
	return d
}

// Full returns an array with every element set to v, cast to dtype.
func Full(dtype Dtype, shape []int, v float64) *Dense {
	d := Zeros(dtype, shape)
	v = CastValue(dtype, v)
	for i := range d.floats {
		d.floats[i] = v
	}
	return d
}

// FromFloats wraps flat numeric data with the given dtype and shape.
func FromFloats(dtype Dtype, shape []int, data []float64) (*Dense, error) {
	if !dtype.Numeric() {
		return nil, fmt.Errorf("dtype %s does not hold numeric data", dtype)
	}
	n := Numel(shape)
	if n < 0 {
		return nil, fmt.Errorf("shape %v has a wildcard dimension", shape)
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v needs %d elements, got %d", shape, n, len(data))
	}
	cp := make([]float64, len(data))
	for i, v := range data {
		cp[i] = CastValue(dtype, v)
	}
	return &Dense{dtype: dtype, shape: append([]int{}, shape...), floats: cp}, nil
}

// FromStrings wraps flat text data with the given dtype and shape.
func FromStrings(dtype Dtype, shape []int, data []string) (*Dense, error) {
	if dtype.Kind() != KindString {
		return nil, fmt.Errorf("dtype %s does not hold text data", dtype)
	}
	n := Numel(shape)
	if n < 0 {
		return nil, fmt.Errorf("shape %v has a wildcard dimension", shape)
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v needs %d elements, got %d", shape, n, len(data))
	}
	return &Dense{dtype: dtype, shape: append([]int{}, shape...), strs: append([]string{}, data...)}, nil
}

// Scalar returns a rank-0 numeric array.
func Scalar(dtype Dtype, v float64) *Dense {
	return &Dense{dtype: dtype, shape: []int{}, floats: []float64{CastValue(dtype, v)}}
}

// FloatScalar returns a rank-0 float64 array.
func FloatScalar(v float64) *Dense {
	return Scalar(Float64, v)
}

// IntScalar returns a rank-0 integral array.
func IntScalar(dtype Dtype, v int64) *Dense {
	return Scalar(dtype, float64(v))
}

// StrScalar returns a rank-0 string array.
func StrScalar(s string) *Dense {
	return &Dense{dtype: String, shape: []int{}, strs: []string{s}}
}

// FromVec copies a 1-D gonum vector into a Float64 array.
func FromVec(v mat.Vector) *Dense {
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return &Dense{dtype: Float64, shape: []int{v.Len()}, floats: data}
}

// Vec returns the elements of a 1-D numeric array as a gonum vector.
func (d *Dense) Vec() (*mat.VecDense, error) {
	if !d.dtype.Numeric() {
		return nil, fmt.Errorf("dtype %s does not hold numeric data", d.dtype)
	}
	if len(d.shape) != 1 {
		return nil, fmt.Errorf("shape %v is not 1-D", d.shape)
	}
	return mat.NewVecDense(len(d.floats), append([]float64{}, d.floats...)), nil
}

func (d *Dense) Dtype() Dtype { return d.dtype }

func (d *Dense) Shape() []int { return append([]int{}, d.shape...) }

func (d *Dense) Len() int {
	if d.dtype.Numeric() {
		return len(d.floats)
	}
	return len(d.strs)
}

func (d *Dense) At(i int) float64 { return d.floats[i] }

func (d *Dense) StrAt(i int) string { return d.strs[i] }

// Equal reports element-wise equality of dtype, shape and contents.
func (d *Dense) Equal(other Array) bool {
	if other == nil || d.dtype != other.Dtype() || !ShapeEq(d.shape, other.Shape()) {
		return false
	}
	if d.dtype.Numeric() {
		o := make([]float64, other.Len())
		for i := range o {
			o[i] = other.At(i)
		}
		return floats.Equal(d.floats, o)
	}
	for i := range d.strs {
		if d.strs[i] != other.StrAt(i) {
			return false
		}
	}
	return true
}

// Cast returns a copy of the array normalized to dtype. Only
// numeric-to-numeric casts are supported.
func (d *Dense) Cast(dtype Dtype) (*Dense, error) {
	if !d.dtype.Numeric() || !dtype.Numeric() {
		return nil, fmt.Errorf("cannot cast %s to %s", d.dtype, dtype)
	}
	out, err := FromFloats(dtype, d.shape, d.floats)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Hash returns a content key. Arrays with equal dtype, shape and
// elements hash identically.
func (d *Dense) Hash() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%v:", d.dtype, d.shape)
	if d.dtype.Numeric() {
		fmt.Fprintf(&b, "%v", d.floats)
	} else {
		fmt.Fprintf(&b, "%q", d.strs)
	}
	return b.String()
}

func (d *Dense) String() string { return d.Hash() }
