package tensor

import "math"

// Kind is the category of a Dtype. Specs that check element-type
// compatibility by category (rather than exact width) compare kinds.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindUint
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindString:
		return "string"
	}
	return "unknown"
}

// Dtype identifies the element type of an array.
type Dtype int

const (
	Float32 Dtype = iota
	Float64
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	String
	Bytes
)

func (d Dtype) Kind() Kind {
	switch d {
	case Float32, Float64:
		return KindFloat
	case Int8, Int16, Int32, Int64:
		return KindInt
	case Uint8, Uint16, Uint32, Uint64:
		return KindUint
	case String, Bytes:
		return KindString
	}
	return KindFloat
}

// Numeric reports whether elements of this dtype are numbers.
func (d Dtype) Numeric() bool {
	return d.Kind() != KindString
}

// Integral reports whether elements of this dtype are integers.
func (d Dtype) Integral() bool {
	k := d.Kind()
	return k == KindInt || k == KindUint
}

func (d Dtype) Bits() int {
	switch d {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Float32, Int32, Uint32:
		return 32
	case Float64, Int64, Uint64:
		return 64
	}
	return 0
}

// MaxInt returns the largest integer representable by an integral dtype.
// The second return is false for non-integral dtypes.
func (d Dtype) MaxInt() (int64, bool) {
	switch d {
	case Int8:
		return math.MaxInt8, true
	case Int16:
		return math.MaxInt16, true
	case Int32:
		return math.MaxInt32, true
	case Int64:
		return math.MaxInt64, true
	case Uint8:
		return math.MaxUint8, true
	case Uint16:
		return math.MaxUint16, true
	case Uint32:
		return math.MaxUint32, true
	case Uint64:
		return math.MaxInt64, true
	}
	return 0, false
}

// MinInt returns the smallest integer representable by an integral dtype.
func (d Dtype) MinInt() (int64, bool) {
	switch d {
	case Int8:
		return math.MinInt8, true
	case Int16:
		return math.MinInt16, true
	case Int32:
		return math.MinInt32, true
	case Int64:
		return math.MinInt64, true
	case Uint8, Uint16, Uint32, Uint64:
		return 0, true
	}
	return 0, false
}

func (d Dtype) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	}
	return "unknown"
}

// CastValue normalizes v to dtype's representation: fractions are
// truncated for integral dtypes and float32 rounding is applied for
// Float32. This is the explicit, documented non-error coercion used
// when bound literals are stored on a spec.
func CastValue(d Dtype, v float64) float64 {
	switch {
	case d == Float32:
		return float64(float32(v))
	case d.Integral():
		return math.Trunc(v)
	}
	return v
}
