package specs

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/google-deepmind/dm-env/tensor"
)

func mustArray(t *testing.T, shape []int, dtype tensor.Dtype, name string) *Array {
	t.Helper()
	a, err := NewArray(shape, dtype, name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func mustBounded(t *testing.T, shape []int, dtype tensor.Dtype, lo, hi float64, name string) *BoundedArray {
	t.Helper()
	b, err := NewBoundedArray(shape, dtype, tensor.FloatScalar(lo), tensor.FloatScalar(hi), name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	return verr.Reason
}

func TestArrayValidate(t *testing.T) {
	spec := mustArray(t, []int{2, 3}, tensor.Float64, "")

	if _, err := spec.Validate(tensor.Zeros(tensor.Float64, []int{2, 3})); err != nil {
		t.Errorf("conforming value rejected: %v", err)
	}
	if r := reasonOf(t, errOf(spec.Validate(tensor.Zeros(tensor.Float64, []int{3, 2})))); r != ReasonShape {
		t.Errorf("expected a shape failure, got %s", r)
	}
	if r := reasonOf(t, errOf(spec.Validate(tensor.Zeros(tensor.Float32, []int{2, 3})))); r != ReasonDtype {
		t.Errorf("expected a dtype failure, got %s", r)
	}
	if r := reasonOf(t, errOf(spec.Validate(nil))); r != ReasonShape {
		t.Errorf("expected a shape failure for missing value, got %s", r)
	}
}

func errOf(_ tensor.Array, err error) error { return err }

func TestArrayWildcardShape(t *testing.T) {
	spec := mustArray(t, []int{-1, 2}, tensor.Int32, "")
	for _, rows := range []int{0, 1, 5} {
		if _, err := spec.Validate(tensor.Zeros(tensor.Int32, []int{rows, 2})); err != nil {
			t.Errorf("wildcard rejected %d rows: %v", rows, err)
		}
	}
	if _, err := spec.Validate(tensor.Zeros(tensor.Int32, []int{1, 3})); err == nil {
		t.Errorf("wildcard must not match a fixed dimension mismatch")
	}
}

func TestArrayConstructionRejectsNegativeDims(t *testing.T) {
	_, err := NewArray([]int{2, -2}, tensor.Float64, "")
	var cerr *ConstructionError
	if !errors.As(err, &cerr) {
		t.Errorf("expected a construction error, got %v", err)
	}
}

func TestGenerateValueValidates(t *testing.T) {
	specs := []Spec{
		mustArray(t, []int{2, 3}, tensor.Float32, "a"),
		mustArray(t, []int{}, tensor.Int64, ""),
		mustBounded(t, []int{4}, tensor.Float64, -1, 1, "b"),
		Must(NewDiscrete(5, tensor.Int32, "d")),
		Must(NewStringArray([]int{2}, tensor.String, "s")),
	}
	for _, s := range specs {
		if _, err := s.Validate(s.GenerateValue()); err != nil {
			t.Errorf("spec %s rejects its own generated value: %v", s, err)
		}
	}
}

func TestBoundedConstructionChecksBounds(t *testing.T) {
	if _, err := NewBoundedArray([]int{2}, tensor.Float64,
		tensor.FloatScalar(1), tensor.FloatScalar(0), ""); err == nil {
		t.Errorf("expected construction error for minimum > maximum")
	}

	lo, _ := tensor.FromFloats(tensor.Float64, []int{2}, []float64{0, 2})
	hi, _ := tensor.FromFloats(tensor.Float64, []int{2}, []float64{1, 1})
	_, err := NewBoundedArray([]int{2}, tensor.Float64, lo, hi, "")
	var cerr *ConstructionError
	if !errors.As(err, &cerr) {
		t.Errorf("expected construction error for element-wise minimum > maximum, got %v", err)
	}

	// Scalar minimum against per-element maximum broadcasts.
	hi2, _ := tensor.FromFloats(tensor.Float64, []int{2}, []float64{1, 3})
	if _, err := NewBoundedArray([]int{2}, tensor.Float64, tensor.FloatScalar(0), hi2, ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBoundedConstructionChecksShapes(t *testing.T) {
	lo, _ := tensor.FromFloats(tensor.Float64, []int{3}, []float64{0, 0, 0})
	if _, err := NewBoundedArray([]int{2}, tensor.Float64, lo, tensor.FloatScalar(1), ""); err == nil {
		t.Errorf("expected error for bound incompatible with shape")
	}
	if _, err := NewBoundedArray([]int{-1}, tensor.Float64, lo, tensor.FloatScalar(1), ""); err == nil {
		t.Errorf("expected error for non-scalar bound with wildcard shape")
	}
	if _, err := NewBoundedArray([]int{2}, tensor.String,
		tensor.FloatScalar(0), tensor.FloatScalar(1), ""); err == nil {
		t.Errorf("expected error for text dtype")
	}
}

func TestBoundedFromVecs(t *testing.T) {
	lo := mat.NewVecDense(2, []float64{0, -1})
	hi := mat.NewVecDense(2, []float64{1, 1})
	spec, err := NewBoundedArrayFromVecs(tensor.Float64, lo, hi, "velocity")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loArr, _ := tensor.FromFloats(tensor.Float64, []int{2}, []float64{0, -1})
	hiArr, _ := tensor.FromFloats(tensor.Float64, []int{2}, []float64{1, 1})
	fresh, _ := NewBoundedArray([]int{2}, tensor.Float64, loArr, hiArr, "velocity")
	if !spec.Equal(fresh) {
		t.Errorf("vector-built spec differs from the array-built one")
	}
	if _, err := spec.Validate(spec.GenerateValue()); err != nil {
		t.Errorf("generated value rejected: %v", err)
	}

	if _, err := NewBoundedArrayFromVecs(tensor.Float64,
		mat.NewVecDense(3, []float64{0, 0, 0}), hi, ""); err == nil {
		t.Errorf("expected error for bound vectors of different lengths")
	}
	if _, err := NewBoundedArrayFromVecs(tensor.Float64, hi, lo, ""); err == nil {
		t.Errorf("expected construction error for minimum > maximum")
	}
}

func TestBoundedValidate(t *testing.T) {
	spec := mustBounded(t, []int{2}, tensor.Float64, 0, 1, "")

	in, _ := tensor.FromFloats(tensor.Float64, []int{2}, []float64{0, 1})
	if _, err := spec.Validate(in); err != nil {
		t.Errorf("inclusive bounds rejected an edge value: %v", err)
	}

	out, _ := tensor.FromFloats(tensor.Float64, []int{2}, []float64{0, 1.5})
	if r := reasonOf(t, errOf(spec.Validate(out))); r != ReasonBounds {
		t.Errorf("expected a bounds failure, got %s", r)
	}
}

func TestBoundsCastToDtype(t *testing.T) {
	spec, err := NewBoundedArray([]int{}, tensor.Int32,
		tensor.FloatScalar(0.2), tensor.FloatScalar(2.9), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Minimum().Dtype() != tensor.Int32 || spec.Maximum().Dtype() != tensor.Int32 {
		t.Errorf("bounds not cast to the spec dtype")
	}
	if spec.Minimum().At(0) != 0 || spec.Maximum().At(0) != 2 {
		t.Errorf("bounds not truncated: [%v, %v]", spec.Minimum().At(0), spec.Maximum().At(0))
	}
	if _, err := spec.Validate(tensor.IntScalar(tensor.Int32, 2)); err != nil {
		t.Errorf("value at truncated maximum rejected: %v", err)
	}
}

func TestEqualityIncludesName(t *testing.T) {
	a := mustArray(t, []int{2}, tensor.Float64, "one")
	b := mustArray(t, []int{2}, tensor.Float64, "two")
	c := mustArray(t, []int{2}, tensor.Float64, "one")
	if a.Equal(b) || b.Equal(a) {
		t.Errorf("specs differing only in name must not be equal")
	}
	if !a.Equal(c) || !c.Equal(a) {
		t.Errorf("specs with identical fields must be equal")
	}
	if a.Hash() == b.Hash() || a.Hash() != c.Hash() {
		t.Errorf("hash keys inconsistent with equality")
	}
}

func TestEqualityDistinguishesVariants(t *testing.T) {
	plain := mustArray(t, []int{}, tensor.Int32, "")
	bounded := mustBounded(t, []int{}, tensor.Int32, 0, 1, "")
	if plain.Equal(bounded) || bounded.Equal(plain) {
		t.Errorf("different spec variants must not be equal")
	}
}

func TestArrayReplace(t *testing.T) {
	orig := mustArray(t, []int{2}, tensor.Float64, "obs")
	replaced, err := orig.Replace(Overrides{Shape: []int{3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fresh := mustArray(t, []int{3}, tensor.Float64, "obs")
	if !replaced.Equal(fresh) {
		t.Errorf("replace result differs from a freshly constructed spec")
	}
	if !orig.Equal(mustArray(t, []int{2}, tensor.Float64, "obs")) {
		t.Errorf("replace mutated the original spec")
	}
	if _, err := orig.Replace(Overrides{Minimum: tensor.FloatScalar(0)}); err == nil {
		t.Errorf("expected error replacing bounds on an unbounded spec")
	}
}

func TestBoundedReplaceRecastsAndRevalidates(t *testing.T) {
	orig := mustBounded(t, []int{2}, tensor.Float64, 0.5, 1.5, "x")

	dt := tensor.Int64
	replaced, err := orig.Replace(Overrides{Dtype: &dt})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replaced.Minimum().Dtype() != tensor.Int64 || replaced.Minimum().At(0) != 0 {
		t.Errorf("replace did not re-cast bounds to the new dtype")
	}

	if _, err := orig.Replace(Overrides{Minimum: tensor.FloatScalar(2)}); err == nil {
		t.Errorf("expected construction error for minimum > maximum on replace")
	}
}

func TestDiscreteConstruction(t *testing.T) {
	if _, err := NewDiscrete(0, tensor.Int32, ""); err == nil {
		t.Errorf("expected error for non-positive num values")
	}
	if _, err := NewDiscrete(3, tensor.Float64, ""); err == nil {
		t.Errorf("expected error for non-integral dtype")
	}
	if _, err := NewDiscrete(300, tensor.Uint8, ""); err == nil {
		t.Errorf("expected error for dtype too narrow for num values")
	}
	if _, err := NewDiscrete(256, tensor.Uint8, ""); err != nil {
		t.Errorf("256 values fit in uint8: %v", err)
	}
}

func TestDiscreteValidate(t *testing.T) {
	spec, err := NewDiscrete(3, tensor.Int32, "choice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.NumValues() != 3 {
		t.Errorf("incorrect num values %d", spec.NumValues())
	}
	if _, err := spec.Validate(tensor.IntScalar(tensor.Int32, 2)); err != nil {
		t.Errorf("maximum admissible value rejected: %v", err)
	}
	if r := reasonOf(t, errOf(spec.Validate(tensor.IntScalar(tensor.Int32, 3)))); r != ReasonBounds {
		t.Errorf("expected a bounds failure, got %s", r)
	}
	if r := reasonOf(t, errOf(spec.Validate(tensor.IntScalar(tensor.Int64, 1)))); r != ReasonDtype {
		t.Errorf("expected a dtype failure, got %s", r)
	}
}

func TestDiscreteReplace(t *testing.T) {
	spec, _ := NewDiscrete(3, tensor.Int32, "")
	n := 5
	replaced, err := spec.Replace(Overrides{NumValues: &n})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fresh, _ := NewDiscrete(5, tensor.Int32, "")
	if !replaced.Equal(fresh) {
		t.Errorf("replace result differs from a freshly constructed spec")
	}
	if _, err := spec.Replace(Overrides{Shape: []int{2}}); err == nil {
		t.Errorf("expected error replacing the derived shape")
	}
}

func TestStringArrayValidate(t *testing.T) {
	spec, err := NewStringArray([]int{2}, tensor.String, "words")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, _ := tensor.FromStrings(tensor.String, []int{2}, []string{"a", "bc"})
	if _, err := spec.Validate(value); err != nil {
		t.Errorf("conforming value rejected: %v", err)
	}

	// Category match: a Bytes-valued array satisfies a String spec.
	raw, _ := tensor.FromStrings(tensor.Bytes, []int{2}, []string{"a", "b"})
	if _, err := spec.Validate(raw); err != nil {
		t.Errorf("text category value rejected: %v", err)
	}

	if r := reasonOf(t, errOf(spec.Validate(tensor.Zeros(tensor.Float64, []int{2})))); r != ReasonElementType {
		t.Errorf("expected an element type failure, got %s", r)
	}
	if _, err := NewStringArray([]int{1}, tensor.Int32, ""); err == nil {
		t.Errorf("expected error for numeric dtype")
	}
}
