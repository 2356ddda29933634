package specs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google-deepmind/dm-env/tensor"
)

// Tree composes specs over arbitrarily nested containers: a single
// leaf spec, an ordered sequence of subtrees, or a keyed mapping of
// subtrees. Trees are built bottom-up as immutable values, so no
// cycles are representable and walks always terminate.
type Tree interface {
	Hash() string
	isTree()
}

// Leaf wraps a single Spec as a tree node.
type Leaf struct {
	Spec Spec
}

// TreeSeq is an ordered sequence of subtrees.
type TreeSeq []Tree

// TreeMap is a keyed mapping of subtrees. Key order is irrelevant for
// matching but the key sets of spec and value trees must be identical.
type TreeMap map[string]Tree

func (Leaf) isTree()    {}
func (TreeSeq) isTree() {}
func (TreeMap) isTree() {}

// LeafOf wraps a spec as a single-node tree.
func LeafOf(s Spec) Leaf { return Leaf{Spec: s} }

func (l Leaf) Hash() string { return l.Spec.Hash() }

func (s TreeSeq) Hash() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.Hash()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (m TreeMap) Hash() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%q: %s", k, m[k].Hash())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// TreeEqual reports structural equality of two spec trees.
func TreeEqual(a, b Tree) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Hash() == b.Hash()
}

// Value is the parallel nesting of actual array values that a Tree
// validates: a single array, an ordered sequence, or a keyed mapping.
type Value interface {
	Hash() string
	isValue()
}

// Item wraps a single array as a value node.
type Item struct {
	Array tensor.Array
}

// ValueSeq is an ordered sequence of subvalues.
type ValueSeq []Value

// ValueMap is a keyed mapping of subvalues.
type ValueMap map[string]Value

func (Item) isValue()     {}
func (ValueSeq) isValue() {}
func (ValueMap) isValue() {}

// ItemOf wraps an array as a single-node value.
func ItemOf(a tensor.Array) Item { return Item{Array: a} }

func (v Item) Hash() string {
	if h, ok := v.Array.(interface{ Hash() string }); ok {
		return h.Hash()
	}
	return fmt.Sprintf("%v", v.Array)
}

func (s ValueSeq) Hash() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.Hash()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (m ValueMap) Hash() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%q: %s", k, m[k].Hash())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ValueEqual reports content equality of two value trees.
func ValueEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Hash() == b.Hash()
}

// Validate walks a spec tree and a value tree in lock-step. Container
// mismatches fail with a structural error, leaf mismatches with the
// leaf spec's error; both carry the path to the offending node.
func Validate(spec Tree, value Value) error {
	return validateAt(nil, spec, value)
}

func validateAt(path []string, spec Tree, value Value) error {
	switch s := spec.(type) {
	case Leaf:
		item, ok := value.(Item)
		if !ok {
			return atPath(path, validationErrorf(ReasonStructure,
				"expected a single value, got %T", value))
		}
		if _, err := s.Spec.Validate(item.Array); err != nil {
			if verr, ok := err.(*ValidationError); ok {
				return atPath(path, verr)
			}
			return err
		}
		return nil
	case TreeSeq:
		seq, ok := value.(ValueSeq)
		if !ok {
			return atPath(path, validationErrorf(ReasonStructure,
				"expected a sequence of %d values, got %T", len(s), value))
		}
		if len(seq) != len(s) {
			return atPath(path, validationErrorf(ReasonStructure,
				"expected a sequence of length %d, got %d", len(s), len(seq)))
		}
		for i, child := range s {
			if err := validateAt(append(path, strconv.Itoa(i)), child, seq[i]); err != nil {
				return err
			}
		}
		return nil
	case TreeMap:
		vm, ok := value.(ValueMap)
		if !ok {
			return atPath(path, validationErrorf(ReasonStructure,
				"expected a mapping with %d keys, got %T", len(s), value))
		}
		keys := make([]string, 0, len(s))
		for k := range s {
			if _, present := vm[k]; !present {
				return atPath(path, validationErrorf(ReasonStructure, "missing key %q", k))
			}
			keys = append(keys, k)
		}
		for k := range vm {
			if _, present := s[k]; !present {
				return atPath(path, validationErrorf(ReasonStructure, "unexpected key %q", k))
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := validateAt(append(path, k), s[k], vm[k]); err != nil {
				return err
			}
		}
		return nil
	}
	return atPath(path, validationErrorf(ReasonStructure, "unknown spec tree node %T", spec))
}

// MapLeaves builds a value tree mirroring the spec tree, with each
// leaf produced by f from its spec.
func MapLeaves(spec Tree, f func(Spec) tensor.Array) Value {
	switch s := spec.(type) {
	case Leaf:
		return ItemOf(f(s.Spec))
	case TreeSeq:
		out := make(ValueSeq, len(s))
		for i, child := range s {
			out[i] = MapLeaves(child, f)
		}
		return out
	case TreeMap:
		out := make(ValueMap, len(s))
		for k, child := range s {
			out[k] = MapLeaves(child, f)
		}
		return out
	}
	return nil
}

// Generate returns a value tree of generated positive fixtures, one
// per leaf spec.
func Generate(spec Tree) Value {
	return MapLeaves(spec, func(s Spec) tensor.Array { return s.GenerateValue() })
}

// Leaves returns the leaf specs of a tree, sequences in order and
// mappings in sorted key order.
func Leaves(spec Tree) []Spec {
	switch s := spec.(type) {
	case Leaf:
		return []Spec{s.Spec}
	case TreeSeq:
		var out []Spec
		for _, child := range s {
			out = append(out, Leaves(child)...)
		}
		return out
	case TreeMap:
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []Spec
		for _, k := range keys {
			out = append(out, Leaves(s[k])...)
		}
		return out
	}
	return nil
}
