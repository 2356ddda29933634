// Package conformance checks that a concrete environment upholds the
// interaction contract: FIRST/MID/LAST framing, reset semantics, and
// spec-conformant observations, rewards, discounts and actions. The
// core never polices third-party environments at call time; these
// checks are how defects surface.
package conformance

import (
	"errors"
	"fmt"
	"math"

	"github.com/google-deepmind/dm-env/specs"
	"github.com/google-deepmind/dm-env/tensor"
	"github.com/google-deepmind/dm-env/types"
)

// ContractViolationError reports an environment that breaks the
// interaction contract. It is only ever produced by this package.
type ContractViolationError struct {
	Check string
	msg   string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Check, e.msg)
}

func violationf(check, format string, args ...interface{}) *ContractViolationError {
	return &ContractViolationError{Check: check, msg: fmt.Sprintf(format, args...)}
}

// Checker runs the contract checks against environments produced by
// MakeEnv. Several checks need a fresh instance, so a constructor is
// required rather than a single environment value.
type Checker struct {
	MakeEnv func() types.Environment

	// Actions optionally supplies the action sequence for the long
	// rollout check. Supplying a sequence that ends an episode lets
	// the end-of-episode framing be verified. Defaults to repeating a
	// generated action Steps times.
	Actions func(env types.Environment) []specs.Value

	// Steps is the length of the default action sequence (default 20).
	Steps int

	// DeterministicStart enables the check that the action fed to a
	// fresh Step call has no effect on the returned observation. Only
	// meaningful for environments with a deterministic start state.
	DeterministicStart bool
}

// NamedCheck pairs a check with its name for reporting.
type NamedCheck struct {
	Name string
	Run  func() error
}

// Checks returns all contract checks.
func (c *Checker) Checks() []NamedCheck {
	return []NamedCheck{
		{"close", c.CheckClose},
		{"reset", c.CheckReset},
		{"step on fresh environment", c.CheckStepOnFresh},
		{"step after reset", c.CheckStepAfterReset},
		{"action sequence framing", c.CheckActionSequence},
		{"generated values validate", c.CheckGeneratedValues},
		{"invalid actions rejected by spec", c.CheckInvalidActions},
	}
}

// Check runs every check and joins the violations.
func (c *Checker) Check() error {
	var errs []error
	for _, check := range c.Checks() {
		if err := check.Run(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Checker) steps() int {
	if c.Steps > 0 {
		return c.Steps
	}
	return 20
}

func (c *Checker) makeAction(env types.Environment) specs.Value {
	return specs.Generate(env.ActionSpec())
}

func (c *Checker) actionSequence(env types.Environment) []specs.Value {
	if c.Actions != nil {
		return c.Actions(env)
	}
	seq := make([]specs.Value, c.steps())
	for i := range seq {
		seq[i] = c.makeAction(env)
	}
	return seq
}

// validStep checks one TimeStep against the environment's declared
// specs and the reward/discount presence rules.
func (c *Checker) validStep(check string, env types.Environment, ts types.TimeStep) error {
	if ts.First() {
		if ts.Reward != nil {
			return violationf(check, "a FIRST step must not have a reward, got %v", ts.Reward)
		}
		if ts.Discount != nil {
			return violationf(check, "a FIRST step must not have a discount, got %v", ts.Discount)
		}
	} else {
		if ts.Reward == nil {
			return violationf(check, "a %s step must have a reward", ts.StepType)
		}
		if ts.Discount == nil {
			return violationf(check, "a %s step must have a discount", ts.StepType)
		}
		if err := specs.Validate(env.RewardSpec(), ts.Reward); err != nil {
			return violationf(check, "reward does not conform to reward spec: %v", err)
		}
		if err := specs.Validate(env.DiscountSpec(), ts.Discount); err != nil {
			return violationf(check, "discount does not conform to discount spec: %v", err)
		}
	}
	if ts.Observation == nil {
		return violationf(check, "every step must have an observation")
	}
	if err := specs.Validate(env.ObservationSpec(), ts.Observation); err != nil {
		return violationf(check, "observation does not conform to observation spec: %v", err)
	}
	return nil
}

// CheckClose verifies Close is safe before any Reset, and idempotent.
func (c *Checker) CheckClose() error {
	const check = "close"
	env := c.MakeEnv()
	if err := env.Close(); err != nil {
		return violationf(check, "Close before any Reset failed: %v", err)
	}
	if err := env.Close(); err != nil {
		return violationf(check, "second Close failed: %v", err)
	}
	env = c.MakeEnv()
	env.Reset()
	if err := env.Close(); err != nil {
		return violationf(check, "Close after Reset failed: %v", err)
	}
	return nil
}

// CheckReset verifies Reset returns a valid FIRST step, repeatedly.
func (c *Checker) CheckReset() error {
	const check = "reset"
	env := c.MakeEnv()
	defer env.Close()
	for i := 0; i < 2; i++ {
		ts := env.Reset()
		if !ts.First() {
			return violationf(check, "Reset must produce a FIRST step, got %s", ts.StepType)
		}
		if err := c.validStep(check, env, ts); err != nil {
			return err
		}
	}
	return nil
}

// CheckStepOnFresh verifies the first Step on a fresh environment
// behaves as Reset and ignores the supplied action.
func (c *Checker) CheckStepOnFresh() error {
	const check = "step on fresh environment"
	env := c.MakeEnv()
	defer env.Close()
	ts := env.Step(c.makeAction(env))
	if !ts.First() {
		return violationf(check, "Step on a fresh environment must produce a FIRST step, got %s", ts.StepType)
	}
	if err := c.validStep(check, env, ts); err != nil {
		return err
	}
	next := env.Step(c.makeAction(env))
	if next.First() {
		return violationf(check, "Step after a FIRST step must not produce another FIRST")
	}
	if c.DeterministicStart {
		other := c.MakeEnv()
		defer other.Close()
		otherTs := other.Step(differentAction(other))
		if !specs.ValueEqual(ts.Observation, otherTs.Observation) {
			return violationf(check, "the action supplied to a fresh Step call must not affect the returned observation")
		}
	}
	return nil
}

// differentAction builds a conforming action distinct from the
// generated fixture where the spec admits more than one value.
func differentAction(env types.Environment) specs.Value {
	return specs.MapLeaves(env.ActionSpec(), func(s specs.Spec) tensor.Array {
		switch spec := s.(type) {
		case *specs.Discrete:
			return tensor.IntScalar(spec.Dtype(), int64(spec.NumValues()-1))
		case *specs.BoundedArray:
			max := spec.Maximum()
			if max.Len() == 1 && !math.IsInf(max.At(0), 0) {
				return tensor.Full(spec.Dtype(), spec.Shape(), max.At(0))
			}
		}
		return s.GenerateValue()
	})
}

// CheckStepAfterReset verifies Step after Reset never yields FIRST.
func (c *Checker) CheckStepAfterReset() error {
	const check = "step after reset"
	env := c.MakeEnv()
	defer env.Close()
	for i := 0; i < 2; i++ {
		env.Reset()
		ts := env.Step(c.makeAction(env))
		if ts.First() {
			return violationf(check, "Step after a FIRST step must not produce another FIRST")
		}
		if err := c.validStep(check, env, ts); err != nil {
			return err
		}
	}
	return nil
}

// CheckActionSequence drives a longer rollout and verifies the
// FIRST/MID*/LAST framing: FIRST appears exactly when the previous
// step was LAST, and every step conforms to the declared specs.
func (c *Checker) CheckActionSequence() error {
	const check = "action sequence framing"
	env := c.MakeEnv()
	defer env.Close()
	for round := 0; round < 2; round++ {
		ts := env.Reset()
		if !ts.First() {
			return violationf(check, "Reset must produce a FIRST step, got %s", ts.StepType)
		}
		prev := ts.StepType
		for _, action := range c.actionSequence(env) {
			ts = env.Step(action)
			if err := c.validStep(check, env, ts); err != nil {
				return err
			}
			if prev.Last() && !ts.First() {
				return violationf(check, "Step must produce a FIRST step after a LAST step, got %s", ts.StepType)
			}
			if !prev.Last() && ts.First() {
				return violationf(check, "Step must only produce a FIRST step after a LAST step")
			}
			prev = ts.StepType
		}
	}
	return nil
}

// CheckGeneratedValues verifies every declared spec's generated value
// validates against the spec that produced it.
func (c *Checker) CheckGeneratedValues() error {
	const check = "generated values validate"
	env := c.MakeEnv()
	defer env.Close()
	trees := map[string]specs.Tree{
		"observation": env.ObservationSpec(),
		"action":      env.ActionSpec(),
		"reward":      env.RewardSpec(),
		"discount":    env.DiscountSpec(),
	}
	for name, tree := range trees {
		if tree == nil {
			return violationf(check, "%s spec is nil", name)
		}
		if err := specs.Validate(tree, specs.Generate(tree)); err != nil {
			return violationf(check, "%s spec rejects its own generated value: %v", name, err)
		}
	}
	return nil
}

// CheckInvalidActions verifies that wrong-shape, wrong-dtype and
// out-of-bounds actions fail the action spec's validation. The spec,
// not necessarily the environment, is the gatekeeper.
func (c *Checker) CheckInvalidActions() error {
	const check = "invalid actions rejected by spec"
	env := c.MakeEnv()
	defer env.Close()
	for _, leaf := range specs.Leaves(env.ActionSpec()) {
		if _, err := leaf.Validate(wrongShapeValue(leaf)); err == nil {
			return violationf(check, "spec %s accepted a wrong-shape value", leaf)
		}
		if bad := wrongDtypeValue(leaf); bad != nil {
			if _, err := leaf.Validate(bad); err == nil {
				return violationf(check, "spec %s accepted a wrong-dtype value", leaf)
			}
		}
		if bad := outOfBoundsValue(leaf); bad != nil {
			_, err := leaf.Validate(bad)
			if err == nil {
				return violationf(check, "spec %s accepted an out-of-bounds value", leaf)
			}
			verr, ok := err.(*specs.ValidationError)
			if !ok || verr.Reason != specs.ReasonBounds {
				return violationf(check, "spec %s rejected an out-of-bounds value for the wrong reason: %v", leaf, err)
			}
		}
	}
	return nil
}

// wrongShapeValue builds a value with one extra trailing dimension.
func wrongShapeValue(s specs.Spec) tensor.Array {
	shape := s.Shape()
	for i, d := range shape {
		if d < 0 {
			shape[i] = 1
		}
	}
	return tensor.Zeros(s.Dtype(), append(shape, 2))
}

// wrongDtypeValue builds a correctly-shaped value of a mismatched
// dtype, or nil when the spec checks categories rather than widths.
func wrongDtypeValue(s specs.Spec) tensor.Array {
	if s.Dtype().Kind() == tensor.KindString {
		// String specs match by category; a numeric value still fails.
		return tensor.Zeros(tensor.Float64, s.Shape())
	}
	other := tensor.Float64
	if s.Dtype() == tensor.Float64 {
		other = tensor.Float32
	}
	return tensor.Zeros(other, s.Shape())
}

// outOfBoundsValue builds a value one above the maximum for bounded
// specs, or nil for unbounded ones.
func outOfBoundsValue(s specs.Spec) tensor.Array {
	var max tensor.Array
	switch spec := s.(type) {
	case *specs.Discrete:
		max = spec.Maximum()
	case *specs.BoundedArray:
		max = spec.Maximum()
	default:
		return nil
	}
	if max.Len() < 1 || math.IsInf(max.At(0), 0) {
		return nil
	}
	bad := tensor.Full(s.Dtype(), s.Shape(), max.At(0)+1)
	if bad.Len() == 0 {
		// Wildcard shapes materialize empty, leaving nothing out of
		// bounds to reject.
		return nil
	}
	return bad
}
