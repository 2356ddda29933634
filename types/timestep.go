// Package types defines the step-wise interaction contract between an
// environment and its caller: the TimeStep record, the FIRST/MID/LAST
// step framing, and the Environment capability surface.
package types

import (
	"fmt"

	"github.com/google-deepmind/dm-env/specs"
	"github.com/google-deepmind/dm-env/tensor"
)

// StepType frames a TimeStep within a sequence. Exactly one of the
// three predicates holds per step.
type StepType int

const (
	// First denotes the first TimeStep in a sequence.
	First StepType = iota
	// Mid denotes any TimeStep that is neither First nor Last.
	Mid
	// Last denotes the final TimeStep in a sequence.
	Last
)

func (s StepType) First() bool { return s == First }
func (s StepType) Mid() bool   { return s == Mid }
func (s StepType) Last() bool  { return s == Last }

func (s StepType) String() string {
	switch s {
	case First:
		return "FIRST"
	case Mid:
		return "MID"
	case Last:
		return "LAST"
	}
	return "UNKNOWN"
}

// TimeStep is the record an environment returns from every Reset and
// Step call. A nil Reward or Discount marks the value as absent, which
// is the case exactly on First steps. TimeSteps are never mutated;
// Replace returns a new record.
type TimeStep struct {
	StepType    StepType
	Reward      specs.Value
	Discount    specs.Value
	Observation specs.Value
}

func (t TimeStep) First() bool { return t.StepType == First }
func (t TimeStep) Mid() bool   { return t.StepType == Mid }
func (t TimeStep) Last() bool  { return t.StepType == Last }

// TimeStepOverrides names the fields a Replace call substitutes. Nil
// fields keep the receiver's value.
type TimeStepOverrides struct {
	StepType    *StepType
	Reward      specs.Value
	Discount    specs.Value
	Observation specs.Value
}

// Replace returns a new TimeStep with the given fields substituted and
// all others carried over unchanged.
func (t TimeStep) Replace(o TimeStepOverrides) TimeStep {
	out := t
	if o.StepType != nil {
		out.StepType = *o.StepType
	}
	if o.Reward != nil {
		out.Reward = o.Reward
	}
	if o.Discount != nil {
		out.Discount = o.Discount
	}
	if o.Observation != nil {
		out.Observation = o.Observation
	}
	return out
}

func (t TimeStep) String() string {
	return fmt.Sprintf("TimeStep{%s, reward: %v, discount: %v}", t.StepType, t.Reward, t.Discount)
}

// Restart returns the First step of a new sequence. Reward and
// discount are absent.
func Restart(observation specs.Value) TimeStep {
	return TimeStep{StepType: First, Observation: observation}
}

// Transition returns a Mid step with discount 1.
func Transition(reward, observation specs.Value) TimeStep {
	return TransitionWithDiscount(reward, observation, 1.0)
}

// TransitionWithDiscount returns a Mid step with an explicit scalar
// discount. A discount of 0 does not end the sequence; only a Last
// step does.
func TransitionWithDiscount(reward, observation specs.Value, discount float64) TimeStep {
	return TimeStep{
		StepType:    Mid,
		Reward:      reward,
		Discount:    specs.ItemOf(tensor.FloatScalar(discount)),
		Observation: observation,
	}
}

// Termination returns a Last step with discount 0, ending the
// sequence.
func Termination(reward, observation specs.Value) TimeStep {
	return TimeStep{
		StepType:    Last,
		Reward:      reward,
		Discount:    specs.ItemOf(tensor.FloatScalar(0.0)),
		Observation: observation,
	}
}

// Truncation returns a Last step whose discount is not forced to 0,
// for sequences cut off by an external horizon rather than a terminal
// state.
func Truncation(reward, observation specs.Value, discount float64) TimeStep {
	return TimeStep{
		StepType:    Last,
		Reward:      reward,
		Discount:    specs.ItemOf(tensor.FloatScalar(discount)),
		Observation: observation,
	}
}
