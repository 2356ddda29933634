package types

import (
	"github.com/google-deepmind/dm-env/specs"
	"github.com/google-deepmind/dm-env/tensor"
)

// Environment is the capability surface a turn-based interactive
// environment must expose. Calls are synchronous and blocking; a
// single instance is driven by one logical caller at a time.
//
// The sequencing contract: Reset always yields a First step. Step
// called with no live sequence (fresh instance, or after a Last step)
// must behave exactly as Reset and ignore its action. While a sequence
// is live, Step yields Mid or Last. A discount of 0 never signals
// termination; only a Last step ends a sequence. The contract is
// upheld by implementations and checked by the conformance package,
// not policed at call time.
type Environment interface {
	// Reset starts a new sequence and returns its First step.
	Reset() TimeStep

	// Step applies an action and returns the next step. The action
	// must conform to ActionSpec; validating it before the call is the
	// caller's responsibility (see the rollout package).
	Step(action specs.Value) TimeStep

	// ObservationSpec describes the observation of every TimeStep.
	ObservationSpec() specs.Tree

	// ActionSpec describes the actions accepted by Step.
	ActionSpec() specs.Tree

	// RewardSpec describes the reward on non-First steps. Defaults to
	// a scalar float64 array spec.
	RewardSpec() specs.Tree

	// DiscountSpec describes the discount on non-First steps.
	// Defaults to a scalar float64 in [0, 1].
	DiscountSpec() specs.Tree

	// Close frees any resources. Safe to call multiple times and
	// before any Reset.
	Close() error
}

// DefaultRewardSpec returns the spec assumed when an environment has
// no bespoke reward structure: a single float64.
func DefaultRewardSpec() specs.Tree {
	return specs.LeafOf(specs.Must(specs.NewArray([]int{}, tensor.Float64, "reward")))
}

// DefaultDiscountSpec returns the spec assumed when an environment has
// no bespoke discount structure: a single float64 in [0, 1].
func DefaultDiscountSpec() specs.Tree {
	return specs.LeafOf(specs.Must(specs.NewBoundedArray([]int{}, tensor.Float64,
		tensor.FloatScalar(0.0), tensor.FloatScalar(1.0), "discount")))
}

// Defaults provides the default reward/discount specs and a no-op
// Close. Environments embed it and override what they need.
type Defaults struct{}

func (Defaults) RewardSpec() specs.Tree   { return DefaultRewardSpec() }
func (Defaults) DiscountSpec() specs.Tree { return DefaultDiscountSpec() }
func (Defaults) Close() error             { return nil }
