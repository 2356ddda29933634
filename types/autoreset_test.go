package types

import (
	"testing"

	"github.com/google-deepmind/dm-env/specs"
	"github.com/google-deepmind/dm-env/tensor"
)

// countingCore terminates each episode after exactly three steps. The
// observation counts the steps taken, so ignoring the action on
// implicit resets is observable.
type countingCore struct {
	steps int
}

func (c *countingCore) StartEpisode() TimeStep {
	c.steps = 0
	return Restart(c.observation())
}

func (c *countingCore) AdvanceEpisode(action specs.Value) TimeStep {
	c.steps++
	if c.steps >= 3 {
		return Termination(specs.ItemOf(tensor.FloatScalar(1)), c.observation())
	}
	return Transition(specs.ItemOf(tensor.FloatScalar(0)), c.observation())
}

func (c *countingCore) observation() specs.Value {
	return specs.ItemOf(tensor.IntScalar(tensor.Int64, int64(c.steps)))
}

func action(v int64) specs.Value {
	return specs.ItemOf(tensor.IntScalar(tensor.Int64, v))
}

func TestEpisodeFraming(t *testing.T) {
	env := NewAutoReset(&countingCore{})
	expected := []StepType{First, Mid, Mid, Last}
	obtained := []StepType{env.Reset().StepType}
	for i := 0; i < 3; i++ {
		obtained = append(obtained, env.Step(action(0)).StepType)
	}
	for i := range expected {
		if obtained[i] != expected[i] {
			t.Fatalf("incorrect framing: expected %v, got %v", expected, obtained)
		}
	}
}

func TestStepAfterLastResets(t *testing.T) {
	env := NewAutoReset(&countingCore{})
	env.Reset()
	var ts TimeStep
	for i := 0; i < 3; i++ {
		ts = env.Step(action(0))
	}
	if !ts.Last() {
		t.Fatalf("expected a LAST step, got %s", ts.StepType)
	}
	ts = env.Step(action(42))
	if !ts.First() {
		t.Errorf("step after LAST must start a new sequence, got %s", ts.StepType)
	}
	if ts.Reward != nil || ts.Discount != nil {
		t.Errorf("implicit resets carry no reward or discount")
	}
	if !specs.ValueEqual(ts.Observation, specs.ItemOf(tensor.IntScalar(tensor.Int64, 0))) {
		t.Errorf("the action supplied across an implicit reset must have no effect")
	}
}

func TestStepOnFreshInstanceResets(t *testing.T) {
	env := NewAutoReset(&countingCore{})
	ts := env.Step(action(7))
	if !ts.First() {
		t.Errorf("first step on a fresh instance must behave as reset, got %s", ts.StepType)
	}
	next := env.Step(action(0))
	if next.First() {
		t.Errorf("step after FIRST must not produce another FIRST")
	}
}
