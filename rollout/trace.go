// Package rollout drives environments through episodes: a Policy
// picks actions, an Agent validates them against the action spec and
// steps the environment, and a Trace records what happened.
package rollout

import (
	"github.com/google-deepmind/dm-env/specs"
	"github.com/google-deepmind/dm-env/types"
)

// Trace of an episode as triplets (step, action, next step).
type Trace struct {
	steps     []types.TimeStep
	actions   []specs.Value
	nextSteps []types.TimeStep
}

func NewTrace() *Trace {
	return &Trace{
		steps:     make([]types.TimeStep, 0),
		actions:   make([]specs.Value, 0),
		nextSteps: make([]types.TimeStep, 0),
	}
}

func (t *Trace) Append(step types.TimeStep, action specs.Value, next types.TimeStep) {
	t.steps = append(t.steps, step)
	t.actions = append(t.actions, action)
	t.nextSteps = append(t.nextSteps, next)
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Get(i int) (types.TimeStep, specs.Value, types.TimeStep, bool) {
	if i >= len(t.steps) {
		return types.TimeStep{}, nil, types.TimeStep{}, false
	}
	return t.steps[i], t.actions[i], t.nextSteps[i], true
}

func (t *Trace) Last() (types.TimeStep, specs.Value, types.TimeStep, bool) {
	if len(t.steps) < 1 {
		return types.TimeStep{}, nil, types.TimeStep{}, false
	}
	lastIndex := len(t.steps) - 1
	return t.steps[lastIndex], t.actions[lastIndex], t.nextSteps[lastIndex], true
}

// Return sums the scalar rewards collected along the trace. Non-scalar
// or absent rewards contribute nothing.
func (t *Trace) Return() float64 {
	total := 0.0
	for _, next := range t.nextSteps {
		if r, ok := scalarOf(next.Reward); ok {
			total += r
		}
	}
	return total
}

func scalarOf(v specs.Value) (float64, bool) {
	item, ok := v.(specs.Item)
	if !ok || item.Array == nil {
		return 0, false
	}
	if item.Array.Len() != 1 || !item.Array.Dtype().Numeric() {
		return 0, false
	}
	return item.Array.At(0), true
}
