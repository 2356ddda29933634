package rollout

import (
	"fmt"

	"github.com/google-deepmind/dm-env/specs"
	"github.com/google-deepmind/dm-env/types"
)

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment types.Environment
}

// Agent drives an environment for a number of episodes, validating
// every action against the action spec before it reaches the
// environment. A nonconforming action aborts the run.
type Agent struct {
	config *AgentConfig
}

func NewAgent(config *AgentConfig) *Agent {
	return &Agent{config: config}
}

// Run executes the configured number of episodes and returns their
// traces. Episodes end at a Last step or at the horizon.
func (a *Agent) Run() ([]*Trace, error) {
	traces := make([]*Trace, 0, a.config.Episodes)
	for episode := 0; episode < a.config.Episodes; episode++ {
		trace, err := a.runEpisode(episode)
		if err != nil {
			return traces, err
		}
		traces = append(traces, trace)
	}
	return traces, nil
}

func (a *Agent) runEpisode(episode int) (*Trace, error) {
	env := a.config.Environment
	actionSpec := env.ActionSpec()

	ts := env.Reset()
	trace := NewTrace()
	for step := 0; step < a.config.Horizon && !ts.Last(); step++ {
		action := a.config.Policy.SelectAction(step, ts)
		if err := specs.Validate(actionSpec, action); err != nil {
			return trace, fmt.Errorf("episode %d step %d: action rejected: %v", episode, step, err)
		}
		next := env.Step(action)
		a.config.Policy.Observe(step, ts, action, next)
		trace.Append(ts, action, next)
		ts = next
	}
	a.config.Policy.EndEpisode(episode, trace)
	return trace, nil
}
