package types

import "github.com/google-deepmind/dm-env/specs"

// EpisodeCore is the per-episode logic an auto-resetting environment
// implements: StartEpisode plays the role of Reset, AdvanceEpisode the
// role of Step during a live sequence.
type EpisodeCore interface {
	StartEpisode() TimeStep
	AdvanceEpisode(action specs.Value) TimeStep
}

// AutoReset implements the reset bookkeeping of the sequencing
// contract on top of an EpisodeCore: the first Step, and any Step
// after a Last step, transparently starts a new sequence and ignores
// the supplied action.
type AutoReset struct {
	core      EpisodeCore
	resetNext bool
}

func NewAutoReset(core EpisodeCore) *AutoReset {
	return &AutoReset{core: core, resetNext: true}
}

func (a *AutoReset) Reset() TimeStep {
	a.resetNext = false
	return a.core.StartEpisode()
}

func (a *AutoReset) Step(action specs.Value) TimeStep {
	if a.resetNext {
		return a.Reset()
	}
	ts := a.core.AdvanceEpisode(action)
	a.resetNext = ts.Last()
	return ts
}
