package rollout

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/google-deepmind/dm-env/specs"
	"github.com/google-deepmind/dm-env/tensor"
	"github.com/google-deepmind/dm-env/types"
)

// Policy picks the next action given the current step.
type Policy interface {
	SelectAction(step int, ts types.TimeStep) specs.Value
	Observe(step int, ts types.TimeStep, action specs.Value, next types.TimeStep)
	EndEpisode(episode int, trace *Trace)
	Reset()
}

// RandomPolicy samples actions uniformly from the action spec tree:
// discrete specs uniformly over their values, bounded float specs
// uniformly within their bounds, anything else via the spec's
// generated fixture.
type RandomPolicy struct {
	actionSpec specs.Tree
	rand       *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(actionSpec specs.Tree) *RandomPolicy {
	return &RandomPolicy{
		actionSpec: actionSpec,
		rand:       rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (p *RandomPolicy) SelectAction(step int, ts types.TimeStep) specs.Value {
	return specs.MapLeaves(p.actionSpec, p.sample)
}

func (p *RandomPolicy) sample(s specs.Spec) tensor.Array {
	switch spec := s.(type) {
	case *specs.Discrete:
		return tensor.IntScalar(spec.Dtype(), p.rand.Int63n(int64(spec.NumValues())))
	case *specs.BoundedArray:
		return p.sampleBounded(spec)
	}
	return s.GenerateValue()
}

func (p *RandomPolicy) sampleBounded(spec *specs.BoundedArray) tensor.Array {
	shape := spec.Shape()
	n := tensor.Numel(shape)
	if n < 0 {
		return spec.GenerateValue()
	}
	lo, hi := spec.Minimum(), spec.Maximum()
	data := make([]float64, n)
	for i := range data {
		min, max := broadcastAt(lo, i), broadcastAt(hi, i)
		if math.IsInf(min, 0) || math.IsInf(max, 0) {
			data[i] = 0
			continue
		}
		if spec.Dtype().Integral() {
			data[i] = min + float64(p.rand.Int63n(int64(max-min)+1))
		} else {
			data[i] = min + p.rand.Float64()*(max-min)
		}
	}
	v, err := tensor.FromFloats(spec.Dtype(), shape, data)
	if err != nil {
		panic(err)
	}
	return v
}

func broadcastAt(bound tensor.Array, i int) float64 {
	if bound.Len() == 1 {
		return bound.At(0)
	}
	return bound.At(i)
}

func (p *RandomPolicy) Observe(int, types.TimeStep, specs.Value, types.TimeStep) {}
func (p *RandomPolicy) EndEpisode(int, *Trace)                                  {}
func (p *RandomPolicy) Reset()                                                  {}

// VisitBonusPolicy samples a scalar discrete action with weights
// inversely proportional to how often the action was taken from the
// current observation, pushing rollouts toward unvisited transitions.
type VisitBonusPolicy struct {
	spec   *specs.Discrete
	visits map[string][]float64
	rand   *rand.Rand
}

var _ Policy = &VisitBonusPolicy{}

// NewVisitBonusPolicy requires the action spec tree to be a single
// discrete leaf.
func NewVisitBonusPolicy(actionSpec specs.Tree) (*VisitBonusPolicy, error) {
	leaf, ok := actionSpec.(specs.Leaf)
	if !ok {
		return nil, fmt.Errorf("visit bonus policy needs a single discrete action spec, got %T", actionSpec)
	}
	discrete, ok := leaf.Spec.(*specs.Discrete)
	if !ok {
		return nil, fmt.Errorf("visit bonus policy needs a discrete action spec, got %s", leaf.Spec)
	}
	return &VisitBonusPolicy{
		spec:   discrete,
		visits: make(map[string][]float64),
		rand:   rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

func (p *VisitBonusPolicy) SelectAction(step int, ts types.TimeStep) specs.Value {
	counts := p.counts(ts.Observation.Hash())
	weights := make([]float64, len(counts))
	for i, c := range counts {
		weights[i] = 1.0 / (1.0 + c)
	}
	i, ok := sampleuv.NewWeighted(weights, p.rand).Take()
	if !ok {
		i = int(p.rand.Int63n(int64(p.spec.NumValues())))
	}
	return specs.ItemOf(tensor.IntScalar(p.spec.Dtype(), int64(i)))
}

func (p *VisitBonusPolicy) Observe(step int, ts types.TimeStep, action specs.Value, next types.TimeStep) {
	item, ok := action.(specs.Item)
	if !ok {
		return
	}
	counts := p.counts(ts.Observation.Hash())
	i := int(item.Array.At(0))
	if i >= 0 && i < len(counts) {
		counts[i] += 1
	}
}

func (p *VisitBonusPolicy) counts(key string) []float64 {
	counts, ok := p.visits[key]
	if !ok {
		counts = make([]float64, p.spec.NumValues())
		p.visits[key] = counts
	}
	return counts
}

func (p *VisitBonusPolicy) EndEpisode(int, *Trace) {}

func (p *VisitBonusPolicy) Reset() {
	p.visits = make(map[string][]float64)
}
