package grid

import (
	"gonum.org/v1/plot/plotter"

	"github.com/google-deepmind/dm-env/rollout"
	"github.com/google-deepmind/dm-env/specs"
)

// VisitDataSet counts cell visits across traces, flattening the grid
// stack onto a single Height x Width plane. It plots as a heat map.
type VisitDataSet struct {
	Visits map[int]map[int]int
	Height int
	Width  int
}

var _ plotter.GridXYZ = &VisitDataSet{}

func (g *VisitDataSet) Dims() (int, int) {
	return g.Width, g.Height
}

func (g *VisitDataSet) Z(j, i int) float64 {
	return float64(g.Visits[i][j])
}

func (g *VisitDataSet) X(j int) float64 {
	return float64(j)
}

func (g *VisitDataSet) Y(i int) float64 {
	return float64(i)
}

func (g *VisitDataSet) Min() float64 {
	return 0.0
}

func (g *VisitDataSet) Max() float64 {
	max := 0
	for _, vals := range g.Visits {
		for _, count := range vals {
			if count > max {
				max = count
			}
		}
	}
	return float64(max)
}

// Cells returns the number of distinct cells visited.
func (g *VisitDataSet) Cells() int {
	cells := 0
	for _, vals := range g.Visits {
		cells += len(vals)
	}
	return cells
}

// NewVisitDataSet accumulates the positions reached along traces.
func NewVisitDataSet(traces []*rollout.Trace) *VisitDataSet {
	dataSet := &VisitDataSet{
		Visits: make(map[int]map[int]int),
		Height: 0,
		Width:  0,
	}
	for _, trace := range traces {
		for i := 0; i < trace.Len(); i++ {
			_, _, next, ok := trace.Get(i)
			if !ok {
				continue
			}
			item, ok := next.Observation.(specs.Item)
			if !ok || item.Array == nil || item.Array.Len() < 2 {
				continue
			}
			row, col := int(item.Array.At(0)), int(item.Array.At(1))
			dataSet.add(row, col, 1)
		}
	}
	return dataSet
}

// Merge folds other datasets into the receiver.
func (g *VisitDataSet) Merge(others ...*VisitDataSet) {
	for _, other := range others {
		for i, vals := range other.Visits {
			for j, visits := range vals {
				g.add(i, j, visits)
			}
		}
	}
}

func (g *VisitDataSet) add(i, j, visits int) {
	if _, ok := g.Visits[i]; !ok {
		g.Visits[i] = make(map[int]int)
	}
	g.Visits[i][j] += visits
	if i+1 > g.Height {
		g.Height = i + 1
	}
	if j+1 > g.Width {
		g.Width = j + 1
	}
}
