// Package grid is a toy door-grid environment used to exercise the
// interaction contract: a stack of Height x Width grids connected by
// doors, with a terminal goal cell in the last grid.
package grid

import (
	"github.com/google-deepmind/dm-env/specs"
	"github.com/google-deepmind/dm-env/tensor"
	"github.com/google-deepmind/dm-env/types"
)

// Move directions accepted as actions.
const (
	MoveNothing int64 = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	MoveNext
	numMoves
)

type position struct {
	i, j, k int
}

// Door teleports the agent between grids when it takes MoveNext on the
// source cell.
type Door struct {
	FromI, FromJ, FromK int
	ToI, ToJ, ToK       int
}

// Environment implements the auto-resetting variant of the contract:
// stepping after a terminal step transparently starts a new episode.
type Environment struct {
	types.Defaults
	*types.AutoReset

	height int
	width  int
	grids  int
	doors  []Door
	pos    position
}

var _ types.Environment = &Environment{}
var _ types.EpisodeCore = &Environment{}

// NewEnvironment builds a grid stack. Without explicit doors, each
// grid's far corner leads to the start of the next one.
func NewEnvironment(height, width, grids int, doors ...Door) *Environment {
	if len(doors) == 0 {
		for k := 0; k < grids-1; k++ {
			doors = append(doors, Door{
				FromI: height - 1, FromJ: width - 1, FromK: k,
				ToI: 0, ToJ: 0, ToK: k + 1,
			})
		}
	}
	env := &Environment{
		height: height,
		width:  width,
		grids:  grids,
		doors:  doors,
		pos:    position{0, 0, 0},
	}
	env.AutoReset = types.NewAutoReset(env)
	return env
}

func (g *Environment) StartEpisode() types.TimeStep {
	g.pos = position{0, 0, 0}
	return types.Restart(g.observation())
}

func (g *Environment) AdvanceEpisode(action specs.Value) types.TimeStep {
	move := MoveNothing
	if item, ok := action.(specs.Item); ok && item.Array != nil {
		move = int64(item.Array.At(0))
	}

	newPos := g.pos
	if move == MoveNext {
		for _, d := range g.doors {
			if d.FromI == g.pos.i && d.FromJ == g.pos.j && d.FromK == g.pos.k {
				newPos = position{d.ToI, d.ToJ, d.ToK}
				break
			}
		}
	}

	switch move {
	case MoveUp:
		newPos.i = min(g.height-1, g.pos.i+1)
	case MoveDown:
		newPos.i = max(0, g.pos.i-1)
	case MoveLeft:
		newPos.j = max(0, g.pos.j-1)
	case MoveRight:
		newPos.j = min(g.width-1, g.pos.j+1)
	}
	g.pos = newPos

	if g.atGoal() {
		return types.Termination(scalar(1.0), g.observation())
	}
	return types.Transition(scalar(0.0), g.observation())
}

func (g *Environment) atGoal() bool {
	return g.pos.k == g.grids-1 && g.pos.i == g.height-1 && g.pos.j == g.width-1
}

func (g *Environment) observation() specs.Value {
	obs, err := tensor.FromFloats(tensor.Int64, []int{3},
		[]float64{float64(g.pos.i), float64(g.pos.j), float64(g.pos.k)})
	if err != nil {
		panic(err)
	}
	return specs.ItemOf(obs)
}

func (g *Environment) ObservationSpec() specs.Tree {
	lo, err := tensor.FromFloats(tensor.Int64, []int{3}, []float64{0, 0, 0})
	if err != nil {
		panic(err)
	}
	hi, err := tensor.FromFloats(tensor.Int64, []int{3},
		[]float64{float64(g.height - 1), float64(g.width - 1), float64(g.grids - 1)})
	if err != nil {
		panic(err)
	}
	return specs.LeafOf(specs.Must(specs.NewBoundedArray([]int{3}, tensor.Int64, lo, hi, "position")))
}

func (g *Environment) ActionSpec() specs.Tree {
	return specs.LeafOf(specs.Must(specs.NewDiscrete(int(numMoves), tensor.Int64, "move")))
}

func scalar(v float64) specs.Value {
	return specs.ItemOf(tensor.FloatScalar(v))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
