package benchmarks

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/google-deepmind/dm-env/grid"
	"github.com/google-deepmind/dm-env/rollout"
	"github.com/google-deepmind/dm-env/types"
	"github.com/google-deepmind/dm-env/util"
)

// GridBenchmark runs each policy against the door-grid environment,
// reports episode return statistics and cell coverage, and writes a
// visit dataset plus heat map per policy.
func GridBenchmark(episodes, horizon int, saveDir string, height, width, grids, runs int) error {
	experiments := []struct {
		name       string
		makePolicy func(env types.Environment) (rollout.Policy, error)
	}{
		{
			name: "random",
			makePolicy: func(env types.Environment) (rollout.Policy, error) {
				return rollout.NewRandomPolicy(env.ActionSpec()), nil
			},
		},
		{
			name: "visit-bonus",
			makePolicy: func(env types.Environment) (rollout.Policy, error) {
				return rollout.NewVisitBonusPolicy(env.ActionSpec())
			},
		},
	}

	for _, exp := range experiments {
		dataSet := &grid.VisitDataSet{Visits: make(map[int]map[int]int)}
		returns := make([]float64, 0, episodes*runs)

		for run := 0; run < runs; run++ {
			env := grid.NewEnvironment(height, width, grids)
			policy, err := exp.makePolicy(env)
			if err != nil {
				return err
			}
			agent := rollout.NewAgent(&rollout.AgentConfig{
				Episodes:    episodes,
				Horizon:     horizon,
				Policy:      policy,
				Environment: env,
			})
			traces, err := agent.Run()
			if err != nil {
				return fmt.Errorf("experiment %s run %d: %v", exp.name, run, err)
			}
			for _, trace := range traces {
				returns = append(returns, trace.Return())
			}
			dataSet.Merge(grid.NewVisitDataSet(traces))
			env.Close()
		}

		mean, std := stat.MeanStdDev(returns, nil)
		summary := fmt.Sprintf("Exp:%s, Episodes:%d, Return: %.3f +/- %.3f, Cells:%d, MaxVisits:%.0f",
			exp.name, len(returns), mean, std, dataSet.Cells(), dataSet.Max())
		fmt.Println(summary)

		if err := util.WriteJSON(path.Join(saveDir, exp.name+".json"), dataSet); err != nil {
			return err
		}
		if err := util.AppendToFile(path.Join(saveDir, "results.log"), summary); err != nil {
			return err
		}
		if err := saveHeatMap(dataSet, path.Join(saveDir, exp.name+".png"), exp.name); err != nil {
			return err
		}
	}
	return nil
}

func saveHeatMap(dataSet *grid.VisitDataSet, figPath, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.Add(plotter.NewHeatMap(dataSet, palette.Heat(20, 1)))
	return p.Save(4*vg.Inch, 4*vg.Inch, figPath)
}

func GridCommand() *cobra.Command {
	var height int
	var width int
	var grids int

	cmd := &cobra.Command{
		Use: "grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			return GridBenchmark(episodes, horizon, saveDir, height, width, grids, runs)
		},
	}
	cmd.PersistentFlags().IntVar(&height, "height", 10, "Height of each grid")
	cmd.PersistentFlags().IntVar(&width, "width", 10, "Width of each grid")
	cmd.PersistentFlags().IntVar(&grids, "grids", 3, "Number of grids")
	return cmd
}
