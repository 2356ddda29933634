// Package benchmarks wires the toy environments into a command line
// for running rollouts and collecting coverage artifacts.
package benchmarks

import "github.com/spf13/cobra"

var (
	episodes int
	horizon  int
	saveDir  string
	runs     int
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "dm-env",
		Short: "Run rollout benchmarks against the toy environments",
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 1000, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 100, "Horizon of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of benchmark runs")
	rootCommand.AddCommand(GridCommand())
	return rootCommand
}
