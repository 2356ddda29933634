package main

import (
	"fmt"

	"github.com/google-deepmind/dm-env/benchmarks"
)

// main entry point to the rollout benchmarks
func main() {
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
	}
}
