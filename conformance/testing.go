package conformance

import (
	"testing"

	"github.com/google-deepmind/dm-env/types"
)

// RunChecks runs the default contract checks against environments
// built by makeEnv, reporting each violation as a test failure.
func RunChecks(t *testing.T, makeEnv func() types.Environment) {
	t.Helper()
	RunChecker(t, &Checker{MakeEnv: makeEnv})
}

// RunChecker runs a configured Checker, one subtest per check.
func RunChecker(t *testing.T, c *Checker) {
	t.Helper()
	for _, check := range c.Checks() {
		check := check
		t.Run(check.Name, func(t *testing.T) {
			if err := check.Run(); err != nil {
				t.Errorf("%v", err)
			}
		})
	}
}
