package conformance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"atrium/script"
)

// shortTimeout keeps the script-timeout scenario from actually blocking
// the test suite for the real default timeout.
var shortTimeout = script.Config{Timeout: 200 * time.Millisecond, MaxDepth: 50}

func TestScenarios(t *testing.T) {
	fixtures, err := LoadFixtures("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, fixtures, "expected at least one conformance fixture")

	for _, f := range fixtures {
		f := f
		t.Run(f.Name, func(t *testing.T) {
			cfg := script.DefaultConfig()
			if f.Name == "s5_script_timeout.yaml" || f.Name == "s5_script_timeout" {
				cfg = shortTimeout
			}
			require.NoError(t, RunFixture(f, cfg))
		})
	}
}
