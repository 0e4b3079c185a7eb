package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenariosDir holds the scenarios shipped with the repository.
var scenariosDir = filepath.Join("..", "..", "testdata", "scenarios")

// TestExampleScenarios runs every shipped scenario and requires it to pass.
func TestExampleScenarios(t *testing.T) {
	files, err := FindScenarios(scenariosDir, "")
	require.NoError(t, err)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(context.Background(), scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario failed: %v", result.Errors)
			assert.Len(t, result.Steps, len(scenario.Steps))
		})
	}
}

// TestExampleScenariosGolden pins the full output of selected scenarios.
func TestExampleScenariosGolden(t *testing.T) {
	for _, name := range []string{"write_flow", "delete_user_cascade"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join(scenariosDir, name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario failed: %v", result.Errors)
		})
	}
}
