package main

import (
	"encoding/json"
	"os/exec"
	"testing"

	"github.com/jonathan/degree-advisor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrereqCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "parse-prereq", "ACCO 1030; ECON 1101 or ECON 1101H")
	output, err := cmd.Output()
	require.NoError(t, err)

	var parsed types.Prereq
	require.NoError(t, json.Unmarshal(output, &parsed))
	assert.Equal(t, types.PrereqAnd, parsed.Kind)
	assert.Len(t, parsed.Clauses, 2)
}

func TestRecommendCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "recommend",
		"--catalog", testdataPath("valid", "catalog.json"),
		"--policy", testdataPath("valid", "policy.yaml"),
		"--completed", "ACCO 1030,ECON 1101",
		"--term", "Fall")
	output, err := cmd.Output()
	require.NoError(t, err)

	var set types.RecommendationSet
	require.NoError(t, json.Unmarshal(output, &set))
	require.NotEmpty(t, set.Recommendations)
	assert.Equal(t, "FINA 3001", set.Recommendations[0].CourseCode)
	assert.Equal(t, []string{"FINA 4090"}, set.ManualReview)
}

func TestAllocateCommand_Pretty(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "allocate",
		"--catalog", testdataPath("valid", "catalog.json"),
		"--track", "FIN_MAJOR",
		"--completed", "ACCO 1030,ECON 1101",
		"--pretty")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "REQUIREMENT ALLOCATION")
}

func TestCommands_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{name: "unlocks without --course", args: []string{"unlocks", "--catalog", "x.json"}, errorString: "required"},
		{name: "validate without --json", args: []string{"validate", "--schema", "catalog.schema.json"}, errorString: "required"},
		{name: "import-catalog without --catalog", args: []string{"import-catalog"}, errorString: "required"},
		{name: "recommend without track", args: []string{"recommend", "--catalog", "x.json", "--term", "Fall"}, errorString: "track_id"},
		{name: "runs without selector", args: []string{"runs"}, errorString: "--track or --run-id"},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()

			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "validate", "--schema", "catalog.schema.json", "--json", testdataPath("valid", "catalog.json"))
	output, err := cmd.CombinedOutput()
	assert.NoError(t, err)
	assert.Contains(t, string(output), "Validation passed")

	cmd = exec.Command(binaryPath, "validate", "--schema", "catalog.schema.json", "--json", testdataPath("invalid", "catalog_missing_field.json"))
	output, err = cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "Validation failed")
}
