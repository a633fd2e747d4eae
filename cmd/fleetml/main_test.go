package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakrishna0023/fleet-guardian/internal/auth"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
	"github.com/jayakrishna0023/fleet-guardian/pkg/validation"
)

func writeConfig(t *testing.T, store string) string {
	t.Helper()
	dir := t.TempDir()
	content := `app:
  log_level: error
  mode: test
store:
  type: ` + store + `
  path: ` + filepath.Join(dir, "models") + `
engine:
  epochs: 3
  samples_per_domain: 20
  seed: 7
collector:
  type: mock
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "train", "predict", "models", "operator", "predictions", "vehicles"} {
		assert.Contains(t, names, want)
	}

	predict, _, err := cmd.Find([]string{"predict", "fuel"})
	require.NoError(t, err)
	assert.Equal(t, "fuel", predict.Name())
}

func TestPredictEngine_FromStdin(t *testing.T) {
	cfgPath := writeConfig(t, "memory")
	input := `{"engineTemp":118,"oilPressure":18,"mileage":180000,"vehicleAge":12,"avgLoad":0.9,"engineHours":9000}`

	out, err := execute(t, input, "--config", cfgPath, "predict", "engine")
	require.NoError(t, err)

	var result models.PredictionResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Engine", result.Component)
	assert.GreaterOrEqual(t, result.Probability, 0)
	assert.LessOrEqual(t, result.Probability, 100)
}

func TestPredictFuel_FromFile(t *testing.T) {
	cfgPath := writeConfig(t, "memory")
	input := filepath.Join(t.TempDir(), "fuel.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"avgSpeed":70,"engineLoad":0.5,"idleRatio":0.1,"tirePressure":33,"payloadRatio":0.4,"aggressiveness":0.2}`), 0o644))

	out, err := execute(t, "", "--config", cfgPath, "predict", "fuel", "--input", input)
	require.NoError(t, err)

	var result map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.GreaterOrEqual(t, result["efficiency"], 5.0)
	assert.LessOrEqual(t, result["efficiency"], 15.0)
}

func TestPredict_InvalidJSON(t *testing.T) {
	cfgPath := writeConfig(t, "memory")

	_, err := execute(t, "{", "--config", cfgPath, "predict", "brake")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
}

func TestTrainThenList(t *testing.T) {
	cfgPath := writeConfig(t, "file")

	out, err := execute(t, "", "--config", cfgPath, "train")
	require.NoError(t, err)

	var infos []models.ModelInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, len(models.Domains))
	for _, info := range infos {
		assert.Equal(t, "trained", info.Source)
	}

	out, err = execute(t, "", "--config", cfgPath, "models", "list")
	require.NoError(t, err)
	for _, d := range models.Domains {
		assert.Contains(t, out, "fleet_ml_"+string(d))
	}
	assert.Equal(t, len(models.Domains), strings.Count(out, " yes "))

	out, err = execute(t, "", "--config", cfgPath, "models", "list", "brake", "fuel")
	require.NoError(t, err)
	assert.Contains(t, out, "fleet_ml_brake")
	assert.Contains(t, out, "fleet_ml_fuel")
	assert.NotContains(t, out, "fleet_ml_engine")
	assert.Equal(t, 2, strings.Count(out, " yes "))

	_, err = execute(t, "", "--config", cfgPath, "models", "list", "gearbox")
	assert.ErrorContains(t, err, `unknown domain "gearbox"`)

	_, err = execute(t, "", "--config", cfgPath, "models", "reset")
	require.NoError(t, err)

	out, err = execute(t, "", "--config", cfgPath, "models", "list")
	require.NoError(t, err)
	assert.Zero(t, strings.Count(out, " yes "))
}

func TestOperatorHash(t *testing.T) {
	out, err := execute(t, "", "operator", "hash", "--password", "Sup3r$ecret")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("Sup3r$ecret", strings.TrimSpace(out)))

	out, err = execute(t, "Sup3r$ecret\n", "operator", "hash")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("Sup3r$ecret", strings.TrimSpace(out)))

	_, err = execute(t, "", "operator", "hash", "--password", "weak")
	assert.Error(t, err)
}

func TestMigrateList(t *testing.T) {
	out, err := execute(t, "", "migrate", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, ".sql")
}

func TestDatabaseCommands_RequireDatabase(t *testing.T) {
	cfgPath := writeConfig(t, "memory")

	_, err := execute(t, "", "--config", cfgPath, "predictions", "prune")
	assert.ErrorIs(t, err, errDatabaseDisabled)

	_, err = execute(t, "", "--config", cfgPath, "vehicles", "list")
	assert.ErrorIs(t, err, errDatabaseDisabled)
}
