package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Ordered(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"001_model_states.sql",
		"002_predictions.sql",
		"003_vehicles.sql",
		"004_users.sql",
	}, files)
}

func TestMigrations_AreRerunnable(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)

	for _, file := range files {
		content, err := fs.ReadFile(migrationsFS, "migrations/"+file)
		require.NoError(t, err)

		for _, line := range strings.Split(string(content), "\n") {
			upper := strings.ToUpper(strings.TrimSpace(line))
			if strings.HasPrefix(upper, "CREATE TABLE") || strings.HasPrefix(upper, "CREATE INDEX") {
				assert.Contains(t, upper, "IF NOT EXISTS", "%s: %s", file, line)
			}
		}
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, Name: "fleet", User: "ops", Password: "pw"}
	assert.Equal(t, "host=db port=5433 user=ops password=pw dbname=fleet sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}
