package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/kussetech/internal/analytics"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("OPENAI_API_KEY", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		statsDB = ""
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStatsPrintsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.db")
	logger, _ := test.NewNullLogger()
	store, err := analytics.Open(path, logger)
	require.NoError(t, err)
	store.RecordVisit(context.Background(), "10.0.0.1", "ua", "/")
	store.Track(context.Background(), analytics.NewEvent("Viewed Homepage", nil))
	require.NoError(t, store.Close())

	out, err := run(t, "stats", "--db", path)
	require.NoError(t, err)

	var stats analytics.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.EqualValues(t, 1, stats.TotalVisitors)
	assert.EqualValues(t, 1, stats.TotalEvents)
}

func TestStatsWithoutDatabase(t *testing.T) {
	t.Setenv("ANALYTICS_DB", "")
	_, err := run(t, "stats")
	assert.ErrorContains(t, err, "no analytics database")
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	_, err := run(t, "generate", "outline", "go", "services")
	assert.ErrorContains(t, err, "set OPENAI_API_KEY")
}

func TestGenerateProjectValidatesID(t *testing.T) {
	_, err := run(t, "generate", "project", "abc")
	assert.ErrorContains(t, err, `invalid project id "abc"`)

	_, err = run(t, "generate", "project", "99")
	assert.ErrorContains(t, err, "project 99 not found")
}

func TestGenerateServiceValidatesIndex(t *testing.T) {
	_, err := run(t, "generate", "service", "7")
	assert.ErrorContains(t, err, "service index must be between 0 and 2")
}

func TestServeRejectsInvalidPort(t *testing.T) {
	_, err := run(t, "serve", "--port", "70000")
	assert.Error(t, err)
}
