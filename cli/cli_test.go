package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bridge-planner/optimizer"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlan_RendersBlocks(t *testing.T) {
	out, err := execute(t, "plan", "--leave", "10", "--timeframe", "2025", "--country", "usa", "--strategy", "long weekends")
	require.NoError(t, err)

	assert.Contains(t, out, "Long Weekends")
	assert.Contains(t, out, "2025-01-01")
	assert.Contains(t, out, "Days off:")
	assert.Contains(t, out, "Leave used:")
}

func TestPlan_JSON(t *testing.T) {
	out, err := execute(t, "plan", "--leave", "12", "--timeframe", "2025", "--country", "Germany", "--region", "bavaria", "--json")
	require.NoError(t, err)

	var res optimizer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.Blocks)
	assert.LessOrEqual(t, res.TotalPTOUsed, 12)
	assert.Equal(t, optimizer.StrategyBalanced, res.Strategy)
}

func TestPlan_ICS(t *testing.T) {
	out, err := execute(t, "plan", "--leave", "8", "--timeframe", "2025", "--country", "uk", "--ics")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, out, "BEGIN:VEVENT")
}

func TestPlan_EmptyShowsSuggestion(t *testing.T) {
	out, err := execute(t, "plan", "--timeframe", "2025")
	require.NoError(t, err)

	assert.Contains(t, out, "No breaks found.")
	assert.Contains(t, out, "Select a country")
}

func TestPlan_RejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown strategy", []string{"plan", "--strategy", "sabbatical"}},
		{"bad timeframe", []string{"plan", "--timeframe", "next year"}},
		{"json and ics", []string{"plan", "--json", "--ics"}},
		{"positional args", []string{"plan", "Germany"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestPlan_HolidaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[country]]
name = "Freedonia"
codes = ["fd"]

  [[country.holiday]]
  date = "2025-05-01"
  name = "Founders' Day"
`), 0o644))

	out, err := execute(t, "--holidays", path, "plan", "--leave", "1", "--timeframe", "2025", "--country", "fd", "--strategy", "long_weekends")
	require.NoError(t, err)
	assert.Contains(t, out, "Founders' Day")

	_, err = execute(t, "--holidays", filepath.Join(t.TempDir(), "missing.toml"), "plan")
	assert.Error(t, err)
}

func TestRegions(t *testing.T) {
	out, err := execute(t, "regions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "United Kingdom")
	assert.Contains(t, out, "COUNTRY")

	out, err = execute(t, "regions", "list", "DE")
	require.NoError(t, err)
	assert.Contains(t, out, "bayern")
	assert.Contains(t, out, "berlin")

	out, err = execute(t, "regions", "resolve", "United States", "Calif")
	require.NoError(t, err)
	assert.Contains(t, out, "california")

	out, err = execute(t, "regions", "resolve", "United States", "Texas")
	require.NoError(t, err)
	assert.Contains(t, out, "matches no region")

	_, err = execute(t, "regions", "resolve", "Atlantis", "North")
	assert.Error(t, err)
}

func TestStrategies(t *testing.T) {
	out, err := execute(t, "strategies")
	require.NoError(t, err)

	for _, s := range optimizer.Strategies() {
		assert.Contains(t, out, string(s))
	}
	assert.Contains(t, out, "3-6 days")
}
