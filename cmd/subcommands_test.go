package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"summary", "verify", "thresholds", "sections", "init"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
		assert.NotEmpty(t, cmd.Short)
		assert.NotEmpty(t, cmd.Long)
		assert.NotNil(t, cmd.Run)
	}
}

func TestSummaryCommand(t *testing.T) {
	setupTestDir(t, exportCSV)

	res := execute(t, "summary", "--project", "NoteManager")
	require.Equal(t, -1, res.exitCode, res.stderr)
	for _, want := range []string{"METRICS TIER SUMMARY", "Project:  NoteManager", "Entities: 3", "WMC red: A", "3 entities, 5 metrics"} {
		assert.Contains(t, res.stdout, want)
	}
}

func TestThresholdsCommand(t *testing.T) {
	setupTestDir(t, exportCSV)

	res := execute(t, "thresholds")
	require.Equal(t, -1, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "WMC")
	assert.Contains(t, res.stdout, "≤ 10")
	assert.Contains(t, res.stdout, "> 20")

	res = execute(t, "thresholds", "--format", "yaml")
	require.Equal(t, -1, res.exitCode, res.stderr)
	var bands map[string]map[string]float64
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &bands))
	assert.Equal(t, 10.0, bands["wmc"]["green"])
	assert.Equal(t, 20.0, bands["wmc"]["orange"])
	assert.Len(t, bands, 5)
}

func TestThresholdsCommandWithFile(t *testing.T) {
	setupTestDir(t, exportCSV)
	require.NoError(t, os.WriteFile("limits.yaml", []byte("wmc:\n  green: 5\n  orange: 7\n"), 0644))

	res := execute(t, "thresholds", "--format", "yaml", "--thresholds-file", "limits.yaml")
	require.Equal(t, -1, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "green: 5")

	require.NoError(t, os.WriteFile("bad.yaml", []byte("wmc:\n  green: 9\n  orange: 7\n"), 0644))
	res = execute(t, "thresholds", "--thresholds-file", "bad.yaml")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "invalid threshold overrides")
}

func TestSectionsCommand(t *testing.T) {
	setupTestDir(t, exportCSV)

	tests := []struct {
		name      string
		args      []string
		wantLines int
		wantFirst string
	}{
		{name: "default preset", args: []string{"sections"}, wantLines: 11, wantFirst: " 0  title"},
		{name: "charts preset", args: []string{"sections", "--preset", "charts"}, wantLines: 4, wantFirst: " 0  size/overview"},
		{name: "pattern", args: []string{"sections", "metric/*"}, wantLines: 5, wantFirst: " 0  metric/loc_per_method"},
		{name: "all", args: []string{"sections", "--all"}, wantLines: 11, wantFirst: " 0  title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			require.Equal(t, -1, res.exitCode, res.stderr)
			lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
			assert.Len(t, lines, tt.wantLines)
			assert.Equal(t, tt.wantFirst, lines[0])
		})
	}

	res := execute(t, "sections", "charts/*")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "pattern matches no section")
}

func TestVerifyCommand(t *testing.T) {
	setupTestDir(t, exportCSV)

	res := execute(t, "export_metrics.csv", "report.json", "--baseline", "baseline.json", "--update-baseline")
	require.Equal(t, -1, res.exitCode, res.stderr)
	assert.FileExists(t, "baseline.json")

	res = execute(t, "verify", "--baseline", "baseline.json")
	require.Equal(t, -1, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "Report matches baseline baseline.json")

	changed := strings.Replace(exportCSV, "B;10;0;40;8;", "B;10;0;40;28;", 1)
	require.NoError(t, os.WriteFile("export_metrics.csv", []byte(changed), 0644))

	res = execute(t, "verify", "--baseline", "baseline.json")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "metric/wmc: changed")
	assert.Contains(t, res.stderr, "Error: baseline stage failed: document differs from baseline")
}

func TestVerifyWithoutBaseline(t *testing.T) {
	setupTestDir(t, exportCSV)

	res := execute(t, "verify")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "no baseline configured")
}

func TestInitCommand(t *testing.T) {
	setupTestDir(t, exportCSV)

	res := execute(t, "init", "--project", "NoteManager")
	require.Equal(t, -1, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "Configuration written to .qmreportrc.json")

	data, err := os.ReadFile(".qmreportrc.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"project": "NoteManager"`)
	assert.Contains(t, string(data), `"preset": "full"`)

	res = execute(t, "init")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "already exists")

	require.NoError(t, os.Remove(".qmreportrc.json"))
	require.NoError(t, os.WriteFile("custom.json", []byte("{}"), 0644))
	res = execute(t, "init", "custom.json", "--force")
	require.Equal(t, -1, res.exitCode, res.stderr)
	data, err = os.ReadFile("custom.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"input": "export_metrics.csv"`)
}
