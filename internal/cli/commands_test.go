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
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	for _, key := range []string{"LLM_PROVIDER", "JOURNAL_PATH", "RESULTS_DIR", "DATA_DIR", "PROJECT_DIR", "GOVERNANCE_ENFORCE", "EINO_DEBUG_ENABLED"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "quanthedge.yaml")
	content := strings.Join([]string{
		"project_dir: " + dir,
		"results_dir: " + filepath.Join(dir, "results"),
		"data_dir: " + filepath.Join(dir, "data"),
		"journal_path: " + filepath.Join(dir, "data", "journal.db"),
		"llm_provider: sim",
		"gemini_api_key: secret-key",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path, dir
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestVersionCmd(t *testing.T) {
	path, _ := writeConfig(t)
	assert.Contains(t, execute(t, "--config", path, "version"), "QuantHedge v1.0.0")
}

func TestConfigShowRedactsKeys(t *testing.T) {
	path, _ := writeConfig(t)
	out := execute(t, "--config", path, "config", "show", "--json")
	assert.NotContains(t, out, "secret-key")

	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "sim", cfg["llm_provider"])

	out = execute(t, "--config", path, "config", "show")
	assert.Contains(t, out, "LLM Provider:         sim")
}

func TestRunJSONThenHistory(t *testing.T) {
	path, dir := writeConfig(t)

	out := execute(t, "--config", path, "run", "--json", "--save", "--prompt", "hedge tech")
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "success", report["status"])
	assert.Equal(t, "hedge tech", report["prompt"])

	saved, err := filepath.Glob(filepath.Join(dir, "results", "cycle_*.md"))
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	hist := execute(t, "--config", path, "history", "--limit", "5")
	assert.Contains(t, hist, report["cycle_id"].(string))
}

func TestRunRendersProgress(t *testing.T) {
	path, _ := writeConfig(t)
	out := execute(t, "--config", path, "run")
	assert.Contains(t, out, "Starting hedging cycle")
	assert.Contains(t, out, "Market Conditions")
}
