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

	"github.com/kingrea/diskseek/internal/config"
	"github.com/kingrea/diskseek/internal/engine"
	"github.com/kingrea/diskseek/internal/report"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunTextUsesConfigDefaults(t *testing.T) {
	out, err := execute(t, "run", "--dir", t.TempDir(), "--policy", "sstf")
	require.NoError(t, err)
	assert.Contains(t, out, "SSTF")
	assert.Contains(t, out, "53 → 65 → 67 → 37 → 14 → 98 → 122 → 124 → 183")
	assert.Contains(t, out, "236")
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run", "--dir", t.TempDir(), "--format", "json",
		"-p", "scan", "-d", "up", "-r", "98, 183, 37, 122, 14, 124, 65, 67", "--head", "53")
	require.NoError(t, err)

	var resp struct {
		Status string          `json:"status"`
		Data   report.Document `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, engine.SCAN, resp.Data.Policy)
	assert.Equal(t, []int{53, 65, 67, 98, 122, 124, 183, 199, 37, 14}, resp.Data.Sequence)
	assert.Equal(t, 331, resp.Data.TotalMovement)
	assert.NotEmpty(t, resp.Data.ID)
}

func TestRunReportsIgnoredTokens(t *testing.T) {
	out, err := execute(t, "run", "--dir", t.TempDir(), "-p", "fcfs", "-r", "10, x, 500, 20", "--head", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "0 → 10 → 20")
	assert.Contains(t, out, "2 token(s)")
}

func TestRunSmallDiskIgnoresConfiguredPrevious(t *testing.T) {
	out, err := execute(t, "run", "--dir", t.TempDir(), "-p", "fcfs", "-r", "5", "--head", "10", "--tracks", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "10 → 5")

	_, err = execute(t, "run", "--dir", t.TempDir(), "-p", "fcfs", "-r", "5", "--head", "10", "--tracks", "20", "--previous", "30")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunInvalidInputExitCode(t *testing.T) {
	cases := map[string][]string{
		"head out of range": {"--head", "500"},
		"unknown policy":    {"--policy", "elevator"},
		"unknown direction": {"--direction", "sideways"},
		"negative tracks":   {"--tracks", "-1"},
	}
	for name, extra := range cases {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"run", "--dir", t.TempDir()}, extra...)
			out, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, ErrCodeInvalidInput)
		})
	}
}

func TestRunBrokenConfigIsCommandError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, config.Dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.Dir, "config.yaml"), []byte("simulation:\n  policy: elevator\n"), 0o644))

	out, err := execute(t, "run", "--dir", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
}

func TestCompareMarksBest(t *testing.T) {
	out, err := execute(t, "compare", "--dir", t.TempDir())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(engine.Policies())+1)
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "SSTF") {
			assert.True(t, strings.HasSuffix(line, "*"), line)
		} else {
			assert.False(t, strings.HasSuffix(line, "*"), line)
		}
	}
}

func TestCompareJSON(t *testing.T) {
	out, err := execute(t, "compare", "--dir", t.TempDir(), "--format", "json", "-d", "down")
	require.NoError(t, err)
	var resp struct {
		Data []engine.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 6)
	assert.Equal(t, engine.SCAN, resp.Data[2].Policy)
	assert.Equal(t, 236, resp.Data[2].TotalMovement)
	assert.Equal(t, 208, resp.Data[4].TotalMovement)
}

func TestPlayPrintsEveryStep(t *testing.T) {
	out, err := execute(t, "play", "--dir", t.TempDir(), "-p", "fcfs", "-r", "10, 20", "--head", "0",
		"--tracks", "21", "--interval", "1ms", "--width", "21")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4, out)
	assert.Contains(t, lines[0], "1/3")
	assert.Contains(t, lines[0], "|^---------o---------o|")
	assert.Contains(t, lines[2], "|x---------x---------^|")
	assert.Equal(t, "Total movement: 20", lines[3])
}

func TestPlayJSONStreamsSteps(t *testing.T) {
	out, err := execute(t, "play", "--dir", t.TempDir(), "--format", "json", "-p", "sstf", "-r", "5, 10", "--head", "7", "--interval", "1ms")
	require.NoError(t, err)
	dec := json.NewDecoder(strings.NewReader(out))
	var steps []playStep
	for dec.More() {
		var step playStep
		require.NoError(t, dec.Decode(&step))
		steps = append(steps, step)
	}
	require.Len(t, steps, 3)
	assert.Equal(t, playStep{Step: 3, Steps: 3, Head: 10, Movement: 7, Path: []int{7, 5, 10}}, steps[2])
}

func TestInitThenRunWritesJournal(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, config.Dir, "config.yaml"))

	_, err = execute(t, "run", "--dir", dir, "-p", "look")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, config.Dir, "logs", "journey.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "LOOK")
}

func TestRunWithoutInitLeavesNoJournal(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "--dir", dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, config.Dir))
	assert.True(t, os.IsNotExist(err))
}
