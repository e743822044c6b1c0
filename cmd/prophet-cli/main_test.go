package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/profitprophet/prophet"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(viper.New(), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeInputs(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	header := []string{"Accountname", "Branche"}
	var ref [][]string
	for i := 0; i < 6; i++ {
		ref = append(ref, []string{"Kunde", "Tech"})
	}
	cand := [][]string{{"Lead A", "Tech"}, {"Lead B", "Retail"}}

	refPath := filepath.Join(dir, "customers.csv")
	candPath := filepath.Join(dir, "leads.csv")
	require.NoError(t, prophet.WriteTable(refPath, prophet.NewTable(header, ref)))
	require.NoError(t, prophet.WriteTable(candPath, prophet.NewTable(header, cand)))
	return refPath, candPath, filepath.Join(dir, "out")
}

func TestRunCommand(t *testing.T) {
	ref, cand, outDir := writeInputs(t)

	stdout, err := execute(t, "run", "-r", ref, "-c", cand, "-o", outDir,
		"--weight", "Branche=100", "--eps", "0.3", "--min-samples", "3", "--log-level", "error")
	require.NoError(t, err)

	outPath := filepath.Join(outDir, "output-Branche=100-DBSCAN.csv")
	assert.Contains(t, stdout, "Output: "+outPath)
	assert.Contains(t, stdout, "Potential customers")

	got, err := prophet.ReadTable(outPath)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Lead A", "Tech"}}, got.Rows)
}

func TestRunCommandConfigFile(t *testing.T) {
	ref, cand, outDir := writeInputs(t)
	cfgPath := filepath.Join(t.TempDir(), "prophet.yaml")
	cfg := strings.Join([]string{
		"reference: " + ref,
		"candidate: " + cand,
		"output-dir: " + outDir,
		"eps: 0.3",
		"min-samples: 3",
		"fields:",
		"  - name: Branche",
		"    weight: 50",
	}, "\n")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, err := execute(t, "--config", cfgPath, "--log-level", "error", "run")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "output-Branche=50-DBSCAN.csv"))
	assert.NoError(t, err)
}

func TestRunCommandErrors(t *testing.T) {
	ref, cand, outDir := writeInputs(t)

	_, err := execute(t, "run", "-r", ref, "-o", outDir, "--log-level", "error")
	assert.Equal(t, "Please select all files!", prophet.UserMessage(err))

	_, err = execute(t, "run", "-r", ref, "-c", cand, "-o", outDir, "--eps", "abc", "--log-level", "error")
	assert.Equal(t, "Please enter valid weighting values and DBSCAN parameters!", prophet.UserMessage(err))

	_, err = execute(t, "run", "-r", ref, "-c", filepath.Join(outDir, "nope.csv"), "-o", outDir,
		"--weight", "Branche=100", "--log-level", "error")
	assert.Equal(t, "The file could not be found.", prophet.UserMessage(err))

	_, err = execute(t, "run", "-r", ref, "-c", cand, "--weight", "Branche", "--log-level", "error")
	assert.ErrorIs(t, err, prophet.ErrConfig)
}

func TestFieldsCommand(t *testing.T) {
	ref, _, _ := writeInputs(t)

	stdout, err := execute(t, "fields", "--weight", "Branche=100", ref)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Accountname")
	assert.Contains(t, stdout, "#2")

	stdout, err = execute(t, "fields", ref)
	assert.ErrorIs(t, err, prophet.ErrConfig)
	assert.Contains(t, stdout, "missing field: Website")
}

func TestParseWeightFlags(t *testing.T) {
	got, err := parseWeightFlags([]string{"Branche=100", " Potential Unternehmen = 12.5 ", "a=b=3"})
	require.NoError(t, err)
	assert.Equal(t, []prophet.RawWeight{
		{Field: "Branche", Value: "100"},
		{Field: "Potential Unternehmen", Value: "12.5"},
		{Field: "a=b", Value: "3"},
	}, got)

	_, err = parseWeightFlags([]string{"=5"})
	assert.ErrorIs(t, err, prophet.ErrConfig)
}

func TestRenderFieldSummary(t *testing.T) {
	out := renderFieldSummary([]prophet.FieldSummary{
		{Name: "Branche", Weight: 100, Vocabulary: 4},
		{Name: "Website", Weight: 12.5, Vocabulary: 0},
	})
	assert.Contains(t, out, "Weight (%)")
	assert.Contains(t, out, "Branche")
	assert.Contains(t, out, "12.5")
}

func TestRenderColumns(t *testing.T) {
	out := renderColumns([]string{"Accountname", "Branche"}, map[string]struct{}{"Branche": {}})
	assert.Contains(t, out, "#2")
	assert.Contains(t, out, "yes")
	assert.Equal(t, 1, strings.Count(out, "yes"))
}

func TestProgressBarFinishesOnTerminalState(t *testing.T) {
	var buf bytes.Buffer
	bar := newProgressBar(&buf)

	bar.Update(prophet.Progress{Percent: 60, Stage: prophet.StageClustering, State: prophet.StateClustering})
	assert.False(t, bar.finished)

	bar.Update(prophet.Progress{Percent: 100, Stage: prophet.StageCompleted, State: prophet.StateCompleted})
	assert.True(t, bar.finished)
	bar.Close()
}

func TestParseLevel(t *testing.T) {
	_, err := parseLevel("loud")
	assert.ErrorIs(t, err, prophet.ErrConfig)

	lvl, err := parseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", lvl.String())
}
