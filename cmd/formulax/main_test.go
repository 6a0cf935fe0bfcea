package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/internal/config"
	"github.com/comalice/formulax/internal/session"
)

// execute runs the CLI with a private config path and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "error")

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestEvalConsoleProgram(t *testing.T) {
	out, err := execute(t, "0 0\n3 0\n0 4\n", "eval", "triangle-area")
	require.NoError(t, err)
	assert.Equal(t, "Enter three points for a triangle:\nThe area of the triangle is 6.00\n", out)
}

func TestEvalArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"alias", []string{"distance", "0", "0", "3", "4"}, "The distance between the two points is 5.00\n"},
		{"unit", []string{"runway-length", "5", "3"}, "The minimum runway length for this airplane is 4.17 m\n"},
		{"negative", []string{"acceleration", "-2", "4", "2"}, "The average acceleration is 3.00 m/s²\n"},
		{"categorical", []string{"grade", "87"}, "The grade is B\n"},
		{"degenerate", []string{"runway-length", "5", "0"}, "The minimum runway length for this airplane is undefined\n"},
		{"dollars", []string{"insurance", "30", "2"}, "The insurance premium is $625.00\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", append([]string{"eval"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvalPrecision(t *testing.T) {
	t.Setenv(config.EnvPrecision, "3")
	out, err := execute(t, "2", "eval", "circle-area")
	require.NoError(t, err)
	assert.Equal(t, "Enter the radius:\nThe area of the circle is 12.566\n", out)

	out, err = execute(t, "", "--precision", "0", "eval", "circle-area", "2")
	require.NoError(t, err)
	assert.Equal(t, "The area of the circle is 13\n", out)
}

func TestEvalJSON(t *testing.T) {
	out, err := execute(t, "", "-o", "json", "eval", "runway-length", "5", "0")
	require.NoError(t, err)

	var res formulax.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "runway-length", res.Formula)
	assert.True(t, res.Degenerate)
	assert.Equal(t, formulax.UndefinedLabel, res.Label)
}

func TestEvalJSONFromStdin(t *testing.T) {
	out, err := execute(t, "87", "-o", "json", "eval", "grade")
	require.NoError(t, err)
	assert.NotContains(t, out, "Enter a score:")

	var res formulax.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "B", res.Label)
}

func TestEvalTrailingFlags(t *testing.T) {
	out, err := execute(t, "", "eval", "grade", "87", "-o", "json")
	require.NoError(t, err)
	var res formulax.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "B", res.Label)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"long", []string{"distance", "0", "0", "3", "4", "--precision", "1"}, "The distance between the two points is 5.0\n"},
		{"equals", []string{"acceleration", "-2", "4", "2", "--precision=0"}, "The average acceleration is 3 m/s²\n"},
		{"between", []string{"distance", "0", "0", "--precision", "3", "3", "4"}, "The distance between the two points is 5.000\n"},
		{"terminator", []string{"circle-area", "--", "-1"}, "The area of the circle is 3.14\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", append([]string{"eval"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	_, err = execute(t, "", "eval", "distance", "0", "0", "3", "4", "--bogus")
	assert.ErrorContains(t, err, "unknown flag")

	_, err = execute(t, "", "eval", "distance", "0", "0", "3", "4", "-o", "xml")
	assert.ErrorContains(t, err, "invalid output format")
}

func TestEvalErrors(t *testing.T) {
	_, err := execute(t, "", "eval", "volume", "1")
	assert.ErrorIs(t, err, formulax.ErrUnknownFormula)

	_, err = execute(t, "", "eval", "distance", "1", "2")
	assert.ErrorIs(t, err, formulax.ErrInvalidArgumentCount)

	_, err = execute(t, "", "eval", "distance", "1", "2", "x", "4")
	assert.ErrorContains(t, err, `invalid number "x"`)

	_, err = execute(t, "1 2", "eval", "distance")
	assert.Error(t, err)

	_, err = execute(t, "", "-o", "xml", "list")
	assert.ErrorContains(t, err, "invalid output format")
}

func TestListAndDescribe(t *testing.T) {
	out, err := execute(t, "", "list")
	require.NoError(t, err)
	for _, name := range []string{"euclidean-distance", "triangle-area", "insurance-quote"} {
		assert.Contains(t, out, name)
	}

	out, err = execute(t, "", "-o", "yaml", "list")
	require.NoError(t, err)
	var infos []formulaInfo
	require.NoError(t, yaml.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 9)
	assert.Equal(t, "euclidean-distance", infos[0].Name)
	assert.Equal(t, []string{"distance"}, infos[0].Aliases)

	out, err = execute(t, "", "describe", "heron", "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "triangle-area")
	assert.Contains(t, out, "Heron")
}

func TestSearch(t *testing.T) {
	out, err := execute(t, "", "search", "accelerating", "planes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "average-acceleration"))

	out, err = execute(t, "", "search", "zebra")
	require.NoError(t, err)
	assert.Equal(t, "No formulas match \"zebra\".\n", out)
}

func TestArray(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"search", "7", "3", "7", "1", "7"}, "Found 7 at index 1\n"},
		{[]string{"search", "9", "3", "7"}, "9 not found\n"},
		{[]string{"bsearch", "5", "1", "3", "5", "8"}, "Found 5 at index 2\n"},
		{[]string{"shift-left", "1", "2", "3"}, "2 3 1\n"},
		{[]string{"shift-right", "1", "2", "3"}, "3 1 2\n"},
		{[]string{"sort", "3", "-1", "2.5"}, "-1 2.5 3\n"},
		{[]string{"max", "3", "9", "9"}, "The largest value is 9 at index 1\n"},
		{[]string{"min", "3", "-4", "0"}, "The smallest value is -4 at index 1\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			out, err := execute(t, "", append([]string{"array"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	_, err := execute(t, "", "array", "bsearch", "5", "3", "1")
	assert.ErrorContains(t, err, "ascending")

	out, err := execute(t, "", "array", "sort", "3", "-1", "2.5", "--precision", "1")
	require.NoError(t, err)
	assert.Equal(t, "-1 2.5 3\n", out)

	_, err = execute(t, "", "array", "bsearch", "5", "--precision", "1")
	assert.ErrorContains(t, err, "requires at least 2 arg(s)")
}

func TestGuess(t *testing.T) {
	out, err := execute(t, "50 25 x 30\n", "guess", "--target", "30", "--min", "1", "--max", "100")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Guess a number between 1 and 100.",
		"Too high, try again.",
		"Too low, try again.",
		"Please enter a whole number.",
		"Correct! You got it in 3 guesses.",
		"",
	}, "\n"), out)
}

func TestGuessOutOfAttempts(t *testing.T) {
	out, err := execute(t, "1 2", "guess", "--target", "5", "--max", "10", "--attempts", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Too low. Out of guesses, the number was 5.")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "homework.yaml")
	require.NoError(t, os.WriteFile(job, []byte(`
items:
  - id: area
    formula: triangle-area
    args: [0, 0, 3, 0, 0, 4]
  - formula: grade
    args: [95]
`), 0o644))
	reports := filepath.Join(dir, "reports")

	out, err := execute(t, "", "batch", job, "--out", reports)
	require.NoError(t, err)
	assert.Contains(t, out, "homework (version")
	assert.Contains(t, out, "2 items, 0 failed")
	assert.Contains(t, out, "Report saved to "+reports)

	entries, err := os.ReadDir(reports)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBatchFailures(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(job, []byte(`
name: broken
items:
  - formula: volume
    args: [1]
  - formula: circle-area
    args: [1]
`), 0o644))

	out, err := execute(t, "", "batch", job, "--out", filepath.Join(dir, "reports"))
	assert.ErrorContains(t, err, "1 of 2 items failed")
	assert.Contains(t, out, "2 items, 1 failed")

	_, err = execute(t, "", "batch", job, "--check")
	assert.ErrorContains(t, err, "job broken is invalid")
}

func TestHistoryRecording(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(t, "", "--db", db, "history")
	require.NoError(t, err)
	assert.Equal(t, "No history recorded.\n", out)

	_, err = execute(t, "", "--db", db, "eval", "distance", "0", "0", "3", "4")
	require.NoError(t, err)
	_, err = execute(t, "", "--db", db, "eval", "grade", "55")
	require.NoError(t, err)

	out, err = execute(t, "", "--db", db, "-o", "json", "history")
	require.NoError(t, err)
	var recs []session.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "euclidean-distance", recs[0].Formula)
	assert.Equal(t, 5.0, recs[0].Result.Value)
	assert.Equal(t, "F", recs[1].Result.Label)

	out, err = execute(t, "", "--db", db, "history", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "letter-grade")
	assert.NotContains(t, out, "euclidean-distance")
}

func TestHistoryRecordsConsoleEval(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(t, "0 0\n3 4\n", "--db", db, "eval", "distance")
	require.NoError(t, err)
	assert.Contains(t, out, "The distance between the two points is 5.00")
	_, err = execute(t, "95", "--db", db, "-o", "json", "eval", "grade")
	require.NoError(t, err)

	out, err = execute(t, "", "--db", db, "-o", "json", "history")
	require.NoError(t, err)
	var recs []session.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "euclidean-distance", recs[0].Formula)
	assert.Equal(t, formulax.Floats{0, 0, 3, 4}, recs[0].Args)
	assert.Equal(t, "A", recs[1].Result.Label)
}

func TestHistoryJSONNonFiniteArgs(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	_, err := execute(t, "", "--db", db, "eval", "circle-area", "Inf")
	require.NoError(t, err)
	_, err = execute(t, "", "--db", db, "eval", "distance", "0", "0", "NaN", "-Inf")
	require.NoError(t, err)

	out, err := execute(t, "", "--db", db, "-o", "json", "history")
	require.NoError(t, err)
	assert.Contains(t, out, `"+Inf"`)
	var recs []session.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.True(t, math.IsInf(recs[0].Args[0], 1))
	assert.True(t, math.IsNaN(recs[1].Args[2]))
	assert.True(t, math.IsInf(recs[1].Args[3], -1))
}

func TestRepl(t *testing.T) {
	script := strings.Join([]string{
		"let r = distance 0 0 3 4",
		"circle-area r",
		"bogus 1",
		":quit",
		"circle-area 1",
	}, "\n")
	out, err := execute(t, script, "repl")
	require.NoError(t, err)
	assert.Contains(t, out, "r = 5.00")
	assert.Contains(t, out, "The area of the circle is 78.54")
	assert.Contains(t, out, "error: unknown formula")
	assert.NotContains(t, out, "3.14")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	c := config.DefaultConfig()
	c.Precision = 1
	c.Output.Prompts = false
	require.NoError(t, c.Save(path))

	t.Setenv(config.EnvLogLevel, "error")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("1"))
	root.SetArgs([]string{"--config", path, "eval", "circle-area"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "The area of the circle is 3.1\n", out.String())
}
