package batch

import (
	"math"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/formulas"
)

const sampleJob = `
name: homework
workers: 2
items:
  - id: tri
    formula: triangle-area
    args: [0, 0, 4, 0, 0, 3]
  - formula: distance
    args: [0, 0, 3, 4]
  - formula: grade
    args: [72]
`

func TestParseAndValidate(t *testing.T) {
	job, err := Parse([]byte(sampleJob))
	require.NoError(t, err)
	require.NoError(t, job.Validate(formulas.Default()))

	assert.Equal(t, "homework", job.Name)
	assert.Equal(t, 2, job.Workers)
	ids := []string{job.Items[0].ID, job.Items[1].ID, job.Items[2].ID}
	assert.Equal(t, []string{"tri", "item-2", "item-3"}, ids)
	assert.Equal(t, formulax.Floats{0, 0, 3, 4}, job.Items[1].Args)
}

func TestParseJSON(t *testing.T) {
	job, err := Parse([]byte(`{"name":"j","items":[{"formula":"circle-area","args":[1]}]}`))
	require.NoError(t, err)
	require.NoError(t, job.Validate(formulas.Default()))
	assert.Equal(t, "item-1", job.Items[0].ID)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("items: [oops"))
	assert.ErrorContains(t, err, "parse job")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	job := &Job{Items: []Item{
		{Formula: "nope", Args: []float64{1}},
		{Formula: "distance", Args: []float64{1, 2}},
		{Formula: " "},
		{Formula: "circle-area", Args: []float64{1}},
	}}
	err := job.Validate(formulas.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, formulax.ErrUnknownFormula)
	assert.ErrorIs(t, err, formulax.ErrInvalidArgumentCount)
	assert.ErrorContains(t, err, "item 0 (item-1)")
	assert.ErrorContains(t, err, "item 1 (item-2)")
	assert.ErrorContains(t, err, "item 2 (item-3): formula is required")
	assert.NotContains(t, err.Error(), "item 3")
}

func TestPrepare(t *testing.T) {
	assert.EqualError(t, (&Job{}).Prepare(), "job has no items")
	assert.ErrorContains(t, (&Job{Workers: -1, Items: []Item{{Formula: "x"}}}).Prepare(), "workers must not be negative")

	dup := &Job{Items: []Item{{ID: "item-2", Formula: "a"}, {Formula: "b"}}}
	assert.ErrorContains(t, dup.Prepare(), `item 1: duplicate id "item-2" (first used by item 0)`)
}

func TestLoadNamesJobAfterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekly.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - formula: grade\n    args: [50]\n"), 0o644))

	job, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "weekly", job.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestComputeVersion(t *testing.T) {
	job := &Job{Name: "j", Version: "v1"}
	assert.Equal(t, "v1", ComputeVersion(job))

	job.Version = ""
	v := ComputeVersion(job)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), v)
	assert.Equal(t, v, ComputeVersion(&Job{Name: "j"}), "same contents, same version")

	other := ComputeVersion(&Job{Name: "k"})
	assert.NotEqual(t, v, other)
}

func TestComputeVersionTracksItems(t *testing.T) {
	base := func() *Job {
		return &Job{Name: "j", Items: []Item{{ID: "a", Formula: "circle-area", Args: formulax.Floats{1}}}}
	}
	v := ComputeVersion(base())

	changed := base()
	changed.Items[0].Args[0] = 2
	assert.NotEqual(t, v, ComputeVersion(changed))

	alias := base()
	alias.Items[0].Formula = "Circle_Area"
	assert.Equal(t, v, ComputeVersion(alias))

	nonFinite := base()
	nonFinite.Items[0].Args[0] = math.Inf(1)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), ComputeVersion(nonFinite))
	assert.NotEqual(t, v, ComputeVersion(nonFinite))
}
