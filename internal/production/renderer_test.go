package production

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/formulas"
	"github.com/comalice/formulax/internal/session"
)

func TestCatalogTable(t *testing.T) {
	out := NewTableRenderer(2).Catalog(formulas.Default().List())
	for _, name := range formulas.Default().Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "FORMULA")
	assert.Contains(t, out, "categorical")
}

func TestHistoryTable(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	recs := []session.Record{
		{Formula: "euclidean-distance", Args: []float64{0, 0, 3, 4}, Result: formulax.Number(5), At: at},
		{Formula: "letter-grade", Args: []float64{1, 2}, Err: "invalid argument count", At: at},
	}
	out := NewTableRenderer(1).History(recs)
	assert.Contains(t, out, "2024-01-02 03:04:05")
	assert.Contains(t, out, "0 0 3 4")
	assert.Contains(t, out, "5.0")
	assert.Contains(t, out, "invalid argument count")
}

func TestReportTable(t *testing.T) {
	out := NewTableRenderer(2).Report(sampleReport())
	lines := strings.Split(out, "\n")
	assert.Equal(t, "homework (version v1, run run-42): 4 items, 1 failed", lines[0])
	assert.Contains(t, out, "6.00")
	assert.Contains(t, out, "undefined")
	assert.Contains(t, out, `unknown formula: "nope"`)
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON(sampleReport())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-42", decoded["run_id"])
}

func TestFormulaMarkdown(t *testing.T) {
	reg := formulas.Default()
	f, err := reg.Lookup("heron")
	require.NoError(t, err)

	md := FormulaMarkdown(f, reg.Aliases(f.Name))
	assert.True(t, strings.HasPrefix(md, "# triangle-area\n\n"))
	assert.Contains(t, md, "- **Parameters:** `x1`, `y1`, `x2`, `y2`, `x3`, `y3`\n")
	assert.Contains(t, md, "- **Aliases:** heron\n")
	assert.Contains(t, md, "> Enter three points for a triangle:\n")

	out, err := RenderMarkdown(md, "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "triangle-area")
	assert.Contains(t, out, "Heron")
}

func TestFormulaMarkdownWithoutAliases(t *testing.T) {
	f, err := formulas.Default().Lookup("circle-area")
	require.NoError(t, err)
	assert.NotContains(t, FormulaMarkdown(f, nil), "Aliases")
}
