package console

import (
	"strings"

	"github.com/comalice/formulax"
)

// DefaultPrecision is the number of decimals printed for numeric results.
const DefaultPrecision = 2

// FormatValue renders the value part of a result: the label for categorical,
// degenerate and labelled results, otherwise the number in the given precision
// with its unit. A "$" unit is printed in front of the number.
func FormatValue(f *formulax.Formula, r formulax.Result, precision int) string {
	if r.Degenerate {
		return formulax.UndefinedLabel
	}
	if r.Kind == formulax.Categorical || r.Label != "" {
		return r.Label
	}
	v := formulax.FormatFloat(r.Value, precision)
	if f == nil || f.Unit == "" || !r.IsFinite() {
		return v
	}
	if f.Unit == "$" {
		return "$" + v
	}
	return v + " " + f.Unit
}

// FormatResult renders the output line "<Phrase> <value>[ <unit>]". Formulas
// without a phrase print their name followed by "=".
func FormatResult(f *formulax.Formula, r formulax.Result, precision int) string {
	lead := r.Formula + " ="
	if f != nil && f.Phrase != "" {
		lead = f.Phrase
	}
	return strings.TrimSpace(lead + " " + FormatValue(f, r, precision))
}
