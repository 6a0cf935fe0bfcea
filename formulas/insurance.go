package formulas

import (
	"math"

	"github.com/comalice/formulax"
)

const (
	BasePremium    = 500.0
	YoungDriverFee = 100.0
	YoungDriverAge = 25
	MinimumAge     = 16
	MaxAccidents   = 4
	DeclinedLabel  = "declined"
)

// accidentSurcharge is indexed by whole accidents.
var accidentSurcharge = [MaxAccidents + 1]float64{0, 50, 125, 225, 375}

// InsuranceQuote prices a policy from driver age and accident count.
// Drivers under 16 or with more than four accidents are declined.
func InsuranceQuote(age, accidents float64) formulax.Result {
	if accidents < 0 || math.IsNaN(accidents) || math.IsNaN(age) {
		return formulax.Undefined()
	}
	n := math.Floor(accidents)
	if age < MinimumAge || n > MaxAccidents {
		return formulax.Result{Kind: formulax.Numeric, Value: 0, Label: DeclinedLabel}
	}
	premium := BasePremium + accidentSurcharge[int(n)]
	if age < YoungDriverAge {
		premium += YoungDriverFee
	}
	return formulax.Number(premium)
}

func registerInsurance(b *formulax.Builder) {
	b.Formula(InsuranceQuoteName).
		Describe("Yearly insurance premium from driver age and number of accidents").
		Params("age", "accidents").
		Unit("$").
		Prompt("Enter the driver's age and number of accidents:").
		Phrase("The insurance premium is").
		Alias("insurance").
		Compute(formulax.Numeric, func(a []float64) formulax.Result {
			return InsuranceQuote(a[0], a[1])
		})
}
