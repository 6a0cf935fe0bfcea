package formulas

import "github.com/comalice/formulax"

// TripCost is the fuel cost of driving distance miles at mpg miles per gallon
// and price per gallon. Zero mpg yields the undefined sentinel.
func TripCost(distance, mpg, price float64) formulax.Result {
	if mpg == 0 {
		return formulax.Undefined()
	}
	return formulax.Number(distance / mpg * price)
}

func registerCost(b *formulax.Builder) {
	b.Formula(DrivingCostName).
		Describe("Fuel cost of a trip from distance, miles per gallon and price per gallon").
		Params("distance", "mpg", "price").
		Unit("$").
		Prompt("Enter the driving distance, miles per gallon, and price per gallon:").
		Phrase("The cost of driving is").
		Alias("trip-cost").
		Compute(formulax.Numeric, func(a []float64) formulax.Result {
			return TripCost(a[0], a[1], a[2])
		})
}
