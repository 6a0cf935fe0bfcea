package formulas

import "github.com/comalice/formulax"

// Acceleration is (v1 - v0) / t. A zero duration yields the undefined sentinel.
func Acceleration(v0, v1, t float64) formulax.Result {
	if t == 0 {
		return formulax.Undefined()
	}
	return formulax.Number((v1 - v0) / t)
}

// RunwayLength is the take-off distance v² / 2a. A zero acceleration yields the undefined sentinel.
func RunwayLength(speed, accel float64) formulax.Result {
	if accel == 0 {
		return formulax.Undefined()
	}
	return formulax.Number(speed * speed / (2 * accel))
}

func registerMotion(b *formulax.Builder) {
	b.Formula(AverageAcceleration).
		Describe("Average acceleration from starting velocity, ending velocity and elapsed time").
		Params("v0", "v1", "t").
		Unit("m/s²").
		Prompt("Enter v0, v1, and t:").
		Phrase("The average acceleration is").
		Alias("acceleration").
		Compute(formulax.Numeric, func(a []float64) formulax.Result {
			return Acceleration(a[0], a[1], a[2])
		})

	b.Formula(RunwayLengthName).
		Describe("Minimum runway length for a plane's take-off speed and acceleration").
		Params("speed", "acceleration").
		Unit("m").
		Prompt("Enter speed and acceleration:").
		Phrase("The minimum runway length for this airplane is").
		Compute(formulax.Numeric, func(a []float64) formulax.Result {
			return RunwayLength(a[0], a[1])
		})
}
