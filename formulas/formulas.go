// Package formulas is the built-in catalog: the calculations behind the
// classic console exercises (distance and area, motion, trip cost, grade
// classification and an insurance quote).
package formulas

import (
	"sync"

	"github.com/comalice/formulax"
)

// Canonical names of the built-in formulas.
const (
	EuclideanDistance   = "euclidean-distance"
	TriangleAreaName    = "triangle-area"
	TrianglePerimeter   = "triangle-perimeter"
	CircleAreaName      = "circle-area"
	AverageAcceleration = "average-acceleration"
	RunwayLengthName    = "runway-length"
	DrivingCostName     = "driving-cost"
	LetterGradeName     = "letter-grade"
	InsuranceQuoteName  = "insurance-quote"
)

var (
	defaultOnce sync.Once
	defaultReg  *formulax.Registry
)

// Default returns a shared registry holding every built-in formula.
func Default() *formulax.Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
	})
	return defaultReg
}

// New builds a fresh registry holding every built-in formula.
func New() *formulax.Registry {
	b := formulax.NewBuilder()
	Register(b)
	return b.MustBuild()
}

// Register adds the built-ins to b, so callers can extend the catalog.
func Register(b *formulax.Builder) {
	registerGeometry(b)
	registerMotion(b)
	registerCost(b)
	registerGrade(b)
	registerInsurance(b)
}
