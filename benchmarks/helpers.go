// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"math/rand/v2"

	"gopkg.in/yaml.v3"

	"github.com/comalice/formulax/formulas"
	"github.com/comalice/formulax/internal/batch"
)

// catalogCalls cycles through every built-in formula with valid arguments.
var catalogCalls = []batch.Item{
	{Formula: formulas.EuclideanDistance, Args: []float64{0, 0, 3, 4}},
	{Formula: formulas.TriangleAreaName, Args: []float64{0, 0, 3, 0, 0, 4}},
	{Formula: formulas.TrianglePerimeter, Args: []float64{0, 0, 3, 0, 0, 4}},
	{Formula: formulas.CircleAreaName, Args: []float64{2}},
	{Formula: formulas.AverageAcceleration, Args: []float64{0, 27, 9}},
	{Formula: formulas.RunwayLengthName, Args: []float64{60, 3.5}},
	{Formula: formulas.DrivingCostName, Args: []float64{300, 30, 3.5}},
	{Formula: formulas.LetterGradeName, Args: []float64{87}},
	{Formula: formulas.InsuranceQuoteName, Args: []float64{30, 2}},
}

// GenJob creates a job with n items cycling through the catalog.
func GenJob(n int) *batch.Job {
	if n < 1 {
		n = 1
	}
	job := &batch.Job{
		Name:  fmt.Sprintf("bench_%d", n),
		Items: make([]batch.Item, n),
	}
	for i := range job.Items {
		it := catalogCalls[i%len(catalogCalls)]
		job.Items[i] = batch.Item{
			ID:      fmt.Sprintf("item-%d", i+1),
			Formula: it.Formula,
			Args:    append([]float64(nil), it.Args...),
		}
	}
	return job
}

// GenJobYAML generates the YAML document of GenJob(n).
func GenJobYAML(n int) []byte {
	data, err := yaml.Marshal(GenJob(n))
	if err != nil {
		panic(err)
	}
	return data
}

// GenTriangles creates n random triangles as triangle-area argument lists.
func GenTriangles(n int, seed uint64) [][]float64 {
	r := rand.New(rand.NewPCG(seed, seed))
	out := make([][]float64, n)
	for i := range out {
		args := make([]float64, 6)
		for j := range args {
			args[j] = r.Float64()*200 - 100
		}
		out[i] = args
	}
	return out
}
