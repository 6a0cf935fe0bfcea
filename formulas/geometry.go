package formulas

import (
	"math"

	"github.com/comalice/formulax"
)

// Point is a position in the plane.
type Point struct {
	X, Y float64
}

// Distance is the Euclidean distance between a and b. It is exactly symmetric.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// TriangleArea applies Heron's formula to the triangle abc. Degenerate
// (collinear) vertices can drive the radicand slightly negative; the NaN is
// returned as is.
func TriangleArea(a, b, c Point) float64 {
	s1, s2, s3 := Distance(a, b), Distance(b, c), Distance(c, a)
	s := (s1 + s2 + s3) / 2
	return math.Sqrt(s * (s - s1) * (s - s2) * (s - s3))
}

// Perimeter is the sum of the side lengths of abc.
func Perimeter(a, b, c Point) float64 {
	return Distance(a, b) + Distance(b, c) + Distance(c, a)
}

// CircleArea is πr².
func CircleArea(radius float64) float64 {
	return math.Pi * radius * radius
}

func points(args []float64) []Point {
	pts := make([]Point, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		pts = append(pts, Point{X: args[i], Y: args[i+1]})
	}
	return pts
}

func registerGeometry(b *formulax.Builder) {
	b.Formula(EuclideanDistance).
		Describe("Euclidean distance between two points in the plane").
		Params("x1", "y1", "x2", "y2").
		Prompt("Enter x1 and y1, then x2 and y2:").
		Phrase("The distance between the two points is").
		Alias("distance").
		Numeric(func(a []float64) float64 {
			p := points(a)
			return Distance(p[0], p[1])
		})

	b.Formula(TriangleAreaName).
		Describe("Area of a triangle given its three vertices, by Heron's formula").
		Params("x1", "y1", "x2", "y2", "x3", "y3").
		Prompt("Enter three points for a triangle:").
		Phrase("The area of the triangle is").
		Alias("heron").
		Numeric(func(a []float64) float64 {
			p := points(a)
			return TriangleArea(p[0], p[1], p[2])
		})

	b.Formula(TrianglePerimeter).
		Describe("Perimeter of a triangle given its three vertices").
		Params("x1", "y1", "x2", "y2", "x3", "y3").
		Prompt("Enter three points for a triangle:").
		Phrase("The perimeter of the triangle is").
		Numeric(func(a []float64) float64 {
			p := points(a)
			return Perimeter(p[0], p[1], p[2])
		})

	b.Formula(CircleAreaName).
		Describe("Area of a circle from its radius").
		Params("radius").
		Prompt("Enter the radius:").
		Phrase("The area of the circle is").
		Numeric(func(a []float64) float64 {
			return CircleArea(a[0])
		})
}
