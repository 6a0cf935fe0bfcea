package formulas

import "github.com/comalice/formulax"

// LetterGrade classifies a score on the usual ten-point scale. Anything
// below 60, including NaN, is an F.
func LetterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func registerGrade(b *formulax.Builder) {
	b.Formula(LetterGradeName).
		Describe("Letter grade (A, B, C, D, F) for a numeric score").
		Params("score").
		Prompt("Enter a score:").
		Phrase("The grade is").
		Alias("grade").
		Categorical(func(a []float64) string {
			return LetterGrade(a[0])
		})
}
