package console

import (
	"bytes"
	"context"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/formulas"
	"github.com/comalice/formulax/internal/session"
)

func lookup(t *testing.T, name string) *formulax.Formula {
	t.Helper()
	f, err := formulas.Default().Lookup(name)
	require.NoError(t, err)
	return f
}

func TestConsoleRun(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		input   string
		opts    []Option
		want    string
	}{
		{
			name:    "triangle area",
			formula: formulas.TriangleAreaName,
			input:   "0 0 4 0\n0 3\n",
			want:    "Enter three points for a triangle:\nThe area of the triangle is 6.00\n",
		},
		{
			name:    "distance without prompt",
			formula: formulas.EuclideanDistance,
			input:   "0 0 3 4",
			opts:    []Option{WithPrompts(false), WithPrecision(1)},
			want:    "The distance between the two points is 5.0\n",
		},
		{
			name:    "acceleration unit",
			formula: formulas.AverageAcceleration,
			input:   "5.5 50.9 4.5",
			opts:    []Option{WithPrompts(false), WithPrecision(4)},
			want:    "The average acceleration is 10.0889 m/s²\n",
		},
		{
			name:    "currency",
			formula: formulas.DrivingCostName,
			input:   "100 25 3",
			opts:    []Option{WithPrompts(false)},
			want:    "The cost of driving is $12.00\n",
		},
		{
			name:    "zero divisor",
			formula: formulas.RunwayLengthName,
			input:   "60 0",
			opts:    []Option{WithPrompts(false)},
			want:    "The minimum runway length for this airplane is undefined\n",
		},
		{
			name:    "grade",
			formula: formulas.LetterGradeName,
			input:   "79.5",
			opts:    []Option{WithPrompts(false)},
			want:    "The grade is C\n",
		},
		{
			name:    "declined quote",
			formula: formulas.InsuranceQuoteName,
			input:   "15 0",
			opts:    []Option{WithPrompts(false)},
			want:    "The insurance premium is declined\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := New(strings.NewReader(tt.input), &out, tt.opts...)
			_, err := c.Run(lookup(t, tt.formula))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestConsoleRunShortInput(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("0 0 4"), &out, WithPrompts(false))
	_, err := c.Run(lookup(t, formulas.TriangleAreaName))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), formulas.TriangleAreaName)
	assert.Empty(t, out.String())
}

func TestConsoleSharesScanner(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("2 rest"), &out, WithPrompts(false))
	_, err := c.Run(lookup(t, formulas.CircleAreaName))
	require.NoError(t, err)
	tok, err := c.Scanner().Token()
	require.NoError(t, err)
	assert.Equal(t, "rest", tok)
}

func TestConsoleRunRecordsInSession(t *testing.T) {
	s := session.New(formulas.Default())
	defer s.Close()

	var out bytes.Buffer
	c := New(strings.NewReader("0 0 3 4"), &out, WithPrompts(false), WithSession(s))
	res, err := c.RunContext(context.Background(), lookup(t, formulas.EuclideanDistance))
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Value)
	assert.Equal(t, "The distance between the two points is 5.00\n", out.String())

	hist := s.History()
	require.Len(t, hist, 1)
	assert.Equal(t, formulas.EuclideanDistance, hist[0].Formula)
	assert.Equal(t, formulax.Floats{0, 0, 3, 4}, hist[0].Args)
}

func TestConsoleRunContextCanceled(t *testing.T) {
	s := session.New(formulas.Default())
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	c := New(strings.NewReader("1"), &out, WithPrompts(false), WithSession(s))
	_, err := c.RunContext(ctx, lookup(t, formulas.CircleAreaName))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
	assert.Empty(t, s.History())
}

func TestFormatResult(t *testing.T) {
	noPhrase := &formulax.Formula{Name: "custom"}
	assert.Equal(t, "custom = 1.50", FormatResult(noPhrase, formulax.Result{Formula: "custom", Value: 1.5}, 2))
	assert.Equal(t, "custom = NaN", FormatResult(noPhrase, formulax.Result{Formula: "custom", Value: math.NaN()}, 2))
	assert.Equal(t, "custom = +Inf", FormatResult(noPhrase, formulax.Result{Formula: "custom", Value: math.Inf(1)}, 2))
	assert.Equal(t, "custom = 0.1", FormatResult(noPhrase, formulax.Result{Formula: "custom", Value: 0.1}, -1))

	area := lookup(t, formulas.TriangleAreaName)
	assert.Equal(t, "The area of the triangle is NaN", FormatResult(area, formulax.Result{Value: math.NaN()}, 2))
}
