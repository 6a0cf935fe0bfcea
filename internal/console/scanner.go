// Package console implements the prompt, parse, compute, format and print
// cycle of the console programs, plus an interactive REPL over a session.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ParseError reports a token that is not a number.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid number %q", e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Scanner reads whitespace-delimited scalars, the way the console programs
// read their inputs regardless of how they are split across lines.
type Scanner struct {
	sc *bufio.Scanner
}

// NewScanner creates a Scanner over r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &Scanner{sc: sc}
}

// Token returns the next raw token, or io.EOF when the input is exhausted.
func (s *Scanner) Token() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

// Float reads one floating-point number.
func (s *Scanner) Float() (float64, error) {
	tok, err := s.Token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &ParseError{Token: tok, Err: err}
	}
	return v, nil
}

// Floats reads exactly n numbers. Running out of input early is io.ErrUnexpectedEOF.
func (s *Scanner) Floats(n int) ([]float64, error) {
	out := make([]float64, 0, n)
	for len(out) < n {
		v, err := s.Float()
		if err != nil {
			return nil, short(err, len(out), n)
		}
		out = append(out, v)
	}
	return out, nil
}

// Int reads one integer.
func (s *Scanner) Int() (int, error) {
	tok, err := s.Token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &ParseError{Token: tok, Err: err}
	}
	return v, nil
}

// Ints reads exactly n integers.
func (s *Scanner) Ints(n int) ([]int, error) {
	out := make([]int, 0, n)
	for len(out) < n {
		v, err := s.Int()
		if err != nil {
			return nil, short(err, len(out), n)
		}
		out = append(out, v)
	}
	return out, nil
}

func short(err error, got, want int) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("read %d of %d values: %w", got, want, io.ErrUnexpectedEOF)
	}
	return err
}
