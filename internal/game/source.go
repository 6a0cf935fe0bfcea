package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/comalice/formulax/internal/console"
)

// Source supplies guesses. Next returns io.EOF when no guesses remain.
type Source interface {
	Next(ctx context.Context) (int, error)
}

// ReaderSource reads whitespace-delimited integers.
type ReaderSource struct {
	sc *console.Scanner
}

// NewReaderSource creates a ReaderSource over r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{sc: console.NewScanner(r)}
}

// NewScannerSource shares an existing scanner, so a game can follow other
// console programs on the same input.
func NewScannerSource(sc *console.Scanner) *ReaderSource {
	return &ReaderSource{sc: sc}
}

func (s *ReaderSource) Next(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.sc.Int()
}

// ChannelSource is a Source backed by a Go channel. Closing the channel ends the input.
type ChannelSource struct {
	ch <-chan int
}

// NewChannelSource creates a ChannelSource with the given channel.
func NewChannelSource(ch <-chan int) *ChannelSource {
	return &ChannelSource{ch: ch}
}

func (s *ChannelSource) Next(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case n, ok := <-s.ch:
		if !ok {
			return 0, io.EOF
		}
		return n, nil
	}
}

// Play drives g with guesses from src until the game ends, printing a hint
// after each guess. Tokens that are not whole numbers are reported and skipped.
// Running out of guesses before the game ends is io.ErrUnexpectedEOF.
func Play(ctx context.Context, g *Game, src Source, out io.Writer) error {
	lo, hi := g.Range()
	fmt.Fprintf(out, "Guess a number between %d and %d.\n", lo, hi)
	for !g.Over() {
		n, err := src.Next(ctx)
		if err != nil {
			var perr *console.ParseError
			if errors.As(err, &perr) {
				fmt.Fprintln(out, "Please enter a whole number.")
				continue
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("input ended after %d guesses: %w", g.Attempts(), io.ErrUnexpectedEOF)
			}
			return err
		}

		outcome, err := g.Guess(ctx, n)
		if err != nil {
			return err
		}
		switch {
		case outcome == Correct:
			fmt.Fprintf(out, "Correct! You got it in %d %s.\n", g.Attempts(), plural(g.Attempts(), "guess", "guesses"))
		case g.Over():
			fmt.Fprintf(out, "Too %s. Out of guesses, the number was %d.\n", direction(outcome), g.Target())
		default:
			fmt.Fprintf(out, "Too %s, try again.\n", direction(outcome))
		}
	}
	return nil
}

func direction(o Outcome) string {
	if o == TooLow {
		return "low"
	}
	return "high"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
