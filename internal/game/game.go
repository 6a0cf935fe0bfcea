// Package game implements the number-guessing console exercise on a small
// state machine: the game stays in Playing until a guess matches the target
// (Won) or the attempt limit runs out (Lost).
package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
)

const (
	Playing StateID = iota
	Won
	Lost
)

const EvGuess EventID = 1

// Defaults for a new game.
const (
	DefaultMin = 1
	DefaultMax = 100
)

// ErrGameOver is returned for guesses made after the game ended.
var ErrGameOver = errors.New("game over")

// Outcome compares a guess with the target.
type Outcome int

const (
	TooLow Outcome = iota
	TooHigh
	Correct
)

func (o Outcome) String() string {
	switch o {
	case TooLow:
		return "too low"
	case TooHigh:
		return "too high"
	case Correct:
		return "correct"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Game holds the target, the attempt counter and the state machine.
type Game struct {
	m           *Machine
	min, max    int
	target      int
	fixed       bool
	maxAttempts int
	attempts    int
	last        Outcome
	rng         *rand.Rand
	logger      *zap.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithRange sets the inclusive range the target is drawn from.
func WithRange(lo, hi int) Option {
	return func(g *Game) {
		g.min, g.max = lo, hi
	}
}

// WithMaxAttempts limits the number of guesses. Zero means unlimited.
func WithMaxAttempts(n int) Option {
	return func(g *Game) {
		g.maxAttempts = n
	}
}

// WithTarget fixes the target instead of drawing it.
func WithTarget(n int) Option {
	return func(g *Game) {
		g.target = n
		g.fixed = true
	}
}

// WithRand sets the source used to draw the target.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rng = r
	}
}

// WithSeed draws the target from a generator seeded with seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates and starts a game.
func New(ctx context.Context, opts ...Option) (*Game, error) {
	g := &Game{
		min:    DefaultMin,
		max:    DefaultMax,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.min > g.max {
		return nil, fmt.Errorf("invalid range [%d, %d]", g.min, g.max)
	}
	if g.maxAttempts < 0 {
		return nil, fmt.Errorf("max attempts must not be negative, got %d", g.maxAttempts)
	}
	if g.fixed {
		if g.target < g.min || g.target > g.max {
			return nil, fmt.Errorf("target %d outside [%d, %d]", g.target, g.min, g.max)
		}
	} else {
		g.target = g.draw()
	}

	m, err := g.machine()
	if err != nil {
		return nil, err
	}
	m.SetLogger(g.logger)
	if err := m.Start(ctx); err != nil {
		return nil, err
	}
	g.m = m
	return g, nil
}

// draw picks the target uniformly from [min, max]. The offset is computed in
// uint64 so the full int range does not overflow.
func (g *Game) draw() int {
	d := uint64(g.max) - uint64(g.min)
	var off uint64
	switch {
	case d == math.MaxUint64 && g.rng != nil:
		off = g.rng.Uint64()
	case d == math.MaxUint64:
		off = rand.Uint64()
	case g.rng != nil:
		off = g.rng.Uint64N(d + 1)
	default:
		off = rand.Uint64N(d + 1)
	}
	return int(uint64(g.min) + off)
}

// machine wires the guess transitions. Order matters: a correct guess wins
// even on the last allowed attempt.
func (g *Game) machine() (*Machine, error) {
	playing := &State{ID: Playing, Initial: true}
	won := &State{ID: Won, Final: true}
	lost := &State{ID: Lost, Final: true}

	correct := func(_ context.Context, evt *Event, _, _ StateID) (bool, error) {
		n, err := guessOf(evt)
		return n == g.target, err
	}
	exhausted := func(_ context.Context, _ *Event, _, _ StateID) (bool, error) {
		return g.maxAttempts > 0 && g.attempts+1 >= g.maxAttempts, nil
	}
	record := func(_ context.Context, evt *Event, _, _ StateID) error {
		n, err := guessOf(evt)
		if err != nil {
			return err
		}
		g.attempts++
		g.last = g.compare(n)
		return nil
	}

	playing.
		On(EvGuess, won, correct, record).
		On(EvGuess, lost, exhausted, record).
		On(EvGuess, nil, nil, record)

	won.OnEntry(func(context.Context, *Event, StateID, StateID) error {
		g.logger.Info("game won", zap.Int("target", g.target), zap.Int("attempts", g.attempts))
		return nil
	})
	lost.OnEntry(func(context.Context, *Event, StateID, StateID) error {
		g.logger.Info("game lost", zap.Int("target", g.target), zap.Int("attempts", g.attempts))
		return nil
	})
	return NewMachine(playing, won, lost)
}

func guessOf(evt *Event) (int, error) {
	n, ok := evt.Payload.(int)
	if !ok {
		return 0, fmt.Errorf("guess payload %T is not an int", evt.Payload)
	}
	return n, nil
}

func (g *Game) compare(n int) Outcome {
	switch {
	case n < g.target:
		return TooLow
	case n > g.target:
		return TooHigh
	default:
		return Correct
	}
}

// Guess submits a guess and returns how it compares with the target.
func (g *Game) Guess(ctx context.Context, n int) (Outcome, error) {
	if g.m.Done() {
		return 0, ErrGameOver
	}
	if err := g.m.Send(ctx, Event{ID: EvGuess, Payload: n}); err != nil {
		return 0, err
	}
	return g.last, nil
}

// State returns Playing, Won or Lost.
func (g *Game) State() StateID {
	return g.m.Current()
}

// Over reports whether the game has ended.
func (g *Game) Over() bool {
	return g.m.Done()
}

// Won reports whether the target was guessed.
func (g *Game) Won() bool {
	return g.m.Current() == Won
}

// Attempts is the number of guesses made.
func (g *Game) Attempts() int {
	return g.attempts
}

// Remaining is the number of guesses left, or -1 when unlimited.
func (g *Game) Remaining() int {
	if g.maxAttempts == 0 {
		return -1
	}
	return g.maxAttempts - g.attempts
}

// Target reveals the number being guessed.
func (g *Game) Target() int {
	return g.target
}

// Range returns the inclusive bounds of the target.
func (g *Game) Range() (int, int) {
	return g.min, g.max
}
