package testutil

import (
	"context"
	"math/rand/v2"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/formulas"
	"github.com/comalice/formulax/internal/session"
)

// EvaluatorAdapter provides a common interface over the stateless registry and the
// stateful session, so the same property tests run against both.
type EvaluatorAdapter interface {
	Evaluate(ctx context.Context, name string, args ...float64) (formulax.Result, error)
	Names() []string
}

// RegistryAdapter wraps a plain Registry.
type RegistryAdapter struct {
	reg *formulax.Registry
}

// NewRegistryAdapter creates a new adapter for reg.
func NewRegistryAdapter(reg *formulax.Registry) *RegistryAdapter {
	return &RegistryAdapter{reg: reg}
}

func (a *RegistryAdapter) Evaluate(ctx context.Context, name string, args ...float64) (formulax.Result, error) {
	if err := ctx.Err(); err != nil {
		return formulax.Result{}, err
	}
	return a.reg.Evaluate(name, args...)
}

func (a *RegistryAdapter) Names() []string {
	return a.reg.Names()
}

// SessionAdapter wraps a Session.
type SessionAdapter struct {
	s *session.Session
}

// NewSessionAdapter creates a new adapter over a fresh session on reg.
func NewSessionAdapter(reg *formulax.Registry, opts ...session.Option) *SessionAdapter {
	return &SessionAdapter{s: session.New(reg, opts...)}
}

func (a *SessionAdapter) Evaluate(ctx context.Context, name string, args ...float64) (formulax.Result, error) {
	return a.s.Eval(ctx, name, args...)
}

func (a *SessionAdapter) Names() []string {
	return a.s.Registry().Names()
}

// Session exposes the wrapped session for history assertions.
func (a *SessionAdapter) Session() *session.Session {
	return a.s
}

// Rand returns a deterministic generator for property tests.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomPoint draws a point with coordinates in [-limit, limit).
func RandomPoint(r *rand.Rand, limit float64) formulas.Point {
	return formulas.Point{
		X: (r.Float64()*2 - 1) * limit,
		Y: (r.Float64()*2 - 1) * limit,
	}
}

// RandomTriangle draws three vertices whose area is at least minArea, so
// Heron's formula stays well conditioned.
func RandomTriangle(r *rand.Rand, limit, minArea float64) [3]formulas.Point {
	for {
		tri := [3]formulas.Point{RandomPoint(r, limit), RandomPoint(r, limit), RandomPoint(r, limit)}
		// Shoelace area as an independent check on conditioning.
		cross := (tri[1].X-tri[0].X)*(tri[2].Y-tri[0].Y) - (tri[2].X-tri[0].X)*(tri[1].Y-tri[0].Y)
		if cross/2 >= minArea || -cross/2 >= minArea {
			return tri
		}
	}
}

// Args flattens points into formula arguments.
func Args(pts ...formulas.Point) []float64 {
	out := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		out = append(out, p.X, p.Y)
	}
	return out
}
