package console

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/comalice/formulax"
)

// Console runs single formulas as console programs: one optional prompt line,
// then one result line.
type Console struct {
	in   *Scanner
	out  io.Writer
	opts options
}

// New creates a Console reading scalars from in and writing to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Console{in: NewScanner(in), out: out, opts: o}
}

// Scanner exposes the input scanner so other programs can share the stream.
func (c *Console) Scanner() *Scanner {
	return c.in
}

// Run prompts for the formula's arguments, evaluates it and prints the result.
func (c *Console) Run(f *formulax.Formula) (formulax.Result, error) {
	return c.RunContext(context.Background(), f)
}

// RunContext is Run with a context for the session evaluation.
func (c *Console) RunContext(ctx context.Context, f *formulax.Formula) (formulax.Result, error) {
	if c.opts.prompts && f.Prompt != "" {
		if _, err := fmt.Fprintln(c.out, f.Prompt); err != nil {
			return formulax.Result{}, err
		}
	}
	args, err := c.in.Floats(f.Arity())
	if err != nil {
		return formulax.Result{}, fmt.Errorf("%s: %w", f.Name, err)
	}
	res, err := c.eval(ctx, f, args)
	if err != nil {
		return formulax.Result{}, err
	}
	c.opts.logger.Debug("console evaluation",
		zap.String("formula", f.Name),
		zap.Float64s("args", args),
		zap.Stringer("result", res))
	if _, err := fmt.Fprintln(c.out, FormatResult(f, res, c.opts.precision)); err != nil {
		return res, err
	}
	return res, nil
}

func (c *Console) eval(ctx context.Context, f *formulax.Formula, args []float64) (formulax.Result, error) {
	if c.opts.session != nil {
		return c.opts.session.Eval(ctx, f.Name, args...)
	}
	return f.Eval(args...)
}
