package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/internal/session"
)

// Prompt is printed before each REPL line when prompts are enabled.
const Prompt = "> "

var (
	// ErrNotNumeric is returned when a let binding receives a label or a non-finite value.
	ErrNotNumeric = errors.New("result is not a finite number")

	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// REPL evaluates one command per line against a session. Errors are printed
// and the loop continues.
type REPL struct {
	s    *session.Session
	in   *bufio.Scanner
	out  io.Writer
	opts options
}

// NewREPL creates a REPL over s.
func NewREPL(s *session.Session, in io.Reader, out io.Writer, opts ...Option) *REPL {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &REPL{s: s, in: bufio.NewScanner(in), out: out, opts: o}
}

// Run reads lines until end of input, :quit, or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.opts.prompts {
			fmt.Fprint(r.out, Prompt)
		}
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quit, err := r.Exec(ctx, line)
		if err != nil {
			r.opts.logger.Debug("repl command failed", zap.String("line", line), zap.Error(err))
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs a single command line. It reports whether the REPL should stop.
func (r *REPL) Exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":list":
		r.list()
		return false, nil
	case ":history":
		r.history()
		return false, nil
	case ":vars":
		r.vars()
		return false, nil
	case "let":
		return false, r.let(ctx, fields[1:])
	}
	if strings.HasPrefix(fields[0], ":") {
		return false, fmt.Errorf("unknown command %s", fields[0])
	}

	res, f, err := r.eval(ctx, fields[0], fields[1:])
	if err != nil {
		return false, err
	}
	fmt.Fprintln(r.out, FormatResult(f, res, r.opts.precision))
	return false, nil
}

// let handles "let <name> = <formula> <args...>".
func (r *REPL) let(ctx context.Context, fields []string) error {
	if len(fields) < 3 || fields[1] != "=" {
		return errors.New("usage: let <name> = <formula> <args...>")
	}
	name := fields[0]
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}
	res, _, err := r.eval(ctx, fields[2], fields[3:])
	if err != nil {
		return err
	}
	if !res.IsFinite() || res.Label != "" {
		return fmt.Errorf("%s: %w", name, ErrNotNumeric)
	}
	r.s.Vars().Set(name, res.Value)
	fmt.Fprintf(r.out, "%s = %s\n", name, formulax.FormatFloat(res.Value, r.opts.precision))
	return nil
}

func (r *REPL) eval(ctx context.Context, name string, tokens []string) (formulax.Result, *formulax.Formula, error) {
	f, err := r.s.Registry().Lookup(name)
	if err != nil {
		return formulax.Result{}, nil, err
	}
	args, err := ParseArgs(tokens)
	if err != nil {
		return formulax.Result{}, nil, err
	}
	res, err := r.s.EvalVars(ctx, f.Name, args)
	return res, f, err
}

// ParseArgs turns tokens into literal or variable arguments.
func ParseArgs(tokens []string) ([]session.Arg, error) {
	args := make([]session.Arg, 0, len(tokens))
	for _, tok := range tokens {
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			args = append(args, session.Arg{Value: v})
			continue
		}
		if !identPattern.MatchString(tok) {
			return nil, &ParseError{Token: tok, Err: strconv.ErrSyntax}
		}
		args = append(args, session.Arg{Var: tok})
	}
	return args, nil
}

func (r *REPL) list() {
	for _, f := range r.s.Registry().List() {
		fmt.Fprintf(r.out, "%s(%s)  %s\n", f.Name, strings.Join(f.Params, ", "), f.Description)
	}
}

func (r *REPL) history() {
	for i, rec := range r.s.History() {
		args := make([]string, len(rec.Args))
		for j, a := range rec.Args {
			args[j] = formulax.FormatFloat(a, -1)
		}
		out := rec.Err
		if !rec.Failed() {
			out = FormatValue(nil, rec.Result, r.opts.precision)
		}
		fmt.Fprintf(r.out, "%d. %s(%s) = %s\n", i+1, rec.Formula, strings.Join(args, ", "), out)
	}
}

func (r *REPL) vars() {
	vars := r.s.Vars().GetAll()
	for _, name := range r.s.Vars().Names() {
		fmt.Fprintf(r.out, "%s = %s\n", name, formulax.FormatFloat(vars[name], r.opts.precision))
	}
}
