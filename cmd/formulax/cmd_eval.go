package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/formulas"
	"github.com/comalice/formulax/internal/console"
	"github.com/comalice/formulax/internal/session"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <formula> [args...]",
		Short: "Evaluate a formula",
		Long: `Evaluate a formula by name or alias.

With no arguments the formula runs as a console program: its prompt is printed,
the inputs are read from stdin and the result line is printed.
With arguments the formula is evaluated directly.`,
		Example: `  echo "5 3" | formulax eval runway-length
  formulax eval distance 0 0 3 4
  formulax eval acceleration -2 4 2
  formulax eval grade 87 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runEval,
	}
	// Negative numbers are arguments, not flags. Flags after the
	// arguments are picked up by numericArgs.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	args, err := numericArgs(cmd, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("requires a formula name")
	}
	reg := formulas.Default()
	f, err := reg.Lookup(args[0])
	if err != nil {
		return err
	}

	// Both paths evaluate through a session so the result lands in history.
	s, cleanup, err := newSession()
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 1 {
		c := console.New(cmd.InOrStdin(), cmd.OutOrStdout(),
			console.WithPrecision(cfg.Precision),
			console.WithPrompts(cfg.Output.Prompts && !structured()),
			console.WithLogger(logger),
			console.WithSession(s))
		if !structured() {
			_, err := c.RunContext(cmd.Context(), f)
			return err
		}
		in, err := c.Scanner().Floats(f.Arity())
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		return evalArgs(cmd, s, f, in)
	}

	in, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	return evalArgs(cmd, s, f, in)
}

func evalArgs(cmd *cobra.Command, s *session.Session, f *formulax.Formula, in []float64) error {
	res, err := s.Eval(cmd.Context(), f.Name, in...)
	if err != nil {
		return err
	}
	logger.Debug("evaluated", zap.String("formula", f.Name), zap.Stringer("result", res))
	if structured() {
		return writeStructured(cmd.OutOrStdout(), res)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), console.FormatResult(f, res, cfg.Precision))
	return err
}

func parseFloats(tokens []string) ([]float64, error) {
	out := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &console.ParseError{Token: tok, Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}
