package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/internal/arrays"
	"github.com/comalice/formulax/internal/game"
)

func newGuessCmd() *cobra.Command {
	var (
		lo, hi   int
		attempts int
		seed     uint64
		target   int
	)
	cmd := &cobra.Command{
		Use:   "guess",
		Short: "Play the number-guessing game",
		Long: `Guess a secret number. Guesses are read from stdin, one hint is printed
after each. The range and the attempt limit default to the game section of the
config; an attempt limit of zero means unlimited guesses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("min") {
				lo = cfg.Game.Min
			}
			if !flags.Changed("max") {
				hi = cfg.Game.Max
			}
			if !flags.Changed("attempts") {
				attempts = cfg.Game.MaxAttempts
			}
			opts := []game.Option{
				game.WithRange(lo, hi),
				game.WithMaxAttempts(attempts),
				game.WithLogger(logger),
			}
			if flags.Changed("seed") {
				opts = append(opts, game.WithSeed(seed))
			}
			if flags.Changed("target") {
				opts = append(opts, game.WithTarget(target))
			}

			g, err := game.New(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			return game.Play(cmd.Context(), g, game.NewReaderSource(cmd.InOrStdin()), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&lo, "min", game.DefaultMin, "Smallest possible number")
	cmd.Flags().IntVar(&hi, "max", game.DefaultMax, "Largest possible number")
	cmd.Flags().IntVar(&attempts, "attempts", 0, "Maximum number of guesses (0 for unlimited)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible secret number")
	cmd.Flags().IntVar(&target, "target", 0, "Fix the secret number")
	_ = cmd.Flags().MarkHidden("target")
	return cmd
}

func newArrayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "array",
		Short: "Array exercises: search, shift, sort and extremes",
	}
	cmd.AddCommand(
		arrayCmd("search <key> <values...>", "Find the first index of key", 2, func(cmd *cobra.Command, vs []float64) error {
			return printIndex(cmd, vs[0], arrays.LinearSearch(vs[1:], vs[0]))
		}),
		arrayCmd("bsearch <key> <values...>", "Binary search an ascending list", 2, func(cmd *cobra.Command, vs []float64) error {
			if !slices.IsSorted(vs[1:]) {
				return fmt.Errorf("values must be in ascending order for binary search")
			}
			return printIndex(cmd, vs[0], arrays.BinarySearch(vs[1:], vs[0]))
		}),
		arrayCmd("shift-left <values...>", "Rotate one position left", 1, func(cmd *cobra.Command, vs []float64) error {
			return printValues(cmd, arrays.ShiftLeft(vs))
		}),
		arrayCmd("shift-right <values...>", "Rotate one position right", 1, func(cmd *cobra.Command, vs []float64) error {
			return printValues(cmd, arrays.ShiftRight(vs))
		}),
		arrayCmd("sort <values...>", "Selection sort ascending", 1, func(cmd *cobra.Command, vs []float64) error {
			return printValues(cmd, arrays.SelectionSort(vs))
		}),
		arrayCmd("max <values...>", "Find the largest value", 1, func(cmd *cobra.Command, vs []float64) error {
			i := arrays.IndexOfMax(vs)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "The largest value is %s at index %d\n", formulax.FormatFloat(vs[i], -1), i)
			return err
		}),
		arrayCmd("min <values...>", "Find the smallest value", 1, func(cmd *cobra.Command, vs []float64) error {
			i := arrays.IndexOfMin(vs)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "The smallest value is %s at index %d\n", formulax.FormatFloat(vs[i], -1), i)
			return err
		}),
	)
	return cmd
}

// arrayCmd builds a subcommand whose arguments are all numbers.
func arrayCmd(use, short string, minArgs int, run func(*cobra.Command, []float64) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(minArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			args, err := numericArgs(cmd, args)
			if err != nil {
				return err
			}
			if err := cobra.MinimumNArgs(minArgs)(cmd, args); err != nil {
				return err
			}
			vs, err := parseFloats(args)
			if err != nil {
				return err
			}
			return run(cmd, vs)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func printIndex(cmd *cobra.Command, key float64, i int) error {
	k := formulax.FormatFloat(key, -1)
	if i < 0 {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s not found\n", k)
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Found %s at index %d\n", k, i)
	return err
}

func printValues(cmd *cobra.Command, vs []float64) error {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formulax.FormatFloat(v, -1)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
	return err
}
