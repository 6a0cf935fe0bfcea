package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/comalice/formulax/internal/console"
	"github.com/comalice/formulax/internal/production"
	"github.com/comalice/formulax/internal/store"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded evaluations",
		Long: `Show the newest evaluations from the history database. Evaluations are
recorded when history is enabled in the config or --db is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := cfg.History.Database
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				_, err := fmt.Fprintln(out, "No history recorded.")
				return err
			}
			st, err := store.Open(path)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if structured() {
				return writeStructured(out, recs)
			}
			if len(recs) == 0 {
				_, err := fmt.Fprintln(out, "No history recorded.")
				return err
			}
			_, err = fmt.Fprintln(out, production.NewTableRenderer(cfg.Precision).History(recs))
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of records to show (0 for all)")
	return cmd
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate formulas interactively",
		Long: `Start an interactive session. Each line is a formula followed by its
arguments; arguments may be numbers or variables.

  > triangle-area 0 0 3 0 0 4
  > let r = distance 0 0 3 4
  > circle-area r
  > circle-area ans

Commands: :list, :history, :vars, :quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			r := console.NewREPL(s, cmd.InOrStdin(), cmd.OutOrStdout(),
				console.WithPrecision(cfg.Precision),
				console.WithPrompts(cfg.Output.Prompts),
				console.WithLogger(logger))
			return r.Run(cmd.Context())
		},
	}
}
