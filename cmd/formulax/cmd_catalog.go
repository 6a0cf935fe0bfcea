package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/formulas"
	"github.com/comalice/formulax/internal/production"
	"github.com/comalice/formulax/internal/search"
)

// formulaInfo is the structured form of a catalog entry.
type formulaInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Params      []string `json:"params" yaml:"params"`
	Kind        string   `json:"kind" yaml:"kind"`
	Unit        string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

func infoOf(reg *formulax.Registry, f *formulax.Formula) formulaInfo {
	return formulaInfo{
		Name:        f.Name,
		Description: f.Description,
		Params:      f.Params,
		Kind:        f.Kind.String(),
		Unit:        f.Unit,
		Aliases:     reg.Aliases(f.Name),
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the formula catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := formulas.Default()
			fs := reg.List()
			if structured() {
				infos := make([]formulaInfo, 0, len(fs))
				for _, f := range fs {
					infos = append(infos, infoOf(reg, f))
				}
				return writeStructured(cmd.OutOrStdout(), infos)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), production.NewTableRenderer(cfg.Precision).Catalog(fs))
			return err
		},
	}
}

func newDescribeCmd() *cobra.Command {
	var (
		style string
		width int
	)
	cmd := &cobra.Command{
		Use:   "describe <formula>",
		Short: "Show a formula's documentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := formulas.Default()
			f, err := reg.Lookup(args[0])
			if err != nil {
				return err
			}
			if structured() {
				return writeStructured(cmd.OutOrStdout(), infoOf(reg, f))
			}
			out, err := production.RenderMarkdown(production.FormulaMarkdown(f, reg.Aliases(f.Name)), style, width)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", "auto", "Markdown style: auto, dark, light, notty or a JSON style file")
	cmd.Flags().IntVar(&width, "width", 80, "Word wrap width")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "search <query...>",
		Short:   "Search the catalog by keyword",
		Example: `  formulax search accelerating planes`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			hits := search.NewIndex(formulas.Default()).Search(query)
			out := cmd.OutOrStdout()
			if structured() {
				type hitInfo struct {
					Formula string  `json:"formula" yaml:"formula"`
					Score   float64 `json:"score" yaml:"score"`
				}
				infos := make([]hitInfo, 0, len(hits))
				for _, h := range hits {
					infos = append(infos, hitInfo{Formula: h.Formula.Name, Score: h.Score})
				}
				return writeStructured(out, infos)
			}
			if len(hits) == 0 {
				fmt.Fprintf(out, "No formulas match %q.\n", query)
				return nil
			}
			for _, h := range hits {
				fmt.Fprintf(out, "%-22s %5.1f  %s\n", h.Formula.Name, h.Score, h.Formula.Description)
			}
			return nil
		},
	}
}
