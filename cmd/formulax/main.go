// Command formulax evaluates the formula catalog from the command line: as
// classic console programs, one-shot evaluations, batch jobs or an
// interactive REPL.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/comalice/formulax/formulas"
	"github.com/comalice/formulax/internal/config"
	"github.com/comalice/formulax/internal/production"
	"github.com/comalice/formulax/internal/session"
	"github.com/comalice/formulax/internal/store"
)

var (
	// Global flags
	cfgPath   string
	verbose   bool
	outputFmt string
	precision int
	dbPath    string

	// Set by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// defaultConfigPath is read when --config is not given.
var defaultConfigPath = filepath.Join(".formulax", "config.yaml")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "formulax",
		Short: "formulax - evaluate named formulas from the command line",
		Long: `formulax evaluates a catalog of small formulas: geometry, motion, trip cost,
grading and insurance quotes.

Run a formula as a console program by piping its inputs:
  echo "0 0 3 0 0 4" | formulax eval triangle-area

or pass the inputs as arguments, run YAML batch jobs, or explore in the REPL.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "Path to the YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "Output format: text, json or yaml")
	root.PersistentFlags().IntVar(&precision, "precision", 2, "Decimals printed for numeric results (negative for shortest exact form)")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite history database (enables history)")

	root.AddCommand(
		newEvalCmd(),
		newListCmd(),
		newDescribeCmd(),
		newSearchCmd(),
		newBatchCmd(),
		newGuessCmd(),
		newArrayCmd(),
		newHistoryCmd(),
		newReplCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("output") {
		c.Output.Format = outputFmt
	}
	if flags.Changed("precision") {
		c.Precision = precision
	}
	if flags.Changed("db") {
		c.History.Database = dbPath
		c.History.Enabled = true
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = c

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	logger.Debug("configuration loaded",
		zap.String("config", cfgPath),
		zap.String("output", cfg.Output.Format),
		zap.Int("precision", cfg.Precision),
		zap.Bool("history", cfg.History.Enabled))
	return nil
}

// numericArgs pulls flags given after the arguments of a command that turns
// off interspersed flags so negative numbers stay arguments. A token is a flag
// when it starts with "-" and is not a number; "--" ends flag handling. The
// flags are parsed and the configuration is rebuilt to apply them.
func numericArgs(cmd *cobra.Command, args []string) ([]string, error) {
	var positional, flagArgs []string
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if !isFlagToken(tok) {
			positional = append(positional, tok)
			continue
		}
		flagArgs = append(flagArgs, tok)
		if takesValue(cmd, tok) && i+1 < len(args) {
			i++
			flagArgs = append(flagArgs, args[i])
		}
	}
	if len(flagArgs) == 0 {
		return positional, nil
	}
	if err := cmd.Flags().Parse(flagArgs); err != nil {
		return nil, err
	}
	if logger != nil {
		_ = logger.Sync()
	}
	if err := setup(cmd, nil); err != nil {
		return nil, err
	}
	return positional, nil
}

func isFlagToken(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err != nil
}

// takesValue reports whether the flag in tok consumes the next token.
func takesValue(cmd *cobra.Command, tok string) bool {
	flags := cmd.Flags()
	if name, ok := strings.CutPrefix(tok, "--"); ok {
		if strings.Contains(name, "=") {
			return false
		}
		f := flags.Lookup(name)
		return f != nil && f.NoOptDefVal == ""
	}
	// In a shorthand group like -vo only the last letter can take the next token.
	for i := 1; i < len(tok); i++ {
		f := flags.ShorthandLookup(tok[i : i+1])
		if f == nil {
			return false
		}
		if f.NoOptDefVal == "" {
			return i == len(tok)-1
		}
	}
	return false
}

// newSession builds a session over the default catalog. When history is
// enabled every evaluation is also written to the SQLite store. The returned
// cleanup closes both.
func newSession() (*session.Session, func(), error) {
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithHistorySize(cfg.History.Size),
	}
	var st *store.Store
	if cfg.History.Enabled {
		var err error
		st, err = store.Open(cfg.History.Database)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, session.WithRecorder(st))
		logger.Debug("recording history", zap.String("db", st.Path()))
	}
	s := session.New(formulas.Default(), opts...)
	cleanup := func() {
		if err := s.Close(); err != nil {
			logger.Warn("close session", zap.Error(err))
		}
		if st != nil {
			if err := st.Close(); err != nil {
				logger.Warn("close history store", zap.Error(err))
			}
		}
	}
	return s, cleanup, nil
}

// structured reports whether the output format is json or yaml.
func structured() bool {
	return cfg.Output.Format == "json" || cfg.Output.Format == "yaml"
}

// writeStructured encodes v in the configured structured format.
func writeStructured(w io.Writer, v any) error {
	switch cfg.Output.Format {
	case "json":
		data, err := production.ExportJSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("output format %q is not structured", cfg.Output.Format)
}
