package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/formulax/internal/batch"
	"github.com/comalice/formulax/internal/production"
)

func newBatchCmd() *cobra.Command {
	var (
		watch  bool
		outDir string
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "batch <job-file>",
		Short: "Run a YAML or JSON batch job",
		Long: `Run every item of a job file and save the report.

A job file lists formula evaluations:

  name: homework
  items:
    - formula: triangle-area
      args: [0, 0, 3, 0, 0, 4]
    - formula: grade
      args: [87]

Items that fail are recorded in the report and make the command exit non-zero.
With --watch the job re-runs whenever the file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if check {
				return checkJob(cmd.OutOrStdout(), args[0])
			}
			if outDir == "" {
				outDir = cfg.Batch.ReportDir
			}
			persister, err := production.NewPersister(cfg.Batch.ReportFormat, outDir)
			if err != nil {
				return err
			}

			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()
			runner := batch.NewRunner(s,
				batch.WithWorkers(cfg.Batch.Workers),
				batch.WithLogger(logger))

			if watch {
				return watchJob(cmd, args[0], runner, persister)
			}

			job, err := batch.Load(args[0])
			if err != nil {
				return err
			}
			report, err := runner.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			if err := emitReport(cmd.Context(), cmd.OutOrStdout(), persister, report); err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d items failed", report.Failed, len(report.Outcomes))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run the job whenever the file changes")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for reports (default from config)")
	cmd.Flags().BoolVar(&check, "check", false, "Validate the job against the catalog without running it")
	return cmd
}

// checkJob validates a job file, reporting every problem at once.
func checkJob(w io.Writer, path string) error {
	job, err := batch.Load(path)
	if err != nil {
		return err
	}
	s, cleanup, err := newSession()
	if err != nil {
		return err
	}
	defer cleanup()
	if err := job.Validate(s.Registry()); err != nil {
		return fmt.Errorf("job %s is invalid:\n%w", job.Name, err)
	}
	_, err = fmt.Fprintf(w, "%s: %d items OK (version %s)\n", job.Name, len(job.Items), batch.ComputeVersion(job))
	return err
}

func watchJob(cmd *cobra.Command, path string, runner *batch.Runner, persister production.ReportPersister) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	w := batch.NewWatcher(path, runner, func(report *batch.Report, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return
		}
		if err := emitReport(ctx, out, persister, report); err != nil {
			logger.Error("report failed", zap.String("run", report.RunID), zap.Error(err))
		}
	}, batch.WithWatchLogger(logger))

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", path)
	return w.Run(ctx)
}

// emitReport saves the report and prints it in the configured format.
func emitReport(ctx context.Context, w io.Writer, persister production.ReportPersister, report *batch.Report) error {
	if err := persister.Save(ctx, report); err != nil {
		return err
	}
	logger.Info("report saved",
		zap.String("job", report.Job),
		zap.String("run", report.RunID),
		zap.String("path", persister.Path(report.RunID)),
		zap.Duration("duration", report.Duration()))

	if structured() {
		return writeStructured(w, report)
	}
	fmt.Fprintln(w, production.NewTableRenderer(cfg.Precision).Report(report))
	_, err := fmt.Fprintf(w, "Report saved to %s\n", persister.Path(report.RunID))
	return err
}
