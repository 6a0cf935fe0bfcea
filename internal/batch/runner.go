package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/formulax/internal/session"
)

// DefaultWorkers is used when neither the job nor the runner sets a worker count.
const DefaultWorkers = 4

// Runner evaluates jobs through a session.
type Runner struct {
	sess    *session.Session
	workers int
	logger  *zap.Logger
	clock   func() time.Time
	newID   func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the default concurrency. Jobs may override it.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithRunIDGenerator overrides run ID generation.
func WithRunIDGenerator(gen func() string) Option {
	return func(r *Runner) {
		r.newID = gen
	}
}

// NewRunner creates a Runner evaluating through s.
func NewRunner(s *session.Session, opts ...Option) *Runner {
	r := &Runner{
		sess:    s,
		workers: DefaultWorkers,
		logger:  zap.NewNop(),
		clock:   time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates job. Unknown formulas and arity mismatches are recorded per
// item in the report; only structural problems (see Job.Prepare) and context
// cancellation fail the run.
func (r *Runner) Run(ctx context.Context, job *Job) (*Report, error) {
	if err := job.Prepare(); err != nil {
		return nil, fmt.Errorf("invalid job %s: %w", job.Name, err)
	}

	workers := r.workers
	if job.Workers > 0 {
		workers = job.Workers
	}
	report := &Report{
		Job:      job.Name,
		Version:  ComputeVersion(job),
		RunID:    r.newID(),
		Started:  r.clock(),
		Outcomes: make([]Outcome, len(job.Items)),
	}
	log := r.logger.With(zap.String("job", job.Name), zap.String("run_id", report.RunID))
	log.Info("batch started", zap.Int("items", len(job.Items)), zap.Int("workers", workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range job.Items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			report.Outcomes[i].Item = item
			res, err := r.sess.Eval(gctx, item.Formula, item.Args...)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				report.Outcomes[i].Err = err.Error()
				return nil
			}
			report.Outcomes[i].Result = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("batch aborted", zap.Error(err))
		return nil, fmt.Errorf("batch %s: %w", job.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", job.Name, err)
	}

	for _, o := range report.Outcomes {
		if o.Failed() {
			report.Failed++
		}
	}
	report.Finished = r.clock()
	log.Info("batch finished",
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration()))
	return report, nil
}
