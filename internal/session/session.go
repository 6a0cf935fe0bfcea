// Package session provides stateful evaluation on top of a formula registry.
// A Session keeps a bounded history of evaluations, the variable set used by
// the REPL, and forwards every record to optional publishers and recorders.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comalice/formulax"
)

// Publisher receives every evaluation record as it happens.
type Publisher interface {
	Publish(ctx context.Context, rec Record) error
	Close() error
}

// Recorder persists evaluation records.
type Recorder interface {
	Save(ctx context.Context, rec Record) error
}

// Record is the serializable trace of one evaluation.
type Record struct {
	ID      string          `json:"id" yaml:"id"`
	Formula string          `json:"formula" yaml:"formula"`
	Args    formulax.Floats `json:"args" yaml:"args"`
	Result  formulax.Result `json:"result" yaml:"result"`
	Err     string          `json:"error,omitempty" yaml:"error,omitempty"`
	At      time.Time       `json:"at" yaml:"at"`
}

// Failed reports whether the evaluation returned an error.
func (r Record) Failed() bool {
	return r.Err != ""
}

// Option applies configuration to a Session via functional options.
type Option func(*Session)

// Session is safe for concurrent Eval calls.
type Session struct {
	registry  *formulax.Registry
	vars      *formulax.Vars
	history   *History
	publisher Publisher
	recorder  Recorder
	logger    *zap.Logger
	clock     func() time.Time
	newID     func() string
	mu        sync.Mutex // serializes publisher and recorder calls
}

// DefaultHistorySize bounds the in-memory history when no size is configured.
const DefaultHistorySize = 100

// New creates a Session over reg.
func New(reg *formulax.Registry, opts ...Option) *Session {
	s := &Session{
		registry: reg,
		vars:     formulax.NewVars(),
		history:  NewHistory(DefaultHistorySize),
		logger:   zap.NewNop(),
		clock:    time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Eval evaluates a formula by name, records it and updates the answer variable.
// Publisher and recorder failures are logged, not returned.
func (s *Session) Eval(ctx context.Context, name string, args ...float64) (formulax.Result, error) {
	if err := ctx.Err(); err != nil {
		return formulax.Result{}, err
	}

	res, evalErr := s.registry.Evaluate(name, args...)
	rec := Record{
		ID:      s.newID(),
		Formula: formulax.Normalize(name),
		Args:    append([]float64(nil), args...),
		Result:  res,
		At:      s.clock(),
	}
	if evalErr != nil {
		rec.Err = evalErr.Error()
		s.logger.Debug("evaluation failed",
			zap.String("formula", rec.Formula),
			zap.Float64s("args", rec.Args),
			zap.Error(evalErr))
	} else {
		rec.Formula = res.Formula
		if res.IsFinite() {
			s.vars.Set(formulax.AnswerVar, res.Value)
		}
		s.logger.Debug("evaluated",
			zap.String("formula", rec.Formula),
			zap.Float64s("args", rec.Args),
			zap.Stringer("result", res))
	}

	s.history.Add(rec)
	s.emit(ctx, rec)
	return res, evalErr
}

// EvalVars evaluates with arguments given as numbers or variable names.
func (s *Session) EvalVars(ctx context.Context, name string, args []Arg) (formulax.Result, error) {
	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := a.resolve(s.vars)
		if err != nil {
			return formulax.Result{}, err
		}
		vals[i] = v
	}
	return s.Eval(ctx, name, vals...)
}

// Arg is either a literal number or a variable reference.
type Arg struct {
	Var   string
	Value float64
}

func (a Arg) resolve(vars *formulax.Vars) (float64, error) {
	if a.Var == "" {
		return a.Value, nil
	}
	vals, err := vars.Resolve(a.Var)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

// History returns the retained records, oldest first.
func (s *Session) History() []Record {
	return s.history.Records()
}

// Vars returns the session variables.
func (s *Session) Vars() *formulax.Vars {
	return s.vars
}

// Registry returns the registry the session evaluates against.
func (s *Session) Registry() *formulax.Registry {
	return s.registry
}

// Close closes the publisher, if any.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.publisher == nil {
		return nil
	}
	err := s.publisher.Close()
	s.publisher = nil
	return err
}

func (s *Session) emit(ctx context.Context, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	if s.recorder != nil {
		if err := s.recorder.Save(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("record delivery failed", zap.String("id", rec.ID), zap.Error(err))
	}
}
