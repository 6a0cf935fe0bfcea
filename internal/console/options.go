package console

import (
	"go.uber.org/zap"

	"github.com/comalice/formulax/internal/session"
)

type options struct {
	precision int
	prompts   bool
	logger    *zap.Logger
	session   *session.Session
}

func defaultOptions() options {
	return options{
		precision: DefaultPrecision,
		prompts:   true,
		logger:    zap.NewNop(),
	}
}

// Option configures a Console or REPL.
type Option func(*options)

// WithPrecision sets the number of decimals printed. Negative values print
// the shortest exact representation.
func WithPrecision(p int) Option {
	return func(o *options) {
		o.precision = p
	}
}

// WithPrompts toggles prompt output, for piping input without echoing prompts.
func WithPrompts(on bool) Option {
	return func(o *options) {
		o.prompts = on
	}
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSession routes Console evaluations through s, so they reach its
// history and recorder. The formula is looked up by name in s's registry.
func WithSession(s *session.Session) Option {
	return func(o *options) {
		o.session = s
	}
}
