package session

import (
	"time"

	"go.uber.org/zap"
)

// WithPublisher configures a sink that receives every record.
func WithPublisher(p Publisher) Option {
	return func(s *Session) {
		s.publisher = p
	}
}

// WithRecorder configures the Session with a persistent Recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithLogger configures structured logging. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistorySize bounds the in-memory history. Sizes below one keep a single record.
func WithHistorySize(n int) Option {
	return func(s *Session) {
		s.history = NewHistory(n)
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithIDGenerator overrides record ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) {
		s.newID = gen
	}
}
