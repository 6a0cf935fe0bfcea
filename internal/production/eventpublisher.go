package production

import (
	"context"
	"sync"

	"github.com/comalice/formulax/internal/session"
)

// ChannelPublisher forwards session records to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch    chan<- session.Record
	close sync.Once
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- session.Record) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, rec session.Record) error {
	select {
	case p.ch <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

// Close closes the output channel. Calling it again is a no-op.
func (p *ChannelPublisher) Close() error {
	p.close.Do(func() { close(p.ch) })
	return nil
}
