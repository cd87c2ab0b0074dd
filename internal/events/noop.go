package events

import "context"

// NoopBackend discards published events. It is the default when no
// broker is configured so callers never need a nil check.
type NoopBackend struct{}

func NewNoopBackend() *NoopBackend {
	return &NoopBackend{}
}

// Publish discards the message.
func (n *NoopBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return "", nil
}

// Subscribe blocks until the context is cancelled.
func (n *NoopBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

// Close is a no-op.
func (n *NoopBackend) Close() error {
	return nil
}
