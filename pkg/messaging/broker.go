package messaging

import "context"

// Broker publishes reminder events to downstream consumers (the notification
// dispatcher lives behind this boundary and is out of scope here).
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
