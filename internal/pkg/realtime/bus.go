// Package realtime carries published conversation events between the
// process that appended a message and every live subscriber, possibly in
// another process.
package realtime

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrBusClosed is returned by Publish and Subscribe after Close.
var ErrBusClosed = errors.New("realtime bus closed")

// Handler receives a raw payload. It may be called from any goroutine and
// must not block for long.
type Handler func(payload []byte)

// Bus is a topic based at-least-once pub/sub.
type Bus interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe registers fn for topic. The returned function removes the
	// registration; it is safe to call more than once.
	Subscribe(topic string, fn Handler) (unsubscribe func(), err error)
	Close() error
}

// ConversationTopic is the topic new messages of a connection are published on.
func ConversationTopic(connectionID uuid.UUID) string {
	return "conversation:" + connectionID.String()
}
