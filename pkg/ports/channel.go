package ports

import (
	"context"
	"errors"

	"github.com/aretw0/narrative/pkg/protocol"
)

// ErrChannelClosed is returned by Post after Close.
var ErrChannelClosed = errors.New("channel closed")

// Listener is invoked once per inbound message.
type Listener func(msg protocol.Message)

// Channel is one end of the boundary between the authoring context and the
// host controller.
//
// Implementations must deliver messages reliably and in the order they were
// posted, and must invoke listeners for one message at a time, in the order
// the listeners were added. Listeners cannot be removed.
type Channel interface {
	// Post sends a message to the other end.
	Post(ctx context.Context, msg protocol.Message) error

	// Listen adds a listener for inbound messages.
	Listen(l Listener)

	// Close stops delivery and releases resources.
	Close() error
}
