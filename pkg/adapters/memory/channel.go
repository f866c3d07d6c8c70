package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/narrative/internal/fanout"
	"github.com/aretw0/narrative/internal/logging"
	"github.com/aretw0/narrative/pkg/ports"
	"github.com/aretw0/narrative/pkg/protocol"
)

// DefaultBufferSize is the number of messages an end can hold before Post
// blocks. Messages posted before the peer listens count against it.
const DefaultBufferSize = 256

// Channel is one end of an in-process channel pair.
// Every message is JSON-encoded on Post and decoded on delivery, so nothing
// crosses that could not cross a real process boundary.
// Safe for concurrent use.
type Channel struct {
	peer      *Channel
	inbox     chan []byte
	listeners fanout.Listeners
	logger    *slog.Logger

	startOnce sync.Once
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures both ends of a pair.
type Option func(*config)

type config struct {
	buffer int
	logger *slog.Logger
}

// WithBufferSize sets the inbound buffer of each end.
func WithBufferSize(n int) Option {
	return func(c *config) {
		c.buffer = n
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// NewPair creates two connected ends. What one end posts, the other delivers.
func NewPair(opts ...Option) (*Channel, *Channel) {
	cfg := config{buffer: DefaultBufferSize, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	a := newEnd(cfg)
	b := newEnd(cfg)
	a.peer, b.peer = b, a
	return a, b
}

func newEnd(cfg config) *Channel {
	return &Channel{
		inbox:  make(chan []byte, cfg.buffer),
		logger: cfg.logger,
		done:   make(chan struct{}),
	}
}

var _ ports.Channel = (*Channel)(nil)

// Post encodes msg and queues it on the peer.
func (c *Channel) Post(ctx context.Context, msg protocol.Message) error {
	if c.isClosed() || c.peer.isClosed() {
		return ports.ErrChannelClosed
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	select {
	case c.peer.inbox <- data:
		return nil
	case <-c.peer.done:
		return ports.ErrChannelClosed
	case <-c.done:
		return ports.ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Listen adds a listener. Delivery starts with the first listener; messages
// posted before that wait in the inbox.
func (c *Channel) Listen(l ports.Listener) {
	c.listeners.Add(l)
	c.startOnce.Do(func() {
		go c.pump()
	})
}

// Close stops delivery on this end. The peer's Post fails afterwards.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

func (c *Channel) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Channel) pump() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.inbox:
			msg, err := protocol.Decode(data)
			if err != nil {
				c.logger.Warn("dropping undecodable message", "err", err)
				continue
			}
			c.listeners.Dispatch(msg)
		}
	}
}
