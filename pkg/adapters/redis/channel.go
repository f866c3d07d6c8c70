package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/narrative/internal/fanout"
	"github.com/aretw0/narrative/internal/logging"
	"github.com/aretw0/narrative/pkg/ports"
	"github.com/aretw0/narrative/pkg/protocol"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPollTimeout bounds each BLPOP so the pump notices Close.
const DefaultPollTimeout = 200 * time.Millisecond

const (
	authorSuffix = "to-author"
	hostSuffix   = "to-host"
)

// Channel is one end of a channel carried by two Redis lists. Post pushes to
// the peer's list with RPUSH; a pump pops the own list with BLPOP, so order
// is that of the list.
type Channel struct {
	client      *backend.Client
	inKey       string
	outKey      string
	pollTimeout time.Duration
	listeners   fanout.Listeners
	logger      *slog.Logger

	startOnce sync.Once
	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}
}

var _ ports.Channel = (*Channel)(nil)

// Option configures a Redis channel end.
type Option func(*Channel)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) {
		c.logger = logger
	}
}

// WithPollTimeout sets the BLPOP timeout of the pump.
func WithPollTimeout(d time.Duration) Option {
	return func(c *Channel) {
		c.pollTimeout = d
	}
}

// NewAuthor creates the authoring end of the channel named by prefix.
func NewAuthor(client *backend.Client, prefix string, opts ...Option) *Channel {
	return newEnd(client, prefix+authorSuffix, prefix+hostSuffix, opts)
}

// NewHost creates the host end of the channel named by prefix.
func NewHost(client *backend.Client, prefix string, opts ...Option) *Channel {
	return newEnd(client, prefix+hostSuffix, prefix+authorSuffix, opts)
}

// NewPair creates both ends in one process. Mostly useful in tests.
func NewPair(client *backend.Client, prefix string, opts ...Option) (author *Channel, host *Channel) {
	return NewAuthor(client, prefix, opts...), NewHost(client, prefix, opts...)
}

func newEnd(client *backend.Client, in, out string, opts []Option) *Channel {
	c := &Channel{
		client:      client,
		inKey:       in,
		outKey:      out,
		pollTimeout: DefaultPollTimeout,
		logger:      logging.NewNop(),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post encodes msg and appends it to the peer's list.
func (c *Channel) Post(ctx context.Context, msg protocol.Message) error {
	select {
	case <-c.done:
		return ports.ErrChannelClosed
	default:
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	if err := c.client.RPush(ctx, c.outKey, data).Err(); err != nil {
		return fmt.Errorf("redis push %s: %w", c.outKey, err)
	}
	return nil
}

// Listen adds a listener and starts the pump on first use.
func (c *Channel) Listen(l ports.Listener) {
	c.listeners.Add(l)
	c.startOnce.Do(func() {
		go c.pump()
	})
}

// Close stops the pump. Messages still queued in Redis stay there.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	started := true
	c.startOnce.Do(func() { started = false })
	if started {
		<-c.stopped
	}
	return nil
}

func (c *Channel) pump() {
	defer close(c.stopped)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-c.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-c.done:
			return
		default:
		}
		res, err := c.client.BLPop(ctx, c.pollTimeout, c.inKey).Result()
		if err != nil {
			if errors.Is(err, backend.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("redis pop failed", "key", c.inKey, "err", err)
			select {
			case <-c.done:
				return
			case <-time.After(c.pollTimeout):
			}
			continue
		}
		// res is [key, value].
		if len(res) != 2 {
			continue
		}
		msg, err := protocol.Decode([]byte(res[1]))
		if err != nil {
			c.logger.Warn("dropping undecodable message", "key", c.inKey, "err", err)
			continue
		}
		c.listeners.Dispatch(msg)
	}
}
