package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/narrative/internal/fanout"
	"github.com/aretw0/narrative/internal/logging"
	"github.com/aretw0/narrative/pkg/ports"
	"github.com/aretw0/narrative/pkg/protocol"
)

// Channel implements ports.Channel as JSON-Lines over a reader/writer pair,
// one message per line. It is the channel used across process boundaries
// (stdin/stdout of a host process).
type Channel struct {
	reader  *bufio.Reader
	writer  io.Writer
	closers []io.Closer

	wmu       sync.Mutex
	listeners fanout.Listeners
	logger    *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
	startOnce sync.Once

	errMu sync.Mutex
	err   error
}

// Option configures the channel.
type Option func(*Channel)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) {
		c.logger = logger
	}
}

// New creates a channel reading messages from r and writing them to w.
// If r or w implement io.Closer they are closed by Close.
func New(r io.Reader, w io.Writer, opts ...Option) *Channel {
	c := &Channel{
		reader: bufio.NewReader(r),
		writer: w,
		logger: logging.NewNop(),
		done:   make(chan struct{}),
	}
	if rc, ok := r.(io.Closer); ok {
		c.closers = append(c.closers, rc)
	}
	if wc, ok := w.(io.Closer); ok {
		c.closers = append(c.closers, wc)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Channel = (*Channel)(nil)

// Post writes msg as a single JSON line.
func (c *Channel) Post(ctx context.Context, msg protocol.Message) error {
	if c.isClosed() {
		return ports.ErrChannelClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.writer.Write(data); err != nil {
		if errors.Is(err, io.ErrClosedPipe) {
			return ports.ErrChannelClosed
		}
		return err
	}
	return nil
}

// Listen adds a listener. The read loop starts with the first listener.
func (c *Channel) Listen(l ports.Listener) {
	c.listeners.Add(l)
	c.startOnce.Do(func() {
		go c.pump()
	})
}

// Done is closed when the read loop stops (EOF, read error or Close).
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that stopped the read loop, nil on EOF or Close.
func (c *Channel) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close stops the channel and closes the underlying reader and writer.
func (c *Channel) Close() error {
	var errs []error
	c.closeOnce.Do(func() {
		close(c.done)
		for _, cl := range c.closers {
			if err := cl.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
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
		line, err := c.reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			msg, decodeErr := protocol.Decode(line)
			if decodeErr != nil {
				c.logger.Warn("dropping malformed line", "err", decodeErr)
			} else if !c.isClosed() {
				c.listeners.Dispatch(msg)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !c.isClosed() {
				c.errMu.Lock()
				c.err = err
				c.errMu.Unlock()
				c.logger.Error("read loop stopped", "err", err)
			}
			c.closeOnce.Do(func() {
				close(c.done)
			})
			return
		}
	}
}
