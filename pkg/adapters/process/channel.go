package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/aretw0/narrative/internal/logging"
	"github.com/aretw0/narrative/pkg/adapters/jsonl"
	"github.com/aretw0/narrative/pkg/ports"
)

// DefaultStopTimeout is how long Close waits for the host to exit after its
// stdin is closed before killing it.
const DefaultStopTimeout = 5 * time.Second

// Channel is a JSON-Lines channel bound to the stdio of a host process.
type Channel struct {
	*jsonl.Channel

	cmd         *exec.Cmd
	exited      chan struct{}
	waitErr     error
	stopTimeout time.Duration
	logger      *slog.Logger
}

var _ ports.Channel = (*Channel)(nil)

// Option configures the spawned channel.
type Option func(*spawnConfig)

type spawnConfig struct {
	logger      *slog.Logger
	stderr      io.Writer
	stopTimeout time.Duration
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *spawnConfig) {
		c.logger = logger
	}
}

// WithStderr redirects the host's stderr (default os.Stderr).
func WithStderr(w io.Writer) Option {
	return func(c *spawnConfig) {
		c.stderr = w
	}
}

// WithStopTimeout sets how long Close waits before killing the host.
func WithStopTimeout(d time.Duration) Option {
	return func(c *spawnConfig) {
		c.stopTimeout = d
	}
}

// Spawn starts the host process described by cfg and connects to its stdio.
// ctx bounds the lifetime of the process.
func Spawn(ctx context.Context, cfg HostConfig, opts ...Option) (*Channel, error) {
	sc := spawnConfig{
		logger:      logging.NewNop(),
		stderr:      os.Stderr,
		stopTimeout: DefaultStopTimeout,
	}
	for _, opt := range opts {
		opt(&sc)
	}
	if cfg.Command == "" {
		return nil, errors.New("host command is required")
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = cfg.Dir
	cmd.Stderr = sc.stderr
	cmd.Env = os.Environ()
	for k, v := range cfg.Environment {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("host stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("host stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start host %q: %w", cfg.Command, err)
	}
	sc.logger.Info("host started", "name", cfg.Name, "command", cfg.Command, "pid", cmd.Process.Pid)

	c := &Channel{
		Channel:     jsonl.New(stdout, stdin, jsonl.WithLogger(sc.logger)),
		cmd:         cmd,
		exited:      make(chan struct{}),
		stopTimeout: sc.stopTimeout,
		logger:      sc.logger,
	}
	go func() {
		c.waitErr = cmd.Wait()
		close(c.exited)
	}()
	return c, nil
}

// Exited is closed when the host process exits.
func (c *Channel) Exited() <-chan struct{} {
	return c.exited
}

// Close closes the host's stdin, waits for it to exit and kills it after the
// stop timeout.
func (c *Channel) Close() error {
	closeErr := c.Channel.Close()

	select {
	case <-c.exited:
	case <-time.After(c.stopTimeout):
		c.logger.Warn("host did not exit, killing", "pid", c.cmd.Process.Pid)
		_ = c.cmd.Process.Kill()
		<-c.exited
	}

	var exitErr *exec.ExitError
	if c.waitErr != nil && !errors.As(c.waitErr, &exitErr) {
		return errors.Join(closeErr, c.waitErr)
	}
	return closeErr
}
