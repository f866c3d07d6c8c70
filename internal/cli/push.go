package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/narrative/internal/logging"
	"github.com/aretw0/narrative/pkg/adapters/process"
	"github.com/aretw0/narrative/pkg/adapters/redis"
	"github.com/aretw0/narrative/pkg/narrative"
	"github.com/aretw0/narrative/pkg/ports"
	"github.com/aretw0/narrative/pkg/registry"
	"github.com/aretw0/narrative/pkg/scheme"
	"github.com/aretw0/narrative/pkg/schemefile"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPushTimeout bounds how long Push waits for the host's response.
const DefaultPushTimeout = 10 * time.Second

// PushOptions configures Push. The host is chosen in this order: RedisAddr,
// HostName looked up in ConfigPath, Command, and finally this executable
// started with the "host" subcommand.
type PushOptions struct {
	SchemePath string

	RedisAddr   string
	RedisPrefix string

	HostName   string
	ConfigPath string
	Command    []string

	Timeout time.Duration
	Logger  *slog.Logger
}

// Push loads a scheme file, validates it and sends it to a host with
// createScheme. It returns the host's rejection, if any.
func Push(ctx context.Context, opts PushOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultPushTimeout
	}

	s, err := schemefile.Load(opts.SchemePath)
	if err != nil {
		return err
	}
	if err := scheme.Validate(s); err != nil {
		return err
	}

	ch, closeFn, err := dialHost(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	n := narrative.New(ch, narrative.WithRegistry(registry.New()), narrative.WithLogger(logger))

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := n.CreateScheme(reqCtx, s); err != nil {
		return err
	}
	logger.Info("Scheme accepted", "name", s.Name)
	return nil
}

func dialHost(ctx context.Context, opts PushOptions, logger *slog.Logger) (ports.Channel, func(), error) {
	if opts.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{Addr: opts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		ch := redis.NewAuthor(client, opts.RedisPrefix, redis.WithLogger(logger))
		return ch, func() {
			ch.Close()
			client.Close()
		}, nil
	}

	cfg, err := hostConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	ch, err := process.Spawn(ctx, cfg, process.WithLogger(logger), process.WithStderr(os.Stderr))
	if err != nil {
		return nil, nil, err
	}
	return ch, func() {
		if err := ch.Close(); err != nil {
			logger.Warn("Host exited with error", "host", cfg.Name, "err", err)
		}
	}, nil
}

func hostConfig(opts PushOptions) (process.HostConfig, error) {
	switch {
	case opts.HostName != "":
		hosts, err := process.LoadConfig(opts.ConfigPath)
		if err != nil {
			return process.HostConfig{}, err
		}
		cfg, ok := hosts[opts.HostName]
		if !ok {
			return process.HostConfig{}, fmt.Errorf("host %q not found in %s", opts.HostName, opts.ConfigPath)
		}
		return cfg, nil
	case len(opts.Command) > 0:
		return process.HostConfig{Name: opts.Command[0], Command: opts.Command[0], Args: opts.Command[1:]}, nil
	}
	self, err := os.Executable()
	if err != nil {
		return process.HostConfig{}, err
	}
	return process.HostConfig{Name: "self", Command: self, Args: []string{"host"}}, nil
}
