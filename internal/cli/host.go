package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/narrative/internal/logging"
	"github.com/aretw0/narrative/internal/presentation/tui"
	inspector "github.com/aretw0/narrative/pkg/adapters/http"
	"github.com/aretw0/narrative/pkg/adapters/jsonl"
	"github.com/aretw0/narrative/pkg/adapters/redis"
	"github.com/aretw0/narrative/pkg/host"
	"github.com/aretw0/narrative/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"
)

// HostOptions configures RunHost.
type HostOptions struct {
	// HTTPAddr enables the inspector when set.
	HTTPAddr string
	// RedisAddr selects the Redis transport; stdio is used otherwise.
	RedisAddr   string
	RedisPrefix string

	Stdin  io.Reader
	Stdout io.Writer
	// Banner is written here when non-nil.
	Banner  io.Writer
	Version string
	Logger  *slog.Logger

	// Ready, if set, is called with the running host before RunHost blocks.
	Ready func(*host.Host)
}

// RunHost serves the host side of a channel until ctx is cancelled or, on
// stdio, until the author closes its end.
func RunHost(ctx context.Context, opts HostOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Banner != nil {
		tui.PrintBanner(opts.Banner, opts.Version)
	}

	var (
		ch   ports.Channel
		done <-chan struct{}
	)
	if opts.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{Addr: opts.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		ch = redis.NewHost(client, opts.RedisPrefix, redis.WithLogger(logger))
		logger.Info("Host listening", "transport", "redis", "addr", opts.RedisAddr, "prefix", opts.RedisPrefix)
	} else {
		in, out := opts.Stdin, opts.Stdout
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		j := jsonl.New(in, out, jsonl.WithLogger(logger))
		ch, done = j, j.Done()
		logger.Info("Host listening", "transport", "stdio")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	h := host.New(ch, host.WithLogger(logger), host.WithMetrics(host.NewMetrics(reg)))
	defer h.Close()

	if opts.HTTPAddr != "" {
		srv := &http.Server{
			Addr:              opts.HTTPAddr,
			Handler:           inspector.NewHandler(h, reg, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Inspector listening", "addr", opts.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Inspector stopped", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Inspector shutdown failed", "err", err)
			}
		}()
	}

	if opts.Ready != nil {
		opts.Ready(h)
	}

	select {
	case <-ctx.Done():
		logger.Info("Host shutting down")
	case <-done:
		logger.Info("Author disconnected")
	}
	return nil
}
