package main

import (
	"context"
	"os"

	"github.com/aretw0/narrative"
	"github.com/aretw0/narrative/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Run the reference host controller",
	Long: `Serves the host side of a narrative channel. By default it speaks JSON Lines
on stdin/stdout, which is how 'narrative push' starts it. With --redis it
listens on a pair of Redis lists instead. --http starts the inspector
(scheme, read model, subscriptions, entities and Prometheus metrics).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		httpAddr, _ := cmd.Flags().GetString("http")
		redisAddr, _ := cmd.Flags().GetString("redis")
		prefix, _ := cmd.Flags().GetString("prefix")

		opts := cli.HostOptions{
			HTTPAddr:    httpAddr,
			RedisAddr:   redisAddr,
			RedisPrefix: prefix,
			Version:     narrative.Version,
			Logger:      logger,
		}
		if term.IsTerminal(int(os.Stderr.Fd())) {
			opts.Banner = os.Stderr
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		if err := cli.RunHost(ctx, opts); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			logger.Info("Host stopped", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	hostCmd.Flags().String("http", "", "Address for the HTTP inspector (e.g. :8080)")
	hostCmd.Flags().String("redis", "", "Redis address; stdio is used when empty")
	hostCmd.Flags().String("prefix", "narrative:", "Key prefix for the Redis lists")
	rootCmd.AddCommand(hostCmd)
}
