package main

import (
	"context"
	"fmt"

	"github.com/aretw0/narrative/internal/cli"
	"github.com/aretw0/narrative/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push <file> [-- command args...]",
	Short: "Send a scheme file to a host",
	Long: `Validates a scheme file and sends it to a host with createScheme.

The host is, in order of preference: the Redis lists at --redis, the entry
named --host in --config, the command after "--", or 'narrative host' itself.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		redisAddr, _ := cmd.Flags().GetString("redis")
		prefix, _ := cmd.Flags().GetString("prefix")
		hostName, _ := cmd.Flags().GetString("host")
		configPath, _ := cmd.Flags().GetString("config")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		var command []string
		if dash := cmd.ArgsLenAtDash(); dash >= 0 {
			command = args[dash:]
			args = args[:dash]
		}
		if len(args) != 1 {
			return fmt.Errorf("push takes exactly one scheme file, got %d", len(args))
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		err = cli.Push(ctx, cli.PushOptions{
			SchemePath:  args[0],
			RedisAddr:   redisAddr,
			RedisPrefix: prefix,
			HostName:    hostName,
			ConfigPath:  configPath,
			Command:     command,
			Timeout:     timeout,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		tui.Status(cmd.OutOrStdout(), true, fmt.Sprintf("%s accepted by host", args[0]))
		return nil
	},
}

func init() {
	pushCmd.Flags().String("redis", "", "Redis address of a running host")
	pushCmd.Flags().String("prefix", "narrative:", "Key prefix for the Redis lists")
	pushCmd.Flags().String("host", "", "Name of a host in the config file")
	pushCmd.Flags().String("config", "hosts.yaml", "Host config file (YAML or JSON)")
	pushCmd.Flags().Duration("timeout", cli.DefaultPushTimeout, "How long to wait for the host's response")
	rootCmd.AddCommand(pushCmd)
}
