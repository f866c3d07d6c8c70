package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/narrative/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "narrative",
	Short: "Narrative describes visual modeling schemes and ships them to a host",
	Long: `Narrative validates, renders and exports scheme files, runs a reference
host controller and pushes schemes to hosts over stdio or Redis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); logs are off when empty")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
}

// newLogger builds the command logger. Logs always go to stderr so stdout
// stays free for protocol traffic and exports.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	if levelName == "" {
		return logging.NewNop(), nil
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	asJSON, _ := cmd.Flags().GetBool("log-json")
	return logging.NewWithWriter(os.Stderr, level, asJSON), nil
}
