package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/narrative"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of narrative",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "narrative version %s\n", strings.TrimSpace(narrative.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
