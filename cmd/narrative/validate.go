package main

import (
	"fmt"

	"github.com/aretw0/narrative/internal/presentation/tui"
	"github.com/aretw0/narrative/pkg/scheme"
	"github.com/aretw0/narrative/pkg/schemefile"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check scheme files for structural defects",
	Long: `Loads each scheme file through the builder and runs the structural checks:
limits, allowed-entity tags, conflict groups and unique category names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			if err := validateFile(path); err != nil {
				tui.Status(out, false, fmt.Sprintf("%s: %v", path, err))
				failed++
				continue
			}
			tui.Status(out, true, path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d scheme files are invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateFile(path string) error {
	s, err := schemefile.Load(path)
	if err != nil {
		return err
	}
	return scheme.Validate(s)
}
