package main

import (
	"os"

	"github.com/aretw0/narrative/pkg/schemefile"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Convert a scheme file between YAML and JSON",
	Long: `Loads a scheme file, rebuilds it and writes it back in the requested format.
Callbacks are written as their registry keys.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		format, err := schemefile.ParseFormat(formatName)
		if err != nil {
			return err
		}
		s, err := schemefile.Load(args[0])
		if err != nil {
			return err
		}
		data, err := schemefile.Marshal(s, format)
		if err != nil {
			return err
		}
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return os.WriteFile(outPath, data, 0o644)
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "Output format (json or yaml)")
	exportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
