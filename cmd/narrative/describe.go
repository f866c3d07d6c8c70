package main

import (
	"fmt"
	"os"

	"github.com/aretw0/narrative/internal/presentation/graph"
	"github.com/aretw0/narrative/internal/presentation/tui"
	"github.com/aretw0/narrative/pkg/schemefile"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print the outline of a scheme file",
	Long: `Prints a Markdown outline of the scheme's categories, entity types and scripts.
With --mermaid it prints a Mermaid flowchart (graph TD) instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schemefile.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Fprint(out, graph.GenerateMermaid(s))
			return nil
		}

		md := tui.Describe(s)
		fd := int(os.Stdout.Fd())
		if plain, _ := cmd.Flags().GetBool("plain"); plain || !term.IsTerminal(fd) {
			fmt.Fprint(out, md)
			return nil
		}
		width, _, err := term.GetSize(fd)
		if err != nil {
			width = 80
		}
		rendered, err := tui.NewRenderer(true, width)(md)
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	describeCmd.Flags().Bool("mermaid", false, "Print a Mermaid diagram")
	describeCmd.Flags().Bool("plain", false, "Print raw Markdown even on a terminal")
	rootCmd.AddCommand(describeCmd)
}
