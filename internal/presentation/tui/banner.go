package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the host banner to w (stderr when the host speaks on stdout).
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	title := out.String(" narrative host ").Bold().Foreground(p.Color("#ffffff")).Background(p.Color("#6366f1"))
	ver := out.String(" " + version).Foreground(p.Color("#a78bfa"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%s\n", title, ver)
	fmt.Fprintln(w)
}

// Status writes a one-line success or failure message to w.
func Status(w io.Writer, ok bool, msg string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	mark := out.String("✔").Foreground(p.Color("#22c55e"))
	if !ok {
		mark = out.String("✘").Foreground(p.Color("#ef4444"))
	}
	fmt.Fprintf(w, "%s %s\n", mark, msg)
}
