package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown before a run.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal-to-violet gradient, one color per line
	s1 := termenv.String("                  __ _ _       _     _   ").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String("  _ __  _ __ ___ / _| (_) __ _| |__ | |_ ").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" | '_ \\| '__/ _ \\ |_| | |/ _` | '_ \\| __|").Foreground(p.Color("#38bdf8"))
	s4 := termenv.String(" | |_) | | |  __/  _| | | (_| | | | | |_ ").Foreground(p.Color("#60a5fa"))
	s5 := termenv.String(" | .__/|_|  \\___|_| |_|_|\\__, |_| |_|\\__|").Foreground(p.Color("#818cf8"))
	s6 := termenv.String(" |_|                     |___/           ").Foreground(p.Color("#a78bfa"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, s1)
	fmt.Fprintln(w, s2)
	fmt.Fprintln(w, s3)
	fmt.Fprintln(w, s4)
	fmt.Fprintln(w, s5)
	fmt.Fprintln(w, s6)
	fmt.Fprintln(w)
}

// PhaseBanner prints the labeled banner announcing one check phase.
func PhaseBanner(w io.Writer, title string) {
	p := termenv.ColorProfile()
	line := termenv.String("━━━ " + title + " ━━━").Foreground(p.Color("#38bdf8")).Bold()
	fmt.Fprintf(w, "\n%s\n", line)
}
