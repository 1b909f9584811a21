package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`              __                         `, "#34d399"},
	{`   __ _  / _|___  _ __ _ __ ___  ___    `, "#2dd4bf"},
	{`  / _` + "`" + ` || |_/ _ \| '__| '_ ` + "`" + ` _ \/ __|   `, "#22d3ee"},
	{` | (_| ||  _| (_) | |  | | | | | \__ \   `, "#38bdf8"},
	{`  \__, ||_|  \___/|_|  |_| |_| |_|___/   `, "#60a5fa"},
	{`  |___/                                  `, "#818cf8"},
}

// PrintBanner writes the gforms banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  "+version).Faint())
	fmt.Fprintln(w)
}
