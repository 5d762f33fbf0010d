package models

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const usageWidth = 80

// wrapWords splits text into lines of at most width bytes, breaking at
// spaces and explicit newlines. Words longer than width get a line each.
func wrapWords(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			if line != "" && len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = ""
			}
			if line != "" {
				line += " "
			}
			line += word
		}
		lines = append(lines, line)
	}
	return lines
}

func flagDefault(f *flag.Flag) string {
	switch f.DefValue {
	case "", "false", "0":
		return ""
	}
	return "(" + f.DefValue + ")"
}

// PrintFlags writes one aligned entry per flag, wrapping usage text so the
// output fits in 80 columns.
func PrintFlags(w io.Writer, flags []*flag.Flag) {
	wname, wdef := 0, 0
	for _, f := range flags {
		if len(f.Name) > wname {
			wname = len(f.Name)
		}
		if d := flagDefault(f); len(d) > wdef {
			wdef = len(d)
		}
	}
	indent := wname + wdef + 6
	wdesc := usageWidth - indent
	if wdesc < 20 {
		wdesc = 20
	}
	lpad := strings.Repeat(" ", indent)
	for _, f := range flags {
		fmt.Fprintf(w, "  -%-*s %-*s  ", wname, f.Name, wdef, flagDefault(f))
		for i, line := range wrapWords(f.Usage, wdesc) {
			if i > 0 {
				fmt.Fprint(w, lpad)
			}
			fmt.Fprintln(w, line)
		}
	}
}
