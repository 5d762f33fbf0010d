package models

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mgutz/ansi"
)

var (
	chName = ansi.ColorCode("green+b")
	chDim  = ansi.ColorCode("black+h")
	chWarn = ansi.ColorCode("yellow")
	chErr  = ansi.ColorCode("red+b")
)

// Printer writes human-facing progress lines, colored when enabled.
type Printer struct {
	W     io.Writer
	Color bool
}

func NewPrinter(c *Config) *Printer {
	if c.Stdout != nil && c.Stdout != os.Stdout {
		return &Printer{W: c.Stdout, Color: c.Color}
	}
	return &Printer{W: colorable.NewColorable(os.Stdout), Color: c.Color}
}

func (p *Printer) paint(s, color string) string {
	if !p.Color {
		return s
	}
	return color + s + ansi.Reset
}

func (p *Printer) Name(s string) string { return p.paint(s, chName) }
func (p *Printer) Dim(s string) string  { return p.paint(s, chDim) }
func (p *Printer) Warn(s string) string { return p.paint(s, chWarn) }
func (p *Printer) Err(s string) string  { return p.paint(s, chErr) }

func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.W, a...)
}

func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.W, format, a...)
}
