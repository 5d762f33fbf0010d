package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/logger"
	"github.com/lunixbochs/assetdump/models"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// PrintError prints err, and a stacktrace if one is attached.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "Error: %s\n", err)
	var tracer stackTracer
	// report the innermost stack, where the error was created
	for e := err; e != nil; {
		if st, ok := e.(stackTracer); ok {
			tracer = st
		}
		cause, ok := e.(interface{ Cause() error })
		if !ok {
			break
		}
		e = cause.Cause()
	}
	if tracer == nil {
		return
	}
	// parse full path and method name for each stack frame
	var frames [][]string
	for _, f := range tracer.StackTrace() {
		fullpath := ""
		fileline := fmt.Sprintf("%s:%d", f, f)
		method := fmt.Sprintf("%n", f)

		frame := fmt.Sprintf("%+s", f)
		tmp := strings.SplitN(frame, "\n", 3)
		if len(tmp) == 2 {
			pathsplit := strings.Split(tmp[0], "/")
			method = pathsplit[len(pathsplit)-1]
			fullpath = strings.TrimSpace(tmp[1])
		}
		frames = append(frames, []string{fullpath, fileline, method})
		if method == "main.main" {
			break
		}
	}
	// calculate column widths
	widths := make([]int, 3)
	for _, f := range frames {
		for i, s := range f {
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}
	// print pretty stacktrace
	for _, f := range frames {
		method := f[2]
		for i := 0; i < 2; i++ {
			if widths[i] > 0 {
				pad := strings.Repeat(" ", widths[i]-len(f[i]))
				fmt.Fprintf(w, "%s%s | ", f[i], pad)
			}
		}
		fmt.Fprintf(w, "%s()\n", method)
	}
}

// Fatal prints err and exits.
func Fatal(err error) {
	PrintError(os.Stderr, err)
	os.Exit(1)
}

// NewFlagSet returns a flag set that prints grouped, wrapped help.
func NewFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s\n\nOptions:\n", name, synopsis)
		var flags []*flag.Flag
		fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
		models.PrintFlags(os.Stderr, flags)
	}
	return fs
}

// CommonFlags binds the options every subcommand shares onto c.
func CommonFlags(fs *flag.FlagSet, c *models.Config) {
	fs.StringVar(&c.ArchHint, "arch", "any", "slice to use from a fat Mach-O (x86_64, arm64, ...)")
	fs.BoolVar(&c.Verbose, "v", false, "verbose output")
	fs.BoolVar(&c.Color, "color", c.Color, "color output")
	level := c.LogLevel
	if level == "" {
		level = "INFO"
	}
	fs.StringVar(&c.LogLevel, "log-level", level, "log level (DEBUG, INFO, WARN, ERROR)")
}

var envFiles []string

// NewConfig reads .env files and the environment. Call it before binding flags.
func NewConfig() *models.Config {
	envFiles = models.LoadEnv()
	return models.DefaultConfig()
}

// Setup applies defaults and initializes logging once flags are parsed.
func Setup(c *models.Config) *models.Config {
	c.Init()
	logger.Init(c.LogLevel, nil)
	for _, f := range envFiles {
		logger.Debug("loaded environment file", "path", f)
	}
	return c
}
