package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
)

type command struct {
	name, desc string
	main       func(args []string)
}

var commands = make(map[string]*command)

// Register adds a subcommand. main receives "<prog> <name>" as args[0].
func Register(name, desc string, main func(args []string)) {
	if _, ok := commands[name]; ok {
		panic("cmd: command registered twice: " + name)
	}
	commands[name] = &command{name, desc, main}
}

func printUsage(w io.Writer, prog string) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "Commands:")
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t| %s\n", name, commands[name].desc)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nExample: %s dump -i app.exe -o assets/\n\n", prog)
}

// Dispatch runs the subcommand named by args[1] and reports whether one was found.
func Dispatch(args []string) bool {
	if len(args) < 2 {
		return false
	}
	c, ok := commands[args[1]]
	if !ok {
		return false
	}
	c.main(append([]string{args[0] + " " + args[1]}, args[2:]...))
	return true
}

func Main() {
	if len(os.Args) == 2 {
		switch os.Args[1] {
		case "help", "-h", "-help", "--help":
			printUsage(os.Stdout, os.Args[0])
			return
		}
	}
	if Dispatch(os.Args) {
		return
	}
	if len(os.Args) >= 2 {
		fmt.Fprintf(os.Stderr, "Command '%s' not found.\n\n", os.Args[1])
	}
	printUsage(os.Stderr, os.Args[0])
	os.Exit(1)
}
