// Command audiograph renders audio graphs into wav files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
)

const (
	successExitCode = 0
	errorExitCode   = 1
)

type command interface {
	Help() string
	Register(*flag.FlagSet)
	Run() error
}

var commands = map[string]command{
	"render": &renderCommand{},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes command named by the first argument and returns exit code.
func run(args []string, out io.Writer) int {
	if len(args) == 0 {
		usage(out)
		return errorExitCode
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(out)
		return errorExitCode
	}
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(out)
	cmd.Register(flags)
	if err := flags.Parse(args[1:]); err != nil {
		return errorExitCode
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(out, "%s failed: %v\n", args[0], err)
		return errorExitCode
	}
	return successExitCode
}

func usage(out io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "Usage: audiograph <command> [flags]\n\nCommands:\n")
	for _, name := range names {
		fmt.Fprintf(out, "\t%s\t%s\n", name, commands[name].Help())
	}
}
