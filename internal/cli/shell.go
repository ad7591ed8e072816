package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

func (a *app) cmdShell() *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive load-order shell",
		Long: "Start an interactive shell. Every plo command is available;\n" +
			"'exit' leaves the shell.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return a.repl(ctx, o)
		},
	}
}

func (a *app) repl(ctx context.Context, o *IO) error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string

		for _, c := range a.commands() {
			if name := c.Name(); name != "shell" && strings.HasPrefix(name, prefix) {
				out = append(out, name)
			}
		}

		return out
	})

	for {
		input, err := line.Prompt("plo> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		fields := strings.Fields(input)
		if len(fields) == 0 {
			continue
		}

		line.AppendHistory(input)

		name, args := fields[0], fields[1:]

		switch name {
		case "exit", "quit", "q":
			return nil
		case "help":
			printUsage(o, a.commands())

			continue
		}

		ran := false

		// Rebuilt per iteration: a FlagSet remembers Changed state.
		for _, c := range a.commands() {
			if c.Name() != name || name == "shell" {
				continue
			}

			ran = true

			if code := c.Run(ctx, o, args); code == 0 {
				if saveErr := a.svc.SaveHistory(); saveErr != nil {
					o.ErrPrintln("error:", saveErr)
				}
			}

			break
		}

		if !ran {
			o.ErrPrintln("unknown command:", name, "(try 'help')")
		}
	}
}
