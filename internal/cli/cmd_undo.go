package cli

import (
	"context"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/plugorder/plugorder/internal/loadorder"
)

func (a *app) cmdUndo() *Command {
	return &Command{
		Flags: flag.NewFlagSet("undo", flag.ContinueOnError),
		Usage: "undo",
		Short: "Restore the previous load order",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			if _, err := a.svc.Get(true, true); err != nil {
				return err
			}

			before := a.svc.Current()

			lord, err := a.svc.Undo()
			if err != nil {
				return err
			}

			printNavigated(o, before, lord, "undo")

			return nil
		},
	}
}

func (a *app) cmdRedo() *Command {
	return &Command{
		Flags: flag.NewFlagSet("redo", flag.ContinueOnError),
		Usage: "redo",
		Short: "Restore the next load order",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			if _, err := a.svc.Get(true, true); err != nil {
				return err
			}

			before := a.svc.Current()

			lord, err := a.svc.Redo()
			if err != nil {
				return err
			}

			printNavigated(o, before, lord, "redo")

			return nil
		},
	}
}

func printNavigated(o *IO, before, after *loadorder.Snapshot, verb string) {
	if after.Equal(before) {
		o.Println("nothing to", verb)

		return
	}

	o.Printf("%s: %d plugins, %d active\n", verb, after.Len(), after.ActiveLen())
}

func (a *app) cmdHistory() *Command {
	return &Command{
		Flags: flag.NewFlagSet("history", flag.ContinueOnError),
		Usage: "history",
		Short: "List memorized load orders",
		Long: "List every memorized load order, oldest first. The current\n" +
			"entry is marked with '>'.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			if _, err := a.svc.Get(true, true); err != nil {
				return err
			}

			a.warnIfDrifted()

			entries, cursor := a.svc.History()

			for i, e := range entries {
				marker := " "
				if i == cursor {
					marker = ">"
				}

				o.Printf("%s %3d  %s  %d plugins, %d active\n",
					marker, i, e.At.Format(time.DateTime), e.Lord.Len(), e.Lord.ActiveLen())
			}

			return nil
		},
	}
}
