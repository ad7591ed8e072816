package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

func (a *app) cmdOrder() *Command {
	return &Command{
		Flags: flag.NewFlagSet("order", flag.ContinueOnError),
		Usage: "order",
		Short: "List the full load order",
		Long: "List every plugin in load order. Active plugins are marked\n" +
			"with '*'.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			lord, err := a.svc.Get(true, true)
			if err != nil {
				return err
			}

			a.warnIfDrifted()

			for i, name := range lord.Order() {
				marker := " "
				if lord.IsActive(name) {
					marker = "*"
				}

				o.Printf("%3d %s %s\n", i, marker, name)
			}

			return nil
		},
	}
}

func (a *app) cmdActive() *Command {
	return &Command{
		Flags: flag.NewFlagSet("active", flag.ContinueOnError),
		Usage: "active",
		Short: "List active plugins in load order",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			lord, err := a.svc.Get(true, true)
			if err != nil {
				return err
			}

			a.warnIfDrifted()

			for i, name := range lord.ActiveOrdered() {
				o.Printf("%3d %s\n", i, name)
			}

			return nil
		},
	}
}
