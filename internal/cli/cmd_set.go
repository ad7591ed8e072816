package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	flag "github.com/spf13/pflag"
)

var (
	errPluginsRequired = errors.New("at least one plugin is required")
	errPluginRequired  = errors.New("plugin name is required")
	errMustStayActive  = errors.New("plugin must stay active")
	errAlreadyActive   = errors.New("plugin is already active")
	errNotActive       = errors.New("plugin is not active")
)

func (a *app) cmdSet() *Command {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	active := fs.StringSlice("active", nil, "active plugins (default: keep current actives)")

	return &Command{
		Flags: fs,
		Usage: "set <plugin>... [flags]",
		Short: "Set the load order",
		Long: "Set the load order to the given plugins, in the given order.\n" +
			"Without --active the current actives are kept, dropping any\n" +
			"that left the order.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errPluginsRequired
			}

			if _, err := a.svc.Get(true, true); err != nil {
				return err
			}

			proposed := *active
			if !fs.Changed("active") {
				proposed = nil // adapter keeps previous actives
			}

			lord, err := a.svc.Set(args, proposed)
			if err != nil {
				return err
			}

			o.Printf("load order set: %d plugins, %d active\n", lord.Len(), lord.ActiveLen())

			return nil
		},
	}
}

func (a *app) cmdActivate() *Command {
	return &Command{
		Flags: flag.NewFlagSet("activate", flag.ContinueOnError),
		Usage: "activate <plugin>",
		Short: "Activate a plugin",
		Exec: func(_ context.Context, _ *IO, args []string) error {
			if len(args) != 1 {
				return errPluginRequired
			}

			name := args[0]

			lord, err := a.svc.Get(true, true)
			if err != nil {
				return err
			}

			if _, err := lord.IndexOf(name); err != nil {
				return err
			}

			if lord.IsActive(name) {
				return fmt.Errorf("%w: %s", errAlreadyActive, name)
			}

			active := append(lord.ActiveOrdered(), name)

			_, err = a.svc.Set(lord.Order(), active)

			return err
		},
	}
}

func (a *app) cmdDeactivate() *Command {
	return &Command{
		Flags: flag.NewFlagSet("deactivate", flag.ContinueOnError),
		Usage: "deactivate <plugin>",
		Short: "Deactivate a plugin",
		Exec: func(_ context.Context, _ *IO, args []string) error {
			if len(args) != 1 {
				return errPluginRequired
			}

			name := args[0]

			lord, err := a.svc.Get(true, true)
			if err != nil {
				return err
			}

			if !lord.IsActive(name) {
				return fmt.Errorf("%w: %s", errNotActive, name)
			}

			if _, must := a.svc.MustBeActiveIfPresent()[name]; must {
				return fmt.Errorf("%w: %s", errMustStayActive, name)
			}

			active := slices.DeleteFunc(lord.ActiveOrdered(), func(n string) bool {
				return n == name
			})

			_, err = a.svc.Set(lord.Order(), active)

			return err
		},
	}
}
