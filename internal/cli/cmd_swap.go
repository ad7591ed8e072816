package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"
)

var errSwapArgs = errors.New("swap requires <old> and <new> plugin names")

func (a *app) cmdSwap() *Command {
	return &Command{
		Flags: flag.NewFlagSet("swap", flag.ContinueOnError),
		Usage: "swap <old> <new>",
		Short: "Rename a plugin across the load order",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 2 {
				return errSwapArgs
			}

			if _, err := a.svc.Get(true, true); err != nil {
				return err
			}

			// Renames must not look like external drift while locked.
			restore := a.svc.Suspend()
			defer restore()

			if err := a.svc.Swap(args[0], args[1]); err != nil {
				return err
			}

			if _, err := a.svc.Get(false, false); err != nil {
				return err
			}

			o.Printf("swapped %s -> %s\n", args[0], args[1])

			return nil
		},
	}
}
