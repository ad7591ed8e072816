package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

func (a *app) cmdStatus() *Command {
	return &Command{
		Flags: flag.NewFlagSet("status", flag.ContinueOnError),
		Usage: "status",
		Short: "Show load order summary",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			lord, err := a.svc.Get(true, true)
			if err != nil {
				return err
			}

			a.warnIfDrifted()

			lock := "off"
			if a.svc.Locked() {
				lock = "on"
			}

			_, cursor := a.svc.History()

			o.Printf("plugins:  %d\n", lord.Len())
			o.Printf("active:   %d\n", lord.ActiveLen())
			o.Printf("lock:     %s\n", lock)
			o.Printf("history:  entry %d\n", cursor+1)

			return nil
		},
	}
}
