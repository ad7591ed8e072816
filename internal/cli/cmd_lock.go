package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/plugorder/plugorder/internal/loadorder"
)

func (a *app) cmdLock() *Command {
	fs := flag.NewFlagSet("lock", flag.ContinueOnError)
	yes := fs.BoolP("yes", "y", false, "skip the confirmation prompt")

	return &Command{
		Flags: fs,
		Usage: "lock [flags]",
		Short: "Toggle Lock Load Order",
		Long: "Toggle Lock Load Order. While locked, any load order change\n" +
			"made outside plo is undone the next time the order is read.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			confirm := a.confirmLock
			if *yes {
				confirm = nil
			}

			locked, err := a.svc.ToggleLock(confirm)
			if err != nil {
				if errors.Is(err, loadorder.ErrLockDeclined) {
					o.Println("lock load order: declined")

					return nil
				}

				return err
			}

			if locked {
				o.Println("lock load order: on")
			} else {
				o.Println("lock load order: off")
			}

			return nil
		},
	}
}

// confirmLock prompts before engaging the lock. Locking is good for
// maintaining a load order, but it also undoes changes made by other
// tools, so it deserves an explicit yes.
func (a *app) confirmLock() bool {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)

	answer, err := line.Prompt("Lock Load Order resets the order to the memorized state, " +
		"undoing changes made outside plo. Continue? [y/N] ")
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}
