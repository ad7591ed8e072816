// Package cli implements the plo command line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/plugorder/plugorder/internal/loadorder"
	"github.com/plugorder/plugorder/internal/settings"
)

// historyFileName is the history store file inside the data dir.
const historyFileName = "loadorders.gob"

var errCommandRequired = errors.New("command required (try 'plo help')")

// app wires the load-order service, settings, and IO for one invocation.
type app struct {
	io      *IO
	cfg     settings.Settings
	cfgPath string
	game    *loadorder.PassthroughGame
	svc     *loadorder.Service
}

// newApp loads settings, seeds the passthrough game from the saved
// history, and builds the service.
func newApp(o *IO, cfgPath string) (*app, error) {
	cfg, err := settings.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	histPath := filepath.Join(cfg.DataDir, historyFileName)

	// The passthrough game has no system of record; the saved history's
	// current entry is the last known external state.
	order, active, stateErr := loadorder.LoadSavedState(histPath)
	if stateErr != nil {
		o.Warn("dropping saved state: %v", stateErr)
	}

	game := loadorder.NewPassthroughGame(order, active)

	svc, err := loadorder.New(loadorder.Options{
		Game:        game,
		HistoryPath: histPath,
		Locks:       settings.NewStore(cfgPath),
		Logf:        func(format string, a ...any) { o.Warn(format, a...) },
	})
	if err != nil {
		return nil, err
	}

	return &app{
		io:      o,
		cfg:     cfg,
		cfgPath: cfgPath,
		game:    game,
		svc:     svc,
	}, nil
}

// commands returns all commands in help order.
func (a *app) commands() []*Command {
	return []*Command{
		a.cmdStatus(),
		a.cmdOrder(),
		a.cmdActive(),
		a.cmdSet(),
		a.cmdActivate(),
		a.cmdDeactivate(),
		a.cmdUndo(),
		a.cmdRedo(),
		a.cmdHistory(),
		a.cmdLock(),
		a.cmdSwap(),
		a.cmdShell(),
	}
}

// Run executes the CLI. args is os.Args; env is the process environment
// as a map. Returns the process exit code.
func Run(_ io.Reader, stdout, stderr io.Writer, args []string, env map[string]string) int {
	o := NewIO(stdout, stderr)

	if len(args) < 2 {
		printUsage(o, nil)
		o.ErrPrintln("error:", errCommandRequired)

		return 1
	}

	name := args[1]
	rest := args[2:]

	cfgPath := env["PLO_SETTINGS"]

	// A leading --settings flag overrides the environment.
	if name == "--settings" && len(rest) > 0 {
		cfgPath = rest[0]
		if len(rest) < 2 {
			o.ErrPrintln("error:", errCommandRequired)

			return 1
		}

		name, rest = rest[1], rest[2:]
	}

	if cfgPath == "" {
		cfgPath = settings.FileName
	}

	a, err := newApp(o, cfgPath)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	cmds := a.commands()

	if name == "help" || name == "--help" || name == "-h" {
		printUsage(o, cmds)

		return 0
	}

	for _, c := range cmds {
		if c.Name() != name {
			continue
		}

		code := c.Run(context.Background(), o, rest)
		if code != 0 {
			return code
		}

		if saveErr := a.svc.SaveHistory(); saveErr != nil {
			o.ErrPrintln("error:", saveErr)

			return 1
		}

		return o.Finish()
	}

	printUsage(o, cmds)
	o.ErrPrintln("error: unknown command:", name)

	return 1
}

func printUsage(o *IO, cmds []*Command) {
	o.Println("Usage: plo [--settings <file>] <command> [flags]")
	o.Println()
	o.Println("Manage plugin load orders with undo/redo and load-order locking.")

	if len(cmds) == 0 {
		return
	}

	o.Println()
	o.Println("Commands:")

	for _, c := range cmds {
		o.Println(c.HelpLine())
	}
}

// warnIfDrifted surfaces the one-shot lock drift warning.
func (a *app) warnIfDrifted() {
	if a.svc.ConsumeLockWarning() {
		a.io.Warn("load order was reset to the locked state")
	}
}
