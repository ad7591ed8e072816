// Package main provides plo, a plugin load-order manager with undo/redo
// and load-order locking.
package main

import (
	"os"
	"strings"

	"github.com/plugorder/plugorder/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env)

	os.Exit(exitCode)
}
