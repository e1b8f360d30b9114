// Where: cmd/reconciler/main.go
// What: CLI entrypoint.
// Why: Execute reconciler commands with configured dependencies.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/anibalxyz/reconciler/cli/internal/command"
)

func main() {
	os.Exit(run())
}

func run() int {
	// The first interrupt cancels the context; the runner forwards it to the child.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closer := buildDependencies()
	defer closer.Close()

	return command.Run(ctx, os.Args[1:], deps)
}
