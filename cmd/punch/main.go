// Command punch normalizes biometric attendance exports and renders
// attendance summaries, matrices, analytics and reports.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"punchcli/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newLogger: infrastructure.InitializeLogger,
	}
	code := a.run(ctx, os.Args[1:])
	infrastructure.CloseLogFile()
	stop()
	os.Exit(code)
}
