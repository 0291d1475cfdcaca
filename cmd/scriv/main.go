package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ariel-frischer/scriv/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.ExecuteContext(ctx)
	stop()
	os.Exit(cli.ExitCode(err))
}
