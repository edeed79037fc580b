package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arthur-debert/devstrap/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], cli.Deps{})
	stop()
	os.Exit(code)
}
