package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/archive-lab/magpie/internal/cli"

	_ "github.com/lib/pq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
