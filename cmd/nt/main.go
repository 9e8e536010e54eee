package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	e := &env{}
	err := newRootCmd(e).ExecuteContext(ctx)
	e.close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}
