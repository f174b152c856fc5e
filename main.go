// chatserve - a one-client-at-a-time TCP chat server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chatserve/cmd"
)

func main() {
	// Ctrl-C cancels the context; the server broadcasts \quit to the
	// open session, closes it and Execute returns nil (exit 0).
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "chatserve: %v\n", err)
		os.Exit(1)
	}
}
