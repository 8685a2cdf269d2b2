package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/doeshing/mastopoll/internal/infrastructure/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root, session := cli.NewRootCmd(cli.Options{Verbose: isVerbose()})
	err := root.ExecuteContext(ctx)
	if closeErr := session.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("MASTOPOLL_DEBUG"), "1") || strings.EqualFold(os.Getenv("MASTOPOLL_DEBUG"), "true")
}
