// Package main is the entry point for the Farmhand CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xabinapal/farmhand/internal/cli"
	"github.com/xabinapal/farmhand/internal/profile"
)

// Exit codes.
const (
	exitError   = 1
	exitInvalid = 2
)

func main() {
	// Cancelled on interrupt so a pending field selection or watch stops cleanly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	app := cli.New()
	if err := app.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, profile.ErrValidation) {
			os.Exit(exitInvalid)
		}
		os.Exit(exitError)
	}
}
