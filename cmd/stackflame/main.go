package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/stackflame/internal/cli"
	flameerrors "github.com/matzehuels/stackflame/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		// No stack counts has already been logged by the pipeline.
		if !flameerrors.Is(err, flameerrors.ErrCodeNoStacks) {
			fmt.Fprintln(os.Stderr, flameerrors.UserMessage(err))
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch flameerrors.GetCode(err) {
	case flameerrors.ErrCodeNoStacks:
		return 2
	case flameerrors.ErrCodeInput, flameerrors.ErrCodeFileNotFound:
		return 3
	default:
		return 1
	}
}
