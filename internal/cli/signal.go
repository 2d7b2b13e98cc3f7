package cli

import (
	"context"
	"os/signal"
	"syscall"
)

// contextWithInterrupt returns a context cancelled on Ctrl-C, so an
// interrupted run persists its state and can be resumed.
func contextWithInterrupt() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}
