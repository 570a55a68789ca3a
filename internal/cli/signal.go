package cli

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog/log"
)

// SignalContext returns a context cancelled on SIGINT or SIGTERM. Calling stop releases the
// signal handler; a shutdown signal is logged only when it, not stop or parent, ended the context.
func SignalContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	ctx, release := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)

	var stopped atomic.Bool
	context.AfterFunc(ctx, func() {
		if !stopped.Load() && parent.Err() == nil {
			log.Warn().Msg("Received shutdown signal")
		}
	})

	return ctx, func() {
		stopped.Store(true)
		release()
	}
}
