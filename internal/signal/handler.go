// Package signal cancels the dispatch context when ai-task-notify is
// interrupted, so an in-flight webhook or SMTP call is abandoned instead of
// waiting for its timeout.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler registers SIGINT and SIGTERM handlers.
// When a signal is received, it calls the onInterrupt callback (if non-nil),
// then cancels the context.
//
// The listening goroutine exits after the first signal or when ctx is done,
// restoring default signal behavior. The returned stop function does the
// same eagerly and is safe to call more than once.
//
// Example usage:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	stop := signal.SetupSignalHandler(ctx, cancel, func() {
//	    logging.Warn("Interrupted, abandoning remaining channels")
//	})
//	defer stop()
func SetupSignalHandler(ctx context.Context, cancel context.CancelFunc, onInterrupt func()) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			if onInterrupt != nil {
				onInterrupt()
			}
			cancel()
		case <-ctx.Done():
		case <-done:
		}
	}()

	var stopped bool
	return func() {
		if stopped {
			return
		}
		stopped = true
		close(done)
		<-exited
	}
}
