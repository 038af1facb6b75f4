//go:build unix

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// watchResume calls resume every time the process is continued after a
// stop (fg after ctrl-z), the terminal analogue of an app returning to the
// foreground.
func watchResume(ctx context.Context, resume func(context.Context)) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGCONT)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				resume(ctx)
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
