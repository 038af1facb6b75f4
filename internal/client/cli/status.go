package cli

import (
	"context"
	"fmt"
)

// Status prints connectivity and the queue state.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "Mode: %s\n", a.mode())
	fmt.Fprintln(a.out, a.surface.Message())
	return nil
}

// Sync runs a flush now. Offline it only reports what is waiting.
func (a *App) Sync(ctx context.Context) error {
	if !a.monitor.Current() {
		fmt.Fprintf(a.out, "Offline: %s\n", a.surface.Message())
		return nil
	}
	if err := a.engine.Flush(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.surface.Message())
	return nil
}
