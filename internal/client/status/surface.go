// Package status renders the sync engine state for the mechanic. It only
// observes; queueing and flushing go through the engine.
package status

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/dvi/internal/client/syncer"
)

// Source is the read side of the sync engine.
type Source interface {
	State() syncer.State
	Subscribe(fn func(syncer.State)) func()
}

var _ Source = (*syncer.Engine)(nil)

const SyncingBadge = "syncing…"

type Surface struct {
	src Source
}

func NewSurface(src Source) *Surface {
	return &Surface{src: src}
}

func (s *Surface) Pending() int  { return s.src.State().Pending }
func (s *Surface) Syncing() bool { return s.src.State().Syncing }

// Badge is the compact indicator shown next to the prompt. It is empty when
// there is nothing to report.
func (s *Surface) Badge() string {
	return badge(s.src.State())
}

// Message is the longer form shown by the status command.
func (s *Surface) Message() string {
	return message(s.src.State())
}

// Watch writes a line to w every time the badge changes. Call stop to detach.
func (s *Surface) Watch(w io.Writer) (stop func()) {
	var mu sync.Mutex
	last := ""
	first := true

	return s.src.Subscribe(func(st syncer.State) {
		b := badge(st)
		mu.Lock()
		defer mu.Unlock()
		if !first && b == last {
			return
		}
		first = false
		last = b
		if b == "" {
			fmt.Fprintln(w, "[sync] all inspections delivered")
			return
		}
		fmt.Fprintf(w, "[sync] %s\n", message(st))
	})
}

func badge(st syncer.State) string {
	switch {
	case st.Syncing:
		return SyncingBadge
	case st.Pending == 0:
		return ""
	default:
		return strconv.Itoa(st.Pending)
	}
}

func message(st syncer.State) string {
	var msg string
	switch {
	case st.Syncing:
		msg = fmt.Sprintf("syncing %d inspection(s)", st.Pending)
	case st.Pending == 0:
		msg = "all inspections delivered"
	case st.Pending == 1:
		msg = "1 inspection waiting to sync"
	default:
		msg = fmt.Sprintf("%d inspections waiting to sync", st.Pending)
	}
	if st.Err != nil {
		msg += fmt.Sprintf(" (storage error: %v)", st.Err)
	}
	return msg
}
