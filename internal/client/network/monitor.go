// Package network reports whether the backend is currently reachable and
// notifies subscribers when that changes.
package network

import "sync"

// Monitor is the connectivity signal consumed by the sync engine.
//
// Subscribe calls fn once, synchronously, with the current status and then
// again on every change until the returned function is called. A monitor
// that has not heard anything yet reports false.
type Monitor interface {
	Current() bool
	Subscribe(fn func(connected bool)) (unsubscribe func())
}

// broadcaster holds the status and the subscriber set shared by the
// monitor implementations.
type broadcaster struct {
	// notifyMu keeps deliveries in the order the changes were made.
	notifyMu sync.Mutex

	mu        sync.Mutex
	connected bool
	nextID    int
	subs      map[int]func(bool)
}

func (b *broadcaster) Current() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *broadcaster) Subscribe(fn func(bool)) func() {
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	b.mu.Lock()
	if b.subs == nil {
		b.subs = make(map[int]func(bool))
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	cur := b.connected
	b.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// set stores v and notifies subscribers. It reports whether the status
// changed. Subscribers must not call Set.
func (b *broadcaster) set(v bool) bool {
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	b.mu.Lock()
	if b.connected == v {
		b.mu.Unlock()
		return false
	}
	b.connected = v
	fns := make([]func(bool), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
	return true
}

// StaticMonitor is driven by hand.
type StaticMonitor struct {
	broadcaster
}

func NewStaticMonitor(connected bool) *StaticMonitor {
	m := &StaticMonitor{}
	m.connected = connected
	return m
}

// Set changes the reported status. Subscribers are only notified on change.
func (m *StaticMonitor) Set(connected bool) {
	m.set(connected)
}
