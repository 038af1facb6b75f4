package syncer

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/dvi/internal/client/network"
	"github.com/dmitrijs2005/dvi/internal/client/queue"
	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/models"
)

// State is what the engine publishes to observers.
type State struct {
	Pending int
	Syncing bool
	// Err is the last storage failure, cleared by the next successful pass.
	Err error
}

type Engine struct {
	store    queue.Store
	monitor  network.Monitor
	uploader Uploader
	logger   logging.Logger

	// storeMu serializes queue writes between Enqueue and the end of a pass.
	// Pending is published while it is held so observers never see a count
	// older than the queue. Lock order is storeMu, notifyMu, mu.
	storeMu sync.Mutex
	// notifyMu orders deliveries so every subscriber sees changes in the
	// order they were applied.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     State
	running   bool
	dirty     bool
	connected bool
	started   bool
	baseCtx   context.Context
	unsub     func()
	subs      map[int]func(State)
	nextSubID int

	wg sync.WaitGroup
}

func NewEngine(store queue.Store, monitor network.Monitor, uploader Uploader, logger logging.Logger) *Engine {
	return &Engine{
		store:    store,
		monitor:  monitor,
		uploader: uploader,
		logger:   logger,
		baseCtx:  context.Background(),
		subs:     make(map[int]func(State)),
	}
}

// Start loads the pending count and begins listening to the monitor. If the
// monitor already reports connected a flush is spawned. ctx bounds every
// background flush.
func (e *Engine) Start(ctx context.Context) error {
	items, err := e.store.GetQueue(ctx)
	if err != nil {
		e.update(func(s *State) { s.Err = err })
		return err
	}

	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.baseCtx = ctx
	e.mu.Unlock()

	e.update(func(s *State) { s.Pending = len(items) })

	unsub := e.monitor.Subscribe(e.onConnectivity)

	e.mu.Lock()
	e.unsub = unsub
	e.mu.Unlock()

	e.logger.Info(ctx, "sync engine started", "pending", len(items), "connected", e.monitor.Current())
	return nil
}

// Stop detaches from the monitor and waits for background flushes.
func (e *Engine) Stop() {
	e.mu.Lock()
	unsub := e.unsub
	e.unsub = nil
	e.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	e.Wait()
}

func (e *Engine) onConnectivity(connected bool) {
	e.mu.Lock()
	was := e.connected
	e.connected = connected
	e.mu.Unlock()

	if connected && !was {
		e.spawnFlush()
	}
}

// Enqueue makes s durable and returns. Delivery happens in the background
// when connected.
func (e *Engine) Enqueue(ctx context.Context, s models.Submission) error {
	e.storeMu.Lock()
	err := e.store.Enqueue(ctx, s)
	var n int
	if err == nil {
		var items []models.Submission
		items, err = e.store.GetQueue(ctx)
		n = len(items)
	}
	if err != nil {
		e.update(func(st *State) { st.Err = err })
	} else {
		e.update(func(st *State) { st.Pending = n })
	}
	e.storeMu.Unlock()

	if err != nil {
		e.logger.Error(ctx, "enqueue failed", "order_id", s.OrderID, "err", err)
		return err
	}

	e.logger.Debug(ctx, "submission queued", "submission_id", s.SubmissionID, "order_id", s.OrderID, "pending", n)

	e.mu.Lock()
	if e.running {
		e.dirty = true
	}
	running := e.running
	e.mu.Unlock()

	if !running && e.monitor.Current() {
		e.spawnFlush()
	}
	return nil
}

// Resume is the foreground trigger.
func (e *Engine) Resume(ctx context.Context) {
	if !e.monitor.Current() {
		e.logger.Debug(ctx, "resume while offline, not flushing")
		return
	}
	e.spawnFlush()
}

// Flush runs one pass over the queue. If a pass is already running it
// returns nil immediately. Per-item delivery failures are not returned.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.dirty = false
	e.mu.Unlock()

	err := e.pass(ctx)

	e.mu.Lock()
	e.running = false
	again := e.dirty
	e.dirty = false
	e.mu.Unlock()

	if again && e.monitor.Current() {
		e.spawnFlush()
	}
	return err
}

func (e *Engine) pass(ctx context.Context) error {
	e.storeMu.Lock()
	snapshot, err := e.store.GetQueue(ctx)
	switch {
	case err != nil:
		e.update(func(s *State) { s.Err = err; s.Syncing = false })
	case len(snapshot) == 0:
		e.update(func(s *State) { s.Pending = 0 })
	default:
		e.update(func(s *State) { s.Syncing = true; s.Pending = len(snapshot) })
	}
	e.storeMu.Unlock()
	if err != nil {
		e.logger.Error(ctx, "flush aborted: cannot read queue", "err", err)
		return err
	}
	if len(snapshot) == 0 {
		return nil
	}

	e.logger.Info(ctx, "flush started", "items", len(snapshot))

	var failed []models.Submission
	for i, item := range snapshot {
		if ctx.Err() != nil {
			failed = append(failed, snapshot[i:]...)
			break
		}
		if err := e.uploader.Upload(ctx, item); err != nil {
			e.logger.Warn(ctx, "delivery failed, keeping item queued",
				"submission_id", item.SubmissionID, "order_id", item.OrderID, "err", err)
			failed = append(failed, item)
			continue
		}
		e.logger.Debug(ctx, "delivered", "submission_id", item.SubmissionID, "order_id", item.OrderID)
	}

	// The rewrite must land even if ctx was cancelled during uploads.
	wctx := context.WithoutCancel(ctx)

	e.storeMu.Lock()
	remaining := failed
	current, err := e.store.GetQueue(wctx)
	if err == nil {
		if len(current) > len(snapshot) {
			remaining = append(remaining, current[len(snapshot):]...)
		}
		err = e.store.SetQueue(wctx, remaining)
	}
	if err != nil {
		e.update(func(s *State) { s.Syncing = false; s.Err = err })
	} else {
		e.update(func(s *State) {
			s.Syncing = false
			s.Pending = len(remaining)
			s.Err = nil
		})
	}
	e.storeMu.Unlock()

	if err != nil {
		e.logger.Error(ctx, "flush could not persist queue", "err", err)
		return err
	}

	e.logger.Info(ctx, "flush finished",
		"delivered", len(snapshot)-len(failed), "failed", len(failed), "pending", len(remaining))
	return nil
}

func (e *Engine) spawnFlush() {
	e.mu.Lock()
	ctx := e.baseCtx
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		// Errors are already logged and published in State.
		_ = e.Flush(ctx)
	}()
}

// Wait blocks until every spawned background flush has returned.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe calls fn with the current state and then after every change,
// until the returned function is called. fn runs on the goroutine that made
// the change and must not call Enqueue, Flush or Subscribe.
func (e *Engine) Subscribe(fn func(State)) func() {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subs[id] = fn
	cur := e.state
	e.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
}

// update applies f to the state and notifies subscribers if anything changed.
func (e *Engine) update(f func(*State)) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	prev := e.state
	f(&e.state)
	next := e.state
	if prev.Pending == next.Pending && prev.Syncing == next.Syncing && sameErr(prev.Err, next.Err) {
		e.mu.Unlock()
		return
	}
	fns := make([]func(State), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

func sameErr(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Error() == b.Error()
}
