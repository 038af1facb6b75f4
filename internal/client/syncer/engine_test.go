package syncer

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dvi/internal/client/client"
	"github.com/dmitrijs2005/dvi/internal/client/network"
	"github.com/dmitrijs2005/dvi/internal/client/queue"
	"github.com/dmitrijs2005/dvi/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/models"
)

// memStore is an in-memory queue.Store that counts writes.
type memStore struct {
	mu      sync.Mutex
	items   []models.Submission
	writes  int
	readErr error
}

func (m *memStore) GetQueue(context.Context) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, &queue.StorageError{Op: "read", Err: m.readErr}
	}
	return append([]models.Submission{}, m.items...), nil
}

func (m *memStore) SetQueue(_ context.Context, items []models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.items = append([]models.Submission(nil), items...)
	return nil
}

func (m *memStore) Enqueue(ctx context.Context, s models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return &queue.StorageError{Op: "read", Err: m.readErr}
	}
	m.writes++
	m.items = append(m.items, s)
	return nil
}

func (m *memStore) snapshot() []models.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Submission{}, m.items...)
}

// recordingUploader remembers every order id it was called with and fails
// the ones listed in fail.
type recordingUploader struct {
	mu    sync.Mutex
	calls []int64
	fail  map[int64]bool
}

func (u *recordingUploader) Upload(_ context.Context, s models.Submission) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, s.OrderID)
	if u.fail[s.OrderID] {
		return errors.New("502 bad gateway")
	}
	return nil
}

func (u *recordingUploader) called() []int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]int64(nil), u.calls...)
}

func order(id int64) models.Submission {
	return models.Submission{
		OrderID:    id,
		MechanicID: 12,
		Items:      []models.InspectionResult{{LineItemID: 1, Status: models.StatusGreen}},
	}
}

func orderIDs(items []models.Submission) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.OrderID)
	}
	return out
}

func TestFlush_FIFO(t *testing.T) {
	store := &memStore{}
	up := &recordingUploader{}
	e := NewEngine(store, network.NewStaticMonitor(false), up, logging.Discard())
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, e.Enqueue(ctx, order(i)))
	}
	require.Equal(t, 5, e.State().Pending)

	require.NoError(t, e.Flush(ctx))

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, up.called())
	assert.Empty(t, store.snapshot())
	assert.Equal(t, State{}, e.State())
}

func TestFlush_PartialFailureKeepsOrder(t *testing.T) {
	store := &memStore{}
	up := &recordingUploader{fail: map[int64]bool{2: true, 4: true}}
	e := NewEngine(store, network.NewStaticMonitor(false), up, logging.Discard())
	ctx := context.Background()

	for i := int64(1); i <= 4; i++ {
		require.NoError(t, e.Enqueue(ctx, order(i)))
	}

	require.NoError(t, e.Flush(ctx))

	assert.Equal(t, []int64{1, 2, 3, 4}, up.called())
	assert.Equal(t, []int64{2, 4}, orderIDs(store.snapshot()))
	assert.Equal(t, 2, e.State().Pending)
	assert.False(t, e.State().Syncing)
}

func TestFlush_EmptyQueueIsNoop(t *testing.T) {
	store := &memStore{}
	up := &recordingUploader{}
	e := NewEngine(store, network.NewStaticMonitor(true), up, logging.Discard())

	var sawSyncing atomic.Bool
	e.Subscribe(func(s State) {
		if s.Syncing {
			sawSyncing.Store(true)
		}
	})

	require.NoError(t, e.Flush(context.Background()))
	require.NoError(t, e.Flush(context.Background()))

	assert.False(t, sawSyncing.Load())
	assert.Zero(t, store.writes)
	assert.Empty(t, up.called())
}

func TestFlush_AtMostOneInFlight(t *testing.T) {
	store := &memStore{}
	release := make(chan struct{})
	var calls atomic.Int32
	up := UploaderFunc(func(ctx context.Context, s models.Submission) error {
		calls.Add(1)
		<-release
		return nil
	})
	e := NewEngine(store, network.NewStaticMonitor(false), up, logging.Discard())
	ctx := context.Background()
	require.NoError(t, e.Enqueue(ctx, order(1)))

	done := make(chan error, 1)
	go func() { done <- e.Flush(ctx) }()

	require.Eventually(t, func() bool { return e.State().Syncing }, time.Second, time.Millisecond)

	// The second call must return without touching the uploader.
	require.NoError(t, e.Flush(ctx))
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, e.State().Pending)
}

func TestConnectivityTransitionTriggersFlush(t *testing.T) {
	store := &memStore{}
	up := &recordingUploader{}
	mon := network.NewStaticMonitor(false)
	e := NewEngine(store, mon, up, logging.Discard())
	ctx := context.Background()
	require.NoError(t, e.Start(ctx))
	t.Cleanup(e.Stop)

	require.NoError(t, e.Enqueue(ctx, order(1)))
	require.NoError(t, e.Enqueue(ctx, order(2)))
	e.Wait()
	require.Empty(t, up.called())

	mon.Set(true)
	e.Wait()

	assert.Equal(t, []int64{1, 2}, up.called())
	assert.Equal(t, 0, e.State().Pending)
}

func TestStart_FlushesWhenAlreadyConnected(t *testing.T) {
	store := &memStore{items: []models.Submission{order(7), order(8)}}
	up := &recordingUploader{}
	e := NewEngine(store, network.NewStaticMonitor(true), up, logging.Discard())

	require.NoError(t, e.Start(context.Background()))
	e.Stop()

	assert.Equal(t, []int64{7, 8}, up.called())
	assert.Empty(t, store.snapshot())
}

func TestStart_LoadsPendingWhileOffline(t *testing.T) {
	store := &memStore{items: []models.Submission{order(7), order(8)}}
	e := NewEngine(store, network.NewStaticMonitor(false), &recordingUploader{}, logging.Discard())

	require.NoError(t, e.Start(context.Background()))
	t.Cleanup(e.Stop)
	assert.Equal(t, 2, e.State().Pending)
}

func TestEnqueueWhileConnectedDelivers(t *testing.T) {
	store := &memStore{}
	up := &recordingUploader{}
	e := NewEngine(store, network.NewStaticMonitor(true), up, logging.Discard())

	require.NoError(t, e.Enqueue(context.Background(), order(3)))
	e.Wait()

	assert.Equal(t, []int64{3}, up.called())
	assert.Equal(t, 0, e.State().Pending)
}

func TestEnqueueDuringFlushIsPickedUpAfterwards(t *testing.T) {
	store := &memStore{}
	first := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var calls []int64
	up := UploaderFunc(func(ctx context.Context, s models.Submission) error {
		mu.Lock()
		calls = append(calls, s.OrderID)
		mu.Unlock()
		if s.OrderID == 1 {
			close(first)
			<-release
		}
		return nil
	})
	e := NewEngine(store, network.NewStaticMonitor(true), up, logging.Discard())
	ctx := context.Background()

	require.NoError(t, e.Enqueue(ctx, order(1)))
	<-first

	require.NoError(t, e.Enqueue(ctx, order(2)))
	assert.Equal(t, 2, e.State().Pending)

	close(release)
	require.Eventually(t, func() bool {
		return e.State().Pending == 0 && !e.State().Syncing
	}, time.Second, time.Millisecond)
	e.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{1, 2}, calls)
	assert.Empty(t, store.snapshot())
}

func TestResume(t *testing.T) {
	store := &memStore{items: []models.Submission{order(1)}}
	up := &recordingUploader{}
	mon := network.NewStaticMonitor(false)
	e := NewEngine(store, mon, up, logging.Discard())
	ctx := context.Background()

	e.Resume(ctx)
	e.Wait()
	assert.Empty(t, up.called())

	mon.Set(true)
	e.Resume(ctx)
	e.Wait()
	assert.Equal(t, []int64{1}, up.called())
}

func TestFlush_StorageErrorAbortsPass(t *testing.T) {
	store := &memStore{items: []models.Submission{order(1)}, readErr: errors.New("permission denied")}
	up := &recordingUploader{}
	e := NewEngine(store, network.NewStaticMonitor(true), up, logging.Discard())

	err := e.Flush(context.Background())

	var se *queue.StorageError
	require.ErrorAs(t, err, &se)
	assert.Empty(t, up.called())
	assert.False(t, e.State().Syncing)
	assert.Error(t, e.State().Err)

	require.Error(t, e.Enqueue(context.Background(), order(2)))
}

func TestAlwaysFailingUploaderKeepsEverything(t *testing.T) {
	store := &memStore{}
	up := &recordingUploader{fail: map[int64]bool{1: true, 2: true}}
	e := NewEngine(store, network.NewStaticMonitor(false), up, logging.Discard())
	ctx := context.Background()

	require.NoError(t, e.Enqueue(ctx, order(1)))
	require.NoError(t, e.Enqueue(ctx, order(2)))

	require.NoError(t, e.Flush(ctx))

	assert.Equal(t, []int64{1, 2}, orderIDs(store.snapshot()))
	assert.Equal(t, State{Pending: 2}, e.State())
}

func TestOfflineSubmissionScenario(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "dvi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := metadata.NewSQLiteRepository(db)
	store := queue.NewKVStore(repo, logging.Discard())
	mon := network.NewStaticMonitor(false)

	var got []models.Submission
	var mu sync.Mutex
	up := UploaderFunc(func(ctx context.Context, s models.Submission) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s)
		return nil
	})

	e := NewEngine(store, mon, up, logging.Discard())
	require.NoError(t, e.Start(ctx))
	t.Cleanup(e.Stop)

	payload := models.Submission{
		OrderID:    501,
		MechanicID: 12,
		Items: []models.InspectionResult{
			{LineItemID: 1, Status: models.StatusRed, Reason: "worn pad"},
		},
	}
	require.NoError(t, e.Enqueue(ctx, payload))
	require.Equal(t, 1, e.State().Pending)

	mon.Set(true)
	e.Wait()

	mu.Lock()
	require.Len(t, got, 1)
	assert.Equal(t, payload, got[0])
	mu.Unlock()

	assert.Equal(t, 0, e.State().Pending)
	raw, err := repo.Get(ctx, metadata.KeyPendingInspections)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSubscribe_SeesSyncingTransitions(t *testing.T) {
	store := &memStore{}
	e := NewEngine(store, network.NewStaticMonitor(false), &recordingUploader{}, logging.Discard())
	ctx := context.Background()
	require.NoError(t, e.Enqueue(ctx, order(1)))

	var mu sync.Mutex
	var seen []State
	unsub := e.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	defer unsub()

	require.NoError(t, e.Flush(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{
		{Pending: 1},
		{Pending: 1, Syncing: true},
		{Pending: 0},
	}, seen)
}

func TestSubscribe_PendingNeverGoesBackwards(t *testing.T) {
	store := &memStore{}
	e := NewEngine(store, network.NewStaticMonitor(false), &recordingUploader{}, logging.Discard())
	ctx := context.Background()

	var mu sync.Mutex
	var seen []int
	unsub := e.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s.Pending)
		mu.Unlock()
	})
	defer unsub()

	const n = 50
	var wg sync.WaitGroup
	for i := int64(1); i <= n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, e.Enqueue(ctx, order(id)))
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1], "pending went from %d to %d", seen[i-1], seen[i])
	}
	assert.Equal(t, n, seen[len(seen)-1])
	assert.Equal(t, n, e.State().Pending)
}

func TestPendingMatchesQueueUnderConcurrentFlush(t *testing.T) {
	store := &memStore{}
	mon := network.NewStaticMonitor(false)
	var uploads atomic.Int64
	up := UploaderFunc(func(ctx context.Context, s models.Submission) error {
		if uploads.Add(1)%3 == 0 {
			return errors.New("503 service unavailable")
		}
		return nil
	})
	e := NewEngine(store, mon, up, logging.Discard())
	ctx := context.Background()

	for round := 0; round < 20; round++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				assert.NoError(t, e.Enqueue(ctx, order(int64(round*10+i))))
			}
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, e.Flush(ctx))
		}()
		wg.Wait()
		e.Wait()

		assert.Equal(t, len(store.snapshot()), e.State().Pending, "round %d", round)
	}
}

func TestEnqueueDuringFlushIsUploadedOnceInLaterPass(t *testing.T) {
	store := &memStore{}
	first := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var calls []int64
	var queuedAtSecond []int64
	up := UploaderFunc(func(ctx context.Context, s models.Submission) error {
		mu.Lock()
		calls = append(calls, s.OrderID)
		if s.OrderID == 2 {
			queuedAtSecond = orderIDs(store.snapshot())
		}
		mu.Unlock()
		if s.OrderID == 1 {
			close(first)
			<-release
		}
		return nil
	})
	e := NewEngine(store, network.NewStaticMonitor(true), up, logging.Discard())
	ctx := context.Background()

	require.NoError(t, e.Enqueue(ctx, order(1)))
	<-first
	require.NoError(t, e.Enqueue(ctx, order(2)))

	close(release)
	require.Eventually(t, func() bool {
		return e.State().Pending == 0 && !e.State().Syncing
	}, time.Second, time.Millisecond)
	e.Wait()

	// A later Flush finds nothing to resend.
	require.NoError(t, e.Flush(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{1, 2}, calls)
	// The first pass has already rewritten the queue when order 2 goes out.
	assert.Equal(t, []int64{2}, queuedAtSecond)
	assert.Empty(t, store.snapshot())
}
