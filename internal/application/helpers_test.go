package application

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/teambuilder/internal/infrastructure/memory"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

type fixture struct {
	backend *memory.RecordStore
	store   *Store
	svc     *Service
	toasts  *ToastBoard
	clock   *fakeClock
	logs    *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, memory.NewRecordStore())
}

func newFixtureWith(t *testing.T, backend *memory.RecordStore) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clock := newFakeClock()
	store := NewStore(backend,
		WithLogger(logger),
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs("id-")),
	)
	t.Cleanup(store.Close)
	toasts := NewToastBoard(DefaultToastTTL)
	toasts.now = clock.Now
	sessions := NewSessionRegistry(DefaultSessionTTL)
	sessions.now = clock.Now
	svc := NewService(store, toasts, sessions, nil, logger)
	return &fixture{backend: backend, store: store, svc: svc, toasts: toasts, clock: clock, logs: hook}
}
