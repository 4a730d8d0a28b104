package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_ExactlyOncePerRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")
	f.store.Apply(p.ID, alice.ID)
	f.store.Accept(p.ID, alice.ID)

	_, sess, err := f.svc.SelectUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, f.toasts.List(alice.ID), 1)

	for i := 0; i < 3; i++ {
		assert.Empty(t, f.svc.Detector.Scan(ctx, sess))
	}
	// repeated accept touches nothing and celebrates nothing
	f.store.Accept(p.ID, alice.ID)
	assert.Len(t, f.toasts.List(alice.ID), 1)
}

func TestDetector_NoneAfterReload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")
	f.store.Apply(p.ID, alice.ID)
	f.store.Accept(p.ID, alice.ID)
	_, _, err := f.svc.SelectUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, f.toasts.List(alice.ID), 1)
	f.store.Wait()

	next := newFixtureWith(t, f.backend)
	require.NoError(t, next.store.Load(ctx))
	_, sess, err := next.svc.SelectUser(ctx, alice.ID)
	require.NoError(t, err)

	assert.Empty(t, next.svc.Detector.Scan(ctx, sess))
	assert.Empty(t, next.toasts.List(alice.ID))
}

func TestDetector_ReemitsWhenWriteWasLost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")
	f.store.Apply(p.ID, alice.ID)
	f.store.Accept(p.ID, alice.ID)
	f.store.Wait()

	f.backend.SetFailWrites(assert.AnError)
	_, _, err := f.svc.SelectUser(ctx, alice.ID)
	require.NoError(t, err)
	f.store.Wait()

	messages := []string{}
	for _, toast := range f.toasts.List(alice.ID) {
		messages = append(messages, toast.Message)
	}
	assert.ElementsMatch(t, []string{
		"You have been accepted into project 'Garage'!",
		"failed to save celebration, try again",
	}, messages)

	f.backend.SetFailWrites(nil)
	next := newFixtureWith(t, f.backend)
	require.NoError(t, next.store.Load(ctx))
	_, _, err = next.svc.SelectUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, next.toasts.List(alice.ID), 1)
}

func TestDetector_BatchesSeveralAcceptances(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p1, _ := f.store.CreateProject(bob.ID, "Garage", "")
	p2, _ := f.store.CreateProject(bob.ID, "Guides", "")
	for _, p := range []string{p1.ID, p2.ID} {
		f.store.Apply(p, alice.ID)
		f.store.Accept(p, alice.ID)
	}
	f.store.Wait()
	writes := f.backend.Writes()

	_, _, err := f.svc.SelectUser(ctx, alice.ID)
	require.NoError(t, err)
	f.store.Wait()

	assert.Len(t, f.toasts.List(alice.ID), 2)
	assert.Equal(t, writes+1, f.backend.Writes())
	u, _ := f.store.FindUser(alice.ID)
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, u.CelebratedProjects)
}

func TestDetector_RejectedIsNotCelebrated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")
	_, sess, _ := f.svc.SelectUser(ctx, alice.ID)
	f.store.Apply(p.ID, alice.ID)
	f.store.Reject(p.ID, alice.ID)

	assert.Empty(t, f.svc.Detector.Scan(ctx, sess))
	assert.Empty(t, f.toasts.List(alice.ID))
}

func TestDetector_ConcurrentSessionsEmitOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")
	f.store.Apply(p.ID, alice.ID)
	f.store.Accept(p.ID, alice.ID)

	sessions := []*Session{f.svc.Sessions.Start(alice.ID), f.svc.Sessions.Start(alice.ID), f.svc.Sessions.Start(alice.ID)}

	var wg sync.WaitGroup
	for _, sess := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			f.svc.Detector.Scan(ctx, s)
		}(sess)
	}
	wg.Wait()

	assert.Len(t, f.toasts.List(alice.ID), 1)
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []Celebration
}

func (r *recordingNotifier) Notify(_ context.Context, c Celebration) error {
	r.mu.Lock()
	r.got = append(r.got, c)
	r.mu.Unlock()
	return assert.AnError
}

func TestDetector_ExtraNotifiers(t *testing.T) {
	f := newFixture(t)
	rec := &recordingNotifier{}
	f.svc.Detector.Notifiers = append(f.svc.Detector.Notifiers, rec)

	alice, _ := f.store.CreateUser("Alice")
	f.store.SetUserEmail(alice.ID, "alice@example.com")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")
	f.svc.Sessions.Start(alice.ID)
	f.store.Apply(p.ID, alice.ID)
	f.store.Accept(p.ID, alice.ID)

	require.Len(t, rec.got, 1)
	c := rec.got[0]
	assert.Equal(t, alice.ID, c.UserID)
	assert.Equal(t, "Alice", c.UserName)
	assert.Equal(t, "alice@example.com", c.Email)
	assert.Equal(t, "Garage", c.ProjectTitle)
	// a failing notifier does not block the toast
	assert.Len(t, f.toasts.List(alice.ID), 1)
}
