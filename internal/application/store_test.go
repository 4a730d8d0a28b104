package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/teambuilder/internal/domain/entity"
	"github.com/oksasatya/teambuilder/internal/domain/repository"
	"github.com/oksasatya/teambuilder/internal/infrastructure/memory"
)

func TestStore_GarageScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, aliceSess, err := f.svc.Register(ctx, RegisterInput{Name: "Alice"})
	require.NoError(t, err)
	bob, _, err := f.svc.Register(ctx, RegisterInput{Name: "Bob"})
	require.NoError(t, err)

	garage, ok := f.store.CreateProject(bob.ID, "Garage", "workshop rental")
	require.True(t, ok)

	_, changed := f.store.Apply(garage.ID, alice.ID)
	require.True(t, changed)
	p, changed := f.store.Accept(garage.ID, alice.ID)
	require.True(t, changed)

	assert.Empty(t, p.Applications)
	assert.Equal(t, []string{alice.ID}, p.AcceptedUsers)
	assert.Empty(t, p.RejectedUsers)

	toasts := f.toasts.List(alice.ID)
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastCelebration, toasts[0].Kind)
	assert.Equal(t, "Congratulations!", toasts[0].Title)
	assert.Equal(t, "You have been accepted into project 'Garage'!", toasts[0].Message)
	assert.True(t, aliceSess.Shown(garage.ID))

	u, _ := f.store.FindUser(alice.ID)
	assert.Equal(t, []string{garage.ID}, u.CelebratedProjects)
	assert.Empty(t, f.toasts.List(bob.ID))
}

func TestStore_DoubleApply(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")

	_, first := f.store.Apply(p.ID, alice.ID)
	got, second := f.store.Apply(p.ID, alice.ID)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, []string{alice.ID}, got.Applications)
}

func TestStore_NoOps(t *testing.T) {
	f := newFixture(t)
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")

	t.Run("blank names and titles", func(t *testing.T) {
		_, ok := f.store.CreateUser("   ")
		assert.False(t, ok)
		_, ok = f.store.CreateProject(bob.ID, "  ", "x")
		assert.False(t, ok)
		_, ok = f.store.CreateProject("ghost", "Title", "x")
		assert.False(t, ok)
		_, ok = f.store.UpdateUserProfile(bob.ID, " ", "x")
		assert.False(t, ok)
	})

	t.Run("unknown ids", func(t *testing.T) {
		_, ok := f.store.Apply("nope", bob.ID)
		assert.False(t, ok)
		got, ok := f.store.Apply(p.ID, "ghost")
		assert.False(t, ok)
		assert.Empty(t, got.Applications)
		_, ok = f.store.Accept(p.ID, "ghost")
		assert.False(t, ok)
		_, ok = f.store.UpdateUserProfile("ghost", "Name", "")
		assert.False(t, ok)
	})

	t.Run("author cannot apply", func(t *testing.T) {
		_, ok := f.store.Apply(p.ID, bob.ID)
		assert.False(t, ok)
	})

	assert.Len(t, f.store.Users(), 1)
	assert.Len(t, f.store.Projects(), 1)
}

func TestStore_DuplicateNamesAllowed(t *testing.T) {
	f := newFixture(t)
	a, ok1 := f.store.CreateUser("Alice")
	b, ok2 := f.store.CreateUser(" Alice ")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Alice", b.Name)
}

func TestStore_UpdateProfileKeepsCelebrated(t *testing.T) {
	f := newFixture(t)
	u, _ := f.store.CreateUser("Alice")
	f.store.MarkCelebrated(u.ID, "p1")

	got, ok := f.store.UpdateUserProfile(u.ID, "  Alicia ", " builder ")
	require.True(t, ok)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "builder", got.Description)
	assert.Equal(t, []string{"p1"}, got.CelebratedProjects)
}

func TestStore_ReadsAreCopies(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")
	f.store.Apply(p.ID, alice.ID)

	got, _ := f.store.FindProject(p.ID)
	got.Applications[0] = "tampered"

	again, _ := f.store.FindProject(p.ID)
	assert.Equal(t, []string{alice.ID}, again.Applications)
}

func TestStore_ProjectsOrderedByCreatedAt(t *testing.T) {
	f := newFixture(t)
	bob, _ := f.store.CreateUser("Bob")

	first, _ := f.store.CreateProject(bob.ID, "First", "")
	f.clock.Advance(time.Second)
	second, _ := f.store.CreateProject(bob.ID, "Second", "")
	third, _ := f.store.CreateProject(bob.ID, "Third", "")

	ids := []string{}
	for _, p := range f.store.Projects() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, ids)
	assert.Equal(t, f.clock.Now().UnixMilli(), third.CreatedAt)
}

func TestStore_MirrorsWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "desc")
	f.store.Apply(p.ID, alice.ID)
	f.store.Reject(p.ID, alice.ID)
	f.store.Wait()

	docs, err := f.backend.LoadAll(ctx, repository.KindProjects)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	var stored entity.Project
	require.NoError(t, docs[0].Decode(&stored))
	want, _ := f.store.FindProject(p.ID)
	assert.Equal(t, want, stored)

	users, err := f.backend.LoadAll(ctx, repository.KindUsers)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 5, f.backend.Writes())
}

func TestStore_PersistFailureRaisesToast(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")
	f.store.Wait()

	f.backend.SetFailWrites(errors.New("disk full"))
	_, ok := f.store.Apply(p.ID, alice.ID)
	require.True(t, ok)
	f.store.Wait()

	// in-memory state is kept
	got, _ := f.store.FindProject(p.ID)
	assert.Equal(t, []string{alice.ID}, got.Applications)

	toasts := f.toasts.List(alice.ID)
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastError, toasts[0].Kind)
	assert.Equal(t, "failed to apply, try again", toasts[0].Message)
	assert.Empty(t, f.toasts.List(bob.ID))

	var logged bool
	for _, e := range f.logs.AllEntries() {
		if e.Message == "persist failed" && e.Data["op"] == "apply" {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestStore_ChangeHooksRunAfterUnlock(t *testing.T) {
	f := newFixture(t)
	var seen []ChangeEvent
	f.store.OnChange(func(ev ChangeEvent) {
		// reading inside a hook must not deadlock
		_ = f.store.Users()
		seen = append(seen, ev)
	})
	u, _ := f.store.CreateUser("Alice")
	f.store.CreateUser("")

	require.Len(t, seen, 1)
	assert.Equal(t, ChangeEvent{Kind: repository.KindUsers, ID: u.ID}, seen[0])
}

func TestStore_CloseDropsLaterWrites(t *testing.T) {
	f := newFixture(t)
	f.store.CreateUser("Alice")
	f.store.Close()
	f.store.CreateUser("Bob")

	assert.Equal(t, 1, f.backend.Writes())
	assert.Len(t, f.store.Users(), 2)
}

// gatedStore holds every write until release is closed.
type gatedStore struct {
	*memory.RecordStore
	release chan struct{}
}

func (g *gatedStore) PutOne(ctx context.Context, kind repository.Kind, doc repository.Document) error {
	<-g.release
	return g.RecordStore.PutOne(ctx, kind, doc)
}

func (g *gatedStore) PatchOne(ctx context.Context, kind repository.Kind, doc repository.Document) error {
	<-g.release
	return g.RecordStore.PatchOne(ctx, kind, doc)
}

func TestStore_SlowBackendDoesNotBlockMutations(t *testing.T) {
	backend := &gatedStore{RecordStore: memory.NewRecordStore(), release: make(chan struct{})}
	store := NewStore(backend, WithIDGenerator(sequentialIDs("u-")))
	t.Cleanup(store.Close)
	var once sync.Once
	open := func() { once.Do(func() { close(backend.release) }) }
	t.Cleanup(open)

	const n = 1000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			store.CreateUser(fmt.Sprintf("user %d", i))
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("mutations blocked behind the backend")
	}
	assert.Len(t, store.Users(), n)
	assert.Equal(t, 0, backend.Writes())
	assert.GreaterOrEqual(t, store.writer.pending(), n-1)

	open()
	store.Wait()
	assert.Equal(t, n, backend.Writes())
	assert.Equal(t, 0, store.writer.pending())

	docs, err := backend.LoadAll(context.Background(), repository.KindUsers)
	require.NoError(t, err)
	require.Len(t, docs, n)
	assert.Equal(t, "u-1", docs[0].ID())
	assert.Equal(t, fmt.Sprintf("u-%d", n), docs[n-1].ID())
}
