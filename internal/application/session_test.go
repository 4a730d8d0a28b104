package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry(DefaultSessionTTL)
	a1 := r.Start("alice")
	a2 := r.Start("alice")
	b := r.Start("bob")

	assert.NotEqual(t, a1.ID, a2.ID)
	assert.Equal(t, 3, r.Len())
	assert.Len(t, r.ForUser("alice"), 2)

	got, ok := r.Get(b.ID)
	require.True(t, ok)
	assert.Same(t, b, got)

	r.End(a1.ID)
	r.End("unknown")
	assert.Len(t, r.ForUser("alice"), 1)
	_, ok = r.Get(a1.ID)
	assert.False(t, ok)

	r.End(a2.ID)
	assert.Empty(t, r.ForUser("alice"))
	assert.Len(t, r.All(), 1)
}

func TestSession_Claim(t *testing.T) {
	r := NewSessionRegistry(DefaultSessionTTL)
	s := r.Start("alice")

	assert.Equal(t, []string{"p1", "p2"}, s.claim([]string{"p1", "p2"}))
	assert.Equal(t, []string{"p3"}, s.claim([]string{"p2", "p3", "p1"}))
	assert.Empty(t, s.claim([]string{"p1"}))
	assert.True(t, s.Shown("p3"))
	assert.False(t, s.Shown("p4"))
}

func TestSessionRegistry_ExpiresLazily(t *testing.T) {
	clock := newFakeClock()
	r := NewSessionRegistry(time.Hour)
	r.now = clock.Now

	old := r.Start("alice")
	assert.Equal(t, old.CreatedAt.Add(time.Hour), old.ExpiresAt)

	clock.Advance(30 * time.Minute)
	fresh := r.Start("alice")
	r.Start("bob")
	assert.Equal(t, 3, r.Len())

	clock.Advance(30 * time.Minute)
	_, ok := r.Get(old.ID)
	assert.False(t, ok)
	got := r.ForUser("alice")
	require.Len(t, got, 1)
	assert.Same(t, fresh, got[0])
	assert.Len(t, r.All(), 2)

	clock.Advance(time.Hour)
	assert.Empty(t, r.All())
	assert.Empty(t, r.ForUser("bob"))
	assert.Equal(t, 0, r.Len())
}

func TestSessionRegistry_DefaultTTL(t *testing.T) {
	r := NewSessionRegistry(0)
	s := r.Start("alice")
	assert.Equal(t, s.CreatedAt.Add(DefaultSessionTTL), s.ExpiresAt)
}

func TestService_ExpiredSessionsAreNotScanned(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	bob, _ := f.store.CreateUser("Bob")
	p, _ := f.store.CreateProject(bob.ID, "Garage", "")

	for i := 0; i < 50; i++ {
		f.svc.Sessions.Start(alice.ID)
	}
	sess := f.svc.Sessions.Start(alice.ID)
	_, err := f.svc.Session(sess.ID)
	require.NoError(t, err)

	f.clock.Advance(DefaultSessionTTL)

	_, err = f.svc.Session(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	f.store.Apply(p.ID, alice.ID)
	f.store.Accept(p.ID, alice.ID)
	assert.Equal(t, 0, f.svc.Sessions.Len())
	assert.Empty(t, f.toasts.List(alice.ID))
	assert.False(t, sess.Shown(p.ID))

	u, _ := f.store.FindUser(alice.ID)
	assert.Empty(t, u.CelebratedProjects)
}
