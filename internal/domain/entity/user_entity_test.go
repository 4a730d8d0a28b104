package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, ok := NewUser("u1", "  Alice ")
	require.True(t, ok)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "", u.Description)
	assert.Equal(t, []string{}, u.CelebratedProjects)

	_, ok = NewUser("u2", " \t ")
	assert.False(t, ok)
}

func TestUser_WithProfile(t *testing.T) {
	u, _ := NewUser("u1", "Alice")
	u.CelebratedProjects = []string{"p1"}

	updated, ok := u.WithProfile(" Alice B ", " builds things ")
	require.True(t, ok)
	assert.Equal(t, "u1", updated.ID)
	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, "builds things", updated.Description)
	assert.Equal(t, []string{"p1"}, updated.CelebratedProjects)

	_, ok = u.WithProfile("", "x")
	assert.False(t, ok)
}

func TestUser_WithCelebrated(t *testing.T) {
	u, _ := NewUser("u1", "Alice")

	u2, changed := u.WithCelebrated("p1", "p2", "p1")
	require.True(t, changed)
	assert.Equal(t, []string{"p1", "p2"}, u2.CelebratedProjects)
	assert.Empty(t, u.CelebratedProjects, "receiver must not be mutated")

	_, changed = u2.WithCelebrated("p2")
	assert.False(t, changed)
	assert.True(t, u2.HasCelebrated("p1"))
	assert.False(t, u2.HasCelebrated("p3"))
}

func TestUser_Normalize(t *testing.T) {
	u := User{ID: "legacy", Name: "Old"}
	u.Normalize()
	assert.Equal(t, []string{}, u.CelebratedProjects)
}
