package entity

import (
	"slices"
	"strings"
)

// User is a marketplace member. Users are never deleted.
//
// CelebratedProjects holds the ids of projects whose acceptance
// notification was already shown and recorded; it only ever grows.
type User struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Email              string   `json:"email,omitempty"`
	CelebratedProjects []string `json:"celebratedProjects"`
}

// NewUser builds a fresh user. ok is false when name is blank after trimming.
func NewUser(id, name string) (u User, ok bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, false
	}
	return User{
		ID:                 id,
		Name:               name,
		Description:        "",
		CelebratedProjects: []string{},
	}, true
}

// WithProfile returns a copy with name and description replaced.
// id and celebrated projects are preserved.
func (u User) WithProfile(name, description string) (User, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return u, false
	}
	out := u.Clone()
	out.Name = name
	out.Description = strings.TrimSpace(description)
	return out, true
}

// WithEmail returns a copy carrying the given contact address.
func (u User) WithEmail(email string) User {
	out := u.Clone()
	out.Email = strings.TrimSpace(email)
	return out
}

func (u User) HasCelebrated(projectID string) bool {
	return slices.Contains(u.CelebratedProjects, projectID)
}

// WithCelebrated appends project ids that are not yet recorded. The bool
// reports whether anything was added.
func (u User) WithCelebrated(projectIDs ...string) (User, bool) {
	out := u.Clone()
	changed := false
	for _, id := range projectIDs {
		if id == "" || out.HasCelebrated(id) {
			continue
		}
		out.CelebratedProjects = append(out.CelebratedProjects, id)
		changed = true
	}
	return out, changed
}

// Normalize upgrades records written before celebratedProjects existed.
func (u *User) Normalize() {
	if u.CelebratedProjects == nil {
		u.CelebratedProjects = []string{}
	}
}

func (u User) Clone() User {
	out := u
	out.CelebratedProjects = cloneIDs(u.CelebratedProjects)
	return out
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
