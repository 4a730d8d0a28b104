package application

import (
	"github.com/oksasatya/teambuilder/internal/domain/entity"
)

// SeedTemplates creates authorName (or reuses the first user with that name)
// and publishes every built-in template the author does not have yet.
func SeedTemplates(store *Store, authorName string) (entity.User, []entity.Project, error) {
	var author entity.User
	found := false
	for _, u := range store.Users() {
		if u.Name == authorName {
			author, found = u, true
			break
		}
	}
	if !found {
		var ok bool
		author, ok = store.CreateUser(authorName)
		if !ok {
			return entity.User{}, nil, ErrInvalidInput
		}
	}

	have := make(map[string]bool)
	for _, p := range store.Projects() {
		if p.AuthorID == author.ID {
			have[p.Title] = true
		}
	}
	created := make([]entity.Project, 0, len(entity.ProjectTemplates))
	for _, t := range entity.ProjectTemplates {
		if have[t.Title] {
			continue
		}
		if p, ok := store.CreateProject(author.ID, t.Title, t.Description); ok {
			created = append(created, p)
		}
	}
	return author, created, nil
}
