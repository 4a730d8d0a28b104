package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/domain/entity"
	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

// DecodeUsers turns raw documents into normalized users. Records without an
// id or with an unreadable shape are skipped.
func DecodeUsers(docs []repository.Document, logger *logrus.Logger) []entity.User {
	out := make([]entity.User, 0, len(docs))
	for i, doc := range docs {
		var u entity.User
		if err := doc.Decode(&u); err != nil || u.ID == "" {
			skipRecord(logger, repository.KindUsers, i, doc.ID(), err)
			continue
		}
		u.Normalize()
		out = append(out, u)
	}
	return out
}

// DecodeProjects turns raw documents into normalized projects.
func DecodeProjects(docs []repository.Document, logger *logrus.Logger) []entity.Project {
	out := make([]entity.Project, 0, len(docs))
	for i, doc := range docs {
		var p entity.Project
		if err := doc.Decode(&p); err != nil || p.ID == "" {
			skipRecord(logger, repository.KindProjects, i, doc.ID(), err)
			continue
		}
		p.Normalize()
		out = append(out, p)
	}
	return out
}

func skipRecord(logger *logrus.Logger, kind repository.Kind, index int, id string, err error) {
	if logger == nil {
		return
	}
	entry := logger.WithFields(logrus.Fields{"kind": kind, "index": index, "id": id})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn("skipping unreadable record")
}

// Load replaces the store contents with the backend's records, upgrading
// older shapes on the way in. A kind that fails to load is left empty and its
// error is returned joined with the others; what did load stays usable.
func (s *Store) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	var errs []error

	userDocs, err := s.backend.LoadAll(ctx, repository.KindUsers)
	if err != nil {
		errs = append(errs, fmt.Errorf("load users: %w", err))
	}
	projectDocs, err := s.backend.LoadAll(ctx, repository.KindProjects)
	if err != nil {
		errs = append(errs, fmt.Errorf("load projects: %w", err))
	}
	users := DecodeUsers(userDocs, s.logger)
	projects := DecodeProjects(projectDocs, s.logger)

	s.mu.Lock()
	s.users = make(map[string]entity.User, len(users))
	s.userOrder = s.userOrder[:0]
	for _, u := range users {
		if _, dup := s.users[u.ID]; !dup {
			s.userOrder = append(s.userOrder, u.ID)
		}
		s.users[u.ID] = u
	}
	s.projects = make(map[string]entity.Project, len(projects))
	s.projectOrder = s.projectOrder[:0]
	for _, p := range projects {
		if _, dup := s.projects[p.ID]; !dup {
			s.projectOrder = append(s.projectOrder, p.ID)
		}
		s.projects[p.ID] = p
	}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"users": len(users), "projects": len(projects)}).Info("store loaded")
	}
	return errors.Join(errs...)
}
