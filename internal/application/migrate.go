package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

// MigrateStats counts the records copied per kind.
type MigrateStats struct {
	Users    int
	Projects int
}

// MigrateRecords copies every record from src to dst, normalizing older
// shapes on the way. Existing records in dst with the same id are replaced.
func MigrateRecords(ctx context.Context, src, dst repository.RecordStore, logger *logrus.Logger) (MigrateStats, error) {
	var stats MigrateStats

	userDocs, err := src.LoadAll(ctx, repository.KindUsers)
	if err != nil {
		return stats, fmt.Errorf("load users: %w", err)
	}
	for _, u := range DecodeUsers(userDocs, logger) {
		doc, err := repository.ToDocument(u)
		if err != nil {
			return stats, err
		}
		if err := dst.PutOne(ctx, repository.KindUsers, doc); err != nil {
			return stats, fmt.Errorf("put user %s: %w", u.ID, err)
		}
		stats.Users++
	}

	projectDocs, err := src.LoadAll(ctx, repository.KindProjects)
	if err != nil {
		return stats, fmt.Errorf("load projects: %w", err)
	}
	for _, p := range DecodeProjects(projectDocs, logger) {
		doc, err := repository.ToDocument(p)
		if err != nil {
			return stats, err
		}
		if err := dst.PutOne(ctx, repository.KindProjects, doc); err != nil {
			return stats, fmt.Errorf("put project %s: %w", p.ID, err)
		}
		stats.Projects++
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{"users": stats.Users, "projects": stats.Projects}).Info("records migrated")
	}
	return stats, nil
}
