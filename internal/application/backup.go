package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/domain/entity"
)

// Snapshot is the full marketplace state written by a backup.
type Snapshot struct {
	TakenAt  time.Time        `json:"takenAt"`
	Users    []entity.User    `json:"users"`
	Projects []entity.Project `json:"projects"`
}

// UploadFunc stores r at objectPath and returns its location.
type UploadFunc func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)

// Backup writes JSON snapshots of the store through Upload.
type Backup struct {
	Store  *Store
	Upload UploadFunc
	Prefix string
	Logger *logrus.Logger
	Now    func() time.Time
}

func (b *Backup) Snapshot() Snapshot {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	users, projects := b.Store.Snapshot()
	return Snapshot{TakenAt: now().UTC(), Users: users, Projects: projects}
}

// Run uploads one snapshot and returns where it went.
func (b *Backup) Run(ctx context.Context) (string, error) {
	if b.Upload == nil {
		return "", errors.New("backup storage not configured")
	}
	snap := b.Snapshot()
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("snapshot-%s.json", snap.TakenAt.Format("20060102T150405Z"))
	objectPath := path.Join(b.Prefix, name)

	c, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	loc, err := b.Upload(c, objectPath, "application/json", bytes.NewReader(body))
	if err != nil {
		if b.Logger != nil {
			b.Logger.WithError(err).WithField("object", objectPath).Error("backup upload failed")
		}
		return "", err
	}
	if b.Logger != nil {
		b.Logger.WithFields(logrus.Fields{
			"location": loc,
			"users":    len(snap.Users),
			"projects": len(snap.Projects),
		}).Info("backup written")
	}
	return loc, nil
}

// Schedule runs the backup on the given cron spec (standard five fields or
// descriptors such as @daily). The returned cron is already started.
func (b *Backup) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		_, _ = b.Run(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
