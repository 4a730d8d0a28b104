package application

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
	"github.com/oksasatya/teambuilder/pkg/metrics"
)

// Detector emits one celebration per (user, project) acceptance. A project
// is celebrated when the user is in its acceptedUsers and the id is in
// neither the user's celebratedProjects nor the session's shown set.
type Detector struct {
	Store     *Store
	Sessions  *SessionRegistry
	Notifiers []Notifier
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// HandleChange is the store hook: a project change rescans every session,
// a user change rescans that user's sessions.
func (d *Detector) HandleChange(ev ChangeEvent) {
	ctx := context.Background()
	switch ev.Kind {
	case repository.KindProjects:
		for _, sess := range d.Sessions.All() {
			d.Scan(ctx, sess)
		}
	case repository.KindUsers:
		for _, sess := range d.Sessions.ForUser(ev.ID) {
			d.Scan(ctx, sess)
		}
	}
}

// Scan runs detection for one session and returns what it emitted.
func (d *Detector) Scan(ctx context.Context, sess *Session) []Celebration {
	if sess == nil {
		return nil
	}
	user, ok := d.Store.FindUser(sess.UserID)
	if !ok {
		return nil
	}

	titles := make(map[string]string)
	candidates := make([]string, 0)
	for _, p := range d.Store.Projects() {
		if !slices.Contains(p.AcceptedUsers, user.ID) || user.HasCelebrated(p.ID) {
			continue
		}
		titles[p.ID] = p.Title
		candidates = append(candidates, p.ID)
	}
	if len(candidates) == 0 {
		return nil
	}

	// session set first, synchronously, so re-entrant scans see it
	fresh := sess.claim(candidates)
	if len(fresh) == 0 {
		return nil
	}
	// the in-memory celebrated set is the cross-session guard; only ids
	// this call added are emitted, and the durable append is one batch
	claimed := d.Store.MarkCelebrated(user.ID, fresh...)
	if len(claimed) == 0 {
		return nil
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	out := make([]Celebration, 0, len(claimed))
	for _, id := range claimed {
		c := Celebration{
			SessionID:    sess.ID,
			UserID:       user.ID,
			UserName:     user.Name,
			Email:        user.Email,
			ProjectID:    id,
			ProjectTitle: titles[id],
			Title:        CelebrationTitle,
			Message:      CelebrationMessage(titles[id]),
			At:           now().UTC(),
		}
		d.notify(ctx, c)
		out = append(out, c)
	}
	d.Metrics.Celebrated(len(out))
	return out
}

func (d *Detector) notify(ctx context.Context, c Celebration) {
	for _, n := range d.Notifiers {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, c); err != nil && d.Logger != nil {
			d.Logger.WithError(err).WithFields(logrus.Fields{
				"user_id":    c.UserID,
				"project_id": c.ProjectID,
			}).Warn("celebration notify failed")
		}
	}
}
