package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/pkg/mailer"
	mailtpl "github.com/oksasatya/teambuilder/pkg/mailer/templates"
)

// ErrBadMessage marks a queue message that can never be processed.
var ErrBadMessage = errors.New("bad celebration message")

// CelebrationMailer turns queued celebration events into e-mails.
type CelebrationMailer struct {
	Sender      mailer.Sender
	AppName     string
	CompanyName string
	AppURL      string
	Logger      *logrus.Logger
}

// Build renders the e-mail for c. ok is false when the user has no address.
func (m *CelebrationMailer) Build(c Celebration) (mailer.EmailJob, bool, error) {
	to := strings.TrimSpace(c.Email)
	if to == "" {
		return mailer.EmailJob{}, false, nil
	}
	data := mailtpl.NewCelebrationData(c.UserName, to, c.ProjectID, c.ProjectTitle, c.Title, c.Message,
		mailtpl.WithApp(m.AppName, m.CompanyName, m.AppURL),
		mailtpl.WithTime(c.At),
	)
	subject, text, html, err := mailtpl.Render(mailtpl.Celebration, data)
	if err != nil {
		return mailer.EmailJob{}, false, err
	}
	return mailer.EmailJob{To: to, Subject: subject, Text: text, HTML: html, Template: mailtpl.Celebration, Data: data}, true, nil
}

// Handle processes one message body. ErrBadMessage means drop the message;
// any other error means retry later.
func (m *CelebrationMailer) Handle(ctx context.Context, body []byte) error {
	var c Celebration
	if err := json.Unmarshal(body, &c); err != nil {
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if c.UserID == "" || c.ProjectID == "" {
		return fmt.Errorf("%w: missing user or project", ErrBadMessage)
	}
	job, ok, err := m.Build(c)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if !ok {
		if m.Logger != nil {
			m.Logger.WithField("user_id", c.UserID).Debug("no email on file, skipping celebration mail")
		}
		return nil
	}
	sctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := m.Sender.Send(sctx, job.To, job.Subject, job.Text, job.HTML); err != nil {
		return err
	}
	if m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{"user_id": c.UserID, "project_id": c.ProjectID}).Info("celebration mail sent")
	}
	return nil
}
