package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithApp(appName, companyName, appURL string) Option {
	return func(d *EmailData) {
		d.AppName = appName
		d.CompanyName = companyName
		d.AppURL = appURL
	}
}

// NewCelebrationData fills the celebration template fields, then applies opts.
func NewCelebrationData(name, recipient, projectID, projectTitle, headline, message string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		RecipientEmail: recipient,
		Type:           Celebration,
		ProjectID:      projectID,
		ProjectTitle:   projectTitle,
		Headline:       headline,
		Message:        message,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
