package mailer

// EmailJob is a rendered or template-backed email ready to be sent.
// Html is optional; Text is recommended as fallback.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "celebration"
	Data     map[string]any `json:"data,omitempty"`
}
