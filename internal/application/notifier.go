package application

import (
	"context"
	"fmt"
	"time"
)

const (
	CelebrationTitle     = "Congratulations!"
	celebrationMessageFn = "You have been accepted into project '%s'!"

	// CelebrationEventType tags celebration messages on the queue.
	CelebrationEventType = "celebration.accepted"
)

// CelebrationMessage is the text shown when userID is accepted into a project.
func CelebrationMessage(projectTitle string) string {
	return fmt.Sprintf(celebrationMessageFn, projectTitle)
}

// Celebration is one acceptance notification for one user and project.
type Celebration struct {
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email,omitempty"`
	ProjectID    string    `json:"projectId"`
	ProjectTitle string    `json:"projectTitle"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	At           time.Time `json:"at"`
}

// Notifier delivers a celebration somewhere the user will see it.
type Notifier interface {
	Notify(ctx context.Context, c Celebration) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, c Celebration) error

func (f NotifierFunc) Notify(ctx context.Context, c Celebration) error { return f(ctx, c) }

// ToastNotifier shows celebrations on the in-app toast board.
type ToastNotifier struct {
	Board *ToastBoard
}

func (n ToastNotifier) Notify(_ context.Context, c Celebration) error {
	if n.Board == nil {
		return nil
	}
	n.Board.Push(c.UserID, ToastCelebration, c.Title, c.Message, c.ProjectID)
	return nil
}

// Publisher is the part of helpers.RabbitPublisher the event notifier needs.
type Publisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// EventNotifier publishes celebrations to the message queue for the mail worker.
type EventNotifier struct {
	Pub     Publisher
	Timeout time.Duration
}

func (n EventNotifier) Notify(ctx context.Context, c Celebration) error {
	if n.Pub == nil {
		return nil
	}
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return n.Pub.PublishJSON(pctx, CelebrationEventType, c)
}
