package application

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type ToastKind string

const (
	ToastCelebration ToastKind = "celebration"
	ToastError       ToastKind = "error"
)

// DefaultToastTTL is how long a toast stays visible unless dismissed.
const DefaultToastTTL = 5 * time.Second

// Toast is a transient per-user notification.
type Toast struct {
	ID        string    `json:"id"`
	Kind      ToastKind `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ProjectID string    `json:"projectId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ToastBoard keeps toasts per user. Expired toasts are dropped lazily on read.
type ToastBoard struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	toasts map[string][]Toast
}

func NewToastBoard(ttl time.Duration) *ToastBoard {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &ToastBoard{ttl: ttl, now: time.Now, toasts: make(map[string][]Toast)}
}

// Push adds a toast for userID and returns it.
func (b *ToastBoard) Push(userID string, kind ToastKind, title, message, projectID string) Toast {
	now := b.now()
	t := Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		ProjectID: projectID,
		CreatedAt: now,
		ExpiresAt: now.Add(b.ttl),
	}
	b.mu.Lock()
	b.toasts[userID] = append(b.prune(userID, now), t)
	b.mu.Unlock()
	return t
}

// List returns the live toasts of userID, oldest first.
func (b *ToastBoard) List(userID string) []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	live := b.prune(userID, b.now())
	if len(live) == 0 {
		delete(b.toasts, userID)
		return []Toast{}
	}
	b.toasts[userID] = live
	out := make([]Toast, len(live))
	copy(out, live)
	return out
}

// Dismiss removes one toast. It reports whether the toast was live.
func (b *ToastBoard) Dismiss(userID, toastID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	live := b.prune(userID, b.now())
	for i, t := range live {
		if t.ID == toastID {
			b.toasts[userID] = append(live[:i:i], live[i+1:]...)
			return true
		}
	}
	b.toasts[userID] = live
	return false
}

// prune must be called with b.mu held.
func (b *ToastBoard) prune(userID string, now time.Time) []Toast {
	cur := b.toasts[userID]
	live := make([]Toast, 0, len(cur))
	for _, t := range cur {
		if now.Before(t.ExpiresAt) {
			live = append(live, t)
		}
	}
	return live
}
