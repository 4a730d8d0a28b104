package application

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one active-user selection. Its shown set records the
// celebrations already emitted during this run.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu    sync.Mutex
	shown map[string]struct{}
}

func (s *Session) expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// claim adds the ids not yet shown to the set and returns them.
func (s *Session) claim(projectIDs []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(projectIDs))
	for _, id := range projectIDs {
		if _, seen := s.shown[id]; seen {
			continue
		}
		s.shown[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Shown reports whether projectID was already celebrated in this session.
func (s *Session) Shown(projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.shown[projectID]
	return ok
}

// DefaultSessionTTL matches the default access token lifetime.
const DefaultSessionTTL = 24 * time.Hour

// SessionRegistry tracks live sessions by id and by user. Expired sessions
// are dropped lazily on read.
type SessionRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	byUser   map[string]map[string]*Session
	now      func() time.Time
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRegistry{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		byUser:   make(map[string]map[string]*Session),
		now:      time.Now,
	}
}

// Start opens a new session for userID.
func (r *SessionRegistry) Start(userID string) *Session {
	now := r.now()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
		shown:     make(map[string]struct{}),
	}
	r.mu.Lock()
	r.sessions[sess.ID] = sess
	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[string]*Session)
	}
	r.byUser[userID][sess.ID] = sess
	r.mu.Unlock()
	return sess
}

func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if sess.expired(r.now()) {
		r.remove(sess)
		return nil, false
	}
	return sess, true
}

// End forgets the session. Unknown ids are ignored.
func (r *SessionRegistry) End(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		r.remove(sess)
	}
}

func (r *SessionRegistry) ForUser(userID string) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	out := make([]*Session, 0, len(r.byUser[userID]))
	for _, sess := range r.byUser[userID] {
		if sess.expired(now) {
			r.remove(sess)
			continue
		}
		out = append(out, sess)
	}
	return out
}

func (r *SessionRegistry) All() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune(r.now())
	out := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}

// Len counts live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune(r.now())
	return len(r.sessions)
}

// prune and remove must be called with r.mu held.
func (r *SessionRegistry) prune(now time.Time) {
	for _, sess := range r.sessions {
		if sess.expired(now) {
			r.remove(sess)
		}
	}
}

func (r *SessionRegistry) remove(sess *Session) {
	delete(r.sessions, sess.ID)
	if m := r.byUser[sess.UserID]; m != nil {
		delete(m, sess.ID)
		if len(m) == 0 {
			delete(r.byUser, sess.UserID)
		}
	}
}
