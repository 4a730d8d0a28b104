package application

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/domain/entity"
	"github.com/oksasatya/teambuilder/internal/domain/repository"
	"github.com/oksasatya/teambuilder/pkg/metrics"
)

// ChangeEvent names the record a committed mutation touched.
type ChangeEvent struct {
	Kind repository.Kind
	ID   string
}

// Store holds the authoritative users and projects. Every mutation commits a
// new value under the lock, queues a mirror write to the backend and then
// notifies change hooks with the lock released. Readers always get copies.
type Store struct {
	mu           sync.RWMutex
	users        map[string]entity.User
	userOrder    []string
	projects     map[string]entity.Project
	projectOrder []string

	backend repository.RecordStore
	writer  *writer
	logger  *logrus.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string

	hooksMu sync.RWMutex
	hooks   []func(ChangeEvent)
}

type StoreOption func(*Store)

func WithLogger(l *logrus.Logger) StoreOption    { return func(s *Store) { s.logger = l } }
func WithMetrics(m *metrics.Metrics) StoreOption { return func(s *Store) { s.metrics = m } }
func WithClock(now func() time.Time) StoreOption { return func(s *Store) { s.now = now } }
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// NewStore creates an empty store mirrored to backend. A nil backend keeps
// everything in memory only.
func NewStore(backend repository.RecordStore, opts ...StoreOption) *Store {
	s := &Store{
		users:    make(map[string]entity.User),
		projects: make(map[string]entity.Project),
		backend:  backend,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = newWriter(backend, s.logger, s.metrics)
	return s
}

// OnChange registers fn to run after every committed mutation.
func (s *Store) OnChange(fn func(ChangeEvent)) {
	s.hooksMu.Lock()
	s.hooks = append(s.hooks, fn)
	s.hooksMu.Unlock()
}

// OnPersistError registers the callback for failed mirror writes.
func (s *Store) OnPersistError(fn func(PersistFailure)) {
	s.writer.setOnFailure(fn)
}

func (s *Store) emit(ev ChangeEvent) {
	s.hooksMu.RLock()
	hooks := make([]func(ChangeEvent), len(s.hooks))
	copy(hooks, s.hooks)
	s.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(ev)
	}
}

// Wait blocks until all queued backend writes have been attempted.
func (s *Store) Wait() { s.writer.wait() }

// Close drains pending writes and stops the writer. The backend is left open.
func (s *Store) Close() { s.writer.close() }

func (s *Store) put(kind repository.Kind, v any, op, actorID string) {
	doc, err := repository.ToDocument(v)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("kind", kind).Error("encode record")
		}
		return
	}
	s.writer.enqueue(writeJob{Method: methodPut, Kind: kind, Doc: doc, Op: op, ActorID: actorID})
}

func (s *Store) patch(kind repository.Kind, doc repository.Document, op, actorID string) {
	s.writer.enqueue(writeJob{Method: methodPatch, Kind: kind, Doc: doc, Op: op, ActorID: actorID})
}

// CreateUser registers a user. ok is false when name is blank.
func (s *Store) CreateUser(name string) (entity.User, bool) {
	u, ok := entity.NewUser(s.newID(), name)
	s.metrics.Transition("create_user", ok)
	if !ok {
		return entity.User{}, false
	}
	s.mu.Lock()
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	s.put(repository.KindUsers, u, "create user", u.ID)
	s.mu.Unlock()

	s.emit(ChangeEvent{Kind: repository.KindUsers, ID: u.ID})
	return u.Clone(), true
}

// CreateProject publishes a project for authorID. ok is false when the author
// does not exist or the title is blank.
func (s *Store) CreateProject(authorID, title, description string) (entity.Project, bool) {
	s.mu.Lock()
	if _, exists := s.users[authorID]; !exists {
		s.mu.Unlock()
		s.metrics.Transition("create_project", false)
		return entity.Project{}, false
	}
	p, ok := entity.NewProject(s.newID(), authorID, title, description, s.now())
	if !ok {
		s.mu.Unlock()
		s.metrics.Transition("create_project", false)
		return entity.Project{}, false
	}
	s.projects[p.ID] = p
	s.projectOrder = append(s.projectOrder, p.ID)
	s.put(repository.KindProjects, p, "create project", authorID)
	s.mu.Unlock()

	s.metrics.Transition("create_project", true)
	s.emit(ChangeEvent{Kind: repository.KindProjects, ID: p.ID})
	return p.Clone(), true
}

// updateUser applies fn to the stored user and mirrors the returned patch fields.
func (s *Store) updateUser(op, userID string, fn func(entity.User) (entity.User, repository.Document, bool)) (entity.User, bool) {
	s.mu.Lock()
	cur, exists := s.users[userID]
	if !exists {
		s.mu.Unlock()
		s.metrics.Transition(op, false)
		return entity.User{}, false
	}
	next, fields, changed := fn(cur)
	if !changed {
		s.mu.Unlock()
		s.metrics.Transition(op, false)
		return cur.Clone(), false
	}
	s.users[userID] = next
	fields["id"] = userID
	s.patch(repository.KindUsers, fields, opLabel(op), userID)
	s.mu.Unlock()

	s.metrics.Transition(op, true)
	s.emit(ChangeEvent{Kind: repository.KindUsers, ID: userID})
	return next.Clone(), true
}

// UpdateUserProfile replaces name and description. id and celebrated projects
// are kept. ok is false for unknown users or a blank name.
func (s *Store) UpdateUserProfile(userID, name, description string) (entity.User, bool) {
	return s.updateUser("update_profile", userID, func(u entity.User) (entity.User, repository.Document, bool) {
		next, ok := u.WithProfile(name, description)
		return next, repository.Document{"name": next.Name, "description": next.Description}, ok
	})
}

// SetUserEmail sets the optional contact address used for celebration e-mails.
func (s *Store) SetUserEmail(userID, email string) (entity.User, bool) {
	return s.updateUser("set_email", userID, func(u entity.User) (entity.User, repository.Document, bool) {
		next := u.WithEmail(email)
		return next, repository.Document{"email": next.Email}, next.Email != u.Email
	})
}

// MarkCelebrated appends projectIDs to the user's celebrated set in one
// write and returns the ids that were not recorded before.
func (s *Store) MarkCelebrated(userID string, projectIDs ...string) []string {
	var added []string
	s.updateUser("mark_celebrated", userID, func(u entity.User) (entity.User, repository.Document, bool) {
		next, changed := u.WithCelebrated(projectIDs...)
		added = next.CelebratedProjects[len(u.CelebratedProjects):]
		return next, repository.Document{"celebratedProjects": cloneStrings(next.CelebratedProjects)}, changed
	})
	return cloneStrings(added)
}

type transitionFn func(entity.Project, string) (entity.Project, bool)

// transition runs a candidacy change. The acting user is the candidate for
// apply and the author for accept and reject.
func (s *Store) transition(op, projectID, userID string, fn transitionFn, fields func(entity.Project) repository.Document) (entity.Project, bool) {
	s.mu.Lock()
	cur, pOK := s.projects[projectID]
	_, uOK := s.users[userID]
	if !pOK || !uOK {
		s.mu.Unlock()
		s.metrics.Transition(op, false)
		if pOK {
			return cur.Clone(), false
		}
		return entity.Project{}, false
	}
	next, changed := fn(cur, userID)
	if !changed {
		s.mu.Unlock()
		s.metrics.Transition(op, false)
		return cur.Clone(), false
	}
	s.projects[projectID] = next
	actor := next.AuthorID
	if op == "apply" {
		actor = userID
	}
	doc := fields(next)
	doc["id"] = projectID
	s.patch(repository.KindProjects, doc, op, actor)
	s.mu.Unlock()

	s.metrics.Transition(op, true)
	s.emit(ChangeEvent{Kind: repository.KindProjects, ID: projectID})
	return next.Clone(), true
}

// Apply moves userID from NONE to APPLIED on projectID.
func (s *Store) Apply(projectID, userID string) (entity.Project, bool) {
	return s.transition("apply", projectID, userID, entity.Project.Apply, func(p entity.Project) repository.Document {
		return repository.Document{"applications": cloneStrings(p.Applications)}
	})
}

// Accept moves userID from APPLIED to ACCEPTED on projectID.
func (s *Store) Accept(projectID, userID string) (entity.Project, bool) {
	return s.transition("accept", projectID, userID, entity.Project.Accept, func(p entity.Project) repository.Document {
		return repository.Document{"applications": cloneStrings(p.Applications), "acceptedUsers": cloneStrings(p.AcceptedUsers)}
	})
}

// Reject moves userID from APPLIED to REJECTED on projectID.
func (s *Store) Reject(projectID, userID string) (entity.Project, bool) {
	return s.transition("reject", projectID, userID, entity.Project.Reject, func(p entity.Project) repository.Document {
		return repository.Document{"applications": cloneStrings(p.Applications), "rejectedUsers": cloneStrings(p.RejectedUsers)}
	})
}

func (s *Store) FindUser(id string) (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return entity.User{}, false
	}
	return u.Clone(), true
}

func (s *Store) FindProject(id string) (entity.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return entity.Project{}, false
	}
	return p.Clone(), true
}

// Users returns every user in registration order.
func (s *Store) Users() []entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersLocked()
}

// Projects returns every project ordered by createdAt, ties in insertion order.
func (s *Store) Projects() []entity.Project {
	s.mu.RLock()
	out := s.projectsLocked()
	s.mu.RUnlock()
	sortProjects(out)
	return out
}

// Snapshot copies users and projects under one read lock, so every project
// author and candidate in the result is also in the user list.
func (s *Store) Snapshot() ([]entity.User, []entity.Project) {
	s.mu.RLock()
	users := s.usersLocked()
	projects := s.projectsLocked()
	s.mu.RUnlock()
	sortProjects(projects)
	return users, projects
}

func (s *Store) usersLocked() []entity.User {
	out := make([]entity.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id].Clone())
	}
	return out
}

func (s *Store) projectsLocked() []entity.Project {
	out := make([]entity.Project, 0, len(s.projectOrder))
	for _, id := range s.projectOrder {
		out = append(out, s.projects[id].Clone())
	}
	return out
}

func sortProjects(ps []entity.Project) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].CreatedAt < ps[j].CreatedAt })
}

// UserNames resolves ids to display names; unknown ids map to "".
func (s *Store) UserNames(ids []string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[id] = s.users[id].Name
	}
	return out
}

func opLabel(op string) string {
	switch op {
	case "update_profile":
		return "update profile"
	case "set_email":
		return "update profile"
	case "mark_celebrated":
		return "save celebration"
	default:
		return op
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
