package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/domain/entity"
)

// Service is the marketplace use-case layer the HTTP handlers call.
type Service struct {
	Store    *Store
	Sessions *SessionRegistry
	Detector *Detector
	Toasts   *ToastBoard
	Search   *SearchIndexer
	Logger   *logrus.Logger
}

// NewService wires the detector, toasts and search index to the store hooks.
// A nil search falls back to matching in memory and nil sessions get a
// registry with DefaultSessionTTL. notifiers run after the toast notifier.
func NewService(store *Store, toasts *ToastBoard, sessions *SessionRegistry, search *SearchIndexer, logger *logrus.Logger, notifiers ...Notifier) *Service {
	if sessions == nil {
		sessions = NewSessionRegistry(DefaultSessionTTL)
	}
	if search == nil {
		search = &SearchIndexer{}
	}
	if search.Store == nil {
		search.Store = store
	}
	detector := &Detector{
		Store:     store,
		Sessions:  sessions,
		Notifiers: append([]Notifier{ToastNotifier{Board: toasts}}, notifiers...),
		Logger:    logger,
		Metrics:   store.metrics,
	}
	svc := &Service{
		Store:    store,
		Sessions: sessions,
		Detector: detector,
		Toasts:   toasts,
		Search:   search,
		Logger:   logger,
	}
	store.OnChange(detector.HandleChange)
	store.OnChange(search.HandleChange)
	store.OnPersistError(svc.persistFailed)
	return svc
}

func (s *Service) persistFailed(f PersistFailure) {
	if f.ActorID == "" || s.Toasts == nil {
		return
	}
	s.Toasts.Push(f.ActorID, ToastError, "Something went wrong", "failed to "+f.Op+", try again", "")
}

type RegisterInput struct {
	Name        string
	Description string
	Email       string
}

// Register creates a user and makes it the active user of a new session.
func (s *Service) Register(_ context.Context, in RegisterInput) (entity.User, *Session, error) {
	u, ok := s.Store.CreateUser(in.Name)
	if !ok {
		return entity.User{}, nil, ErrInvalidInput
	}
	if strings.TrimSpace(in.Description) != "" {
		u, _ = s.Store.UpdateUserProfile(u.ID, u.Name, in.Description)
	}
	if strings.TrimSpace(in.Email) != "" {
		u, _ = s.Store.SetUserEmail(u.ID, in.Email)
	}
	return u, s.Sessions.Start(u.ID), nil
}

// SelectUser starts a session acting as userID and runs detection for it.
func (s *Service) SelectUser(ctx context.Context, userID string) (entity.User, *Session, error) {
	u, ok := s.Store.FindUser(userID)
	if !ok {
		return entity.User{}, nil, ErrUserNotFound
	}
	sess := s.Sessions.Start(u.ID)
	s.Detector.Scan(ctx, sess)
	return u, sess, nil
}

// Session returns a live, unexpired session whose user still exists.
func (s *Service) Session(id string) (*Session, error) {
	sess, ok := s.Sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if _, ok := s.Store.FindUser(sess.UserID); !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) EndSession(id string) { s.Sessions.End(id) }

func (s *Service) Users() []entity.User { return s.Store.Users() }

func (s *Service) Profile(userID string) (entity.User, error) {
	u, ok := s.Store.FindUser(userID)
	if !ok {
		return entity.User{}, ErrUserNotFound
	}
	return u, nil
}

type ProfileInput struct {
	Name        string
	Description string
	Email       *string
}

func (s *Service) UpdateProfile(_ context.Context, userID string, in ProfileInput) (entity.User, error) {
	u, ok := s.Store.FindUser(userID)
	if !ok {
		return entity.User{}, ErrUserNotFound
	}
	if strings.TrimSpace(in.Name) == "" {
		return u, ErrInvalidInput
	}
	u, _ = s.Store.UpdateUserProfile(userID, in.Name, in.Description)
	if in.Email != nil {
		u, _ = s.Store.SetUserEmail(userID, *in.Email)
	}
	return u, nil
}

func (s *Service) Templates() []entity.ProjectTemplate {
	out := make([]entity.ProjectTemplate, len(entity.ProjectTemplates))
	copy(out, entity.ProjectTemplates)
	return out
}

func (s *Service) CreateProject(_ context.Context, authorID, title, description string) (ProjectView, error) {
	if _, ok := s.Store.FindUser(authorID); !ok {
		return ProjectView{}, ErrUserNotFound
	}
	p, ok := s.Store.CreateProject(authorID, title, description)
	if !ok {
		return ProjectView{}, ErrInvalidInput
	}
	return s.view(authorID, p), nil
}

func (s *Service) ListProjects(viewerID string) []ProjectView {
	projects := s.Store.Projects()
	out := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, s.view(viewerID, p))
	}
	return out
}

func (s *Service) GetProject(viewerID, projectID string) (ProjectView, error) {
	p, ok := s.Store.FindProject(projectID)
	if !ok {
		return ProjectView{}, ErrProjectNotFound
	}
	return s.view(viewerID, p), nil
}

func (s *Service) SearchProjects(ctx context.Context, viewerID, q string, size int) ([]ProjectView, error) {
	ids, err := s.Search.Search(ctx, q, size)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectView, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.Store.FindProject(id); ok {
			out = append(out, s.view(viewerID, p))
		}
	}
	return out, nil
}

// Apply submits userID's application. changed is false when nothing moved.
func (s *Service) Apply(_ context.Context, projectID, userID string) (ProjectView, bool, error) {
	if _, ok := s.Store.FindProject(projectID); !ok {
		return ProjectView{}, false, ErrProjectNotFound
	}
	p, changed := s.Store.Apply(projectID, userID)
	return s.view(userID, p), changed, nil
}

// Decide accepts or rejects candidateID. Only the author may decide.
func (s *Service) Decide(_ context.Context, actorID, projectID, candidateID string, accept bool) (ProjectView, bool, error) {
	p, ok := s.Store.FindProject(projectID)
	if !ok {
		return ProjectView{}, false, ErrProjectNotFound
	}
	if p.AuthorID != actorID {
		return ProjectView{}, false, ErrNotAuthor
	}
	var changed bool
	if accept {
		p, changed = s.Store.Accept(projectID, candidateID)
	} else {
		p, changed = s.Store.Reject(projectID, candidateID)
	}
	return s.view(actorID, p), changed, nil
}

func (s *Service) Notifications(userID string) []Toast {
	if s.Toasts == nil {
		return []Toast{}
	}
	return s.Toasts.List(userID)
}

func (s *Service) DismissNotification(userID, toastID string) bool {
	if s.Toasts == nil {
		return false
	}
	return s.Toasts.Dismiss(userID, toastID)
}
