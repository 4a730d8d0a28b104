package application

import (
	"github.com/oksasatya/teambuilder/internal/domain/entity"
)

// Member is a user id with its resolved display name.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectView is a project as seen by one viewer. Candidate lists are only
// resolved for the author.
type ProjectView struct {
	entity.Project
	AuthorName   string                 `json:"authorName"`
	IsAuthor     bool                   `json:"isAuthor"`
	ViewerStatus entity.CandidacyStatus `json:"viewerStatus"`
	Applicants   []Member               `json:"applicants,omitempty"`
	Accepted     []Member               `json:"accepted,omitempty"`
	Rejected     []Member               `json:"rejected,omitempty"`
}

func (s *Service) view(viewerID string, p entity.Project) ProjectView {
	v := ProjectView{
		Project:      p,
		IsAuthor:     viewerID != "" && viewerID == p.AuthorID,
		ViewerStatus: p.StatusOf(viewerID),
	}
	ids := []string{p.AuthorID}
	if v.IsAuthor {
		ids = append(ids, p.Applications...)
		ids = append(ids, p.AcceptedUsers...)
		ids = append(ids, p.RejectedUsers...)
	}
	names := s.Store.UserNames(ids)
	v.AuthorName = names[p.AuthorID]
	if v.IsAuthor {
		v.Applicants = members(p.Applications, names)
		v.Accepted = members(p.AcceptedUsers, names)
		v.Rejected = members(p.RejectedUsers, names)
	}
	return v
}

func members(ids []string, names map[string]string) []Member {
	out := make([]Member, 0, len(ids))
	for _, id := range ids {
		out = append(out, Member{ID: id, Name: names[id]})
	}
	return out
}
