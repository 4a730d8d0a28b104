package entity

import (
	"slices"
	"strings"
	"time"
)

// Project is a posting users can apply to.
//
// A candidate's id lives in at most one of Applications, AcceptedUsers and
// RejectedUsers. Every transition below returns a new value and leaves the
// receiver untouched.
type Project struct {
	ID            string   `json:"id"`
	AuthorID      string   `json:"authorId"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CreatedAt     int64    `json:"createdAt"`
	Applications  []string `json:"applications"`
	AcceptedUsers []string `json:"acceptedUsers"`
	RejectedUsers []string `json:"rejectedUsers"`
}

// NewProject builds a posting with empty status sequences. ok is false when
// the author id or the trimmed title is empty.
func NewProject(id, authorID, title, description string, now time.Time) (p Project, ok bool) {
	title = strings.TrimSpace(title)
	if authorID == "" || title == "" {
		return Project{}, false
	}
	return Project{
		ID:            id,
		AuthorID:      authorID,
		Title:         title,
		Description:   strings.TrimSpace(description),
		CreatedAt:     now.UnixMilli(),
		Applications:  []string{},
		AcceptedUsers: []string{},
		RejectedUsers: []string{},
	}, true
}

// StatusOf derives the candidacy state of userID in this project.
func (p Project) StatusOf(userID string) CandidacyStatus {
	switch {
	case slices.Contains(p.AcceptedUsers, userID):
		return StatusAccepted
	case slices.Contains(p.RejectedUsers, userID):
		return StatusRejected
	case slices.Contains(p.Applications, userID):
		return StatusApplied
	default:
		return StatusNone
	}
}

// Apply moves userID from NONE to APPLIED. Authors cannot apply to their own
// project and terminal states absorb re-application.
func (p Project) Apply(userID string) (Project, bool) {
	if userID == "" || userID == p.AuthorID || p.StatusOf(userID) != StatusNone {
		return p, false
	}
	out := p.Clone()
	out.Applications = append(out.Applications, userID)
	return out, true
}

// Accept moves userID from APPLIED to ACCEPTED. Repeating it for an accepted
// user only drops a stray applications entry, so acceptedUsers never holds
// duplicates.
func (p Project) Accept(userID string) (Project, bool) {
	switch {
	case slices.Contains(p.AcceptedUsers, userID):
		if !slices.Contains(p.Applications, userID) {
			return p, false
		}
		out := p.Clone()
		out.Applications = without(out.Applications, userID)
		return out, true
	case p.StatusOf(userID) == StatusApplied:
		out := p.Clone()
		out.Applications = without(out.Applications, userID)
		out.AcceptedUsers = append(out.AcceptedUsers, userID)
		return out, true
	default:
		return p, false
	}
}

// Reject moves userID from APPLIED to REJECTED. Anything else is a no-op.
func (p Project) Reject(userID string) (Project, bool) {
	if p.StatusOf(userID) != StatusApplied {
		return p, false
	}
	out := p.Clone()
	out.Applications = without(out.Applications, userID)
	out.RejectedUsers = append(out.RejectedUsers, userID)
	return out, true
}

// Normalize upgrades records written before the status sequences existed.
func (p *Project) Normalize() {
	if p.Applications == nil {
		p.Applications = []string{}
	}
	if p.AcceptedUsers == nil {
		p.AcceptedUsers = []string{}
	}
	if p.RejectedUsers == nil {
		p.RejectedUsers = []string{}
	}
}

func (p Project) Clone() Project {
	out := p
	out.Applications = cloneIDs(p.Applications)
	out.AcceptedUsers = cloneIDs(p.AcceptedUsers)
	out.RejectedUsers = cloneIDs(p.RejectedUsers)
	return out
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
