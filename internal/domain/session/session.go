package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Type string

const (
	TypeVideo Type = "video"
	TypeChat  Type = "chat"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrNotParticipant    = errors.New("not a session participant")
	ErrInvalidTransition = errors.New("invalid session status transition")
	ErrCompletedDelete   = errors.New("completed sessions cannot be deleted")
)

type Session struct {
	ID           uuid.UUID
	HostID       uuid.UUID
	PartnerID    uuid.UUID
	ScheduledAt  time.Time
	Status       Status
	Type         Type
	HostSkill    string
	PartnerSkill string
	Notes        string
	MeetingLink  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(raw), true
	default:
		return "", false
	}
}

func ParseType(raw string) (Type, bool) {
	switch Type(raw) {
	case "":
		return TypeVideo, true
	case TypeVideo, TypeChat:
		return Type(raw), true
	default:
		return "", false
	}
}

func (s Session) IsParticipant(id uuid.UUID) bool {
	return id == s.HostID || id == s.PartnerID
}

// Counterpart returns the other participant.
func (s Session) Counterpart(id uuid.UUID) uuid.UUID {
	if id == s.HostID {
		return s.PartnerID
	}
	return s.HostID
}

// Transition moves the session to next on behalf of actor. Only the invited
// partner may confirm; completed and cancelled are terminal.
func (s Session) Transition(actor uuid.UUID, next Status, now time.Time) (Session, error) {
	if !s.IsParticipant(actor) {
		return Session{}, ErrNotParticipant
	}

	ok := false
	switch s.Status {
	case StatusPending:
		ok = (next == StatusConfirmed && actor == s.PartnerID) || next == StatusCancelled
	case StatusConfirmed:
		ok = next == StatusCompleted || next == StatusCancelled
	}
	if !ok {
		return Session{}, ErrInvalidTransition
	}

	s.Status = next
	s.UpdatedAt = now.UTC()
	return s, nil
}

// CheckDelete reports whether actor may remove the session. Completed
// sessions carry reviews and stay on record.
func (s Session) CheckDelete(actor uuid.UUID) error {
	if !s.IsParticipant(actor) {
		return ErrNotParticipant
	}
	if s.Status == StatusCompleted {
		return ErrCompletedDelete
	}
	return nil
}

// StatusNotice returns the title and content sent to the counterpart after
// actorName moved the session to st.
func StatusNotice(st Status, actorName string) (string, string) {
	switch st {
	case StatusConfirmed:
		return "Session Confirmed", actorName + " confirmed your session request"
	case StatusCancelled:
		return "Session Cancelled", actorName + " cancelled your session"
	case StatusCompleted:
		return "Session Completed", actorName + " marked the session as completed"
	default:
		return "Session Updated", actorName + " updated your session"
	}
}
