package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeMessage Type = "message"
	TypeBooking Type = "booking"
	TypeReview  Type = "review"
	TypeMatch   Type = "match"
	TypeSystem  Type = "system"
)

func (t Type) Valid() bool {
	switch t {
	case TypeMessage, TypeBooking, TypeReview, TypeMatch, TypeSystem:
		return true
	default:
		return false
	}
}

type Notification struct {
	ID        string
	UserID    uuid.UUID
	Type      Type
	Title     string
	Content   string
	Read      bool
	RelatedID uuid.UUID
	Metadata  map[string]any
	CreatedAt time.Time
}

// Match builds the notice each side of a mutual like receives. relatedID is
// the recipient's own match row.
func Match(recipient, relatedID uuid.UUID, partnerName string) Notification {
	return Notification{
		UserID:    recipient,
		Type:      TypeMatch,
		Title:     "New Match!",
		Content:   "You and " + partnerName + " liked each other!",
		RelatedID: relatedID,
	}
}
