package match

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusLiked   Status = "liked"
	StatusMatched Status = "matched"
	StatusPassed  Status = "passed"
)

var (
	ErrNotFound  = errors.New("match not found")
	ErrForbidden = errors.New("match belongs to another user")
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusLiked, StatusMatched, StatusPassed:
		return Status(raw), true
	default:
		return "", false
	}
}

// Match is directional: it records what UserID thinks of PartnerID.
// A mutual match is two rows, one per direction.
type Match struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PartnerID uuid.UUID
	Reason    string
	Score     int
	Status    Status
	LikedBy   IDSet
	PassedBy  IDSet
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(userID, partnerID uuid.UUID, score int, reason string, now time.Time) Match {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Match{
		ID:        uuid.New(),
		UserID:    userID,
		PartnerID: partnerID,
		Reason:    reason,
		Score:     score,
		Status:    StatusPending,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// IDSet is a small set of user ids with a stable, sorted slice form for
// storage.
type IDSet map[uuid.UUID]struct{}

func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Slice() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (s IDSet) with(id uuid.UUID) IDSet {
	out := make(IDSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[id] = struct{}{}
	return out
}

func (s IDSet) without(id uuid.UUID) IDSet {
	out := make(IDSet, len(s))
	for k := range s {
		if k != id {
			out[k] = struct{}{}
		}
	}
	return out
}
