package match

import (
	"time"

	"github.com/google/uuid"
)

// Resolution is the outcome of a like: the updated row, the updated inverse
// row when the like completed a mutual match, and whether it did.
type Resolution struct {
	Match   Match
	Inverse *Match
	Mutual  bool
}

// Like records actor's like on m. inverse is the partner's row for the same
// pair, or nil if the partner has no row. Both rows become matched when the
// partner already liked their side.
func Like(m Match, inverse *Match, actor uuid.UUID, now time.Time) (Resolution, error) {
	if m.UserID != actor {
		return Resolution{}, ErrForbidden
	}

	m.LikedBy = m.LikedBy.with(actor)
	m.PassedBy = m.PassedBy.without(actor)
	m.UpdatedAt = now.UTC()

	if inverse != nil && inverse.LikedBy.Has(m.PartnerID) {
		inv := *inverse
		m.Status = StatusMatched
		inv.Status = StatusMatched
		inv.UpdatedAt = now.UTC()
		return Resolution{Match: m, Inverse: &inv, Mutual: true}, nil
	}

	m.Status = StatusLiked
	return Resolution{Match: m}, nil
}

// Pass records actor's pass on m. It never touches the partner's row.
func Pass(m Match, actor uuid.UUID, now time.Time) (Match, error) {
	if m.UserID != actor {
		return Match{}, ErrForbidden
	}
	m.PassedBy = m.PassedBy.with(actor)
	m.LikedBy = m.LikedBy.without(actor)
	m.Status = StatusPassed
	m.UpdatedAt = now.UTC()
	return m, nil
}
