package review

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrAlreadyExists  = errors.New("review already exists for this session")
	ErrSelfReview     = errors.New("cannot review yourself")
	ErrNotCompleted   = errors.New("can only review completed sessions")
	ErrNotParticipant = errors.New("not authorized to review this session")
)

type Criteria struct {
	Communication int `json:"communication"`
	SkillLevel    int `json:"skill_level"`
	Punctuality   int `json:"punctuality"`
}

type Review struct {
	ID         uuid.UUID
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	SessionID  uuid.UUID
	Rating     int
	Comment    string
	Criteria   *Criteria
	CreatedAt  time.Time
}

func validStar(v int) bool {
	return v >= 1 && v <= 5
}

func (r Review) Validate() error {
	if !validStar(r.Rating) {
		return ErrInvalidRating
	}
	if r.FromUserID == r.ToUserID {
		return ErrSelfReview
	}
	if c := r.Criteria; c != nil {
		if !validStar(c.Communication) || !validStar(c.SkillLevel) || !validStar(c.Punctuality) {
			return ErrInvalidRating
		}
	}
	return nil
}

// RoundRating rounds an average to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
