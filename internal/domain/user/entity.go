package user

import (
	"time"

	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordHash   string
	Bio            string
	AvatarURL      string
	Location       string
	VideoCallReady bool
	IsActive       bool
	Rating         float64
	ReviewCount    int
	Skills         []skill.Skill
	PortfolioLinks []PortfolioLink
	Availability   []Availability
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Summary is the public view of another user embedded in matches,
// sessions and reviews.
type Summary struct {
	ID             uuid.UUID
	Name           string
	AvatarURL      string
	Location       string
	Rating         float64
	VideoCallReady bool
}

func (u User) Summary() Summary {
	return Summary{
		ID:             u.ID,
		Name:           u.Name,
		AvatarURL:      u.AvatarURL,
		Location:       u.Location,
		Rating:         u.Rating,
		VideoCallReady: u.VideoCallReady,
	}
}

func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// DirectoryFilter narrows the user directory. A user matches SearchTerms
// when any term appears in their name, bio or one of their skill names.
type DirectoryFilter struct {
	SearchTerms    []string
	SkillName      string
	Category       skill.Category
	Level          skill.Level
	Location       string
	Offering       *bool
	VideoCallReady *bool
	ExcludeID      uuid.UUID
	Limit          int
	Offset         int
}
