package dto

import (
	"time"

	"skillswap/internal/domain/user"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Email          string              `json:"email,omitempty"`
	Bio            string              `json:"bio"`
	AvatarURL      string              `json:"avatar_url"`
	Location       string              `json:"location"`
	VideoCallReady bool                `json:"video_call_ready"`
	IsActive       bool                `json:"is_active"`
	Rating         float64             `json:"rating"`
	ReviewCount    int                 `json:"review_count"`
	Skills         []UserSkillResponse `json:"skills"`
	PortfolioLinks []PortfolioLinkResp `json:"portfolio_links"`
	Availability   []AvailabilityResp  `json:"availability"`
	CreatedAt      time.Time           `json:"created_at"`
}

type PortfolioLinkResp struct {
	ID       uuid.UUID `json:"id"`
	Platform string    `json:"platform"`
	URL      string    `json:"url"`
}

type AvailabilityResp struct {
	ID        uuid.UUID `json:"id"`
	Day       string    `json:"day"`
	TimeSlots []string  `json:"time_slots"`
}

type UserSummaryResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	AvatarURL      string    `json:"avatar_url"`
	Location       string    `json:"location"`
	Rating         float64   `json:"rating"`
	VideoCallReady bool      `json:"video_call_ready"`
}

// NewUserProfile renders a profile. Email is only included for the owner.
func NewUserProfile(u user.User, includeEmail bool) UserProfileResponse {
	res := UserProfileResponse{
		ID:             u.ID,
		Name:           u.Name,
		Bio:            u.Bio,
		AvatarURL:      u.AvatarURL,
		Location:       u.Location,
		VideoCallReady: u.VideoCallReady,
		IsActive:       u.IsActive,
		Rating:         u.Rating,
		ReviewCount:    u.ReviewCount,
		Skills:         NewUserSkills(u.Skills),
		PortfolioLinks: make([]PortfolioLinkResp, 0, len(u.PortfolioLinks)),
		Availability:   make([]AvailabilityResp, 0, len(u.Availability)),
		CreatedAt:      u.CreatedAt,
	}
	for _, l := range u.PortfolioLinks {
		res.PortfolioLinks = append(res.PortfolioLinks, PortfolioLinkResp{ID: l.ID, Platform: l.Platform, URL: l.URL})
	}
	for _, a := range u.Availability {
		res.Availability = append(res.Availability, AvailabilityResp{ID: a.ID, Day: a.Day.String(), TimeSlots: a.TimeSlots})
	}
	if includeEmail {
		res.Email = u.Email
	}
	return res
}

func NewUserSummary(s user.Summary) UserSummaryResponse {
	return UserSummaryResponse{
		ID:             s.ID,
		Name:           s.Name,
		AvatarURL:      s.AvatarURL,
		Location:       s.Location,
		Rating:         s.Rating,
		VideoCallReady: s.VideoCallReady,
	}
}
