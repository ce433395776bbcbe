package dto

import (
	"time"

	"skillswap/internal/domain/match"
	"skillswap/internal/domain/matching"
	"skillswap/internal/usecase"

	"github.com/google/uuid"
)

type MatchResponse struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"user_id"`
	PartnerID uuid.UUID            `json:"partner_id"`
	Score     int                  `json:"score"`
	Reason    string               `json:"reason"`
	Status    string               `json:"status"`
	LikedBy   []uuid.UUID          `json:"liked_by"`
	PassedBy  []uuid.UUID          `json:"passed_by"`
	Partner   *UserSummaryResponse `json:"partner,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type GenerateMatchesResponse struct {
	Created   []MatchResponse `json:"created"`
	Count     int             `json:"count"`
	Evaluated int             `json:"evaluated"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
}

type LikeMatchResponse struct {
	Match  MatchResponse `json:"match"`
	Mutual bool          `json:"mutual"`
}

type CompatibilityEntryResponse struct {
	Direction    string `json:"direction"`
	SkillName    string `json:"skill_name"`
	Category     string `json:"category"`
	TeacherLevel string `json:"teacher_level"`
	LearnerLevel string `json:"learner_level"`
	Score        int    `json:"score"`
}

type CompatibilityResponse struct {
	OverallScore  int                          `json:"overall_score"`
	MutualBenefit bool                         `json:"mutual_benefit"`
	Entries       []CompatibilityEntryResponse `json:"entries"`
}

type SuggestionResponse struct {
	User          UserProfileResponse   `json:"user"`
	Compatibility CompatibilityResponse `json:"compatibility"`
}

func NewMatch(m match.Match) MatchResponse {
	return MatchResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		PartnerID: m.PartnerID,
		Score:     m.Score,
		Reason:    m.Reason,
		Status:    string(m.Status),
		LikedBy:   m.LikedBy.Slice(),
		PassedBy:  m.PassedBy.Slice(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func NewMatchView(v usecase.MatchView) MatchResponse {
	res := NewMatch(v.Match)
	partner := NewUserSummary(v.Partner)
	res.Partner = &partner
	return res
}

func NewGenerateMatches(r usecase.GenerateResult) GenerateMatchesResponse {
	created := make([]MatchResponse, 0, len(r.Created))
	for _, m := range r.Created {
		created = append(created, NewMatch(m))
	}
	return GenerateMatchesResponse{
		Created:   created,
		Count:     len(created),
		Evaluated: r.Evaluated,
		Skipped:   r.Skipped,
		Failed:    r.Failed,
	}
}

func NewCompatibility(c matching.Compatibility) CompatibilityResponse {
	entries := make([]CompatibilityEntryResponse, 0, len(c.Entries))
	for _, e := range c.Entries {
		entries = append(entries, CompatibilityEntryResponse{
			Direction:    string(e.Direction),
			SkillName:    e.SkillName,
			Category:     string(e.Category),
			TeacherLevel: string(e.TeacherLevel),
			LearnerLevel: string(e.LearnerLevel),
			Score:        e.Score,
		})
	}
	return CompatibilityResponse{OverallScore: c.OverallScore, MutualBenefit: c.MutualBenefit, Entries: entries}
}

func NewSuggestions(items []usecase.Suggestion) []SuggestionResponse {
	res := make([]SuggestionResponse, 0, len(items))
	for _, it := range items {
		res = append(res, SuggestionResponse{
			User:          NewUserProfile(it.User, false),
			Compatibility: NewCompatibility(it.Compatibility),
		})
	}
	return res
}
