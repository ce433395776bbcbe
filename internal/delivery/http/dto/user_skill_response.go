package dto

import (
	"time"

	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
)

type UserSkillResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Level     string    `json:"level"`
	Offering  bool      `json:"offering"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserSkill(s skill.Skill) UserSkillResponse {
	return UserSkillResponse{
		ID:        s.ID,
		Name:      s.Name,
		Category:  string(s.Category),
		Level:     string(s.Level),
		Offering:  s.Offering,
		CreatedAt: s.CreatedAt,
	}
}

func NewUserSkills(items []skill.Skill) []UserSkillResponse {
	res := make([]UserSkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, NewUserSkill(it))
	}
	return res
}
