package dto

import (
	"time"

	"skillswap/internal/domain/session"

	"github.com/google/uuid"
)

type SessionResponse struct {
	ID           uuid.UUID `json:"id"`
	HostID       uuid.UUID `json:"host_id"`
	PartnerID    uuid.UUID `json:"partner_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Status       string    `json:"status"`
	Type         string    `json:"type"`
	HostSkill    string    `json:"host_skill"`
	PartnerSkill string    `json:"partner_skill"`
	Notes        string    `json:"notes"`
	MeetingLink  string    `json:"meeting_link"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewSession(s session.Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID,
		HostID:       s.HostID,
		PartnerID:    s.PartnerID,
		ScheduledAt:  s.ScheduledAt,
		Status:       string(s.Status),
		Type:         string(s.Type),
		HostSkill:    s.HostSkill,
		PartnerSkill: s.PartnerSkill,
		Notes:        s.Notes,
		MeetingLink:  s.MeetingLink,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func NewSessions(items []session.Session) []SessionResponse {
	res := make([]SessionResponse, 0, len(items))
	for _, it := range items {
		res = append(res, NewSession(it))
	}
	return res
}
