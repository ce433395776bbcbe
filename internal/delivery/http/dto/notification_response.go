package dto

import (
	"time"

	"skillswap/internal/domain/notification"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Read      bool           `json:"read"`
	RelatedID *uuid.UUID     `json:"related_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewNotification(n notification.Notification) NotificationResponse {
	res := NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Content:   n.Content,
		Read:      n.Read,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedID != uuid.Nil {
		id := n.RelatedID
		res.RelatedID = &id
	}
	return res
}

func NewNotifications(items []notification.Notification) []NotificationResponse {
	res := make([]NotificationResponse, 0, len(items))
	for _, it := range items {
		res = append(res, NewNotification(it))
	}
	return res
}
