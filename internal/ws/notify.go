package ws

import (
	"encoding/json"
	"time"

	"skillswap/internal/domain/notification"

	"github.com/google/uuid"
)

type NotificationEvent struct {
	Type         string         `json:"type"`
	ID           string         `json:"id,omitempty"`
	Notification string         `json:"notification_type"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	RelatedID    *uuid.UUID     `json:"related_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Timestamp    string         `json:"timestamp"`
}

func encodeNotification(n notification.Notification) ([]byte, error) {
	ts := n.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	evt := NotificationEvent{
		Type:         "notification",
		ID:           n.ID,
		Notification: string(n.Type),
		Title:        n.Title,
		Content:      n.Content,
		Metadata:     n.Metadata,
		Timestamp:    ts.UTC().Format(time.RFC3339),
	}
	if n.RelatedID != uuid.Nil {
		id := n.RelatedID
		evt.RelatedID = &id
	}
	return json.Marshal(evt)
}

// PushNotification sends n to the recipient's live connections.
func (h *Hub) PushNotification(n notification.Notification) error {
	if h == nil {
		return nil
	}
	b, err := encodeNotification(n)
	if err != nil {
		return err
	}
	h.SendToUser(n.UserID, b)
	return nil
}
