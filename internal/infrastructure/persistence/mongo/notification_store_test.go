package mongo

import (
	"testing"
	"time"

	"skillswap/internal/domain/notification"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNotificationDocMapping(t *testing.T) {
	n := notification.Notification{
		UserID:    uuid.New(),
		Type:      notification.TypeMatch,
		Title:     "New Match!",
		Content:   "You and Ana liked each other!",
		RelatedID: uuid.New(),
		Metadata:  map[string]any{"score": 80},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	got := toDoc(n).toDomain()
	if diff := cmp.Diff(n, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestNotificationDocMapping_NoRelatedID(t *testing.T) {
	d := toDoc(notification.Notification{UserID: uuid.New(), Type: notification.TypeSystem})
	assert.Empty(t, d.RelatedID)
	assert.Equal(t, uuid.Nil, d.toDomain().RelatedID)
}

func TestUserFilter(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, bson.M{"user_id": id.String()}, userFilter(id, false))
	assert.Equal(t, bson.M{"user_id": id.String(), "read": false}, userFilter(id, true))
}
