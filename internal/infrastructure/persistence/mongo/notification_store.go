package mongo

import (
	"context"
	"time"

	"skillswap/internal/domain/notification"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationsCollection = "notifications"

type notificationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Type      string             `bson:"type"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Read      bool               `bson:"read"`
	RelatedID string             `bson:"related_id,omitempty"`
	Metadata  map[string]any     `bson:"metadata,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func toDoc(n notification.Notification) notificationDoc {
	d := notificationDoc{
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Content:   n.Content,
		Read:      n.Read,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt.UTC(),
	}
	if n.RelatedID != uuid.Nil {
		d.RelatedID = n.RelatedID.String()
	}
	return d
}

func (d notificationDoc) toDomain() notification.Notification {
	n := notification.Notification{
		ID:        d.ID.Hex(),
		Type:      notification.Type(d.Type),
		Title:     d.Title,
		Content:   d.Content,
		Read:      d.Read,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
	}
	n.UserID, _ = uuid.Parse(d.UserID)
	if d.RelatedID != "" {
		n.RelatedID, _ = uuid.Parse(d.RelatedID)
	}
	return n
}

type NotificationStore struct {
	col *mongo.Collection
}

func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{col: db.Collection(notificationsCollection)}
}

func (s *NotificationStore) Insert(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	res, err := s.col.InsertOne(ctx, toDoc(n))
	if err != nil {
		return notification.Notification{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid.Hex()
	}
	return n, nil
}

func userFilter(userID uuid.UUID, unreadOnly bool) bson.M {
	f := bson.M{"user_id": userID.String()}
	if unreadOnly {
		f["read"] = false
	}
	return f
}

func (s *NotificationStore) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]notification.Notification, int64, error) {
	filter := userFilter(userID, unreadOnly)

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := make([]notification.Notification, 0)
	for cur.Next(ctx) {
		var d notificationDoc
		if err := cur.Decode(&d); err != nil {
			return nil, 0, err
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, userID uuid.UUID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return notification.ErrNotFound
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": userID.String()},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := s.col.UpdateMany(ctx,
		userFilter(userID, true),
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *NotificationStore) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.col.CountDocuments(ctx, userFilter(userID, true))
}
