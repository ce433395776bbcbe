package mongo

import (
	"context"
	"errors"
	"time"

	"skillswap/internal/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotConfigured = errors.New("MONGO_URI is not set")

// Connect dials MongoDB, pings it and makes sure the notification indexes
// exist.
func Connect(ctx context.Context, cfg config.MongoConfig, log logrus.FieldLogger) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, ErrNotConfigured
	}

	connectCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(10).
		SetMinPoolSize(1)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	db := client.Database(cfg.Database)
	if err := EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	if log != nil {
		log.WithFields(logrus.Fields{"component": "mongo", "database": cfg.Database}).Info("connected")
	}
	return client, db, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(notificationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "read", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("by_user_read_created"),
		},
	})
	return err
}
