package app

import (
	"context"
	"errors"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/database"
	dbpostgres "skillswap/internal/database/postgres"
	"skillswap/internal/domain/user"
	"skillswap/internal/infrastructure/cache"
	mongostore "skillswap/internal/infrastructure/persistence/mongo"
	"skillswap/internal/infrastructure/persistence/postgres"
	"skillswap/internal/pkg/jwt"
	"skillswap/internal/repository"
	"skillswap/internal/usecase"
	"skillswap/internal/ws"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container owns every long-lived dependency of the process.
type Container struct {
	Config config.Config
	Logger *logrus.Logger
	DB     database.DB
	Cache  *cache.Redis
	Mongo  *mongo.Client
	Hub    *ws.Hub
	JWT    *jwt.HMACService

	Counters cache.CounterStore

	Users      user.Repository
	UserSkills repository.UserSkillRepository
	Matches    repository.MatchRepository
	Sessions   repository.SessionRepository
	Reviews    repository.ReviewRepository
	SkillStats repository.SkillStatsRepository

	AuthUC         *usecase.Auth
	UserUC         *usecase.User
	UserSkillUC    *usecase.UserSkill
	MatchUC        *usecase.Matches
	SuggestionUC   *usecase.Suggestions
	InsightsUC     *usecase.Insights
	NotificationUC *usecase.Notifications
	SessionUC      *usecase.Sessions
	ReviewUC       *usecase.Reviews

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, log *logrus.Logger) (*Container, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: log, DB: db}

	c.Cache = cache.NewRedis(ctx, cfg.Redis, log)
	c.Counters = cache.NewRedisCounterStore(c.Cache)

	var store usecase.NotificationStore
	client, mdb, err := mongostore.Connect(ctx, cfg.Mongo, log)
	switch {
	case err == nil:
		c.Mongo = client
		store = mongostore.NewNotificationStore(mdb)
	case errors.Is(err, mongostore.ErrNotConfigured):
		log.WithField("component", "mongo").Info("MONGO_URI not set, notifications are push-only")
	default:
		log.WithField("component", "mongo").WithError(err).Warn("mongo unavailable, notifications are push-only")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(log)
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	users := postgres.NewUserRepository(db)
	c.Users = users
	c.UserSkills = repository.NewPostgresUserSkillRepository(db)
	c.Matches = repository.NewPostgresMatchRepository(db)
	c.Sessions = repository.NewPostgresSessionRepository(db)
	c.Reviews = repository.NewPostgresReviewRepository(db)
	c.SkillStats = repository.NewPostgresSkillStatsRepository(db)

	c.NotificationUC = usecase.NewNotifications(store, c.Hub, log)
	c.AuthUC = usecase.NewAuthUsecase(c.Users, c.JWT)
	c.UserUC = usecase.NewUserUsecase(c.Users, users)
	c.UserSkillUC = usecase.NewUserSkillUsecase(c.UserSkills, c.Cache, log)
	c.MatchUC = usecase.NewMatchUsecase(c.Users, c.Matches, c.Cache, c.NotificationUC, cfg.Matching, log)
	c.SuggestionUC = usecase.NewSuggestionUsecase(c.Users, c.Cache, log)
	c.InsightsUC = usecase.NewInsightsUsecase(c.SkillStats, c.UserSkills)
	c.SessionUC = usecase.NewSessionUsecase(c.Sessions, c.Users, c.NotificationUC, log)
	c.ReviewUC = usecase.NewReviewUsecase(c.Reviews, c.Sessions, c.Users, c.NotificationUC, log)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	// drain deliveries while the hub and mongo are still up
	if c.NotificationUC != nil {
		c.NotificationUC.Close()
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, c.Mongo.Disconnect(ctx))
		cancel()
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
