package app

import (
	"context"
	"fmt"
	"strings"

	"skillswap/internal/config"
	"skillswap/internal/delivery/http/handler"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/delivery/http/routes"
	v1 "skillswap/internal/delivery/http/routes/v1"
	"skillswap/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, log *logrus.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log logrus.FieldLogger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(log)
	errMw := middleware.NewErrorMiddleware(log)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	health := handler.NewHealthHandler(
		handler.HealthCheck{Name: "postgres", Required: true, Ping: c.DB.Ping},
		handler.HealthCheck{Name: "redis", Ping: redisPing(c)},
		handler.HealthCheck{Name: "mongo", Ping: mongoPing(c)},
	)

	skillLimiter := middleware.NewRateLimitMiddleware(c.Counters, "skills", c.Config.RateLimit, c.Logger)

	handlers := v1.Handlers{
		Auth:         handler.NewAuthHandler(c.AuthUC),
		User:         handler.NewUserHandler(c.UserUC),
		UserSkill:    handler.NewUserSkillHandler(c.UserSkillUC),
		Match:        handler.NewMatchHandler(c.MatchUC, c.SuggestionUC),
		Insights:     handler.NewInsightsHandler(c.InsightsUC),
		Session:      handler.NewSessionHandler(c.SessionUC),
		Review:       handler.NewReviewHandler(c.ReviewUC),
		Notification: handler.NewNotificationHandler(c.NotificationUC),
		AuthMw:       middleware.NewAuthMiddleware(c.JWT),
		SkillLimiter: skillLimiter.Middleware(),
	}

	routes.NewRegistry(health, handlers, ws.NewHandler(c.Hub, c.JWT, c.Logger)).Register(app)
}

func redisPing(c *Container) func(ctx context.Context) error {
	if c.Cache == nil || !c.Cache.Available() {
		return nil
	}
	return c.Cache.Ping
}

func mongoPing(c *Container) func(ctx context.Context) error {
	if c.Mongo == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return c.Mongo.Ping(ctx, nil)
	}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
