package routes

import (
	"skillswap/internal/delivery/http/handler"
	v1 "skillswap/internal/delivery/http/routes/v1"
	"skillswap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	v1     v1.Handlers
	ws     *ws.Handler
}

func NewRegistry(health *handler.HealthHandler, handlers v1.Handlers, wsHandler *ws.Handler) *Registry {
	return &Registry{health: health, v1: handlers, ws: wsHandler}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health == nil {
		return
	}
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws == nil {
		return
	}
	app.Get("/ws", r.ws.HandleNotifications)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}
