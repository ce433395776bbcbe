package v1

import (
	"skillswap/internal/delivery/http/handler"
	"skillswap/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	UserSkill    *handler.UserSkillHandler
	Match        *handler.MatchHandler
	Insights     *handler.InsightsHandler
	Session      *handler.SessionHandler
	Review       *handler.ReviewHandler
	Notification *handler.NotificationHandler
	AuthMw       *middleware.AuthMiddleware
	SkillLimiter fiber.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if h.Insights != nil {
		h.Insights.RegisterPublicRoutes(r)
	}
	if h.AuthMw == nil {
		return
	}

	protected := r.Group("", h.AuthMw.Middleware())
	RegisterUsers(protected, h.User, h.UserSkill, h.SkillLimiter)
	RegisterMatching(protected, h.Match, h.Insights)
	RegisterExchange(protected, h.Session, h.Review, h.Notification)
}
