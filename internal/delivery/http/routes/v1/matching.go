package v1

import (
	"skillswap/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterMatching(r fiber.Router, matchHandler *handler.MatchHandler, insightsHandler *handler.InsightsHandler) {
	if r == nil {
		return
	}

	if matchHandler != nil {
		matchHandler.RegisterRoutes(r)
	}
	if insightsHandler != nil {
		insightsHandler.RegisterRoutes(r)
	}
}

func RegisterExchange(r fiber.Router, sessionHandler *handler.SessionHandler, reviewHandler *handler.ReviewHandler, notificationHandler *handler.NotificationHandler) {
	if r == nil {
		return
	}

	if sessionHandler != nil {
		sessionHandler.RegisterRoutes(r)
	}
	if reviewHandler != nil {
		reviewHandler.RegisterRoutes(r)
	}
	if notificationHandler != nil {
		notificationHandler.RegisterRoutes(r)
	}
}
