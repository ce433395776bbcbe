package handler

import (
	"errors"
	"strings"

	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/notifications")
	grp.Get("/", h.List)
	grp.Get("/unread-count", h.UnreadCount)
	grp.Patch("/read-all", h.MarkAllRead)
	grp.Patch("/:id/read", h.MarkRead)
}

func (h *NotificationHandler) List(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	unread, err := queryBool(c, "unread")
	if err != nil {
		return err
	}

	items, total, err := h.uc.List(c.Context(), userID, unread != nil && *unread, limit, offset)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Paginated(c, dto.NewNotifications(items), int(total), limit, offset)
}

func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, nil)
	}

	if err := h.uc.MarkRead(c.Context(), userID, id); err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	n, err := h.uc.MarkAllRead(c.Context(), userID)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "All notifications marked as read", map[string]any{"updated": n})
}

func (h *NotificationHandler) UnreadCount(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	n, err := h.uc.UnreadCount(c.Context(), userID)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"count": n})
}

func mapNotificationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrNotificationsDisabled):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Notifications are not available", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
