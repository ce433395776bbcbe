package handler

import (
	"errors"
	"strings"
	"time"

	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SessionHandler struct {
	uc usecase.SessionUsecase
}

type createSessionRequest struct {
	PartnerID    uuid.UUID `json:"partner_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Type         string    `json:"type"`
	HostSkill    string    `json:"host_skill"`
	PartnerSkill string    `json:"partner_skill"`
	Notes        string    `json:"notes"`
	MeetingLink  string    `json:"meeting_link"`
}

type updateSessionStatusRequest struct {
	Status string `json:"status"`
}

func NewSessionHandler(uc usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/sessions")
	grp.Post("/", h.Create)
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Patch("/:id/status", h.UpdateStatus)
	grp.Delete("/:id", h.Delete)
}

func (h *SessionHandler) Create(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req createSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Create(c.Context(), userID, usecase.CreateSessionInput{
		PartnerID:    req.PartnerID,
		ScheduledAt:  req.ScheduledAt,
		Type:         req.Type,
		HostSkill:    req.HostSkill,
		PartnerSkill: req.PartnerSkill,
		Notes:        req.Notes,
		MeetingLink:  req.MeetingLink,
	})
	if err != nil {
		return mapSessionUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewSession(created))
}

func (h *SessionHandler) List(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), userID, strings.TrimSpace(c.Query("status")))
	if err != nil {
		return mapSessionUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessions(items))
}

func (h *SessionHandler) Get(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	s, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return mapSessionUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSession(s))
}

func (h *SessionHandler) UpdateStatus(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateSessionStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.uc.UpdateStatus(c.Context(), userID, id, req.Status)
	if err != nil {
		return mapSessionUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSession(s))
}

func (h *SessionHandler) Delete(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapSessionUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Session cancelled successfully", nil)
}

func mapSessionUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, "Invalid status transition", nil, err)
	case errors.Is(err, usecase.ErrSessionCompleted):
		return middleware.NewAppError(fiber.StatusConflict, "Completed sessions cannot be deleted", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
