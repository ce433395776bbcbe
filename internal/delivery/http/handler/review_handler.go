package handler

import (
	"errors"
	"strings"

	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/domain/review"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	uc usecase.ReviewUsecase
}

type createReviewRequest struct {
	SessionID uuid.UUID        `json:"session_id"`
	Rating    int              `json:"rating"`
	Comment   string           `json:"comment"`
	Criteria  *review.Criteria `json:"criteria"`
}

func NewReviewHandler(uc usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/reviews", h.Create)
	r.Get("/reviews", h.ListMine)
	r.Get("/reviews/sessions/:id", h.ListForSession)
	r.Get("/users/:id/reviews", h.ListForUser)
}

func (h *ReviewHandler) Create(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, summary, err := h.uc.Create(c.Context(), userID, usecase.CreateReviewInput{
		SessionID: req.SessionID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Criteria:  req.Criteria,
	})
	if err != nil {
		return mapReviewUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.CreateReviewResponse{
		Review:          dto.NewReview(created),
		UserRating:      summary.Rating,
		UserReviewCount: summary.ReviewCount,
	})
}

func (h *ReviewHandler) ListForUser(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", usecase.DefaultReviewLimit)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}

	out, err := h.uc.ListForUser(c.Context(), id, limit, offset)
	if err != nil {
		return mapReviewUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ReviewListResponse{
		Items:         dto.NewReviews(out.Items),
		Total:         out.Total,
		Limit:         limit,
		Offset:        offset,
		AverageRating: out.AverageRating,
	})
}

// ListMine serves ?type=received|given for the caller.
func (h *ReviewHandler) ListMine(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", usecase.DefaultReviewLimit)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}

	out, err := h.uc.ListMine(c.Context(), userID, strings.TrimSpace(c.Query("type")), limit, offset)
	if err != nil {
		return mapReviewUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ReviewListResponse{
		Items:         dto.NewReviews(out.Items),
		Total:         out.Total,
		Limit:         limit,
		Offset:        offset,
		AverageRating: out.AverageRating,
	})
}

func (h *ReviewHandler) ListForSession(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListForSession(c.Context(), userID, id)
	if err != nil {
		return mapReviewUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReviews(items))
}

func mapReviewUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, review.ErrAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, "You have already reviewed this session", nil, err)
	case errors.Is(err, review.ErrNotParticipant):
		return middleware.NewAppError(fiber.StatusForbidden, "Not authorized to review this session", nil, err)
	case errors.Is(err, review.ErrNotCompleted):
		return middleware.NewAppError(fiber.StatusBadRequest, "Can only review completed sessions", nil, err)
	case errors.Is(err, review.ErrSelfReview):
		return middleware.NewAppError(fiber.StatusBadRequest, "Cannot review yourself", nil, err)
	case errors.Is(err, review.ErrInvalidRating):
		return middleware.NewAppError(fiber.StatusBadRequest, "Rating must be between 1 and 5", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
