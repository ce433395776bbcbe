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

type InsightsHandler struct {
	uc usecase.InsightsUsecase
}

func NewInsightsHandler(uc usecase.InsightsUsecase) *InsightsHandler {
	return &InsightsHandler{uc: uc}
}

// RegisterPublicRoutes mounts endpoints that need no caller identity.
func (h *InsightsHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/skills/categories", h.Catalog)
	r.Get("/skills/popular", h.Popular)
	r.Get("/skills/stats", h.Stats)
}

func (h *InsightsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skills")
	grp.Get("/recommendations", h.Recommendations)
	grp.Get("/gaps", h.Gaps)
	grp.Get("/learning-path", h.LearningPath)
}

func (h *InsightsHandler) Recommendations(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", usecase.DefaultRecommendationLimit)
	if err != nil {
		return err
	}

	items, err := h.uc.Recommendations(c.Context(), userID, strings.TrimSpace(c.Query("category")), limit)
	if err != nil {
		return mapInsightsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendations(items))
}

func (h *InsightsHandler) Gaps(c fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Category is required", nil, nil)
	}

	out, err := h.uc.Gaps(c.Context(), category)
	if err != nil {
		return mapInsightsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewGapReport(out))
}

func (h *InsightsHandler) LearningPath(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	target := strings.TrimSpace(c.Query("target"))
	if target == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Target skill is required", nil, nil)
	}

	out, err := h.uc.LearningPath(c.Context(), userID, target, strings.TrimSpace(c.Query("level")))
	if err != nil {
		return mapInsightsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewLearningPath(out))
}

func (h *InsightsHandler) Catalog(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCatalog(h.uc.Catalog()))
}

func (h *InsightsHandler) Popular(c fiber.Ctx) error {
	limit, err := queryInt(c, "limit", usecase.DefaultPopularLimit)
	if err != nil {
		return err
	}
	items, err := h.uc.Popular(c.Context(), strings.TrimSpace(c.Query("category")), limit)
	if err != nil {
		return mapInsightsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPopularSkills(items))
}

func (h *InsightsHandler) Stats(c fiber.Ctx) error {
	stats, err := h.uc.Stats(c.Context())
	if err != nil {
		return mapInsightsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPlatformStats(stats))
}

func mapInsightsUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
