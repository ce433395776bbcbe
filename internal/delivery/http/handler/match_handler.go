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

type MatchHandler struct {
	uc          usecase.MatchUsecase
	suggestions usecase.SuggestionUsecase
}

func NewMatchHandler(uc usecase.MatchUsecase, suggestions usecase.SuggestionUsecase) *MatchHandler {
	return &MatchHandler{uc: uc, suggestions: suggestions}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/matches")
	grp.Get("/", h.List)
	grp.Post("/generate", h.Generate)
	grp.Get("/suggestions", h.Suggestions)
	grp.Post("/:id/like", h.Like)
	grp.Post("/:id/pass", h.Pass)
}

func (h *MatchHandler) List(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	limit, err := queryInt(c, "limit", usecase.DefaultMatchLimit)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}

	items, total, err := h.uc.List(c.Context(), userID, strings.TrimSpace(c.Query("status")), limit, offset)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	res := make([]dto.MatchResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.NewMatchView(it))
	}
	return response.Paginated(c, res, total, limit, offset)
}

func (h *MatchHandler) Generate(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.GenerateMatches(c.Context(), userID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewGenerateMatches(out))
}

func (h *MatchHandler) Like(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Like(c.Context(), userID, id)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	msg := "Match liked"
	if out.Mutual {
		msg = "It's a match!"
	}
	return response.Success(c, fiber.StatusOK, msg, dto.LikeMatchResponse{Match: dto.NewMatch(out.Match), Mutual: out.Mutual})
}

func (h *MatchHandler) Pass(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Pass(c.Context(), userID, id)
	if err != nil {
		return mapMatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Match passed", dto.NewMatch(out))
}

func (h *MatchHandler) Suggestions(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	minCompat, err := queryInt(c, "min_compatibility", usecase.DefaultMinCompatibility)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", usecase.DefaultSuggestionLimit)
	if err != nil {
		return err
	}

	items, err := h.suggestions.Suggestions(c.Context(), userID, usecase.SuggestionQuery{
		Category:         strings.TrimSpace(c.Query("category")),
		MinCompatibility: minCompat,
		Limit:            limit,
	})
	if err != nil {
		return mapMatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSuggestions(items))
}

func mapMatchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrGenerationInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Match generation already in progress", nil, err)
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match not found", nil, err)
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
