package handler

import (
	"errors"
	"strings"

	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"
	useruc "skillswap/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type updateProfileRequest struct {
	Name           *string `json:"name"`
	Bio            *string `json:"bio"`
	AvatarURL      *string `json:"avatar_url"`
	Location       *string `json:"location"`
	VideoCallReady *bool   `json:"video_call_ready"`
	IsActive       *bool   `json:"is_active"`
}

type portfolioLinkRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type availabilityRequest struct {
	Day       string   `json:"day"`
	TimeSlots []string `json:"time_slots"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/users/me", h.GetMe)
	r.Put("/users/me", h.UpdateMe)
	r.Post("/users/me/portfolio-links", h.AddPortfolioLink)
	r.Delete("/users/me/portfolio-links/:id", h.RemovePortfolioLink)
	r.Put("/users/me/availability", h.SetAvailability)
	r.Delete("/users/me/availability/:id", h.RemoveAvailability)
	r.Get("/users", h.Directory)
	r.Get("/users/:id", h.GetUser)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfile(prof, true))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.UpdateProfile(c.Context(), userID, useruc.UpdateProfileInput{
		Name:           req.Name,
		Bio:            req.Bio,
		AvatarURL:      req.AvatarURL,
		Location:       req.Location,
		VideoCallReady: req.VideoCallReady,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfile(updated, true))
}

func (h *UserHandler) GetUser(c fiber.Ctx) error {
	viewerID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.GetPublicProfile(c.Context(), viewerID, id)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfile(prof, viewerID == id))
}

func (h *UserHandler) Directory(c fiber.Ctx) error {
	viewerID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	limit, err := queryInt(c, "limit", useruc.DefaultDirectoryLimit)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	offering, err := queryBool(c, "offering")
	if err != nil {
		return err
	}
	video, err := queryBool(c, "video_call_ready")
	if err != nil {
		return err
	}

	items, total, err := h.uc.Directory(c.Context(), viewerID, useruc.DirectoryQuery{
		Search:         strings.TrimSpace(c.Query("search")),
		SkillName:      strings.TrimSpace(c.Query("skill")),
		Category:       strings.TrimSpace(c.Query("category")),
		Level:          strings.TrimSpace(c.Query("level")),
		Location:       strings.TrimSpace(c.Query("location")),
		Offering:       offering,
		VideoCallReady: video,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}

	res := make([]dto.UserProfileResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.NewUserProfile(it, false))
	}
	return response.Paginated(c, res, total, limit, offset)
}

func (h *UserHandler) AddPortfolioLink(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req portfolioLinkRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	prof, err := h.uc.AddPortfolioLink(c.Context(), userID, req.Platform, req.URL)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Portfolio link added successfully", dto.NewUserProfile(prof, true))
}

func (h *UserHandler) RemovePortfolioLink(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.RemovePortfolioLink(c.Context(), userID, id)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Portfolio link removed successfully", dto.NewUserProfile(prof, true))
}

func (h *UserHandler) SetAvailability(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req availabilityRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	prof, err := h.uc.SetAvailability(c.Context(), userID, req.Day, req.TimeSlots)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Availability updated successfully", dto.NewUserProfile(prof, true))
}

func (h *UserHandler) RemoveAvailability(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.RemoveAvailability(c.Context(), userID, id)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Availability slot removed successfully", dto.NewUserProfile(prof, true))
}

func mapUserUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, useruc.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, useruc.ErrPortfolioNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Portfolio link not found", nil, err)
	case errors.Is(err, useruc.ErrAvailabilityNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Availability slot not found", nil, err)
	case errors.Is(err, useruc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
