package user

import (
	"context"
	"errors"
	"strings"

	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/search"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("user not found")
	ErrInternal             = errors.New("internal error")
	ErrPortfolioNotFound    = errors.New("portfolio link not found")
	ErrAvailabilityNotFound = errors.New("availability slot not found")
)

const (
	DefaultDirectoryLimit = 20
	MaxDirectoryLimit     = 100
	maxBioLength          = 500
)

type UpdateProfileInput struct {
	Name           *string
	Bio            *string
	AvatarURL      *string
	Location       *string
	VideoCallReady *bool
	IsActive       *bool
}

type DirectoryQuery struct {
	Search         string
	SkillName      string
	Category       string
	Level          string
	Location       string
	Offering       *bool
	VideoCallReady *bool
	Limit          int
	Offset         int
}

type Service struct {
	users    user.Repository
	profiles user.ProfileRepository
}

func NewService(users user.Repository, profiles user.ProfileRepository) *Service {
	return &Service{users: users, profiles: profiles}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return usr.Sanitized(), nil
}

// GetPublicProfile hides inactive accounts from everyone but their owner.
func (s *Service) GetPublicProfile(ctx context.Context, viewerID, userID uuid.UUID) (user.User, error) {
	usr, err := s.GetProfile(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	if !usr.IsActive && viewerID != userID {
		return user.User{}, ErrNotFound
	}
	usr.Email = ""
	return usr, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 2 {
			return user.User{}, ErrInvalidInput
		}
		usr.Name = name
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if len(bio) > maxBioLength {
			return user.User{}, ErrInvalidInput
		}
		usr.Bio = bio
	}
	if in.AvatarURL != nil {
		usr.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}
	if in.Location != nil {
		usr.Location = strings.TrimSpace(*in.Location)
	}
	if in.VideoCallReady != nil {
		usr.VideoCallReady = *in.VideoCallReady
	}
	if in.IsActive != nil {
		usr.IsActive = *in.IsActive
	}

	if err := s.users.UpdateUser(ctx, usr); err != nil {
		return user.User{}, ErrInternal
	}

	return s.GetProfile(ctx, userID)
}

// AddPortfolioLink appends a link and returns the refreshed profile.
func (s *Service) AddPortfolioLink(ctx context.Context, userID uuid.UUID, platform, rawURL string) (user.User, error) {
	l, err := user.NewPortfolioLink(platform, rawURL)
	if err != nil {
		return user.User{}, ErrInvalidInput
	}
	if err := s.profiles.AddPortfolioLink(ctx, userID, l); err != nil {
		return user.User{}, mapProfileError(err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *Service) RemovePortfolioLink(ctx context.Context, userID, linkID uuid.UUID) (user.User, error) {
	if err := s.profiles.RemovePortfolioLink(ctx, userID, linkID); err != nil {
		return user.User{}, mapProfileError(err)
	}
	return s.GetProfile(ctx, userID)
}

// SetAvailability replaces the time slots for one weekday.
func (s *Service) SetAvailability(ctx context.Context, userID uuid.UUID, day string, slots []string) (user.User, error) {
	a, err := user.NewAvailability(day, slots)
	if err != nil {
		return user.User{}, ErrInvalidInput
	}
	if err := s.profiles.UpsertAvailability(ctx, userID, a); err != nil {
		return user.User{}, mapProfileError(err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *Service) RemoveAvailability(ctx context.Context, userID, slotID uuid.UUID) (user.User, error) {
	if err := s.profiles.RemoveAvailability(ctx, userID, slotID); err != nil {
		return user.User{}, mapProfileError(err)
	}
	return s.GetProfile(ctx, userID)
}

func mapProfileError(err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, user.ErrPortfolioNotFound):
		return ErrPortfolioNotFound
	case errors.Is(err, user.ErrAvailabilityNotFound):
		return ErrAvailabilityNotFound
	default:
		return ErrInternal
	}
}

// Directory lists active users other than the viewer.
func (s *Service) Directory(ctx context.Context, viewerID uuid.UUID, q DirectoryQuery) ([]user.User, int, error) {
	f, err := q.filter(viewerID)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.users.Search(ctx, f)
	if err != nil {
		return nil, 0, ErrInternal
	}
	for i := range items {
		items[i] = items[i].Sanitized()
		items[i].Email = ""
	}
	return items, total, nil
}

func (q DirectoryQuery) filter(viewerID uuid.UUID) (user.DirectoryFilter, error) {
	limit := q.Limit
	if limit == 0 {
		limit = DefaultDirectoryLimit
	}
	if limit < 1 || limit > MaxDirectoryLimit || q.Offset < 0 {
		return user.DirectoryFilter{}, ErrInvalidInput
	}

	f := user.DirectoryFilter{
		SearchTerms:    search.ProcessQuery(q.Search).Variants,
		SkillName:      skill.NormalizeName(q.SkillName),
		Location:       strings.TrimSpace(q.Location),
		Offering:       q.Offering,
		VideoCallReady: q.VideoCallReady,
		ExcludeID:      viewerID,
		Limit:          limit,
		Offset:         q.Offset,
	}
	if q.Category != "" {
		c, ok := skill.ParseCategory(q.Category)
		if !ok {
			return user.DirectoryFilter{}, ErrInvalidInput
		}
		f.Category = c
	}
	if q.Level != "" {
		l, ok := skill.ParseLevel(q.Level)
		if !ok {
			return user.DirectoryFilter{}, ErrInvalidInput
		}
		f.Level = l
	}
	return f, nil
}
