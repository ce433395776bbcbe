package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillswap/internal/database/postgres"
	"skillswap/internal/domain/skill"
	"skillswap/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrSkillAlreadyExists = errors.New("skill already exists")
	ErrSkillNotFound      = errors.New("skill not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	// ErrUserNotFound is the ErrNotFound for a missing user, as opposed to a
	// missing match or session.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
)

type UserSkillInput struct {
	Name     string
	Category string
	Level    string
	Offering bool
}

type UserSkillUsecase interface {
	ListUserSkills(ctx context.Context, userID uuid.UUID) ([]skill.Skill, error)
	AddUserSkill(ctx context.Context, userID uuid.UUID, in UserSkillInput) (skill.Skill, error)
	UpdateUserSkill(ctx context.Context, userID uuid.UUID, skillID uuid.UUID, in UserSkillInput) (skill.Skill, error)
	DeleteUserSkill(ctx context.Context, userID uuid.UUID, skillID uuid.UUID) error
}

type UserSkill struct {
	repo   repository.UserSkillRepository
	cache  Cache
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewUserSkillUsecase(repo repository.UserSkillRepository, cache Cache, logger logrus.FieldLogger) *UserSkill {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserSkill{repo: repo, cache: cache, logger: logger.WithField("component", "user_skill"), now: time.Now}
}

func (u *UserSkill) ListUserSkills(ctx context.Context, userID uuid.UUID) ([]skill.Skill, error) {
	items, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (in UserSkillInput) toSkill(id, userID uuid.UUID) (skill.Skill, error) {
	s := skill.Skill{
		ID:       id,
		UserID:   userID,
		Name:     strings.TrimSpace(in.Name),
		Offering: in.Offering,
	}
	c, ok := skill.ParseCategory(in.Category)
	if !ok {
		return skill.Skill{}, ErrInvalidInput
	}
	l, ok := skill.ParseLevel(in.Level)
	if !ok {
		return skill.Skill{}, ErrInvalidInput
	}
	s.Category, s.Level = c, l
	if err := s.Validate(); err != nil {
		return skill.Skill{}, ErrInvalidInput
	}
	return s, nil
}

func (u *UserSkill) AddUserSkill(ctx context.Context, userID uuid.UUID, in UserSkillInput) (skill.Skill, error) {
	s, err := in.toSkill(uuid.New(), userID)
	if err != nil {
		return skill.Skill{}, err
	}
	s.CreatedAt = u.now().UTC()

	created, err := u.repo.Create(ctx, s)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return skill.Skill{}, ErrSkillAlreadyExists
		}
		if postgres.IsForeignKeyViolation(err) {
			return skill.Skill{}, ErrNotFound
		}
		return skill.Skill{}, ErrInternal
	}
	u.invalidate(ctx, userID)
	return created, nil
}

func (u *UserSkill) UpdateUserSkill(ctx context.Context, userID uuid.UUID, skillID uuid.UUID, in UserSkillInput) (skill.Skill, error) {
	if skillID == uuid.Nil {
		return skill.Skill{}, ErrInvalidInput
	}
	s, err := in.toSkill(skillID, userID)
	if err != nil {
		return skill.Skill{}, err
	}

	updated, err := u.repo.Update(ctx, s)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserSkillNotFound):
			return skill.Skill{}, ErrSkillNotFound
		case postgres.IsUniqueViolation(err):
			return skill.Skill{}, ErrSkillAlreadyExists
		default:
			return skill.Skill{}, ErrInternal
		}
	}
	u.invalidate(ctx, userID)
	return updated, nil
}

func (u *UserSkill) DeleteUserSkill(ctx context.Context, userID uuid.UUID, skillID uuid.UUID) error {
	if skillID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.repo.Delete(ctx, skillID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserSkillNotFound):
			return ErrSkillNotFound
		case errors.Is(err, repository.ErrUserSkillForbidden):
			return ErrForbidden
		default:
			return ErrInternal
		}
	}
	u.invalidate(ctx, userID)
	return nil
}

// invalidate drops cached suggestions computed from the old skill list.
func (u *UserSkill) invalidate(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil || !u.cache.Available() {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, SuggestionsCachePattern(userID)); err != nil {
		u.logger.WithError(err).WithField("user_id", userID).Warn("suggestion cache invalidation failed")
	}
}
