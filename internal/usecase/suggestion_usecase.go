package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"skillswap/internal/domain/matching"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMinCompatibility = 20
	DefaultSuggestionLimit  = 10
	MaxSuggestionLimit      = 50
	suggestionTTL           = 5 * time.Minute
)

type SuggestionQuery struct {
	Category         string
	MinCompatibility int
	Limit            int
}

type Suggestion struct {
	User          user.User              `json:"user"`
	Compatibility matching.Compatibility `json:"compatibility"`
}

type SuggestionUsecase interface {
	Suggestions(ctx context.Context, userID uuid.UUID, q SuggestionQuery) ([]Suggestion, error)
}

type Suggestions struct {
	users  user.Repository
	cache  Cache
	logger logrus.FieldLogger
}

func NewSuggestionUsecase(users user.Repository, cache Cache, logger logrus.FieldLogger) *Suggestions {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Suggestions{users: users, cache: cache, logger: logger.WithField("component", "suggestions")}
}

func (q SuggestionQuery) normalize() (SuggestionQuery, skill.Category, error) {
	if q.Limit == 0 {
		q.Limit = DefaultSuggestionLimit
	}
	if q.Limit < 1 || q.Limit > MaxSuggestionLimit {
		return q, "", ErrInvalidInput
	}
	if q.MinCompatibility < 0 || q.MinCompatibility > 100 {
		return q, "", ErrInvalidInput
	}
	var cat skill.Category
	if q.Category != "" {
		c, ok := skill.ParseCategory(q.Category)
		if !ok {
			return q, "", ErrInvalidInput
		}
		cat = c
		q.Category = string(c)
	}
	return q, cat, nil
}

// Suggestions ranks active users by skill compatibility with userID. Only
// users sharing at least one complementary skill are returned.
func (u *Suggestions) Suggestions(ctx context.Context, userID uuid.UUID, q SuggestionQuery) ([]Suggestion, error) {
	q, cat, err := q.normalize()
	if err != nil {
		return nil, err
	}

	key := SuggestionsCacheKey(userID, q)
	if u.cache != nil {
		var cached []Suggestion
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	me, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}
	if len(me.Skills) == 0 {
		return []Suggestion{}, nil
	}

	candidates, err := u.users.ListActiveExcept(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]Suggestion, 0)
	for _, c := range candidates {
		if cat != "" && !hasCategory(c.Skills, cat) {
			continue
		}
		comp := matching.Score(me.Skills, c.Skills)
		if len(comp.Entries) == 0 || comp.OverallScore < q.MinCompatibility {
			continue
		}
		c = c.Sanitized()
		c.Email = ""
		out = append(out, Suggestion{User: c, Compatibility: comp})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Compatibility.OverallScore != b.Compatibility.OverallScore {
			return a.Compatibility.OverallScore > b.Compatibility.OverallScore
		}
		return a.User.Rating > b.User.Rating
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, out, suggestionTTL); err != nil {
			u.logger.WithError(err).Debug("cache suggestions failed")
		}
	}
	return out, nil
}

func hasCategory(list []skill.Skill, c skill.Category) bool {
	for _, s := range list {
		if s.Category == c {
			return true
		}
	}
	return false
}
