package usecase

import (
	"context"
	"testing"

	"skillswap/internal/domain/skill"
	"skillswap/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestions_RanksAndFilters(t *testing.T) {
	me := mkUser("Me",
		mkSkill("React", skill.CategoryFrontend, skill.LevelBeginner, false),
		mkSkill("Go", skill.CategoryBackend, skill.LevelExpert, true),
	)
	expert := mkUser("Expert", mkSkill("React", skill.CategoryFrontend, skill.LevelExpert, true))
	peer := mkUser("Peer", mkSkill("react", skill.CategoryFrontend, skill.LevelBeginner, true))
	peer.Rating = 4.8
	learner := mkUser("Learner", mkSkill("Go", skill.CategoryBackend, skill.LevelBeginner, false))
	stranger := mkUser("Stranger", mkSkill("Figma", skill.CategoryDesign, skill.LevelExpert, true))

	cache := newFakeCache()
	uc := NewSuggestionUsecase(newFakeUsers(me, expert, peer, learner, stranger), cache, logger.Discard())

	got, err := uc.Suggestions(context.Background(), me.ID, SuggestionQuery{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Expert", got[0].User.Name)
	assert.Equal(t, 75, got[0].Compatibility.OverallScore)
	assert.Equal(t, "Learner", got[1].User.Name)
	assert.Equal(t, "Peer", got[2].User.Name)
	assert.Empty(t, got[0].User.Email)

	filtered, err := uc.Suggestions(context.Background(), me.ID, SuggestionQuery{Category: "backend", MinCompatibility: 30})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Learner", filtered[0].User.Name)

	assert.Len(t, cache.data, 2)
	_, err = uc.Suggestions(context.Background(), me.ID, SuggestionQuery{MinCompatibility: 101})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSuggestions_ServedFromCache(t *testing.T) {
	me := mkUser("Me", mkSkill("Go", skill.CategoryBackend, skill.LevelExpert, true))
	users := newFakeUsers(me)
	cache := newFakeCache()
	uc := NewSuggestionUsecase(users, cache, logger.Discard())

	q := SuggestionQuery{Limit: 5}
	cached := []Suggestion{{User: mkUser("Cached")}}
	require.NoError(t, cache.SetJSON(context.Background(), SuggestionsCacheKey(me.ID, SuggestionQuery{Limit: 5, MinCompatibility: 0}), cached, 0))

	got, err := uc.Suggestions(context.Background(), me.ID, q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cached", got[0].User.Name)

	_, err = uc.Suggestions(context.Background(), uuid.New(), q)
	assert.ErrorIs(t, err, ErrNotFound)
}
