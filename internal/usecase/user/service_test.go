package user

import (
	"context"
	"testing"
	"time"

	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryQuery_Filter(t *testing.T) {
	viewer := uuid.New()

	f, err := DirectoryQuery{Search: " JS ", SkillName: " React ", Category: "design", Level: "expert"}.filter(viewer)
	require.NoError(t, err)
	assert.Equal(t, []string{"js", "javascript"}, f.SearchTerms)
	assert.Equal(t, "react", f.SkillName)
	assert.Equal(t, skill.CategoryDesign, f.Category)
	assert.Equal(t, skill.LevelExpert, f.Level)
	assert.Equal(t, viewer, f.ExcludeID)
	assert.Equal(t, DefaultDirectoryLimit, f.Limit)

	f, err = DirectoryQuery{}.filter(viewer)
	require.NoError(t, err)
	assert.Empty(t, f.SearchTerms)
}

func TestDirectoryQuery_FilterRejects(t *testing.T) {
	cases := []DirectoryQuery{
		{Limit: MaxDirectoryLimit + 1},
		{Limit: -1},
		{Offset: -1},
		{Category: "Cooking"},
		{Level: "Guru"},
	}
	for _, q := range cases {
		_, err := q.filter(uuid.New())
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

// profileStore keeps one user plus its portfolio and availability in memory.
type profileStore struct {
	user.Repository
	u user.User
}

func (p *profileStore) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if id != p.u.ID {
		return user.User{}, user.ErrNotFound
	}
	return p.u, nil
}

func (p *profileStore) AddPortfolioLink(_ context.Context, userID uuid.UUID, l user.PortfolioLink) error {
	if userID != p.u.ID {
		return user.ErrNotFound
	}
	p.u.PortfolioLinks = append(p.u.PortfolioLinks, l)
	return nil
}

func (p *profileStore) RemovePortfolioLink(_ context.Context, userID, linkID uuid.UUID) error {
	for i, l := range p.u.PortfolioLinks {
		if l.ID == linkID && userID == p.u.ID {
			p.u.PortfolioLinks = append(p.u.PortfolioLinks[:i], p.u.PortfolioLinks[i+1:]...)
			return nil
		}
	}
	return user.ErrPortfolioNotFound
}

func (p *profileStore) UpsertAvailability(_ context.Context, userID uuid.UUID, a user.Availability) error {
	if userID != p.u.ID {
		return user.ErrNotFound
	}
	for i := range p.u.Availability {
		if p.u.Availability[i].Day == a.Day {
			p.u.Availability[i].TimeSlots = a.TimeSlots
			return nil
		}
	}
	p.u.Availability = append(p.u.Availability, a)
	return nil
}

func (p *profileStore) RemoveAvailability(_ context.Context, userID, slotID uuid.UUID) error {
	for i, a := range p.u.Availability {
		if a.ID == slotID && userID == p.u.ID {
			p.u.Availability = append(p.u.Availability[:i], p.u.Availability[i+1:]...)
			return nil
		}
	}
	return user.ErrAvailabilityNotFound
}

func TestService_PortfolioLinks(t *testing.T) {
	store := &profileStore{u: user.User{ID: uuid.New(), Name: "Alice", PasswordHash: "secret", IsActive: true}}
	svc := NewService(store, store)
	ctx := context.Background()

	prof, err := svc.AddPortfolioLink(ctx, store.u.ID, "GitHub", "https://github.com/alice")
	require.NoError(t, err)
	require.Len(t, prof.PortfolioLinks, 1)
	assert.Empty(t, prof.PasswordHash)

	_, err = svc.AddPortfolioLink(ctx, store.u.ID, "GitHub", "not a url")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddPortfolioLink(ctx, uuid.New(), "GitHub", "https://github.com/bob")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RemovePortfolioLink(ctx, store.u.ID, uuid.New())
	assert.ErrorIs(t, err, ErrPortfolioNotFound)

	prof, err = svc.RemovePortfolioLink(ctx, store.u.ID, prof.PortfolioLinks[0].ID)
	require.NoError(t, err)
	assert.Empty(t, prof.PortfolioLinks)
}

func TestService_Availability(t *testing.T) {
	store := &profileStore{u: user.User{ID: uuid.New(), Name: "Alice", IsActive: true}}
	svc := NewService(store, store)
	ctx := context.Background()

	_, err := svc.SetAvailability(ctx, store.u.ID, "Monday", []string{"09:00-10:00"})
	require.NoError(t, err)
	prof, err := svc.SetAvailability(ctx, store.u.ID, "monday", []string{"18:00-19:00"})
	require.NoError(t, err)
	require.Len(t, prof.Availability, 1, "same day replaces its slots")
	assert.Equal(t, time.Monday, prof.Availability[0].Day)
	assert.Equal(t, []string{"18:00-19:00"}, prof.Availability[0].TimeSlots)

	_, err = svc.SetAvailability(ctx, store.u.ID, "Someday", []string{"x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RemoveAvailability(ctx, store.u.ID, uuid.New())
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)

	prof, err = svc.RemoveAvailability(ctx, store.u.ID, prof.Availability[0].ID)
	require.NoError(t, err)
	assert.Empty(t, prof.Availability)
}
