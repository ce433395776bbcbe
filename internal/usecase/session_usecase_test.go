package usecase

import (
	"context"
	"testing"
	"time"

	"skillswap/internal/domain/notification"
	"skillswap/internal/domain/session"
	"skillswap/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_CreateAndTransition(t *testing.T) {
	host, partner := mkUser("Host"), mkUser("Partner")
	notifier := &recordingNotifier{}
	uc := NewSessionUsecase(newFakeSessions(), newFakeUsers(host, partner), notifier, logger.Discard())
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }
	ctx := context.Background()

	s, err := uc.Create(ctx, host.ID, CreateSessionInput{
		PartnerID:    partner.ID,
		ScheduledAt:  now.Add(24 * time.Hour),
		HostSkill:    "Go",
		PartnerSkill: "React",
	})
	require.NoError(t, err)
	assert.Equal(t, session.StatusPending, s.Status)
	assert.Equal(t, session.TypeVideo, s.Type)

	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, partner.ID, sent[0].UserID)
	assert.Equal(t, notification.TypeBooking, sent[0].Type)
	assert.Equal(t, "Host wants to schedule a session with you", sent[0].Content)

	_, err = uc.UpdateStatus(ctx, host.ID, s.ID, "confirmed")
	assert.ErrorIs(t, err, ErrInvalidTransition, "host cannot confirm")

	s, err = uc.UpdateStatus(ctx, partner.ID, s.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, session.StatusConfirmed, s.Status)
	last := notifier.all()[1]
	assert.Equal(t, host.ID, last.UserID)
	assert.Equal(t, "Partner confirmed your session request", last.Content)

	s, err = uc.UpdateStatus(ctx, host.ID, s.ID, "completed")
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, host.ID, s.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = uc.UpdateStatus(ctx, uuid.New(), s.ID, "cancelled")
	assert.ErrorIs(t, err, ErrForbidden)

	items, err := uc.List(ctx, partner.ID, "completed")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSessions_CreateValidation(t *testing.T) {
	host, partner := mkUser("Host"), mkUser("Partner")
	uc := NewSessionUsecase(newFakeSessions(), newFakeUsers(host, partner), nil, logger.Discard())
	future := time.Now().Add(time.Hour)
	ctx := context.Background()

	cases := map[string]CreateSessionInput{
		"self":      {PartnerID: host.ID, ScheduledAt: future, HostSkill: "a", PartnerSkill: "b"},
		"past":      {PartnerID: partner.ID, ScheduledAt: time.Now().Add(-time.Hour), HostSkill: "a", PartnerSkill: "b"},
		"no skills": {PartnerID: partner.ID, ScheduledAt: future},
		"bad type":  {PartnerID: partner.ID, ScheduledAt: future, HostSkill: "a", PartnerSkill: "b", Type: "phone"},
	}
	for name, in := range cases {
		_, err := uc.Create(ctx, host.ID, in)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}

	_, err := uc.Create(ctx, host.ID, CreateSessionInput{PartnerID: uuid.New(), ScheduledAt: future, HostSkill: "a", PartnerSkill: "b"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessions_Delete(t *testing.T) {
	host, partner := mkUser("Host"), mkUser("Partner")
	notifier := &recordingNotifier{}
	repo := newFakeSessions()
	uc := NewSessionUsecase(repo, newFakeUsers(host, partner), notifier, logger.Discard())
	ctx := context.Background()

	open := session.Session{ID: uuid.New(), HostID: host.ID, PartnerID: partner.ID, Status: session.StatusConfirmed}
	done := session.Session{ID: uuid.New(), HostID: host.ID, PartnerID: partner.ID, Status: session.StatusCompleted}
	cancelled := session.Session{ID: uuid.New(), HostID: host.ID, PartnerID: partner.ID, Status: session.StatusCancelled}
	for _, s := range []session.Session{open, done, cancelled} {
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
	}

	assert.ErrorIs(t, uc.Delete(ctx, uuid.New(), open.ID), ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, host.ID, done.ID), ErrSessionCompleted)
	assert.ErrorIs(t, uc.Delete(ctx, host.ID, uuid.New()), ErrNotFound)
	assert.Empty(t, notifier.all())

	require.NoError(t, uc.Delete(ctx, host.ID, open.ID))
	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, partner.ID, sent[0].UserID)
	assert.Equal(t, "Host cancelled your session", sent[0].Content)

	require.NoError(t, uc.Delete(ctx, partner.ID, cancelled.ID))
	assert.Len(t, notifier.all(), 1, "already cancelled sessions go quietly")

	_, err := uc.Get(ctx, host.ID, open.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
