package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillswap/internal/domain/notification"
	"skillswap/internal/domain/session"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSessionCompleted  = errors.New("session completed")
)

type CreateSessionInput struct {
	PartnerID    uuid.UUID
	ScheduledAt  time.Time
	Type         string
	HostSkill    string
	PartnerSkill string
	Notes        string
	MeetingLink  string
}

type SessionUsecase interface {
	Create(ctx context.Context, hostID uuid.UUID, in CreateSessionInput) (session.Session, error)
	Get(ctx context.Context, actor, id uuid.UUID) (session.Session, error)
	List(ctx context.Context, userID uuid.UUID, status string) ([]session.Session, error)
	UpdateStatus(ctx context.Context, actor, id uuid.UUID, status string) (session.Session, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error
}

type Sessions struct {
	sessions repository.SessionRepository
	users    user.Repository
	notifier Notifier
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewSessionUsecase(sessions repository.SessionRepository, users user.Repository, notifier Notifier, logger logrus.FieldLogger) *Sessions {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Sessions{sessions: sessions, users: users, notifier: notifier, logger: logger.WithField("component", "session"), now: time.Now}
}

func (u *Sessions) Create(ctx context.Context, hostID uuid.UUID, in CreateSessionInput) (session.Session, error) {
	if in.PartnerID == uuid.Nil || in.PartnerID == hostID {
		return session.Session{}, ErrInvalidInput
	}
	typ, ok := session.ParseType(in.Type)
	if !ok {
		return session.Session{}, ErrInvalidInput
	}
	hostSkill, partnerSkill := strings.TrimSpace(in.HostSkill), strings.TrimSpace(in.PartnerSkill)
	if hostSkill == "" || partnerSkill == "" {
		return session.Session{}, ErrInvalidInput
	}
	now := u.now().UTC()
	if in.ScheduledAt.IsZero() || !in.ScheduledAt.After(now) {
		return session.Session{}, ErrInvalidInput
	}

	host, err := u.users.GetUserByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return session.Session{}, ErrUnauthorized
		}
		return session.Session{}, ErrInternal
	}
	partner, err := u.users.GetUserByID(ctx, in.PartnerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return session.Session{}, ErrNotFound
		}
		return session.Session{}, ErrInternal
	}
	if !partner.IsActive {
		return session.Session{}, ErrNotFound
	}

	created, err := u.sessions.Create(ctx, session.Session{
		ID:           uuid.New(),
		HostID:       hostID,
		PartnerID:    partner.ID,
		ScheduledAt:  in.ScheduledAt.UTC(),
		Status:       session.StatusPending,
		Type:         typ,
		HostSkill:    hostSkill,
		PartnerSkill: partnerSkill,
		Notes:        strings.TrimSpace(in.Notes),
		MeetingLink:  strings.TrimSpace(in.MeetingLink),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		u.logger.WithError(err).Error("create session failed")
		return session.Session{}, ErrInternal
	}

	u.notify(ctx, notification.Notification{
		UserID:    partner.ID,
		Type:      notification.TypeBooking,
		Title:     "New Session Request",
		Content:   host.Name + " wants to schedule a session with you",
		RelatedID: created.ID,
		Metadata: map[string]any{
			"scheduled_at":  created.ScheduledAt.Format(time.RFC3339),
			"host_skill":    created.HostSkill,
			"partner_skill": created.PartnerSkill,
		},
	})
	return created, nil
}

func (u *Sessions) Get(ctx context.Context, actor, id uuid.UUID) (session.Session, error) {
	s, err := u.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.Session{}, ErrNotFound
		}
		return session.Session{}, ErrInternal
	}
	if !s.IsParticipant(actor) {
		return session.Session{}, ErrForbidden
	}
	return s, nil
}

func (u *Sessions) List(ctx context.Context, userID uuid.UUID, status string) ([]session.Session, error) {
	var st session.Status
	if status != "" {
		var ok bool
		if st, ok = session.ParseStatus(status); !ok {
			return nil, ErrInvalidInput
		}
	}
	items, err := u.sessions.ListForUser(ctx, userID, st)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Sessions) UpdateStatus(ctx context.Context, actor, id uuid.UUID, status string) (session.Session, error) {
	next, ok := session.ParseStatus(status)
	if !ok {
		return session.Session{}, ErrInvalidInput
	}

	updated, err := u.sessions.Transition(ctx, id, func(cur session.Session) (session.Session, error) {
		return cur.Transition(actor, next, u.now())
	})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			return session.Session{}, ErrNotFound
		case errors.Is(err, session.ErrNotParticipant):
			return session.Session{}, ErrForbidden
		case errors.Is(err, session.ErrInvalidTransition):
			return session.Session{}, ErrInvalidTransition
		default:
			u.logger.WithError(err).WithField("session_id", id).Error("update session failed")
			return session.Session{}, ErrInternal
		}
	}

	title, content := session.StatusNotice(updated.Status, u.displayName(ctx, actor))
	u.notify(ctx, notification.Notification{
		UserID:    updated.Counterpart(actor),
		Type:      notification.TypeBooking,
		Title:     title,
		Content:   content,
		RelatedID: updated.ID,
	})
	return updated, nil
}

// Delete removes a session the actor takes part in. A still-open session
// counts as cancelled for the other participant.
func (u *Sessions) Delete(ctx context.Context, actor, id uuid.UUID) error {
	removed, err := u.sessions.Delete(ctx, id, func(cur session.Session) error {
		return cur.CheckDelete(actor)
	})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			return ErrNotFound
		case errors.Is(err, session.ErrNotParticipant):
			return ErrForbidden
		case errors.Is(err, session.ErrCompletedDelete):
			return ErrSessionCompleted
		default:
			u.logger.WithError(err).WithField("session_id", id).Error("delete session failed")
			return ErrInternal
		}
	}

	if removed.Status == session.StatusCancelled {
		return nil
	}
	actorName := u.displayName(ctx, actor)
	title, content := session.StatusNotice(session.StatusCancelled, actorName)
	u.notify(ctx, notification.Notification{
		UserID:    removed.Counterpart(actor),
		Type:      notification.TypeBooking,
		Title:     title,
		Content:   content,
		RelatedID: removed.ID,
	})
	return nil
}

func (u *Sessions) displayName(ctx context.Context, id uuid.UUID) string {
	if names, err := u.users.GetSummaries(ctx, []uuid.UUID{id}); err == nil {
		if s, ok := names[id]; ok && s.Name != "" {
			return s.Name
		}
	}
	return "Your partner"
}

func (u *Sessions) notify(ctx context.Context, n notification.Notification) {
	if u.notifier != nil {
		u.notifier.Notify(ctx, n)
	}
}
