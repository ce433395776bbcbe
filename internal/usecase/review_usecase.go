package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillswap/internal/domain/notification"
	"skillswap/internal/domain/review"
	"skillswap/internal/domain/session"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultReviewLimit = 20
	maxCommentLength   = 1000
)

type CreateReviewInput struct {
	SessionID uuid.UUID
	Rating    int
	Comment   string
	Criteria  *review.Criteria
}

// Review list directions relative to the caller.
const (
	ReviewsReceived = "received"
	ReviewsGiven    = "given"
)

type ReviewList struct {
	Items         []review.Review
	Total         int
	AverageRating float64
}

type ReviewUsecase interface {
	Create(ctx context.Context, fromUserID uuid.UUID, in CreateReviewInput) (review.Review, repository.RatingSummary, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) (ReviewList, error)
	ListMine(ctx context.Context, userID uuid.UUID, direction string, limit, offset int) (ReviewList, error)
	ListForSession(ctx context.Context, viewerID, sessionID uuid.UUID) ([]review.Review, error)
}

type Reviews struct {
	reviews  repository.ReviewRepository
	sessions repository.SessionRepository
	users    user.Repository
	notifier Notifier
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewReviewUsecase(reviews repository.ReviewRepository, sessions repository.SessionRepository, users user.Repository, notifier Notifier, logger logrus.FieldLogger) *Reviews {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reviews{
		reviews:  reviews,
		sessions: sessions,
		users:    users,
		notifier: notifier,
		logger:   logger.WithField("component", "review"),
		now:      time.Now,
	}
}

// Create reviews the other participant of a completed session.
func (u *Reviews) Create(ctx context.Context, fromUserID uuid.UUID, in CreateReviewInput) (review.Review, repository.RatingSummary, error) {
	comment := strings.TrimSpace(in.Comment)
	if in.SessionID == uuid.Nil || len(comment) > maxCommentLength {
		return review.Review{}, repository.RatingSummary{}, ErrInvalidInput
	}

	sess, err := u.sessions.GetByID(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return review.Review{}, repository.RatingSummary{}, ErrNotFound
		}
		return review.Review{}, repository.RatingSummary{}, ErrInternal
	}
	if !sess.IsParticipant(fromUserID) {
		return review.Review{}, repository.RatingSummary{}, review.ErrNotParticipant
	}
	if sess.Status != session.StatusCompleted {
		return review.Review{}, repository.RatingSummary{}, review.ErrNotCompleted
	}

	rv := review.Review{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   sess.Counterpart(fromUserID),
		SessionID:  sess.ID,
		Rating:     in.Rating,
		Comment:    comment,
		Criteria:   in.Criteria,
		CreatedAt:  u.now().UTC(),
	}
	if err := rv.Validate(); err != nil {
		return review.Review{}, repository.RatingSummary{}, err
	}

	created, summary, err := u.reviews.Create(ctx, rv)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrAlreadyExists):
			return review.Review{}, repository.RatingSummary{}, review.ErrAlreadyExists
		case errors.Is(err, user.ErrNotFound):
			return review.Review{}, repository.RatingSummary{}, ErrNotFound
		}
		u.logger.WithError(err).WithField("session_id", sess.ID).Error("create review failed")
		return review.Review{}, repository.RatingSummary{}, ErrInternal
	}

	if u.notifier != nil {
		reviewer := "Someone"
		if names, err := u.users.GetSummaries(ctx, []uuid.UUID{fromUserID}); err == nil {
			if s, ok := names[fromUserID]; ok && s.Name != "" {
				reviewer = s.Name
			}
		}
		u.notifier.Notify(ctx, notification.Notification{
			UserID:    created.ToUserID,
			Type:      notification.TypeReview,
			Title:     "New Review",
			Content:   fmt.Sprintf("%s left you a %d-star review", reviewer, created.Rating),
			RelatedID: created.ID,
			Metadata:  map[string]any{"rating": created.Rating, "session_id": sess.ID.String()},
		})
	}
	return created, summary, nil
}

func (u *Reviews) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) (ReviewList, error) {
	return u.list(ctx, u.reviews.ListForUser, userID, limit, offset)
}

// ListMine lists reviews the caller received or wrote. An empty direction
// means received.
func (u *Reviews) ListMine(ctx context.Context, userID uuid.UUID, direction string, limit, offset int) (ReviewList, error) {
	switch direction {
	case "", ReviewsReceived:
		return u.list(ctx, u.reviews.ListForUser, userID, limit, offset)
	case ReviewsGiven:
		return u.list(ctx, u.reviews.ListByAuthor, userID, limit, offset)
	default:
		return ReviewList{}, ErrInvalidInput
	}
}

// ListForSession returns the reviews left on a session. Only its
// participants may read them.
func (u *Reviews) ListForSession(ctx context.Context, viewerID, sessionID uuid.UUID) ([]review.Review, error) {
	sess, err := u.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	if !sess.IsParticipant(viewerID) {
		return nil, review.ErrNotParticipant
	}
	items, err := u.reviews.ListForSession(ctx, sessionID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

type reviewPager func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]review.Review, int, float64, error)

func (u *Reviews) list(ctx context.Context, page reviewPager, userID uuid.UUID, limit, offset int) (ReviewList, error) {
	if limit == 0 {
		limit = DefaultReviewLimit
	}
	if limit < 1 || limit > 100 || offset < 0 {
		return ReviewList{}, ErrInvalidInput
	}
	items, total, avg, err := page(ctx, userID, limit, offset)
	if err != nil {
		return ReviewList{}, ErrInternal
	}
	return ReviewList{Items: items, Total: total, AverageRating: avg}, nil
}
