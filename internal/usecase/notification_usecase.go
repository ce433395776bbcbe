package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"skillswap/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNotificationsDisabled = errors.New("notification storage not configured")

// Notifier delivers a notification. Delivery problems are logged, never
// returned, and callers do not wait for delivery.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

type NotificationStore interface {
	Insert(ctx context.Context, n notification.Notification) (notification.Notification, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]notification.Notification, int64, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id string) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type NotificationPusher interface {
	PushNotification(n notification.Notification) error
}

type NotificationUsecase interface {
	Notifier
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]notification.Notification, int64, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id string) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

const notifyTimeout = 5 * time.Second

type Notifications struct {
	store  NotificationStore
	pusher NotificationPusher
	logger logrus.FieldLogger
	now    func() time.Time

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewNotifications wires the store and the realtime pusher. Either may be
// nil: without a store notifications are pushed and logged only.
func NewNotifications(store NotificationStore, pusher NotificationPusher, logger logrus.FieldLogger) *Notifications {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Notifications{store: store, pusher: pusher, logger: logger.WithField("component", "notification"), now: time.Now}
}

// Notify validates n and hands it to a background delivery. Close waits
// for outstanding deliveries.
func (s *Notifications) Notify(ctx context.Context, n notification.Notification) {
	if !n.Type.Valid() || n.UserID == uuid.Nil {
		s.logger.WithField("type", n.Type).Warn("dropping malformed notification")
		return
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.WithFields(logrus.Fields{"user_id": n.UserID, "type": n.Type}).Warn("notifier closed, dropping")
		return
	}

	// the caller's request may already be finishing
	ctx = context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.deliver(ctx, n)
	}()
}

// Wait blocks until every delivery started so far has finished.
func (s *Notifications) Wait() {
	s.inflight.Wait()
}

// Close stops accepting notifications and drains the ones in flight.
func (s *Notifications) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.inflight.Wait()
}

func (s *Notifications) deliver(ctx context.Context, n notification.Notification) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	log := s.logger.WithFields(logrus.Fields{"user_id": n.UserID, "type": n.Type})

	if s.store != nil {
		stored, err := s.store.Insert(ctx, n)
		if err != nil {
			log.WithError(err).Error("store failed")
		} else {
			n = stored
		}
	}

	if s.pusher != nil {
		if err := s.pusher.PushNotification(n); err != nil {
			log.WithError(err).Warn("push failed")
		}
	}

	log.WithField("title", n.Title).Info("notified")
}

func (s *Notifications) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]notification.Notification, int64, error) {
	if s.store == nil {
		return nil, 0, ErrNotificationsDisabled
	}
	if limit < 1 || limit > 100 || offset < 0 {
		return nil, 0, ErrInvalidInput
	}
	items, total, err := s.store.List(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, ErrInternal
	}
	return items, total, nil
}

func (s *Notifications) MarkRead(ctx context.Context, userID uuid.UUID, id string) error {
	if s.store == nil {
		return ErrNotificationsDisabled
	}
	if err := s.store.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (s *Notifications) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.store == nil {
		return 0, ErrNotificationsDisabled
	}
	n, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, ErrInternal
	}
	return n, nil
}

func (s *Notifications) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.store == nil {
		return 0, ErrNotificationsDisabled
	}
	n, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		return 0, ErrInternal
	}
	return n, nil
}
