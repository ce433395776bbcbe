package middleware

import (
	"math"
	"strconv"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/infrastructure/cache"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RateLimitMiddleware caps requests per caller within a fixed window. Callers
// are keyed by user id when authenticated, else by IP.
type RateLimitMiddleware struct {
	store  cache.CounterStore
	scope  string
	max    int
	window time.Duration
	logger logrus.FieldLogger
}

func NewRateLimitMiddleware(store cache.CounterStore, scope string, cfg config.RateLimitConfig, logger logrus.FieldLogger) *RateLimitMiddleware {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RateLimitMiddleware{
		store:  store,
		scope:  scope,
		max:    cfg.Max,
		window: cfg.Window,
		logger: logger.WithField("component", "ratelimit"),
	}
}

func (m *RateLimitMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m.store == nil || m.max <= 0 || m.window <= 0 {
			return c.Next()
		}

		key := m.scope + ":" + callerKey(c)
		count, resetIn, err := m.store.Hit(c.Context(), key, m.window)
		if err != nil {
			// Counting failures never block the request.
			m.logger.WithError(err).WithField("key", key).Warn("rate limit check failed")
			return c.Next()
		}

		remaining := int64(m.max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(m.max))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(m.max) {
			secs := int64(math.Ceil(resetIn.Seconds()))
			if secs < 1 {
				secs = 1
			}
			return NewAppError(fiber.StatusTooManyRequests, "Too many requests, please try again later", map[string]any{
				"retry_after": secs,
			}, nil)
		}

		return c.Next()
	}
}

func callerKey(c fiber.Ctx) string {
	if id, ok := c.Locals(CtxUserIDKey).(uuid.UUID); ok && id != uuid.Nil {
		return "user:" + id.String()
	}
	return "ip:" + c.IP()
}
