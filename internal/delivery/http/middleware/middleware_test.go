package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/infrastructure/cache"
	"skillswap/internal/pkg/jwt"
	"skillswap/internal/pkg/logger"
	"skillswap/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, resp *http.Response) response.SemanticResponse {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out response.SemanticResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestErrorMiddleware_AppError(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(logger.Discard()).Middleware())
	app.Get("/conflict", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusConflict, "Skill already exists", nil, errors.New("dup"))
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db exploded", nil, errors.New("x"))
	})
	app.Get("/down", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusServiceUnavailable, "Notifications are disabled", nil, nil)
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("kaboom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Skill already exists", decode(t, resp).Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, response.MessageInternalServerError, decode(t, resp).Message, "internal details are hidden")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/down", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	uid := uuid.New()

	app := fiber.New()
	app.Use(NewErrorMiddleware(logger.Discard()).Middleware())
	app.Use(NewAuthMiddleware(svc).Middleware())
	app.Get("/me", func(c fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String() + "|" + c.Locals(CtxNameKey).(string))
	})

	access, err := svc.GenerateAccessToken(jwt.Identity{UserID: uid, Email: "a@b.c", Name: "Ana"})
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(uid)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"malformed", "Token abc", fiber.StatusUnauthorized},
		{"refresh token rejected", "Bearer " + refresh, fiber.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", fiber.StatusUnauthorized},
		{"ok", "Bearer " + access, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, uid.String()+"|Ana", string(body))
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("bearer   abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cache.NewMemoryCounterStore(func() time.Time { return now })
	uid := uuid.New()

	app := fiber.New()
	app.Use(NewErrorMiddleware(logger.Discard()).Middleware())
	app.Use(func(c fiber.Ctx) error {
		c.Locals(CtxUserIDKey, uid)
		return c.Next()
	})
	app.Use(NewRateLimitMiddleware(store, "skills", config.RateLimitConfig{Max: 2, Window: time.Minute}, logger.Discard()).Middleware())
	app.Post("/skills", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/skills", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/skills", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get(fiber.HeaderRetryAfter))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	out := decode(t, resp)
	data, ok := out.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 60, data["retry_after"])

	now = now.Add(time.Minute + time.Second)
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/skills", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode, "window reset")
}
