package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/domain/match"
	"skillswap/internal/domain/notification"
	"skillswap/internal/domain/review"
	"skillswap/internal/domain/session"
	"skillswap/internal/pkg/logger"
	"skillswap/internal/pkg/response"
	"skillswap/internal/repository"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMatches struct {
	generateErr error
	listStatus  string
	listLimit   int
}

func (s *stubMatches) GenerateMatches(ctx context.Context, userID uuid.UUID) (usecase.GenerateResult, error) {
	if s.generateErr != nil {
		return usecase.GenerateResult{}, s.generateErr
	}
	return usecase.GenerateResult{Created: []match.Match{{ID: uuid.New(), UserID: userID, Score: 80}}, Evaluated: 3}, nil
}

func (s *stubMatches) GenerateAll(ctx context.Context, concurrency int) (map[uuid.UUID]usecase.GenerateResult, error) {
	return nil, nil
}

func (s *stubMatches) Like(ctx context.Context, actor, matchID uuid.UUID) (usecase.LikeResult, error) {
	return usecase.LikeResult{Match: match.Match{ID: matchID, Status: match.StatusMatched}, Mutual: true}, nil
}

func (s *stubMatches) Pass(ctx context.Context, actor, matchID uuid.UUID) (match.Match, error) {
	return match.Match{}, usecase.ErrForbidden
}

func (s *stubMatches) List(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]usecase.MatchView, int, error) {
	s.listStatus, s.listLimit = status, limit
	if status == "bogus" {
		return nil, 0, usecase.ErrInvalidInput
	}
	return []usecase.MatchView{{Match: match.Match{ID: uuid.New(), Status: match.StatusPending}}}, 1, nil
}

type stubSuggestions struct {
	got usecase.SuggestionQuery
}

func (s *stubSuggestions) Suggestions(ctx context.Context, userID uuid.UUID, q usecase.SuggestionQuery) ([]usecase.Suggestion, error) {
	s.got = q
	return nil, nil
}

type stubNotifications struct{}

func (stubNotifications) Notify(ctx context.Context, n notification.Notification) {}

func (stubNotifications) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]notification.Notification, int64, error) {
	return nil, 0, usecase.ErrNotificationsDisabled
}

func (stubNotifications) MarkRead(ctx context.Context, userID uuid.UUID, id string) error {
	return usecase.ErrNotFound
}

func (stubNotifications) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 2, nil
}

func (stubNotifications) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 5, nil
}

type stubReviews struct {
	createErr error
}

func (s stubReviews) Create(ctx context.Context, fromUserID uuid.UUID, in usecase.CreateReviewInput) (review.Review, repository.RatingSummary, error) {
	if s.createErr != nil {
		return review.Review{}, repository.RatingSummary{}, s.createErr
	}
	return review.Review{ID: uuid.New(), FromUserID: fromUserID, SessionID: in.SessionID, Rating: in.Rating}, repository.RatingSummary{Rating: 4.5, ReviewCount: 2}, nil
}

func (s stubReviews) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) (usecase.ReviewList, error) {
	return usecase.ReviewList{}, nil
}

func (s stubReviews) ListMine(ctx context.Context, userID uuid.UUID, direction string, limit, offset int) (usecase.ReviewList, error) {
	if direction != "" && direction != usecase.ReviewsReceived && direction != usecase.ReviewsGiven {
		return usecase.ReviewList{}, usecase.ErrInvalidInput
	}
	return usecase.ReviewList{
		Items:         []review.Review{{ID: uuid.New(), FromUserID: userID, Rating: 4}},
		Total:         1,
		AverageRating: 4,
	}, nil
}

func (s stubReviews) ListForSession(ctx context.Context, viewerID, sessionID uuid.UUID) ([]review.Review, error) {
	return nil, review.ErrNotParticipant
}

type stubSessions struct {
	deleteErr error
}

func (stubSessions) Create(ctx context.Context, hostID uuid.UUID, in usecase.CreateSessionInput) (session.Session, error) {
	return session.Session{ID: uuid.New(), HostID: hostID, PartnerID: in.PartnerID, Status: session.StatusPending}, nil
}

func (stubSessions) Get(ctx context.Context, actor, id uuid.UUID) (session.Session, error) {
	return session.Session{}, usecase.ErrNotFound
}

func (stubSessions) List(ctx context.Context, userID uuid.UUID, status string) ([]session.Session, error) {
	return nil, nil
}

func (stubSessions) UpdateStatus(ctx context.Context, actor, id uuid.UUID, status string) (session.Session, error) {
	return session.Session{}, usecase.ErrInvalidTransition
}

func (s stubSessions) Delete(ctx context.Context, actor, id uuid.UUID) error {
	return s.deleteErr
}

type stubInsights struct {
	usecase.InsightsUsecase
	gotCategory string
}

func (s *stubInsights) Popular(ctx context.Context, category string, limit int) ([]repository.SkillPopularity, error) {
	if category == "Cooking" {
		return nil, usecase.ErrInvalidInput
	}
	s.gotCategory = category
	return []repository.SkillPopularity{{Name: "Go", Category: "Backend", Total: limit}}, nil
}

func (s *stubInsights) Stats(ctx context.Context) (usecase.PlatformStats, error) {
	return usecase.PlatformStats{TotalUsers: 3, ExchangeRatio: 1.5}, nil
}

func newTestApp(userID uuid.UUID, register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(logger.Discard()).Middleware())
	app.Use(func(c fiber.Ctx) error {
		c.Locals(middleware.CtxUserIDKey, userID)
		return c.Next()
	})
	register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, response.SemanticResponse) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out response.SemanticResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestMatchHandler(t *testing.T) {
	uid := uuid.New()
	matches := &stubMatches{}
	sugg := &stubSuggestions{}
	app := newTestApp(uid, NewMatchHandler(matches, sugg).RegisterRoutes)

	status, body := do(t, app, http.MethodPost, "/matches/generate", nil)
	assert.Equal(t, fiber.StatusOK, status)
	data := body.Data.(map[string]any)
	assert.EqualValues(t, 1, data["count"])
	assert.EqualValues(t, 3, data["evaluated"])

	matches.generateErr = usecase.ErrGenerationInProgress
	status, _ = do(t, app, http.MethodPost, "/matches/generate", nil)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = do(t, app, http.MethodGet, "/matches?status=liked", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "liked", matches.listStatus)
	assert.Equal(t, usecase.DefaultMatchLimit, matches.listLimit)
	page := body.Data.(map[string]any)
	assert.EqualValues(t, 1, page["total"])

	status, _ = do(t, app, http.MethodGet, "/matches?status=bogus", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/matches?limit=abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = do(t, app, http.MethodPost, "/matches/"+uuid.NewString()+"/like", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "It's a match!", body.Message)

	status, _ = do(t, app, http.MethodPost, "/matches/not-a-uuid/like", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/matches/"+uuid.NewString()+"/pass", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestMatchHandler_NotFoundMessages(t *testing.T) {
	matches := &stubMatches{generateErr: usecase.ErrUserNotFound}
	app := newTestApp(uuid.New(), NewMatchHandler(matches, &stubSuggestions{}).RegisterRoutes)

	status, body := do(t, app, http.MethodPost, "/matches/generate", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "User not found", body.Message)

	assert.Equal(t, "Match not found", mapMatchUsecaseError(usecase.ErrNotFound).(*middleware.AppError).Message)
}

func TestMatchHandler_SuggestionDefaults(t *testing.T) {
	sugg := &stubSuggestions{}
	app := newTestApp(uuid.New(), NewMatchHandler(&stubMatches{}, sugg).RegisterRoutes)

	status, _ := do(t, app, http.MethodGet, "/matches/suggestions", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, usecase.DefaultMinCompatibility, sugg.got.MinCompatibility)
	assert.Equal(t, usecase.DefaultSuggestionLimit, sugg.got.Limit)

	status, _ = do(t, app, http.MethodGet, "/matches/suggestions?min_compatibility=0&category=Design", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0, sugg.got.MinCompatibility)
	assert.Equal(t, "Design", sugg.got.Category)
}

func TestNotificationHandler(t *testing.T) {
	app := newTestApp(uuid.New(), NewNotificationHandler(stubNotifications{}).RegisterRoutes)

	status, _ := do(t, app, http.MethodGet, "/notifications", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	status, _ = do(t, app, http.MethodPatch, "/notifications/abc/read", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body := do(t, app, http.MethodGet, "/notifications/unread-count", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 5, body.Data.(map[string]any)["count"])

	status, body = do(t, app, http.MethodPatch, "/notifications/read-all", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, body.Data.(map[string]any)["updated"])
}

func TestReviewHandler(t *testing.T) {
	uid := uuid.New()
	app := newTestApp(uid, NewReviewHandler(stubReviews{}).RegisterRoutes)

	status, body := do(t, app, http.MethodPost, "/reviews", map[string]any{
		"session_id": uuid.NewString(),
		"rating":     5,
		"comment":    "great",
	})
	assert.Equal(t, fiber.StatusCreated, status)
	data := body.Data.(map[string]any)
	assert.EqualValues(t, 4.5, data["user_rating"])
	assert.EqualValues(t, 2, data["user_review_count"])

	cases := []struct {
		err    error
		status int
	}{
		{review.ErrAlreadyExists, fiber.StatusConflict},
		{review.ErrNotParticipant, fiber.StatusForbidden},
		{review.ErrNotCompleted, fiber.StatusBadRequest},
		{review.ErrInvalidRating, fiber.StatusBadRequest},
		{usecase.ErrNotFound, fiber.StatusNotFound},
	}
	for _, tc := range cases {
		app := newTestApp(uid, NewReviewHandler(stubReviews{createErr: tc.err}).RegisterRoutes)
		status, _ := do(t, app, http.MethodPost, "/reviews", map[string]any{"session_id": uuid.NewString(), "rating": 5})
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}

func TestReviewHandler_Lists(t *testing.T) {
	uid := uuid.New()
	app := newTestApp(uid, NewReviewHandler(stubReviews{}).RegisterRoutes)

	status, body := do(t, app, http.MethodGet, "/reviews?type=given", nil)
	assert.Equal(t, fiber.StatusOK, status)
	data := body.Data.(map[string]any)
	assert.EqualValues(t, 1, data["total"])
	assert.Len(t, data["items"], 1)

	status, _ = do(t, app, http.MethodGet, "/reviews?type=sideways", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/reviews/sessions/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestSessionHandler_Delete(t *testing.T) {
	uid := uuid.New()
	cases := []struct {
		err    error
		status int
	}{
		{nil, fiber.StatusOK},
		{usecase.ErrSessionCompleted, fiber.StatusConflict},
		{usecase.ErrForbidden, fiber.StatusForbidden},
		{usecase.ErrNotFound, fiber.StatusNotFound},
	}
	for _, tc := range cases {
		app := newTestApp(uid, NewSessionHandler(stubSessions{deleteErr: tc.err}).RegisterRoutes)
		status, _ := do(t, app, http.MethodDelete, "/sessions/"+uuid.NewString(), nil)
		assert.Equal(t, tc.status, status, "%v", tc.err)
	}

	app := newTestApp(uid, NewSessionHandler(stubSessions{}).RegisterRoutes)
	status, _ := do(t, app, http.MethodDelete, "/sessions/nope", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestInsightsHandler_PublicStats(t *testing.T) {
	stub := &stubInsights{}
	app := newTestApp(uuid.New(), NewInsightsHandler(stub).RegisterPublicRoutes)

	status, body := do(t, app, http.MethodGet, "/skills/popular?category=Backend&limit=7", nil)
	assert.Equal(t, fiber.StatusOK, status)
	items := body.Data.([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 7, items[0].(map[string]any)["total_users"])
	assert.Equal(t, "Backend", stub.gotCategory)

	status, _ = do(t, app, http.MethodGet, "/skills/popular?category=Cooking", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = do(t, app, http.MethodGet, "/skills/stats", nil)
	assert.Equal(t, fiber.StatusOK, status)
	data := body.Data.(map[string]any)
	assert.EqualValues(t, 3, data["total_users"])
	assert.EqualValues(t, 1.5, data["exchange_ratio"])
	assert.Equal(t, []any{}, data["categories"])
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return assert.AnError }

	app := newTestApp(uuid.New(), NewHealthHandler(
		HealthCheck{Name: "postgres", Required: true, Ping: ok},
		HealthCheck{Name: "redis", Ping: down},
		HealthCheck{Name: "mongo"},
	).RegisterRoutes)

	status, body := do(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	data := body.Data.(map[string]any)
	assert.Equal(t, "degraded", data["status"])
	deps := data["dependencies"].(map[string]any)
	assert.Equal(t, "down", deps["redis"])
	assert.Equal(t, "disabled", deps["mongo"])

	app = newTestApp(uuid.New(), NewHealthHandler(HealthCheck{Name: "postgres", Required: true, Ping: down}).RegisterRoutes)
	status, _ = do(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}
