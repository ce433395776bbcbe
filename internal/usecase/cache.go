package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cache is the subset of the redis wrapper the usecases rely on. A bypassing
// implementation reports Available() == false and misses on every read.
type Cache interface {
	Available() bool
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type suggestionCacheKeyInput struct {
	Category string `json:"category"`
	Min      int    `json:"min"`
	Limit    int    `json:"limit"`
}

func SuggestionsCacheKey(userID uuid.UUID, q SuggestionQuery) string {
	in := suggestionCacheKeyInput{
		Category: strings.ToLower(strings.TrimSpace(q.Category)),
		Min:      q.MinCompatibility,
		Limit:    q.Limit,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "suggestions:" + userID.String() + ":" + hex.EncodeToString(sum[:8])
}

func SuggestionsCachePattern(userID uuid.UUID) string {
	return "suggestions:" + userID.String() + ":*"
}

func GenerateLockKey(userID uuid.UUID) string {
	return "matches:generate:lock:" + userID.String()
}
