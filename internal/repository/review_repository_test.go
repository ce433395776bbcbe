package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"skillswap/internal/database"
	"skillswap/internal/domain/review"
	"skillswap/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewRowFor(rv review.Review) fakeRow {
	return fakeRow{vals: []any{
		rv.ID, rv.FromUserID, rv.ToUserID, rv.SessionID, rv.Rating, rv.Comment,
		nil, nil, nil, rv.CreatedAt,
	}}
}

func TestReviewCreate_LocksTargetBeforeRecompute(t *testing.T) {
	rv := review.Review{
		ID:         uuid.New(),
		FromUserID: uuid.New(),
		ToUserID:   uuid.New(),
		SessionID:  uuid.New(),
		Rating:     5,
		Comment:    "clear explanations",
		CreatedAt:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	var lockedID any
	db := &fakeDB{
		exec: func(query string, args []any) (int64, error) {
			lockedID = args[0]
			return 1, nil
		},
		queryRow: func(query string, args []any) database.Row {
			if strings.Contains(query, "INSERT INTO reviews") {
				return reviewRowFor(rv)
			}
			return fakeRow{vals: []any{4.5, 2}}
		},
	}

	created, summary, err := NewPostgresReviewRepository(db).Create(context.Background(), rv)
	require.NoError(t, err)
	assert.Equal(t, rv.ID, created.ID)
	assert.Equal(t, RatingSummary{Rating: 4.5, ReviewCount: 2}, summary)
	assert.Equal(t, rv.ToUserID, lockedID)

	require.Len(t, db.stmts, 3)
	assert.Contains(t, db.stmts[0], "FOR UPDATE")
	assert.Contains(t, db.stmts[1], "INSERT INTO reviews")
	assert.Contains(t, db.stmts[2], "UPDATE users")
	assert.Equal(t, 1, db.begins)
	assert.Equal(t, 1, db.commits)
}

func TestReviewCreate_MissingTargetInsertsNothing(t *testing.T) {
	db := &fakeDB{
		exec: func(string, []any) (int64, error) { return 0, nil },
	}

	_, _, err := NewPostgresReviewRepository(db).Create(context.Background(), review.Review{ID: uuid.New(), ToUserID: uuid.New(), Rating: 4})
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.Len(t, db.stmts, 1)
	assert.Zero(t, db.commits)
	assert.Equal(t, 1, db.rollbacks)
}
