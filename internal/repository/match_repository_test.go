package repository

import (
	"context"
	"testing"

	"skillswap/internal/domain/match"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairLockKey_IsOrderIndependent(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	assert.Equal(t, PairLockKey(a, b), PairLockKey(b, a))
	assert.NotEqual(t, PairLockKey(a, b), PairLockKey(a, c))
}

func TestIDSetRoundTrip(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	raw := idStrings(match.NewIDSet(a, b, a))
	require.Len(t, raw, 2)

	set, err := parseIDSet(raw)
	require.NoError(t, err)
	assert.True(t, set.Has(a))
	assert.True(t, set.Has(b))

	_, err = parseIDSet([]string{"not-a-uuid"})
	assert.Error(t, err)
}

func runPairLock(t *testing.T, errs ...error) (*fakeDB, int, error) {
	t.Helper()
	db := &fakeDB{}
	repo := NewPostgresMatchRepository(db)
	calls := 0
	err := repo.WithPairLock(context.Background(), uuid.New(), uuid.New(), func(MatchTx) error {
		defer func() { calls++ }()
		if calls < len(errs) {
			return errs[calls]
		}
		return nil
	})
	return db, calls, err
}

func TestWithPairLock_RetriesConflicts(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}

	db, calls, err := runPairLock(t, serialization, serialization)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, db.begins)
	assert.Equal(t, 1, db.commits)
	assert.Equal(t, 2, db.rollbacks)
	for _, stmt := range db.stmts {
		assert.Contains(t, stmt, "pg_advisory_xact_lock")
	}

	_, calls, err = runPairLock(t, &pgconn.PgError{Code: "40P01"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "deadlocks retry too")
}

func TestWithPairLock_PassesThroughOtherErrors(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}

	db, calls, err := runPairLock(t, unique)
	assert.Same(t, unique, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, db.begins)
	assert.Zero(t, db.commits)
}

func TestWithPairLock_GivesUpAfterMaxAttempts(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}

	db, calls, err := runPairLock(t, serialization, serialization, serialization, serialization)
	assert.ErrorIs(t, err, serialization)
	assert.Equal(t, defaultLockAttempts, calls)
	assert.Equal(t, defaultLockAttempts, db.begins)
	assert.Zero(t, db.commits)
}
