package repository

import (
	"context"
	"fmt"
	"sort"

	"skillswap/internal/database"
	"skillswap/internal/database/postgres"
	"skillswap/internal/domain/match"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

type MatchFilter struct {
	UserID uuid.UUID
	Status match.Status
	Limit  int
	Offset int
}

// MatchTx is the view of the match table available inside a pair lock.
type MatchTx interface {
	GetByID(ctx context.Context, id uuid.UUID) (match.Match, error)
	GetByPair(ctx context.Context, userID, partnerID uuid.UUID) (*match.Match, error)
	Update(ctx context.Context, m match.Match) error
}

type MatchRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (match.Match, error)
	Exists(ctx context.Context, userID, partnerID uuid.UUID) (bool, error)
	ExistingPartnerIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error)
	// InsertMatches inserts each row independently. Rows whose pair already
	// exists are skipped; per-row failures are keyed by partner id.
	InsertMatches(ctx context.Context, ms []match.Match) ([]match.Match, map[uuid.UUID]error)
	ListForUser(ctx context.Context, f MatchFilter) ([]match.Match, int, error)
	// WithPairLock runs fn in a transaction serialized against every other
	// caller for the same unordered pair. Retryable conflicts rerun fn.
	WithPairLock(ctx context.Context, a, b uuid.UUID, fn func(tx MatchTx) error) error
}

type querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (database.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) database.Row
}

const (
	matchColumns        = `id, user_id, partner_id, reason, score, status, liked_by, passed_by, created_at, updated_at`
	defaultLockAttempts = 3
)

type PostgresMatchRepository struct {
	db          database.DB
	maxAttempts int
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db, maxAttempts: defaultLockAttempts}
}

// PairLockKey maps an unordered pair of users to a Postgres advisory lock key.
func PairLockKey(a, b uuid.UUID) int64 {
	lo, hi := a.String(), b.String()
	if hi < lo {
		lo, hi = hi, lo
	}
	return int64(xxhash.Sum64String(lo + ":" + hi))
}

func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (match.Match, error) {
	return getMatchByID(ctx, r.db, id)
}

func (r *PostgresMatchRepository) Exists(ctx context.Context, userID, partnerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM matches WHERE user_id = $1 AND partner_id = $2)`,
		userID, partnerID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresMatchRepository) ExistingPartnerIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	rows, err := r.db.Query(ctx, `SELECT partner_id FROM matches WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) InsertMatches(ctx context.Context, ms []match.Match) ([]match.Match, map[uuid.UUID]error) {
	inserted := make([]match.Match, 0, len(ms))
	failed := make(map[uuid.UUID]error)

	for _, m := range ms {
		affected, err := r.db.Exec(ctx,
			`INSERT INTO matches (id, user_id, partner_id, reason, score, status, liked_by, passed_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (user_id, partner_id) DO NOTHING`,
			m.ID, m.UserID, m.PartnerID, m.Reason, m.Score, string(m.Status),
			idStrings(m.LikedBy), idStrings(m.PassedBy), m.CreatedAt, m.UpdatedAt,
		)
		if err != nil {
			failed[m.PartnerID] = err
			continue
		}
		if affected == 0 {
			continue
		}
		inserted = append(inserted, m)
	}
	return inserted, failed
}

func (r *PostgresMatchRepository) ListForUser(ctx context.Context, f MatchFilter) ([]match.Match, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM matches WHERE user_id = $1 AND status = $2`,
		f.UserID, string(f.Status),
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE user_id = $1 AND status = $2
		 ORDER BY score DESC, created_at DESC
		 LIMIT $3 OFFSET $4`,
		f.UserID, string(f.Status), f.Limit, f.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]match.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresMatchRepository) WithPairLock(ctx context.Context, a, b uuid.UUID, fn func(tx MatchTx) error) error {
	key := PairLockKey(a, b)

	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = database.RunInTx(ctx, r.db, func(tx database.Tx) error {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key); err != nil {
				return fmt.Errorf("pair lock: %w", err)
			}
			return fn(matchTx{q: tx})
		})
		if err == nil || !postgres.IsRetryable(err) {
			return err
		}
	}
	return err
}

type matchTx struct {
	q querier
}

func (t matchTx) GetByID(ctx context.Context, id uuid.UUID) (match.Match, error) {
	return getMatchByID(ctx, t.q, id)
}

func (t matchTx) GetByPair(ctx context.Context, userID, partnerID uuid.UUID) (*match.Match, error) {
	row := t.q.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE user_id = $1 AND partner_id = $2`,
		userID, partnerID,
	)
	m, err := scanMatch(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (t matchTx) Update(ctx context.Context, m match.Match) error {
	affected, err := t.q.Exec(ctx,
		`UPDATE matches
		 SET status = $2, liked_by = $3, passed_by = $4, updated_at = $5
		 WHERE id = $1`,
		m.ID, string(m.Status), idStrings(m.LikedBy), idStrings(m.PassedBy), m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return match.ErrNotFound
	}
	return nil
}

func getMatchByID(ctx context.Context, q querier, id uuid.UUID) (match.Match, error) {
	row := q.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if err != nil {
		if isNoRows(err) {
			return match.Match{}, match.ErrNotFound
		}
		return match.Match{}, err
	}
	return m, nil
}

func scanMatch(row database.Row) (match.Match, error) {
	var m match.Match
	var status string
	var liked, passed []string
	if err := row.Scan(&m.ID, &m.UserID, &m.PartnerID, &m.Reason, &m.Score, &status, &liked, &passed, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return match.Match{}, err
	}
	m.Status = match.Status(status)

	var err error
	if m.LikedBy, err = parseIDSet(liked); err != nil {
		return match.Match{}, err
	}
	if m.PassedBy, err = parseIDSet(passed); err != nil {
		return match.Match{}, err
	}
	return m, nil
}

func parseIDSet(raw []string) (match.IDSet, error) {
	set := match.NewIDSet()
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("bad user id in match set: %w", err)
		}
		set[id] = struct{}{}
	}
	return set, nil
}

func idStrings(set match.IDSet) []string {
	ids := set.Slice()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	sort.Strings(out)
	return out
}
