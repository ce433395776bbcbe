package repository

import (
	"context"

	"skillswap/internal/database"
	"skillswap/internal/domain/session"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, s session.Session) (session.Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (session.Session, error)
	// ListForUser returns sessions the user hosts or joins, soonest first.
	// An empty status lists all of them.
	ListForUser(ctx context.Context, userID uuid.UUID, status session.Status) ([]session.Session, error)
	// Transition locks the row, applies fn and stores the result.
	Transition(ctx context.Context, id uuid.UUID, fn func(session.Session) (session.Session, error)) (session.Session, error)
	// Delete locks the row, lets check veto the removal and deletes it.
	Delete(ctx context.Context, id uuid.UUID, check func(session.Session) error) (session.Session, error)
}

const sessionColumns = `id, host_id, partner_id, scheduled_at, status, type, host_skill, partner_skill, notes, meeting_link, created_at, updated_at`

type PostgresSessionRepository struct {
	db database.DB
}

func NewPostgresSessionRepository(db database.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, s session.Session) (session.Session, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO sessions (id, host_id, partner_id, scheduled_at, status, type, host_skill, partner_skill, notes, meeting_link, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+sessionColumns,
		s.ID, s.HostID, s.PartnerID, s.ScheduledAt, string(s.Status), string(s.Type),
		s.HostSkill, s.PartnerSkill, s.Notes, s.MeetingLink, s.CreatedAt, s.UpdatedAt,
	)
	return scanSession(row)
}

func (r *PostgresSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (session.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}
	return s, nil
}

func (r *PostgresSessionRepository) ListForUser(ctx context.Context, userID uuid.UUID, status session.Status) ([]session.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE (host_id = $1 OR partner_id = $1)
		   AND ($2::text = '' OR status = $2::text)
		 ORDER BY scheduled_at ASC`,
		userID, string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]session.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSessionRepository) Transition(ctx context.Context, id uuid.UUID, fn func(session.Session) (session.Session, error)) (session.Session, error) {
	var out session.Session
	err := database.RunInTx(ctx, r.db, func(tx database.Tx) error {
		cur, err := scanSession(tx.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if isNoRows(err) {
				return session.ErrNotFound
			}
			return err
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE sessions SET status = $2, updated_at = $3 WHERE id = $1`,
			next.ID, string(next.Status), next.UpdatedAt,
		); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return session.Session{}, err
	}
	return out, nil
}

func (r *PostgresSessionRepository) Delete(ctx context.Context, id uuid.UUID, check func(session.Session) error) (session.Session, error) {
	var out session.Session
	err := database.RunInTx(ctx, r.db, func(tx database.Tx) error {
		cur, err := scanSession(tx.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if isNoRows(err) {
				return session.ErrNotFound
			}
			return err
		}
		if err := check(cur); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return session.Session{}, err
	}
	return out, nil
}

func scanSession(row database.Row) (session.Session, error) {
	var s session.Session
	var status, typ string
	if err := row.Scan(
		&s.ID, &s.HostID, &s.PartnerID, &s.ScheduledAt, &status, &typ,
		&s.HostSkill, &s.PartnerSkill, &s.Notes, &s.MeetingLink, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return session.Session{}, err
	}
	s.Status = session.Status(status)
	s.Type = session.Type(typ)
	return s, nil
}
