package repository

import (
	"context"

	"skillswap/internal/database"
	"skillswap/internal/database/postgres"
	"skillswap/internal/domain/review"
	"skillswap/internal/domain/user"

	"github.com/google/uuid"
)

// RatingSummary is the reviewed user's standing after a review lands.
type RatingSummary struct {
	Rating      float64
	ReviewCount int
}

type ReviewRepository interface {
	// Create stores r and recomputes the target's rating and review count in
	// the same transaction. The target's user row is locked first so
	// concurrent reviews of one user recompute in turn.
	Create(ctx context.Context, r review.Review) (review.Review, RatingSummary, error)
	// ListForUser pages reviews the user received, newest first, with the
	// total and average rating across all of them.
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]review.Review, int, float64, error)
	// ListByAuthor is ListForUser for reviews the user wrote.
	ListByAuthor(ctx context.Context, userID uuid.UUID, limit, offset int) ([]review.Review, int, float64, error)
	ListForSession(ctx context.Context, sessionID uuid.UUID) ([]review.Review, error)
}

const reviewColumns = `id, from_user_id, to_user_id, session_id, rating, comment, communication, skill_level, punctuality, created_at`

type PostgresReviewRepository struct {
	db database.DB
}

func NewPostgresReviewRepository(db database.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) Create(ctx context.Context, rv review.Review) (review.Review, RatingSummary, error) {
	var comm, lvl, punct *int
	if c := rv.Criteria; c != nil {
		comm, lvl, punct = &c.Communication, &c.SkillLevel, &c.Punctuality
	}

	var created review.Review
	var summary RatingSummary
	err := database.RunInTx(ctx, r.db, func(tx database.Tx) error {
		locked, err := tx.Exec(ctx, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, rv.ToUserID)
		if err != nil {
			return err
		}
		if locked == 0 {
			return user.ErrNotFound
		}

		row := tx.QueryRow(ctx,
			`INSERT INTO reviews (id, from_user_id, to_user_id, session_id, rating, comment, communication, skill_level, punctuality, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING `+reviewColumns,
			rv.ID, rv.FromUserID, rv.ToUserID, rv.SessionID, rv.Rating, rv.Comment, comm, lvl, punct, rv.CreatedAt,
		)
		created, err = scanReview(row)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return review.ErrAlreadyExists
			}
			return err
		}

		return tx.QueryRow(ctx,
			`UPDATE users u
			 SET rating = agg.avg_rating, review_count = agg.cnt, updated_at = now()
			 FROM (
				SELECT COALESCE(round(AVG(rating)::numeric, 1), 0)::float8 AS avg_rating, COUNT(*)::int AS cnt
				FROM reviews WHERE to_user_id = $1
			 ) agg
			 WHERE u.id = $1
			 RETURNING u.rating, u.review_count`,
			rv.ToUserID,
		).Scan(&summary.Rating, &summary.ReviewCount)
	})
	if err != nil {
		return review.Review{}, RatingSummary{}, err
	}
	return created, summary, nil
}

func (r *PostgresReviewRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]review.Review, int, float64, error) {
	return r.listBy(ctx, "to_user_id", userID, limit, offset)
}

func (r *PostgresReviewRepository) ListByAuthor(ctx context.Context, userID uuid.UUID, limit, offset int) ([]review.Review, int, float64, error) {
	return r.listBy(ctx, "from_user_id", userID, limit, offset)
}

func (r *PostgresReviewRepository) ListForSession(ctx context.Context, sessionID uuid.UUID) ([]review.Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE session_id = $1 ORDER BY created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

// listBy pages reviews where column equals id. column is always one of the
// two user reference columns, never caller input.
func (r *PostgresReviewRepository) listBy(ctx context.Context, column string, id uuid.UUID, limit, offset int) ([]review.Review, int, float64, error) {
	var total int
	var avg float64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8 FROM reviews WHERE `+column+` = $1`,
		id,
	).Scan(&total, &avg); err != nil {
		return nil, 0, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+reviewColumns+`
		 FROM reviews
		 WHERE `+column+` = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		id, limit, offset,
	)
	if err != nil {
		return nil, 0, 0, err
	}
	out, err := collectReviews(rows)
	if err != nil {
		return nil, 0, 0, err
	}
	return out, total, review.RoundRating(avg), nil
}

func collectReviews(rows database.Rows) ([]review.Review, error) {
	defer rows.Close()

	out := make([]review.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanReview(row database.Row) (review.Review, error) {
	var rv review.Review
	var comm, lvl, punct *int
	if err := row.Scan(&rv.ID, &rv.FromUserID, &rv.ToUserID, &rv.SessionID, &rv.Rating, &rv.Comment, &comm, &lvl, &punct, &rv.CreatedAt); err != nil {
		return review.Review{}, err
	}
	if comm != nil && lvl != nil && punct != nil {
		rv.Criteria = &review.Criteria{Communication: *comm, SkillLevel: *lvl, Punctuality: *punct}
	}
	return rv, nil
}
