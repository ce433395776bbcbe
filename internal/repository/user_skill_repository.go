package repository

import (
	"context"
	"database/sql"
	"errors"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrUserSkillNotFound  = errors.New("skill not found")
	ErrUserSkillForbidden = errors.New("forbidden")
)

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.Skill, error)
	Create(ctx context.Context, s skill.Skill) (skill.Skill, error)
	Update(ctx context.Context, s skill.Skill) (skill.Skill, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

const userSkillColumns = `id, user_id, name, category, level, offering, created_at`

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userSkillColumns+`
		 FROM user_skills
		 WHERE user_id = $1
		 ORDER BY offering DESC, name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanUserSkill(rows)
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

func (r *PostgresUserSkillRepository) Create(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO user_skills (id, user_id, name, category, level, offering)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userSkillColumns,
		s.ID, s.UserID, s.Name, string(s.Category), string(s.Level), s.Offering,
	)
	return scanUserSkill(row)
}

func (r *PostgresUserSkillRepository) Update(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE user_skills
		 SET name = $3, category = $4, level = $5, offering = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+userSkillColumns,
		s.ID, s.UserID, s.Name, string(s.Category), string(s.Level), s.Offering,
	)
	updated, err := scanUserSkill(row)
	if err != nil {
		if isNoRows(err) {
			return skill.Skill{}, ErrUserSkillNotFound
		}
		return skill.Skill{}, err
	}
	return updated, nil
}

func (r *PostgresUserSkillRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	var owner uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT user_id FROM user_skills WHERE id = $1`, id)
	if err := row.Scan(&owner); err != nil {
		if isNoRows(err) {
			return ErrUserSkillNotFound
		}
		return err
	}
	if owner != userID {
		return ErrUserSkillForbidden
	}

	_, err := r.db.Exec(ctx, `DELETE FROM user_skills WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

func scanUserSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	var category, level string
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &category, &level, &s.Offering, &s.CreatedAt); err != nil {
		return skill.Skill{}, err
	}
	s.Category = skill.Category(category)
	s.Level = skill.Level(level)
	return s, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
