package repository

import (
	"context"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
)

// SkillDemand aggregates every active user's entries for one skill name
// outside the caller's own skill list.
type SkillDemand struct {
	Name      string
	Category  skill.Category
	Count     int
	AvgRating float64
	Offering  int
}

// SkillSupply counts offering and seeking entries for one skill name.
type SkillSupply struct {
	Name     string
	Offering int
	Seeking  int
	Total    int
}

// SkillPopularity counts active users' entries for one name and category.
type SkillPopularity struct {
	Name     string
	Category skill.Category
	Total    int
	Offering int
	Seeking  int
}

// PlatformTotals summarises every active user's skill list.
type PlatformTotals struct {
	ActiveUsers int
	Skills      int
	Offering    int
	Seeking     int
	UniqueNames int
	Categories  []skill.Category
}

type SkillStatsRepository interface {
	// DemandInCategories returns aggregates for skills in the user's own
	// categories that the user does not list yet. An empty category means all
	// of them.
	DemandInCategories(ctx context.Context, userID uuid.UUID, category skill.Category) ([]SkillDemand, error)
	// SupplyByCategory returns per-name counts, highest seeking minus offering first.
	SupplyByCategory(ctx context.Context, category skill.Category) ([]SkillSupply, error)
	// Popular returns the most listed skills, optionally within one category.
	Popular(ctx context.Context, category skill.Category, limit int) ([]SkillPopularity, error)
	Totals(ctx context.Context) (PlatformTotals, error)
}

type PostgresSkillStatsRepository struct {
	db database.DB
}

func NewPostgresSkillStatsRepository(db database.DB) *PostgresSkillStatsRepository {
	return &PostgresSkillStatsRepository{db: db}
}

func (r *PostgresSkillStatsRepository) DemandInCategories(ctx context.Context, userID uuid.UUID, category skill.Category) ([]SkillDemand, error) {
	rows, err := r.db.Query(ctx,
		`WITH mine AS (
			SELECT name_key, category FROM user_skills WHERE user_id = $1
		 )
		 SELECT min(s.name), s.category, COUNT(*), COALESCE(AVG(u.rating), 0),
		        COUNT(*) FILTER (WHERE s.offering)
		 FROM user_skills s
		 JOIN users u ON u.id = s.user_id
		 WHERE u.is_active
		   AND u.id <> $1
		   AND s.category IN (SELECT category FROM mine)
		   AND s.name_key NOT IN (SELECT name_key FROM mine)
		   AND ($2::text = '' OR s.category = $2::text)
		 GROUP BY s.name_key, s.category`,
		userID, string(category),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillDemand, 0)
	for rows.Next() {
		var d SkillDemand
		var cat string
		if err := rows.Scan(&d.Name, &cat, &d.Count, &d.AvgRating, &d.Offering); err != nil {
			return nil, err
		}
		d.Category = skill.Category(cat)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillStatsRepository) SupplyByCategory(ctx context.Context, category skill.Category) ([]SkillSupply, error) {
	rows, err := r.db.Query(ctx,
		`SELECT min(s.name),
		        COUNT(*) FILTER (WHERE s.offering) AS offering,
		        COUNT(*) FILTER (WHERE NOT s.offering) AS seeking,
		        COUNT(*)
		 FROM user_skills s
		 JOIN users u ON u.id = s.user_id
		 WHERE u.is_active AND s.category = $1
		 GROUP BY s.name_key
		 ORDER BY (COUNT(*) FILTER (WHERE NOT s.offering) - COUNT(*) FILTER (WHERE s.offering)) DESC, min(s.name) ASC`,
		string(category),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillSupply, 0)
	for rows.Next() {
		var s SkillSupply
		if err := rows.Scan(&s.Name, &s.Offering, &s.Seeking, &s.Total); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillStatsRepository) Popular(ctx context.Context, category skill.Category, limit int) ([]SkillPopularity, error) {
	rows, err := r.db.Query(ctx,
		`SELECT min(s.name), s.category, COUNT(*),
		        COUNT(*) FILTER (WHERE s.offering),
		        COUNT(*) FILTER (WHERE NOT s.offering)
		 FROM user_skills s
		 JOIN users u ON u.id = s.user_id
		 WHERE u.is_active
		   AND ($1::text = '' OR s.category = $1::text)
		 GROUP BY s.name_key, s.category
		 ORDER BY COUNT(*) DESC, min(s.name) ASC
		 LIMIT $2`,
		string(category), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillPopularity, 0)
	for rows.Next() {
		var p SkillPopularity
		var cat string
		if err := rows.Scan(&p.Name, &cat, &p.Total, &p.Offering, &p.Seeking); err != nil {
			return nil, err
		}
		p.Category = skill.Category(cat)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillStatsRepository) Totals(ctx context.Context) (PlatformTotals, error) {
	var t PlatformTotals
	var cats []string
	err := r.db.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM users WHERE is_active),
		        COUNT(s.id),
		        COUNT(s.id) FILTER (WHERE s.offering),
		        COUNT(s.id) FILTER (WHERE NOT s.offering),
		        COUNT(DISTINCT s.name_key),
		        COALESCE(array_agg(DISTINCT s.category ORDER BY s.category), '{}')::text[]
		 FROM user_skills s
		 JOIN users u ON u.id = s.user_id
		 WHERE u.is_active`,
	).Scan(&t.ActiveUsers, &t.Skills, &t.Offering, &t.Seeking, &t.UniqueNames, &cats)
	if err != nil {
		return PlatformTotals{}, err
	}
	t.Categories = make([]skill.Category, 0, len(cats))
	for _, c := range cats {
		t.Categories = append(t.Categories, skill.Category(c))
	}
	return t, nil
}
