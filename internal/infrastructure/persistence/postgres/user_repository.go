package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"skillswap/internal/database"
	dbpostgres "skillswap/internal/database/postgres"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `u.id, u.name, u.email, u.password_hash, u.bio, u.avatar_url, u.location,
	u.video_call_ready, u.is_active, u.rating, u.review_count, u.created_at, u.updated_at`

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, bio, avatar_url, location, video_call_ready, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Bio, u.AvatarURL, u.Location, u.VideoCallReady,
	)
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return user.User{}, err
	}
	u, err = r.withSkills(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	return r.withProfileExtras(ctx, u)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return user.User{}, err
	}
	return r.withSkills(ctx, u)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, u user.User) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE users
		 SET name = $2, bio = $3, avatar_url = $4, location = $5, video_call_ready = $6, is_active = $7, updated_at = now()
		 WHERE id = $1`,
		u.ID, u.Name, u.Bio, u.AvatarURL, u.Location, u.VideoCallReady, u.IsActive,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListActiveExcept(ctx context.Context, id uuid.UUID) ([]user.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users u
		 WHERE u.is_active AND u.id <> $1
		 ORDER BY u.created_at ASC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}
	return r.attachSkills(ctx, users)
}

func (r *UserRepository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM users WHERE is_active ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Search lists active users matching f, best rated first, and the total
// number of matches ignoring pagination.
func (r *UserRepository) Search(ctx context.Context, f user.DirectoryFilter) ([]user.User, int, error) {
	where, args := directoryWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	q := fmt.Sprintf(
		`SELECT %s FROM users u WHERE %s ORDER BY u.rating DESC, u.created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args),
	)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	users, err = r.attachSkills(ctx, users)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Summary, error) {
	out := make(map[uuid.UUID]user.Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, name, avatar_url, location, rating, video_call_ready FROM users WHERE id = ANY($1::uuid[])`,
		uuidStrings(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s user.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.AvatarURL, &s.Location, &s.Rating, &s.VideoCallReady); err != nil {
			return nil, err
		}
		out[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func directoryWhere(f user.DirectoryFilter) (string, []any) {
	conds := []string{"u.is_active"}
	args := make([]any, 0, 8)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ExcludeID != uuid.Nil {
		conds = append(conds, "u.id <> "+arg(f.ExcludeID))
	}
	if len(f.SearchTerms) > 0 {
		patterns := make([]string, 0, len(f.SearchTerms))
		for _, t := range f.SearchTerms {
			patterns = append(patterns, "%"+t+"%")
		}
		p := arg(patterns) + "::text[]"
		conds = append(conds, fmt.Sprintf(
			`(u.name ILIKE ANY(%[1]s) OR u.bio ILIKE ANY(%[1]s) OR EXISTS (SELECT 1 FROM user_skills s WHERE s.user_id = u.id AND s.name ILIKE ANY(%[1]s)))`, p,
		))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		conds = append(conds, "u.location ILIKE "+arg("%"+loc+"%"))
	}
	if f.VideoCallReady != nil {
		conds = append(conds, "u.video_call_ready = "+arg(*f.VideoCallReady))
	}

	skillConds := make([]string, 0, 4)
	if name := skill.NormalizeName(f.SkillName); name != "" {
		skillConds = append(skillConds, "s.name_key = "+arg(name))
	}
	if f.Category != "" {
		skillConds = append(skillConds, "s.category = "+arg(string(f.Category)))
	}
	if f.Level != "" {
		skillConds = append(skillConds, "s.level = "+arg(string(f.Level)))
	}
	if f.Offering != nil {
		skillConds = append(skillConds, "s.offering = "+arg(*f.Offering))
	}
	if len(skillConds) > 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM user_skills s WHERE s.user_id = u.id AND "+strings.Join(skillConds, " AND ")+")")
	}

	return strings.Join(conds, " AND "), args
}

func (r *UserRepository) withSkills(ctx context.Context, u user.User) (user.User, error) {
	users, err := r.attachSkills(ctx, []user.User{u})
	if err != nil {
		return user.User{}, err
	}
	return users[0], nil
}

func (r *UserRepository) attachSkills(ctx context.Context, users []user.User) ([]user.User, error) {
	if len(users) == 0 {
		return users, nil
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, category, level, offering, created_at
		 FROM user_skills
		 WHERE user_id = ANY($1::uuid[])
		 ORDER BY created_at ASC, name ASC`,
		uuidStrings(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byUser := make(map[uuid.UUID][]skill.Skill, len(users))
	for rows.Next() {
		var s skill.Skill
		var category, level string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &category, &level, &s.Offering, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Category = skill.Category(category)
		s.Level = skill.Level(level)
		byUser[s.UserID] = append(byUser[s.UserID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Skills = byUser[users[i].ID]
	}
	return users, nil
}

func (r *UserRepository) AddPortfolioLink(ctx context.Context, userID uuid.UUID, l user.PortfolioLink) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_portfolio_links (id, user_id, platform, url) VALUES ($1, $2, $3, $4)`,
		l.ID, userID, l.Platform, l.URL,
	)
	if dbpostgres.IsForeignKeyViolation(err) {
		return user.ErrNotFound
	}
	return err
}

func (r *UserRepository) RemovePortfolioLink(ctx context.Context, userID, linkID uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM user_portfolio_links WHERE id = $1 AND user_id = $2`, linkID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrPortfolioNotFound
	}
	return nil
}

func (r *UserRepository) UpsertAvailability(ctx context.Context, userID uuid.UUID, a user.Availability) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_availability (id, user_id, day, time_slots)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, day) DO UPDATE SET time_slots = EXCLUDED.time_slots`,
		a.ID, userID, a.Day.String(), a.TimeSlots,
	)
	if dbpostgres.IsForeignKeyViolation(err) {
		return user.ErrNotFound
	}
	return err
}

func (r *UserRepository) RemoveAvailability(ctx context.Context, userID, slotID uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM user_availability WHERE id = $1 AND user_id = $2`, slotID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrAvailabilityNotFound
	}
	return nil
}

// withProfileExtras loads portfolio links in insertion order and
// availability from Sunday to Saturday.
func (r *UserRepository) withProfileExtras(ctx context.Context, u user.User) (user.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, platform, url FROM user_portfolio_links WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		u.ID,
	)
	if err != nil {
		return user.User{}, err
	}
	links := make([]user.PortfolioLink, 0)
	for rows.Next() {
		var l user.PortfolioLink
		if err := rows.Scan(&l.ID, &l.Platform, &l.URL); err != nil {
			rows.Close()
			return user.User{}, err
		}
		links = append(links, l)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return user.User{}, err
	}

	rows, err = r.db.Query(ctx, `SELECT id, day, time_slots FROM user_availability WHERE user_id = $1`, u.ID)
	if err != nil {
		return user.User{}, err
	}
	defer rows.Close()

	avail := make([]user.Availability, 0)
	for rows.Next() {
		var a user.Availability
		var day string
		if err := rows.Scan(&a.ID, &day, &a.TimeSlots); err != nil {
			return user.User{}, err
		}
		wd, ok := user.ParseWeekday(day)
		if !ok {
			continue
		}
		a.Day = wd
		avail = append(avail, a)
	}
	if err := rows.Err(); err != nil {
		return user.User{}, err
	}
	sort.Slice(avail, func(i, j int) bool { return avail[i].Day < avail[j].Day })

	u.PortfolioLinks = links
	u.Availability = avail
	return u, nil
}

func collectUsers(rows database.Rows) ([]user.User, error) {
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Bio, &u.AvatarURL, &u.Location,
		&u.VideoCallReady, &u.IsActive, &u.Rating, &u.ReviewCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
