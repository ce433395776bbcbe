package seeder

import (
	"context"
	"fmt"
	"strings"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type demoSkill struct {
	Name     string
	Category skill.Category
	Level    skill.Level
	Offering bool
}

type demoUser struct {
	Name           string
	Email          string
	Bio            string
	Location       string
	VideoCallReady bool
	Skills         []demoSkill
}

var demoUsers = []demoUser{
	{
		Name: "Sarah Chen", Email: "sarah@example.com", Location: "San Francisco", VideoCallReady: true,
		Bio: "Frontend engineer who wants to get better at data work.",
		Skills: []demoSkill{
			{"React", skill.CategoryFrontend, skill.LevelExpert, true},
			{"CSS", skill.CategoryFrontend, skill.LevelExpert, true},
			{"Python", skill.CategoryDataScience, skill.LevelBeginner, false},
			{"Machine Learning", skill.CategoryDataScience, skill.LevelBeginner, false},
		},
	},
	{
		Name: "Marcus Johnson", Email: "marcus@example.com", Location: "San Francisco", VideoCallReady: true,
		Bio: "Data scientist looking to build nicer dashboards.",
		Skills: []demoSkill{
			{"Python", skill.CategoryDataScience, skill.LevelExpert, true},
			{"Machine Learning", skill.CategoryDataScience, skill.LevelIntermediate, true},
			{"React", skill.CategoryFrontend, skill.LevelBeginner, false},
		},
	},
	{
		Name: "Elena Rodriguez", Email: "elena@example.com", Location: "Madrid", VideoCallReady: true,
		Bio: "Product designer learning to ship her own prototypes.",
		Skills: []demoSkill{
			{"Figma", skill.CategoryDesign, skill.LevelExpert, true},
			{"UX Research", skill.CategoryDesign, skill.LevelIntermediate, true},
			{"JavaScript", skill.CategoryFrontend, skill.LevelBeginner, false},
		},
	},
	{
		Name: "David Kim", Email: "david@example.com", Location: "Seoul", VideoCallReady: false,
		Bio: "Backend and infrastructure, curious about design.",
		Skills: []demoSkill{
			{"Go", skill.CategoryBackend, skill.LevelExpert, true},
			{"Docker", skill.CategoryDevOps, skill.LevelIntermediate, true},
			{"JavaScript", skill.CategoryFrontend, skill.LevelIntermediate, true},
			{"Figma", skill.CategoryDesign, skill.LevelBeginner, false},
		},
	},
}

// DemoUsersSeeder inserts a small set of users with complementary skills.
// Existing emails are left untouched.
type DemoUsersSeeder struct {
	Password string
}

func (DemoUsersSeeder) Name() string { return "demo_users" }

func (s DemoUsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "name", "email", "password_hash", "location", "video_call_ready"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "user_skills", "id", "user_id", "name", "category", "level", "offering"); err != nil {
		return err
	}

	pw := strings.TrimSpace(s.Password)
	if pw == "" {
		return fmt.Errorf("empty demo password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return database.RunInTx(ctx, db, func(tx database.Tx) error {
		for _, u := range demoUsers {
			id := uuid.New()
			affected, err := tx.Exec(ctx,
				`INSERT INTO users (id, name, email, password_hash, bio, location, video_call_ready)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (email) DO NOTHING`,
				id, u.Name, u.Email, string(hash), u.Bio, u.Location, u.VideoCallReady,
			)
			if err != nil {
				return fmt.Errorf("insert user %s: %w", u.Email, err)
			}
			if affected == 0 {
				continue
			}

			for _, sk := range u.Skills {
				if _, err := tx.Exec(ctx,
					`INSERT INTO user_skills (id, user_id, name, category, level, offering)
					 VALUES ($1, $2, $3, $4, $5, $6)`,
					uuid.New(), id, sk.Name, string(sk.Category), string(sk.Level), sk.Offering,
				); err != nil {
					return fmt.Errorf("insert skill %s for %s: %w", sk.Name, u.Email, err)
				}
			}
		}
		return nil
	})
}
