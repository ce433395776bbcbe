package skill

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryFrontend    Category = "Frontend"
	CategoryBackend     Category = "Backend"
	CategoryDesign      Category = "Design"
	CategoryDataScience Category = "Data Science"
	CategoryMobile      Category = "Mobile"
	CategoryDevOps      Category = "DevOps"
	CategoryMarketing   Category = "Marketing"
	CategoryOther       Category = "Other"
)

var Categories = []Category{
	CategoryFrontend,
	CategoryBackend,
	CategoryDesign,
	CategoryDataScience,
	CategoryMobile,
	CategoryDevOps,
	CategoryMarketing,
	CategoryOther,
}

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelExpert       Level = "Expert"
)

var Levels = []Level{LevelBeginner, LevelIntermediate, LevelExpert}

const MinNameLength = 2

var (
	ErrInvalidName     = errors.New("skill name must be at least 2 characters")
	ErrInvalidCategory = errors.New("invalid skill category")
	ErrInvalidLevel    = errors.New("invalid skill level")
)

// Skill is one entry of a user's skill list. Offering=false means the owner
// wants to learn it.
type Skill struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Category  Category
	Level     Level
	Offering  bool
	CreatedAt time.Time
}

// NormalizeName is the single name-matching policy: two skills refer to the
// same thing iff their normalized names are equal.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Ordinal ranks a level from 1 (Beginner) to 3 (Expert); unknown levels are 0.
func (l Level) Ordinal() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelExpert:
		return 3
	default:
		return 0
	}
}

func (l Level) Valid() bool {
	return l.Ordinal() > 0
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ParseLevel(raw string) (Level, bool) {
	raw = strings.TrimSpace(raw)
	for _, l := range Levels {
		if strings.EqualFold(string(l), raw) {
			return l, true
		}
	}
	return "", false
}

func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(string(c), raw) {
			return c, true
		}
	}
	return "", false
}

// Usable reports whether the entry can take part in scoring. Malformed
// entries are ignored by the scorers rather than rejected.
func (s Skill) Usable() bool {
	return NormalizeName(s.Name) != "" && s.Level.Valid()
}

func (s Skill) Validate() error {
	if len([]rune(strings.TrimSpace(s.Name))) < MinNameLength {
		return ErrInvalidName
	}
	if !s.Category.Valid() {
		return ErrInvalidCategory
	}
	if !s.Level.Valid() {
		return ErrInvalidLevel
	}
	return nil
}

func Split(skills []Skill) (offering, seeking []Skill) {
	for _, s := range skills {
		if !s.Usable() {
			continue
		}
		if s.Offering {
			offering = append(offering, s)
		} else {
			seeking = append(seeking, s)
		}
	}
	return offering, seeking
}
