package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"skillswap/internal/domain/skill"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultRecommendationLimit = 5
	MaxRecommendationLimit     = 50

	highDemandLimit   = 10
	oversuppliedLimit = 5
	balancedLimit     = 5

	DefaultPopularLimit = 10

	monthsPerStep = 2
	nextStepCount = 3
)

type Recommendation struct {
	Name              string
	Category          skill.Category
	Popularity        int
	AvgUserRating     float64
	AvailableTeachers int
	Score             int
}

type GapEntry struct {
	Name     string
	Offering int
	Seeking  int
	Total    int
	Gap      int
	Ratio    float64
}

type GapReport struct {
	Category     skill.Category
	HighDemand   []GapEntry
	Oversupplied []GapEntry
	Balanced     []GapEntry
}

type LearningPath struct {
	TargetSkill     string
	TargetLevel     skill.Level
	FullPath        []string
	CompletedSteps  []string
	NextSteps       []string
	EstimatedMonths int
}

type PlatformStats struct {
	TotalUsers       int
	TotalSkills      int
	OfferingSkills   int
	SeekingSkills    int
	UniqueCategories int
	UniqueSkills     int
	Categories       []skill.Category
	// ExchangeRatio is seeking entries per offering entry, two decimals.
	ExchangeRatio float64
}

type Catalog struct {
	Categories []skill.Category
	Levels     []skill.Level
}

type InsightsUsecase interface {
	Recommendations(ctx context.Context, userID uuid.UUID, category string, limit int) ([]Recommendation, error)
	Gaps(ctx context.Context, category string) (GapReport, error)
	LearningPath(ctx context.Context, userID uuid.UUID, target, level string) (LearningPath, error)
	Popular(ctx context.Context, category string, limit int) ([]repository.SkillPopularity, error)
	Stats(ctx context.Context) (PlatformStats, error)
	Catalog() Catalog
}

// progressions lists prerequisite chains ending at the target skill.
var progressions = map[string][]string{
	"react":            {"HTML", "CSS", "JavaScript", "React"},
	"node.js":          {"JavaScript", "Node.js"},
	"machine learning": {"Python", "Statistics", "Machine Learning"},
	"devops":           {"Linux", "Docker", "Kubernetes", "CI/CD"},
}

type Insights struct {
	stats      repository.SkillStatsRepository
	userSkills repository.UserSkillRepository
}

func NewInsightsUsecase(stats repository.SkillStatsRepository, userSkills repository.UserSkillRepository) *Insights {
	return &Insights{stats: stats, userSkills: userSkills}
}

func parseOptionalCategory(raw string) (skill.Category, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	c, ok := skill.ParseCategory(raw)
	if !ok {
		return "", ErrInvalidInput
	}
	return c, nil
}

func recommendationScore(d repository.SkillDemand) float64 {
	return float64(d.Count)*0.4 + d.AvgRating*10 + float64(d.Offering)*0.3
}

func (u *Insights) Recommendations(ctx context.Context, userID uuid.UUID, category string, limit int) ([]Recommendation, error) {
	cat, err := parseOptionalCategory(category)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultRecommendationLimit
	}
	if limit < 1 || limit > MaxRecommendationLimit {
		return nil, ErrInvalidInput
	}

	demand, err := u.stats.DemandInCategories(ctx, userID, cat)
	if err != nil {
		return nil, ErrInternal
	}

	sort.SliceStable(demand, func(i, j int) bool {
		si, sj := recommendationScore(demand[i]), recommendationScore(demand[j])
		if si != sj {
			return si > sj
		}
		return demand[i].Name < demand[j].Name
	})
	if len(demand) > limit {
		demand = demand[:limit]
	}

	out := make([]Recommendation, 0, len(demand))
	for _, d := range demand {
		out = append(out, Recommendation{
			Name:              d.Name,
			Category:          d.Category,
			Popularity:        d.Count,
			AvgUserRating:     d.AvgRating,
			AvailableTeachers: d.Offering,
			Score:             int(math.Round(recommendationScore(d))),
		})
	}
	return out, nil
}

func (u *Insights) Gaps(ctx context.Context, category string) (GapReport, error) {
	cat, err := parseOptionalCategory(category)
	if err != nil || cat == "" {
		return GapReport{}, ErrInvalidInput
	}

	supply, err := u.stats.SupplyByCategory(ctx, cat)
	if err != nil {
		return GapReport{}, ErrInternal
	}
	return buildGapReport(cat, supply), nil
}

func buildGapReport(cat skill.Category, supply []repository.SkillSupply) GapReport {
	rep := GapReport{
		Category:     cat,
		HighDemand:   []GapEntry{},
		Oversupplied: []GapEntry{},
		Balanced:     []GapEntry{},
	}
	for _, s := range supply {
		e := GapEntry{
			Name:     s.Name,
			Offering: s.Offering,
			Seeking:  s.Seeking,
			Total:    s.Total,
			Gap:      s.Seeking - s.Offering,
			Ratio:    float64(s.Seeking),
		}
		if s.Offering > 0 {
			e.Ratio = float64(s.Seeking) / float64(s.Offering)
		}

		switch {
		case e.Gap > 0 && len(rep.HighDemand) < highDemandLimit:
			rep.HighDemand = append(rep.HighDemand, e)
		case e.Gap < 0 && len(rep.Oversupplied) < oversuppliedLimit:
			rep.Oversupplied = append(rep.Oversupplied, e)
		case e.Gap == 0 && len(rep.Balanced) < balancedLimit:
			rep.Balanced = append(rep.Balanced, e)
		}
	}
	return rep
}

func (u *Insights) LearningPath(ctx context.Context, userID uuid.UUID, target, level string) (LearningPath, error) {
	target = strings.TrimSpace(target)
	if len(target) < skill.MinNameLength {
		return LearningPath{}, ErrInvalidInput
	}
	lvl := skill.LevelExpert
	if level != "" {
		l, ok := skill.ParseLevel(level)
		if !ok {
			return LearningPath{}, ErrInvalidInput
		}
		lvl = l
	}

	mine, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return LearningPath{}, ErrInternal
	}
	return buildLearningPath(mine, target, lvl), nil
}

func buildLearningPath(current []skill.Skill, target string, lvl skill.Level) LearningPath {
	path, ok := progressions[skill.NormalizeName(target)]
	if !ok {
		path = []string{target}
	}

	have := make(map[string]struct{}, len(current))
	for _, s := range current {
		have[skill.NormalizeName(s.Name)] = struct{}{}
	}

	out := LearningPath{
		TargetSkill:    target,
		TargetLevel:    lvl,
		FullPath:       append([]string(nil), path...),
		CompletedSteps: []string{},
		NextSteps:      []string{},
	}
	missing := 0
	for _, step := range path {
		if _, ok := have[skill.NormalizeName(step)]; ok {
			out.CompletedSteps = append(out.CompletedSteps, step)
			continue
		}
		missing++
		if len(out.NextSteps) < nextStepCount {
			out.NextSteps = append(out.NextSteps, step)
		}
	}
	out.EstimatedMonths = missing * monthsPerStep
	return out
}

func (u *Insights) Popular(ctx context.Context, category string, limit int) ([]repository.SkillPopularity, error) {
	cat, err := parseOptionalCategory(category)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultPopularLimit
	}
	if limit < 1 || limit > MaxRecommendationLimit {
		return nil, ErrInvalidInput
	}
	out, err := u.stats.Popular(ctx, cat, limit)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Insights) Stats(ctx context.Context) (PlatformStats, error) {
	t, err := u.stats.Totals(ctx)
	if err != nil {
		return PlatformStats{}, ErrInternal
	}
	return buildPlatformStats(t), nil
}

func buildPlatformStats(t repository.PlatformTotals) PlatformStats {
	out := PlatformStats{
		TotalUsers:       t.ActiveUsers,
		TotalSkills:      t.Skills,
		OfferingSkills:   t.Offering,
		SeekingSkills:    t.Seeking,
		UniqueCategories: len(t.Categories),
		UniqueSkills:     t.UniqueNames,
		Categories:       append([]skill.Category{}, t.Categories...),
	}
	if t.Offering > 0 {
		out.ExchangeRatio = math.Round(float64(t.Seeking)/float64(t.Offering)*100) / 100
	}
	return out
}

func (u *Insights) Catalog() Catalog {
	return Catalog{
		Categories: append([]skill.Category(nil), skill.Categories...),
		Levels:     append([]skill.Level(nil), skill.Levels...),
	}
}
