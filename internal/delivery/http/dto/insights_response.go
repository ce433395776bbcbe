package dto

import (
	"skillswap/internal/repository"
	"skillswap/internal/usecase"
)

type RecommendationResponse struct {
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	Popularity        int     `json:"popularity"`
	AvgUserRating     float64 `json:"avg_user_rating"`
	AvailableTeachers int     `json:"available_teachers"`
	Score             int     `json:"recommendation_score"`
}

type GapEntryResponse struct {
	Name     string  `json:"name"`
	Offering int     `json:"offering"`
	Seeking  int     `json:"seeking"`
	Total    int     `json:"total"`
	Gap      int     `json:"gap"`
	Ratio    float64 `json:"ratio"`
}

type GapReportResponse struct {
	Category     string             `json:"category"`
	HighDemand   []GapEntryResponse `json:"high_demand"`
	Oversupplied []GapEntryResponse `json:"oversupplied"`
	Balanced     []GapEntryResponse `json:"balanced"`
}

type LearningPathResponse struct {
	TargetSkill     string   `json:"target_skill"`
	TargetLevel     string   `json:"target_level"`
	FullPath        []string `json:"full_path"`
	CompletedSteps  []string `json:"completed_steps"`
	NextSteps       []string `json:"next_steps"`
	EstimatedMonths int      `json:"estimated_months"`
}

type PopularSkillResponse struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	TotalUsers int    `json:"total_users"`
	Offering   int    `json:"offering"`
	Seeking    int    `json:"seeking"`
}

type PlatformStatsResponse struct {
	TotalUsers       int      `json:"total_users"`
	TotalSkills      int      `json:"total_skills"`
	OfferingSkills   int      `json:"offering_skills"`
	SeekingSkills    int      `json:"seeking_skills"`
	UniqueCategories int      `json:"unique_categories"`
	UniqueSkills     int      `json:"unique_skills"`
	Categories       []string `json:"categories"`
	ExchangeRatio    float64  `json:"exchange_ratio"`
}

type CatalogResponse struct {
	Categories []string `json:"categories"`
	Levels     []string `json:"levels"`
}

func NewRecommendations(items []usecase.Recommendation) []RecommendationResponse {
	res := make([]RecommendationResponse, 0, len(items))
	for _, it := range items {
		res = append(res, RecommendationResponse{
			Name:              it.Name,
			Category:          string(it.Category),
			Popularity:        it.Popularity,
			AvgUserRating:     it.AvgUserRating,
			AvailableTeachers: it.AvailableTeachers,
			Score:             it.Score,
		})
	}
	return res
}

func NewGapReport(r usecase.GapReport) GapReportResponse {
	return GapReportResponse{
		Category:     string(r.Category),
		HighDemand:   gapEntries(r.HighDemand),
		Oversupplied: gapEntries(r.Oversupplied),
		Balanced:     gapEntries(r.Balanced),
	}
}

func gapEntries(items []usecase.GapEntry) []GapEntryResponse {
	res := make([]GapEntryResponse, 0, len(items))
	for _, it := range items {
		res = append(res, GapEntryResponse(it))
	}
	return res
}

func NewLearningPath(p usecase.LearningPath) LearningPathResponse {
	return LearningPathResponse{
		TargetSkill:     p.TargetSkill,
		TargetLevel:     string(p.TargetLevel),
		FullPath:        emptyIfNil(p.FullPath),
		CompletedSteps:  emptyIfNil(p.CompletedSteps),
		NextSteps:       emptyIfNil(p.NextSteps),
		EstimatedMonths: p.EstimatedMonths,
	}
}

func NewCatalog(c usecase.Catalog) CatalogResponse {
	res := CatalogResponse{
		Categories: make([]string, 0, len(c.Categories)),
		Levels:     make([]string, 0, len(c.Levels)),
	}
	for _, cat := range c.Categories {
		res.Categories = append(res.Categories, string(cat))
	}
	for _, l := range c.Levels {
		res.Levels = append(res.Levels, string(l))
	}
	return res
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func NewPopularSkills(items []repository.SkillPopularity) []PopularSkillResponse {
	res := make([]PopularSkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, PopularSkillResponse{
			Name:       it.Name,
			Category:   string(it.Category),
			TotalUsers: it.Total,
			Offering:   it.Offering,
			Seeking:    it.Seeking,
		})
	}
	return res
}

func NewPlatformStats(s usecase.PlatformStats) PlatformStatsResponse {
	res := PlatformStatsResponse{
		TotalUsers:       s.TotalUsers,
		TotalSkills:      s.TotalSkills,
		OfferingSkills:   s.OfferingSkills,
		SeekingSkills:    s.SeekingSkills,
		UniqueCategories: s.UniqueCategories,
		UniqueSkills:     s.UniqueSkills,
		Categories:       make([]string, 0, len(s.Categories)),
		ExchangeRatio:    s.ExchangeRatio,
	}
	for _, c := range s.Categories {
		res.Categories = append(res.Categories, string(c))
	}
	return res
}
