package matching

import (
	"math"
	"strings"

	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
)

const (
	DefaultAcceptThreshold = 50.0

	skillMatchPoints   = 20.0
	expertToBeginner   = 10.0
	sameLevelPoints    = 5.0
	locationPoints     = 15.0
	videoCallPoints    = 10.0
	ratingMultiplier   = 2.0
	maxRatingPoints    = 10.0
	maxCandidateScore  = 100
	fallbackReasonText = "Potential learning partner based on your profiles and preferences."
)

type CandidateResult struct {
	Raw         float64
	Score       int
	Accepted    bool
	SkillHits   int
	Reason      string
	CanLearn    []string
	CanTeach    []string
	LocationHit bool
	VideoHit    bool
}

// CandidateScore rates how good a partner c is for u, from u's side.
// Level bonuses apply only when u is the learner.
func CandidateScore(u, c user.User, threshold float64) CandidateResult {
	if threshold <= 0 {
		threshold = DefaultAcceptThreshold
	}

	uOffer, uSeek := skill.Split(u.Skills)
	cOffer, cSeek := skill.Split(c.Skills)

	var res CandidateResult

	for _, want := range uSeek {
		teacher, ok := findByName(cOffer, want.Name)
		if !ok {
			continue
		}
		res.SkillHits++
		res.Raw += skillMatchPoints
		res.CanLearn = append(res.CanLearn, teacher.Name)
		switch {
		case teacher.Level == skill.LevelExpert && want.Level == skill.LevelBeginner:
			res.Raw += expertToBeginner
		case teacher.Level == want.Level:
			res.Raw += sameLevelPoints
		}
	}

	for _, want := range cSeek {
		mine, ok := findByName(uOffer, want.Name)
		if !ok {
			continue
		}
		res.SkillHits++
		res.Raw += skillMatchPoints
		res.CanTeach = append(res.CanTeach, mine.Name)
	}

	if sameLocation(u.Location, c.Location) {
		res.LocationHit = true
		res.Raw += locationPoints
	}
	if u.VideoCallReady && c.VideoCallReady {
		res.VideoHit = true
		res.Raw += videoCallPoints
	}
	if c.Rating > 0 {
		res.Raw += math.Min(c.Rating*ratingMultiplier, maxRatingPoints)
	}

	res.Accepted = res.Raw >= threshold
	res.Score = int(math.Round(res.Raw))
	if res.Score > maxCandidateScore {
		res.Score = maxCandidateScore
	}
	if res.Score < 0 {
		res.Score = 0
	}
	res.Reason = Reason(u, c, res.SkillHits)
	return res
}

// Reason builds the human-readable explanation stored on a generated match.
func Reason(u, c user.User, skillHits int) string {
	if skillHits == 0 {
		return fallbackReasonText
	}
	uOffer, uSeek := skill.Split(u.Skills)
	cOffer, cSeek := skill.Split(c.Skills)

	var b strings.Builder
	b.WriteString("Skill compatibility: You offer ")
	b.WriteString(joinNames(uOffer))
	b.WriteString(" and want to learn ")
	b.WriteString(joinNames(uSeek))
	b.WriteString(". ")
	b.WriteString(c.Name)
	b.WriteString(" offers ")
	b.WriteString(joinNames(cOffer))
	b.WriteString(" and wants to learn ")
	b.WriteString(joinNames(cSeek))
	b.WriteString(".")
	return b.String()
}

func findByName(list []skill.Skill, name string) (skill.Skill, bool) {
	n := skill.NormalizeName(name)
	for _, s := range list {
		if skill.NormalizeName(s.Name) == n {
			return s, true
		}
	}
	return skill.Skill{}, false
}

func sameLocation(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

func joinNames(list []skill.Skill) string {
	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, strings.TrimSpace(s.Name))
	}
	return strings.Join(names, ", ")
}
