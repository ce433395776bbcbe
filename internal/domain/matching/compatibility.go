package matching

import (
	"math"

	"skillswap/internal/domain/skill"
)

type Direction string

const (
	ATeachesB Direction = "A_teaches_B"
	BTeachesA Direction = "B_teaches_A"
)

const (
	levelStep       = 25
	equalLevelScore = 25
	underLevelScore = 10
)

// Entry is one complementary pairing: a teacher's offering skill matched to
// the learner's seeking skill of the same normalized name.
type Entry struct {
	Direction    Direction
	SkillName    string
	Category     skill.Category
	TeacherLevel skill.Level
	LearnerLevel skill.Level
	Score        int
}

type Compatibility struct {
	Entries       []Entry
	OverallScore  int
	MutualBenefit bool
}

// LevelScore rates a teacher/learner pairing. A teacher above the learner
// earns 25 per level of headroom plus one; equal levels earn 25; a teacher
// below the learner earns 10.
func LevelScore(teacher, learner skill.Level) int {
	t := teacher.Ordinal()
	l := learner.Ordinal()
	switch {
	case t > l:
		return (t - l + 1) * levelStep
	case t == l:
		return equalLevelScore
	default:
		return underLevelScore
	}
}

// Score computes the skill compatibility between two users. It is pure and
// never fails; malformed skill entries are ignored.
func Score(a, b []skill.Skill) Compatibility {
	aOffer, aSeek := skill.Split(a)
	bOffer, bSeek := skill.Split(b)

	entries := make([]Entry, 0)
	entries = appendPairings(entries, ATeachesB, aOffer, bSeek)
	entries = appendPairings(entries, BTeachesA, bOffer, aSeek)

	out := Compatibility{Entries: entries}
	if len(entries) == 0 {
		return out
	}

	var sum, aTeaches, bTeaches int
	for _, e := range entries {
		sum += e.Score
		if e.Direction == ATeachesB {
			aTeaches++
		} else {
			bTeaches++
		}
	}

	out.OverallScore = clampScore(int(math.Round(float64(sum) / float64(len(entries)))))
	out.MutualBenefit = aTeaches > 0 && bTeaches > 0
	return out
}

func appendPairings(dst []Entry, dir Direction, teaching, learning []skill.Skill) []Entry {
	for _, t := range teaching {
		name := skill.NormalizeName(t.Name)
		for _, l := range learning {
			if skill.NormalizeName(l.Name) != name {
				continue
			}
			dst = append(dst, Entry{
				Direction:    dir,
				SkillName:    t.Name,
				Category:     t.Category,
				TeacherLevel: t.Level,
				LearnerLevel: l.Level,
				Score:        LevelScore(t.Level, l.Level),
			})
			break
		}
	}
	return dst
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
