package search

import (
	"strings"
	"unicode"
)

// MaxTerms caps how many alternatives a single directory query fans out to.
const MaxTerms = 8

type QueryContext struct {
	Original   string
	Normalized string
	Variants   []string
}

// NormalizeQuery lowercases input and keeps letters, digits and the
// punctuation that shows up in skill names (node.js, c++, c#, ci/cd).
func NormalizeQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = strings.ToLower(input)

	b := strings.Builder{}
	b.Grow(len(input))
	lastWasSpace := false

	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || strings.ContainsRune(".+#/-", r):
			b.WriteRune(r)
			lastWasSpace = false
		case unicode.IsSpace(r):
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// compact strips separators so "node.js", "node js" and "nodejs" compare equal.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '.' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func ExpandQuery(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, MaxTerms)
	seen := make(map[string]struct{}, MaxTerms)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)

	for _, syn := range GetSynonyms(normalized) {
		add(syn)
	}

	// "nodejs" -> node.js, "machinelearning" -> machine learning
	key := compact(normalized)
	for _, k := range synonymKeys {
		if k == normalized || compact(k) != key {
			continue
		}
		add(k)
		for _, syn := range GetSynonyms(k) {
			add(syn)
		}
	}

	if len(out) > MaxTerms {
		out = out[:MaxTerms]
	}
	return out
}

func ProcessQuery(input string) QueryContext {
	ctx := QueryContext{Original: input}
	ctx.Normalized = NormalizeQuery(input)
	if ctx.Normalized == "" {
		ctx.Variants = []string{}
		return ctx
	}
	ctx.Variants = ExpandQuery(ctx.Normalized)
	return ctx
}
