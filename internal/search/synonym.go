package search

import "sort"

// Synonyms maps a normalized skill term to the spellings people also use
// for it. Lookups are one-way; list both directions where that matters.
var Synonyms = map[string][]string{
	"js":               {"javascript"},
	"javascript":       {"js"},
	"ts":               {"typescript"},
	"typescript":       {"ts"},
	"golang":           {"go"},
	"node.js":          {"node", "nodejs"},
	"react":            {"react.js", "reactjs"},
	"react.js":         {"react"},
	"vue.js":           {"vue"},
	"k8s":              {"kubernetes"},
	"kubernetes":       {"k8s"},
	"postgres":         {"postgresql"},
	"postgresql":       {"postgres"},
	"ml":               {"machine learning"},
	"machine learning": {"ml"},
	"ui":               {"ui design", "user interface"},
	"ux":               {"ux design", "user experience"},
	"ci/cd":            {"continuous integration", "devops"},
	"seo":              {"search engine optimization"},
}

var synonymKeys = func() []string {
	keys := make([]string, 0, len(Synonyms))
	for k := range Synonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

func GetSynonyms(query string) []string {
	if query == "" {
		return []string{}
	}
	if v, ok := Synonyms[query]; ok {
		out := make([]string, 0, len(v))
		out = append(out, v...)
		sort.Strings(out)
		return out
	}
	return []string{}
}
