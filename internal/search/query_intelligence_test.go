package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"  React  ":        "react",
		"Node.JS!!":        "node.js",
		"C++   and  C#":    "c++ and c#",
		"ci/cd\tpipelines": "ci/cd pipelines",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeQuery(in), in)
	}
}

func TestExpandQuery(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"js", []string{"js", "javascript"}},
		{"nodejs", []string{"nodejs", "node.js", "node"}},
		{"machinelearning", []string{"machinelearning", "machine learning", "ml"}},
		{"rust", []string{"rust"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, ExpandQuery(tc.in)); diff != "" {
			t.Errorf("ExpandQuery(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestProcessQuery(t *testing.T) {
	q := ProcessQuery("  K8S ")
	assert.Equal(t, "k8s", q.Normalized)
	assert.Equal(t, []string{"k8s", "kubernetes"}, q.Variants)

	empty := ProcessQuery("!!!")
	assert.Empty(t, empty.Normalized)
	assert.NotNil(t, empty.Variants)
}
