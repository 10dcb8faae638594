package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Build a SaaS MVP, fast!")
	assert.Equal(t, map[string]struct{}{
		"build": {}, "a": {}, "saas": {}, "mvp": {}, "fast": {},
	}, tokens)
}

func TestTokenizeCollapsesDuplicates(t *testing.T) {
	tokens := Tokenize("test test TEST testing")
	assert.Len(t, tokens, 2)
}

func TestScoreNormalizationSymmetry(t *testing.T) {
	searchable := SearchText("python-testing", "testing python applications", []string{"python"}, "pytest fixtures and mocks")

	a := Score("Python Testing!", searchable)
	b := Score("python testing", searchable)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, a)
}

func TestScoreCountsIntersectionOnly(t *testing.T) {
	searchable := SearchText("debugging", "systematic debugging for backends", []string{"debugging"}, "reproduce bisect fix")

	assert.Equal(t, 2, Score("debugging backends", searchable))
	assert.Equal(t, 0, Score("frontend css", searchable))
	assert.Equal(t, 0, Score("", searchable))
	assert.Equal(t, 0, Score("!!!", searchable))
}

func TestScoreRepeatedQueryWordsDoNotInflate(t *testing.T) {
	searchable := SearchText("x", "build things", nil, "")
	assert.Equal(t, 1, Score("build build build", searchable))
}
