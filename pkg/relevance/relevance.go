// Package relevance implements the token-overlap scoring used by search and
// workflow composition. It is a coarse bag-of-words heuristic: both sides
// are lower-cased, stripped to ASCII letters/digits/spaces, and split into
// token sets; the score is the size of the intersection. No embeddings, no
// network — scoring works anywhere the skills directory does.
package relevance

import "strings"

// Tokenize normalizes free text into a set of tokens. Case and punctuation
// never affect scoring, and repeated words collapse so they cannot inflate
// a score.
func Tokenize(text string) map[string]struct{} {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r == '\n', r == '\t', r == '\r':
			b.WriteByte(' ')
		}
	}

	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(b.String()) {
		tokens[field] = struct{}{}
	}
	return tokens
}

// Score returns the number of query tokens found in the searchable text.
func Score(query, searchable string) int {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}
	textTokens := Tokenize(searchable)

	score := 0
	for token := range queryTokens {
		if _, ok := textTokens[token]; ok {
			score++
		}
	}
	return score
}

// SearchText concatenates a skill's searchable fields: name, description,
// joined tags, and body.
func SearchText(name, description string, tags []string, body string) string {
	return strings.Join([]string{name, description, strings.Join(tags, " "), body}, " ")
}
