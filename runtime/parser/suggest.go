package parser

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/crabstar-lang/crabstar/runtime/lexer"
)

// suggestKeyword returns the reserved word closest to word, or "" if none is
// close enough. Exact keywords get no suggestion.
func suggestKeyword(word string) string {
	if len(word) < 2 || lexer.IsKeyword(word) {
		return ""
	}
	lower := strings.ToLower(word)
	if lexer.IsKeyword(lower) {
		return lower
	}

	// Abbreviations: "lt" -> "let", "els" -> "else"
	ranks := fuzzy.RankFindFold(lower, lexer.Keywords)
	sort.Stable(ranks)
	if len(ranks) > 0 && ranks[0].Distance <= 2 {
		return ranks[0].Target
	}

	// Typos: "lett" -> "let", "esle" -> "else"
	maxDist := 1
	if len(lower) >= 4 {
		maxDist = 2
	}
	best, bestDist := "", maxDist+1
	for _, kw := range lexer.Keywords {
		if d := fuzzy.LevenshteinDistance(lower, kw); d < bestDist {
			best, bestDist = kw, d
		}
	}
	return best
}
