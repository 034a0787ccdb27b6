package components

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/gitscout/internal/tui/styles"
	sfuzzy "github.com/sahilm/fuzzy"
)

// MatchKind describes how closely a login matches the query it was found by
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchFuzzy
	MatchPrefix
	MatchExact
)

// Marker returns the one-character indicator shown before a login
func (k MatchKind) Marker() string {
	switch k {
	case MatchExact:
		return "="
	case MatchPrefix:
		return "^"
	case MatchFuzzy:
		return "~"
	default:
		return " "
	}
}

// ClassifyMatch grades text against query. Providers match on more than the
// login (names, emails), so MatchNone is common and not an error.
func ClassifyMatch(query, text string) MatchKind {
	query = strings.TrimSpace(query)
	if query == "" || text == "" {
		return MatchNone
	}
	switch {
	case strings.EqualFold(query, text):
		return MatchExact
	case strings.HasPrefix(strings.ToLower(text), strings.ToLower(query)):
		return MatchPrefix
	case fuzzy.MatchFold(query, text):
		return MatchFuzzy
	default:
		return MatchNone
	}
}

// MatchedIndexes returns the byte offsets in text matched by query
func MatchedIndexes(query, text string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	matches := sfuzzy.Find(strings.ToLower(query), []string{strings.ToLower(text)})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}

// highlightMatches renders text with the characters at matchedIndexes emphasized
func highlightMatches(text string, matchedIndexes []int, selected bool) string {
	normal, match := styles.NormalRowStyle, styles.MatchHighlightStyle
	if selected {
		normal, match = styles.SelectedRowStyle, styles.MatchHighlightSelectedStyle
	}
	if len(matchedIndexes) == 0 {
		return normal.Render(text)
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	// Batch consecutive characters with the same style
	var result, batch strings.Builder
	batchIsMatch := false
	flush := func() {
		if batch.Len() == 0 {
			return
		}
		if batchIsMatch {
			result.WriteString(match.Render(batch.String()))
		} else {
			result.WriteString(normal.Render(batch.String()))
		}
		batch.Reset()
	}

	for i, r := range text {
		if matchSet[i] != batchIsMatch {
			flush()
			batchIsMatch = matchSet[i]
		}
		batch.WriteRune(r)
	}
	flush()

	return result.String()
}
