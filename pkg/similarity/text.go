// Package similarity implements the C1 similarity kernel: text
// similarity (pure, stdlib) and a visual-similarity adapter over an
// injected SSIM collaborator. Both operations are stateless and safe
// for concurrent invocation, per spec §4.1.
package similarity

import (
	"strings"
	"unicode/utf8"
)

// stopWords mirrors the "significant words after stop-word removal" used
// to build PageFingerprint.SignificantWords; kept tiny and unexported,
// the contract is the bounds and symmetry of TextSimilarity, not this
// list.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {},
	"in": {}, "is": {}, "it": {}, "for": {}, "on": {}, "with": {}, "as": {},
	"at": {}, "by": {}, "be": {}, "this": {}, "that": {}, "are": {}, "was": {},
}

// SignificantWords lower-cases and tokenizes text, dropping stop words
// and words shorter than 2 runes, returning the resulting set.
func SignificantWords(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = trimPunct(w)
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

func trimPunct(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		switch r {
		case '.', ',', ';', ':', '!', '?', '"', '\'', '(', ')', '[', ']', '{', '}':
			return true
		}
		return false
	})
}

// TextSimilarity returns the normalised token-overlap (Jaccard) score of
// a and b in [0,1]. TextSimilarity(x, x) = 1 for non-empty x;
// TextSimilarity(x, "") = 0; the metric is symmetric to within floating
// error.
func TextSimilarity(a, b string) float64 {
	return TextSimilaritySets(SignificantWords(a), SignificantWords(b))
}

// TextSimilaritySets is TextSimilarity over two already-tokenized
// significant-word sets. The document and page matchers draw these sets
// from a precomputed PageFingerprint instead of re-tokenizing the same
// page text on every pairwise comparison.
func TextSimilaritySets(wa, wb map[string]struct{}) float64 {
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	intersection := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			intersection++
		}
	}
	union := len(wa) + len(wb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
