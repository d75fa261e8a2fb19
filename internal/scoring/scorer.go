package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ludmilasolutions/productos/internal/models"
)

// Scorer computes relevance scores for catalog items against query words.
type Scorer struct {
	weights *Weights
}

// NewScorer creates a scorer. A nil weights uses defaults; zero fields are
// filled in.
func NewScorer(weights *Weights) *Scorer {
	if weights == nil {
		weights = DefaultWeights()
	} else {
		weights.ApplyDefaults()
	}
	return &Scorer{weights: weights}
}

// Weights returns the active scoring policy.
func (s *Scorer) Weights() *Weights { return s.weights }

// Score returns the normalized score for item against the given normalized
// query words. categoryFilter, when non-empty, is a hard veto: items of any
// other category score 0 regardless of textual match. words must already be
// folded the same way as the item's normalized fields.
func (s *Scorer) Score(item *models.Item, words []string, categoryFilter string) float64 {
	if categoryFilter != "" && item.Category != categoryFilter {
		return 0
	}
	var total float64
	for _, word := range words {
		total += s.scoreWord(item, word)
	}
	return total / s.weights.Normalizer
}

// MinScore returns the normalized threshold below which candidates drop.
func (s *Scorer) MinScore() float64 { return s.weights.MinScore }

func (s *Scorer) scoreWord(item *models.Item, word string) float64 {
	w := s.weights
	var score float64

	switch {
	case item.CodeNorm == word:
		score += w.CodeExact
	case strings.HasPrefix(item.CodeNorm, word):
		score += w.CodePrefix
	case strings.Contains(item.CodeNorm, word):
		score += w.CodeContains
	}

	switch {
	case containsWord(item.DescriptionNorm, word):
		score += w.DescriptionWord
	case strings.Contains(item.DescriptionNorm, word):
		score += w.DescriptionContains
	}

	switch {
	case item.BrandNorm == word:
		score += w.BrandExact
	case item.BrandNorm != "" && strings.Contains(item.BrandNorm, word):
		score += w.BrandContains
	}

	if item.CategoryNorm == word {
		score += w.CategoryExact
	}

	// Reward repeated whole-word occurrences beyond the first, e.g. a word
	// appearing in both description and brand.
	if n := countWord(item.SearchText, word); n > 1 {
		score += float64(n-1) * w.OccurrenceBonus
	}
	return score
}

// containsWord reports whether text contains word as a whole word, i.e.
// not flanked by letters or digits.
func containsWord(text, word string) bool {
	if text == "" || word == "" {
		return false
	}
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		if wordBoundary(text, start, end) {
			return true
		}
		idx = start + 1
	}
}

// countWord counts whole-word occurrences of word in text.
func countWord(text, word string) int {
	if text == "" || word == "" {
		return 0
	}
	count := 0
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return count
		}
		start := idx + i
		end := start + len(word)
		if wordBoundary(text, start, end) {
			count++
			idx = end
		} else {
			idx = start + 1
		}
	}
}

// wordBoundary reports whether text[start:end] is flanked by non-alphanumeric
// runes (or the ends of text).
func wordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
