// Package index builds the in-memory inverted index over a loaded catalog.
package index

import (
	"sort"
	"strings"

	"github.com/ludmilasolutions/productos/internal/models"
)

// MinTokenLen is the minimum length of an indexed token. Shorter words are
// ignored both at index build and at query time.
const MinTokenLen = 2

// Index maps tokens to the catalog positions whose search text contains them
// as whole words. Positions index into the catalog slice the index was built
// from; index and catalog are always rebuilt and discarded together. Built
// once per load and read-only afterward.
type Index struct {
	postings   map[string][]int
	categories []string
	size       int
}

// Build tokenizes every item's search text and constructs the index plus the
// sorted set of distinct non-empty categories.
func Build(items []*models.Item) *Index {
	postings := make(map[string][]int)
	categorySet := make(map[string]struct{})

	for pos, item := range items {
		for _, token := range Tokenize(item.SearchText) {
			list := postings[token]
			// Tokens are deduplicated per item, so a position is appended at
			// most once and lists stay sorted by construction.
			if n := len(list); n > 0 && list[n-1] == pos {
				continue
			}
			postings[token] = append(list, pos)
		}
		if item.Category != "" {
			categorySet[item.Category] = struct{}{}
		}
	}

	categories := make([]string, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return &Index{postings: postings, categories: categories, size: len(items)}
}

// Tokenize splits normalized search text into its unique words of length
// >= MinTokenLen, preserving first-seen order. Dedup keeps repetition within
// one item from inflating token weight.
func Tokenize(searchText string) []string {
	fields := strings.Fields(searchText)
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < MinTokenLen {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// Postings returns the positions for token, or nil when absent. The returned
// slice is owned by the index and must not be mutated.
func (ix *Index) Postings(token string) []int {
	return ix.postings[token]
}

// Categories returns the sorted distinct non-empty categories.
func (ix *Index) Categories() []string { return ix.categories }

// Terms returns the number of distinct tokens in the index.
func (ix *Index) Terms() int { return len(ix.postings) }

// Docs returns the number of items the index was built over.
func (ix *Index) Docs() int { return ix.size }

// Intersect returns the ascending positions present in every word's posting
// list (AND semantics). A word with no postings short-circuits to nil.
func (ix *Index) Intersect(words []string) []int {
	if len(words) == 0 {
		return nil
	}
	current := ix.postings[words[0]]
	if len(current) == 0 {
		return nil
	}
	for _, word := range words[1:] {
		next := ix.postings[word]
		if len(next) == 0 {
			return nil
		}
		current = intersectSorted(current, next)
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

func intersectSorted(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
