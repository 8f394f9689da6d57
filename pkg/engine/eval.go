package engine

import (
	"errors"
	"slices"
	"strings"

	"github.com/surgebase/porter2"

	"boolsearch/pkg/index"
)

// postingsFor returns a term's docIDs exactly as indexed. Unknown terms
// yield an empty list.
func (eg *Engine) postingsFor(term string) ([]int, error) {
	docs, err := eg.postings.Get(term)
	if errors.Is(err, ErrCacheEntryNotFound) {
		return nil, nil
	}
	return docs, err
}

// lookup resolves a query keyword, stemming it first when the index
// was built stemmed.
func (eg *Engine) lookup(keyword string) ([]int, error) {
	if eg.stats.Stemmed {
		keyword = porter2.Stem(keyword)
	}
	return eg.postingsFor(keyword)
}

func (eg *Engine) evalConjunctive(keywords []string) ([]int, error) {
	if len(keywords) == 0 {
		return []int{}, nil
	}

	lists := make([][]int, 0, len(keywords))
	for _, keyword := range keywords {
		docs, err := eg.lookup(keyword)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return []int{}, nil
		}
		lists = append(lists, docs)
	}

	// Intersect the shortest lists first to keep intermediates small.
	slices.SortFunc(lists, func(a, b []int) int { return len(a) - len(b) })

	result := lists[0]
	for _, list := range lists[1:] {
		result = intersectSorted(result, list)
		if len(result) == 0 {
			break
		}
	}
	return result, nil
}

func intersectSorted(a, b []int) []int {
	out := []int{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func (eg *Engine) evalDisjunctive(keywords []string) ([]int, error) {
	lists := make([][]int, 0, len(keywords))
	for _, keyword := range keywords {
		docs, err := eg.lookup(keyword)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			lists = append(lists, docs)
		}
	}

	merged := index.MergeDocIDs(lists...)
	if merged == nil {
		merged = []int{}
	}
	return merged, nil
}

func (eg *Engine) evalWildcard(query string) ([]int, error) {
	begin, end, ok, err := SplitWildcard(query)
	if err != nil {
		return nil, err
	}
	if !ok {
		// No star at all: treat the keywords as a union.
		return eg.evalDisjunctive(Keywords(query))
	}

	candidates := map[string]struct{}{}
	for _, gram := range index.WildcardBigrams(begin, end) {
		terms, err := eg.terms.Get(gram)
		if errors.Is(err, ErrCacheEntryNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, term := range terms {
			candidates[term] = struct{}{}
		}
	}

	// Bigrams over-match: "r*se" pulls in every $r term. Keep only the
	// terms carrying the exact affixes.
	lists := [][]int{}
	for term := range candidates {
		if !strings.HasPrefix(term, begin) || !strings.HasSuffix(term, end) {
			continue
		}
		docs, err := eg.postingsFor(term)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			lists = append(lists, docs)
		}
	}

	merged := index.MergeDocIDs(lists...)
	if merged == nil {
		merged = []int{}
	}
	return merged, nil
}
