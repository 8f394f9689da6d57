package index

import "sort"

// Bigrams returns the character 2-grams of term with '$' marking the
// word boundary: "car" -> ["$c", "ca", "ar", "r$"].
func Bigrams(term string) []string {
	if term == "" {
		return nil
	}
	padded := "$" + term + "$"
	grams := make([]string, 0, len(padded)-1)
	for i := 0; i+2 <= len(padded); i++ {
		grams = append(grams, padded[i:i+2])
	}
	return grams
}

// WildcardBigrams returns the bigrams implied by a "begin*end" wildcard.
// Only the outer edges carry the boundary marker; the inner edges touch
// the unknown middle.
func WildcardBigrams(begin, end string) []string {
	grams := []string{}
	if begin != "" {
		padded := "$" + begin
		for i := 0; i+2 <= len(padded); i++ {
			grams = append(grams, padded[i:i+2])
		}
	}
	if end != "" {
		padded := end + "$"
		for i := 0; i+2 <= len(padded); i++ {
			grams = append(grams, padded[i:i+2])
		}
	}
	return grams
}

// BigramIndex maps each bigram to the sorted terms containing it.
type BigramIndex map[string][]string

// BuildBigramIndex derives the bigram map from a sorted, deduped term
// dictionary.
func BuildBigramIndex(terms []string) BigramIndex {
	index := BigramIndex{}
	for _, term := range terms {
		for _, gram := range Bigrams(term) {
			list := index[gram]
			// A term like "aaa" repeats a gram; record it once.
			if n := len(list); n > 0 && list[n-1] == term {
				continue
			}
			index[gram] = append(index[gram], term)
		}
	}
	return index
}

// SortedList returns the entries in bigram order.
func (b BigramIndex) SortedList() []TermList {
	keys := make([]string, 0, len(b))
	for key := range b {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	list := make([]TermList, 0, len(keys))
	for _, key := range keys {
		list = append(list, TermList{
			Key:   key,
			Terms: b[key],
		})
	}

	return list
}
