package corpus

import (
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/surgebase/porter2"
)

var (
	stripPolicy  = bluemonday.StripTagsPolicy()
	tokenPattern = regexp.MustCompile(`[a-z0-9]+`)
)

// defaultStopwords is used when no stopwords file is configured.
var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for",
	"if", "in", "into", "is", "it", "no", "not", "of", "on", "or",
	"such", "that", "the", "their", "then", "there", "these", "they",
	"this", "to", "was", "will", "with",
}

// Sanitize strips markup, resolves entities and lowercases s. Punctuation
// is left in place so it still separates tokens.
func Sanitize(s string) string {
	content := stripPolicy.Sanitize(s)
	content = html.UnescapeString(content)
	return strings.ToLower(content)
}

// ParseTokens extracts the alphanumeric runs of a sanitized string.
func ParseTokens(s string) []string {
	return tokenPattern.FindAllString(s, -1)
}

// Tokenizer turns raw record text into index terms.
type Tokenizer struct {
	stopwords map[string]struct{}
	stem      bool
}

// NewTokenizer builds a tokenizer over the given stopword list. A nil
// list selects the built-in one.
func NewTokenizer(stopwords []string, stem bool) *Tokenizer {
	if stopwords == nil {
		stopwords = defaultStopwords
	}
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{
		stopwords: set,
		stem:      stem,
	}
}

// LoadStopwords reads a whitespace-separated stopword file.
func LoadStopwords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(data)), nil
}

func (t *Tokenizer) Tokenize(text string) []string {
	raw := ParseTokens(Sanitize(text))
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, ok := t.stopwords[tok]; ok {
			continue
		}
		if t.stem {
			tok = porter2.Stem(tok)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Stemming reports whether this tokenizer stems its output terms.
func (t *Tokenizer) Stemming() bool {
	return t.stem
}
