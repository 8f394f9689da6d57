package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// QueryType selects how a query string is evaluated.
type QueryType int

const (
	// QueryConjunctive intersects the keyword postings.
	QueryConjunctive QueryType = 1
	// QueryDisjunctive unions the keyword postings.
	QueryDisjunctive QueryType = 2
	// QueryWildcard resolves a single-star pattern via the bigram index.
	QueryWildcard QueryType = 3
)

var (
	ErrMissingArgument   = errors.New("missing argument")
	ErrQueryTypeNotInt   = errors.New("query type must be an integer")
	ErrUnknownQueryType  = errors.New("unknown query type")
	ErrMalformedWildcard = errors.New("wildcard query must contain exactly one *")
)

func (qt QueryType) String() string {
	switch qt {
	case QueryConjunctive:
		return "conjunctive"
	case QueryDisjunctive:
		return "disjunctive"
	case QueryWildcard:
		return "wildcard"
	default:
		return fmt.Sprintf("type(%d)", int(qt))
	}
}

// ParseQueryType parses the QUERY_TYPE argument.
func ParseQueryType(s string) (QueryType, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrQueryTypeNotInt, s)
	}
	switch qt := QueryType(n); qt {
	case QueryConjunctive, QueryDisjunctive, QueryWildcard:
		return qt, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownQueryType, n)
	}
}

// Normalize trims and lowercases a raw query string.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Keywords splits a normalized query on whitespace, dropping the
// boolean connectives.
func Keywords(query string) []string {
	words := strings.Fields(query)
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if w == "and" || w == "or" {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// SplitWildcard splits a "begin*end" pattern. ok is false when the
// query carries no star; more than one star is an error.
func SplitWildcard(query string) (begin, end string, ok bool, err error) {
	if !strings.Contains(query, "*") {
		return "", "", false, nil
	}
	parts := strings.Split(query, "*")
	if len(parts) != 2 {
		return "", "", false, fmt.Errorf("%w: %q", ErrMalformedWildcard, query)
	}
	return parts[0], parts[1], true, nil
}
