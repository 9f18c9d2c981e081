// Package search ranks aliases against a free-text query.
package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/starford/aliasrunner/internal/models"
)

// Hit is one ranked alias.
type Hit struct {
	Alias models.Alias `json:"alias"`
	Score int          `json:"score"`
}

// Blank reports whether query has no tokens. A blank query matches everything.
func Blank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// Tokens splits query on whitespace and lower-cases it. Repeated tokens are
// returned once, in first-seen order.
func Tokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Score returns 1 for a blank query, otherwise the number of distinct query
// tokens found as case-insensitive substrings of "name body note".
func Score(a models.Alias, query string) int {
	if Blank(query) {
		return 1
	}
	return scoreTokens(a, Tokens(query))
}

func scoreTokens(a models.Alias, tokens []string) int {
	hay := strings.ToLower(a.Name + " " + a.Body + " " + a.Note)
	n := 0
	for _, t := range tokens {
		if strings.Contains(hay, t) {
			n++
		}
	}
	return n
}

// Filter scores every record and returns the included ones ordered by
// descending score, then case-insensitive name. A blank query includes every
// record; otherwise only records with a positive score are kept. Records with
// equal score and equal lower-cased name keep their input order.
func Filter(records []models.Alias, query string) []Hit {
	blank := Blank(query)
	tokens := Tokens(query)

	hits := make([]Hit, 0, len(records))
	for _, a := range records {
		score := 1
		if !blank {
			score = scoreTokens(a, tokens)
		}
		if score > 0 || blank {
			hits = append(hits, Hit{Alias: a, Score: score})
		}
	}

	slices.SortStableFunc(hits, func(x, y Hit) int {
		if c := cmp.Compare(y.Score, x.Score); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(x.Alias.Name), strings.ToLower(y.Alias.Name))
	})
	return hits
}
