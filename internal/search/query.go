package search

import "github.com/starford/aliasrunner/internal/models"

// NoSelection is the cursor value when there are no results.
const NoSelection = -1

// PageSize is the cursor step for page-up / page-down.
const PageSize = 10

// Query is the current filter text, its ranked results and the cursor.
type Query struct {
	Text    string
	Results []Hit
	Cursor  int
}

// NewQuery ranks records against text and puts the cursor on the first result.
func NewQuery(records []models.Alias, text string) Query {
	q := Query{Text: text, Results: Filter(records, text)}
	q.resetCursor()
	return q
}

func (q *Query) resetCursor() {
	if len(q.Results) == 0 {
		q.Cursor = NoSelection
		return
	}
	q.Cursor = 0
}

// Move shifts the cursor by delta, clamped to [0, len(Results)).
func (q *Query) Move(delta int) {
	if len(q.Results) == 0 {
		q.Cursor = NoSelection
		return
	}
	q.Cursor = max(0, min(len(q.Results)-1, q.Cursor+delta))
}

// Current returns the hit under the cursor.
func (q Query) Current() (Hit, bool) {
	if q.Cursor < 0 || q.Cursor >= len(q.Results) {
		return Hit{}, false
	}
	return q.Results[q.Cursor], true
}

// Aliases returns the ranked aliases without scores.
func (q Query) Aliases() []models.Alias {
	out := make([]models.Alias, len(q.Results))
	for i, h := range q.Results {
		out[i] = h.Alias
	}
	return out
}
