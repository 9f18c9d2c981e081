// Package merge folds parsed aliases into one name-keyed table where the last
// definition in traversal order wins.
package merge

import (
	"slices"
	"strings"

	"github.com/starford/aliasrunner/internal/models"
)

// Table maps alias names to the record that won. Display order is by name,
// case-insensitively, with names that differ only in case kept in the order
// they were first defined.
type Table struct {
	byName map[string]models.Alias
	order  []string
}

// New returns an empty table.
func New() *Table {
	return &Table{byName: make(map[string]models.Alias)}
}

// Build folds aliases left to right into a new table.
func Build(aliases []models.Alias) *Table {
	t := New()
	for _, a := range aliases {
		t.Put(a)
	}
	return t
}

// Put inserts a, replacing any previous record for the same name entirely.
func (t *Table) Put(a models.Alias) {
	if _, ok := t.byName[a.Name]; !ok {
		t.order = append(t.order, a.Name)
	}
	t.byName[a.Name] = a
}

// Get returns the record for name.
func (t *Table) Get(name string) (models.Alias, bool) {
	a, ok := t.byName[name]
	return a, ok
}

// Len returns the number of distinct names.
func (t *Table) Len() int {
	return len(t.byName)
}

// Records returns a copy of all records in display order.
func (t *Table) Records() []models.Alias {
	out := make([]models.Alias, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	slices.SortStableFunc(out, func(a, b models.Alias) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}
