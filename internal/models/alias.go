// Package models defines the domain types for aliasrunner.
package models

import (
	"fmt"
	"time"
)

// Alias represents one parsed `alias name='body'` definition.
type Alias struct {
	Name string `json:"name"`
	Body string `json:"body"`
	Note string `json:"note"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// Location returns the "file:line" where the alias was defined.
func (a Alias) Location() string {
	return fmt.Sprintf("%s:%d", a.File, a.Line)
}

// Run is one recorded execution of an alias.
type Run struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Body       string    `json:"body"`
	Args       []string  `json:"args"`
	ExitCode   int       `json:"exit_code"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}
