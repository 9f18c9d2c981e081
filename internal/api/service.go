package api

import (
	"github.com/starford/aliasrunner/internal/catalog"
	"github.com/starford/aliasrunner/internal/models"
	"github.com/starford/aliasrunner/internal/search"
)

// Catalog is the alias session the handlers read and edit.
type Catalog interface {
	Aliases() []models.Alias
	Search(text string) []search.Hit
	Get(name string) (models.Alias, error)
	SetNote(name, text string) (models.Alias, error)
	ClearNote(name string) (models.Alias, error)
	Reload() (catalog.ReloadStats, error)
}

// Notifier receives change events for live clients.
type Notifier interface {
	PublishNoteEvent(name string, cleared bool)
	PublishReload(data any)
}

// Verify *catalog.Service satisfies Catalog at compile time.
var _ Catalog = (*catalog.Service)(nil)
