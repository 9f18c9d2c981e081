package history

import "github.com/starford/aliasrunner/internal/models"

// Log defines the run-history operations used by the CLI and the servers.
type Log interface {
	Record(r models.Run) (int64, error)
	Recent(limit int, name string) ([]models.Run, error)
	Close() error
}

// Verify *DB satisfies Log at compile time.
var _ Log = (*DB)(nil)
