package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/goran-ethernal/BBSCache/internal/db"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/pkg/config"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Load returns the embedded migrations for the given driver, ordered by file name.
func Load(driver string) ([]db.Migration, error) {
	var dir string
	switch driver {
	case config.DriverSQLite:
		dir = "sqlite"
	case config.DriverPostgres:
		dir = "postgres"
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}

	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	migrations := make([]db.Migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(files, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, db.Migration{ID: name, SQL: string(content)})
	}

	return migrations, nil
}

// EnsureSchema brings the database schema up to date.
func EnsureSchema(log *logger.Logger, database *db.DB) error {
	migrations, err := Load(database.Driver)
	if err != nil {
		return err
	}

	return db.RunMigrations(log, database, migrations)
}
