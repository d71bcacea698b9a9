package testhelpers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ApplyMigrations applies all .up.sql files from the migrations directory in
// lexical order. Migration files use IF NOT EXISTS, so repeated application
// across test suites is safe.
func ApplyMigrations(db *sql.DB, migrationsPath string) error {
	upFiles, err := filepath.Glob(filepath.Join(migrationsPath, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(upFiles)

	for _, file := range upFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", filepath.Base(file), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filepath.Base(file), err)
		}
	}

	return nil
}
