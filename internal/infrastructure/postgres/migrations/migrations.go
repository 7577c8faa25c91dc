// Package migrations esquema de la base de datos embebido en el binario.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed *.sql
var files embed.FS

// Files nombres de los scripts en orden de aplicación.
func Files() ([]string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Apply ejecuta todos los scripts en orden. Son idempotentes (IF NOT EXISTS).
func Apply(ctx context.Context, db *sql.DB) error {
	names, err := Files()
	if err != nil {
		return err
	}
	for _, name := range names {
		script, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("leer %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("aplicar %s: %w", name, err)
		}
	}
	return nil
}
