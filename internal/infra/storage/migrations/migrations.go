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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Apply применяет все встроенные миграции по порядку имен файлов.
// Миграции написаны идемпотентно (IF NOT EXISTS), поэтому повторный запуск безопасен.
func Apply(ctx context.Context, db *sql.DB, log Logger) (int, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return 0, fmt.Errorf("migrations: list files: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := files.ReadFile(name)
		if err != nil {
			return 0, fmt.Errorf("migrations: read %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return 0, fmt.Errorf("migrations: apply %s: %w", name, err)
		}
		log.Info("Migration applied: %s", name)
	}

	return len(names), nil
}
