package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationStatus estado de una migración embebida frente a goose_db_version.
type MigrationStatus struct {
	Version   int64
	File      string
	Applied   bool
	AppliedAt time.Time
}

// migrationFiles raíz del FS embebido que lee goose (NNN_nombre.sql).
func migrationFiles() (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations")
}

// newMigrator abre un *sql.DB sobre el pool para goose. Cerrar el DB no
// cierra el pool.
func newMigrator(pool *pgxpool.Pool) (*goose.Provider, *sql.DB, error) {
	fsys, err := migrationFiles()
	if err != nil {
		return nil, nil, fmt.Errorf("leer migraciones: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("crear migrador: %w", err)
	}
	return provider, db, nil
}

// Migrate aplica con goose las migraciones pendientes, cada una en su propia
// transacción. Devuelve los archivos aplicados.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	provider, db, err := newMigrator(pool)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("aplicar migraciones: %w", err)
	}
	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Path)
	}
	return applied, nil
}

// MigrationStatuses estado de cada migración embebida, por versión.
func MigrationStatuses(ctx context.Context, pool *pgxpool.Pool) ([]MigrationStatus, error) {
	provider, db, err := newMigrator(pool)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	list, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("estado de migraciones: %w", err)
	}
	out := make([]MigrationStatus, 0, len(list))
	for _, s := range list {
		out = append(out, MigrationStatus{
			Version:   s.Source.Version,
			File:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}
