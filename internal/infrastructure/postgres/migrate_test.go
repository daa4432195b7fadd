package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	fsys, err := migrationFiles()
	require.NoError(t, err)

	names, err := fs.Glob(fsys, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_stage_history.sql"}, names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		require.NoError(t, err)
		sql := string(data)
		assert.Contains(t, sql, "-- +goose Up", name)
		assert.Contains(t, sql, "-- +goose Down", name)
		assert.Equal(t,
			strings.Count(sql, "-- +goose StatementBegin"),
			strings.Count(sql, "-- +goose StatementEnd"),
			"%s: bloques StatementBegin/End desbalanceados", name)
		assert.Equal(t, strings.Count(sql, "DO $$"), strings.Count(sql, "-- +goose StatementBegin"),
			"%s: cada bloque DO va entre StatementBegin/End", name)
	}

	data, err := fs.ReadFile(fsys, "001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS opportunities")
}
