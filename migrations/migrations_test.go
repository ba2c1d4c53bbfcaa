package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(FS, "sql/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, name := range files {
		body, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		text := string(body)
		assert.Contains(t, text, "-- +goose Up", name)
		assert.Contains(t, text, "-- +goose Down", name)
	}
}

func TestStockRecordsColumns(t *testing.T) {
	body, err := fs.ReadFile(FS, "sql/00001_stock_records.sql")
	require.NoError(t, err)

	for _, col := range []string{"pe_ttm", "roe", "financial_health", "durability", "momentum", "sector_profit_growth"} {
		assert.True(t, strings.Contains(string(body), col+" "), col)
	}
}
