package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@db:5432/shop?sslmode=disable": "pgx5://u:p@db:5432/shop?sslmode=disable",
		"postgresql://u@db/shop":                      "pgx5://u@db/shop",
		"pgx5://u@db/shop":                            "pgx5://u@db/shop",
	}
	for in, want := range cases {
		assert.Equal(t, want, pgx5URL(in), in)
	}
}

func TestMigraciones_ParesUpDown(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, f := range files {
		switch {
		case strings.HasSuffix(f, ".up.sql"):
			ups[strings.TrimSuffix(f, ".up.sql")] = true
		case strings.HasSuffix(f, ".down.sql"):
			downs[strings.TrimSuffix(f, ".down.sql")] = true
		default:
			t.Errorf("archivo de migración sin dirección: %s", f)
		}
	}
	assert.Equal(t, ups, downs, "cada migración up necesita su down")
}

func TestMigraciones_SembranClasesYTasasPorDefecto(t *testing.T) {
	seed, err := fs.ReadFile(migrationsFS, "migrations/000002_seed_directory.up.sql")
	require.NoError(t, err)
	sql := string(seed)

	assert.Contains(t, sql, "'Taxable Goods', 'PRODUCT'")
	assert.Contains(t, sql, "'Retail Customer', 'CUSTOMER'")
	assert.Contains(t, sql, "'default', 'Default Store View'")
	assert.Contains(t, sql, "-*-Rate 1")
}
