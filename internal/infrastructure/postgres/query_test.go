package postgres

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Academia-api/internal/domain/repository"
)

func TestSelect_ModoActivo_FiltraBorrados(t *testing.T) {
	q := newSelect(userTable, []string{"id", "email"}, repository.Active).WhereEq("id", "x")

	sql, args := q.SQL()

	assert.Equal(t, "SELECT id, email FROM users WHERE is_deleted = false AND id = $1", sql)
	assert.Equal(t, []any{"x"}, args)
}

func TestSelect_IncludeDeleted_SinFiltro(t *testing.T) {
	q := newSelect(userTable, []string{"id"}, repository.IncludeDeleted).WhereEq("id", "x")

	sql, _ := q.SQL()

	assert.Equal(t, "SELECT id FROM users WHERE id = $1", sql)
}

func TestSelect_Paginacion(t *testing.T) {
	q := newSelect(userTable, []string{"id"}, repository.Active).
		OrderBy("created_at DESC").
		Page(20, 40)

	sql, args := q.SQL()

	assert.Equal(t, "SELECT id FROM users WHERE is_deleted = false ORDER BY created_at DESC LIMIT $1 OFFSET $2", sql)
	assert.Equal(t, []any{20, 40}, args)

	count, cargs := q.CountSQL()
	assert.Equal(t, "SELECT COUNT(*) FROM users WHERE is_deleted = false", count)
	assert.Empty(t, cargs)
}

func TestUserTable_Columnas(t *testing.T) {
	cols := userTable.selectColumns()

	assert.Equal(t, "id", cols[0])
	assert.Contains(t, cols, "normalized_email")
	assert.Equal(t, auditColumns, cols[len(cols)-len(auditColumns):])
	assert.True(t, userTable.auditable())
}

// stubRow copia valores fijos en los destinos de Scan, como haría pgx.
type stubRow struct{ values []any }

func (r stubRow) Scan(dest ...any) error {
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func TestScan_SellosEnUTC(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	created := time.Date(2026, 1, 2, 8, 0, 0, 0, bogota)
	updated := created.Add(time.Hour)
	deleted := created.Add(2 * time.Hour)
	by := "admin@x.com"
	row := stubRow{values: []any{
		uuid.New(), "a@x.com", "a@x.com", "hash", "", []string{},
		created, "System", &updated, &by, true, &deleted, &by,
	}}

	u, err := userTable.scan(row)

	require.NoError(t, err)
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
	assert.True(t, u.CreatedAt.Equal(created))
	require.NotNil(t, u.UpdatedAt)
	assert.Equal(t, time.UTC, u.UpdatedAt.Location())
	require.NotNil(t, u.DeletedAt)
	assert.Equal(t, time.UTC, u.DeletedAt.Location())
	assert.True(t, u.DeletedAt.Equal(deleted))
}
