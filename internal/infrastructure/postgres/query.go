package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Academia-api/internal/domain/repository"
)

// selectQuery arma los SELECT de los repositorios. Sobre tablas auditables añade siempre
// "is_deleted = false" salvo que el modo sea repository.IncludeDeleted.
type selectQuery struct {
	table      string
	columns    []string
	softDelete bool
	mode       repository.QueryMode
	where      []string
	args       []any
	orderBy    string
	limit      int
	offset     int
}

func newSelect(m interface {
	name() string
	auditable() bool
}, columns []string, mode repository.QueryMode) *selectQuery {
	return &selectQuery{table: m.name(), columns: columns, softDelete: m.auditable(), mode: mode}
}

// WhereEq añade una condición de igualdad con placeholder posicional.
func (q *selectQuery) WhereEq(column string, value any) *selectQuery {
	q.args = append(q.args, value)
	q.where = append(q.where, fmt.Sprintf("%s = $%d", column, len(q.args)))
	return q
}

// OrderBy fija el ORDER BY (columnas internas, nunca entrada de usuario).
func (q *selectQuery) OrderBy(expr string) *selectQuery {
	q.orderBy = expr
	return q
}

// Page aplica LIMIT/OFFSET; limit <= 0 no limita.
func (q *selectQuery) Page(limit, offset int) *selectQuery {
	q.limit, q.offset = limit, offset
	return q
}

func (q *selectQuery) conditions() []string {
	conds := make([]string, 0, len(q.where)+1)
	if q.softDelete && q.mode != repository.IncludeDeleted {
		conds = append(conds, "is_deleted = false")
	}
	return append(conds, q.where...)
}

// SQL devuelve la consulta y sus argumentos.
func (q *selectQuery) SQL() (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(q.columns, ", "), q.table)
	if conds := q.conditions(); len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	if q.orderBy != "" {
		b.WriteString(" ORDER BY " + q.orderBy)
	}
	args := append([]any{}, q.args...)
	if q.limit > 0 {
		args = append(args, q.limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if q.offset > 0 {
		args = append(args, q.offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

// CountSQL devuelve el COUNT(*) con los mismos filtros, sin orden ni paginación.
func (q *selectQuery) CountSQL() (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT COUNT(*) FROM %s", q.table)
	if conds := q.conditions(); len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	return b.String(), append([]any{}, q.args...)
}
