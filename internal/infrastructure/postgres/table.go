package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
)

// auditColumns columnas comunes de toda tabla auditable, en el orden en que se leen y escriben.
var auditColumns = []string{
	"created_at", "created_by", "updated_at", "updated_by", "is_deleted", "deleted_at", "deleted_by",
}

// mapper lo que la unidad de trabajo necesita para escribir un cambio sin conocer el tipo concreto.
type mapper interface {
	name() string
	auditable() bool
	insertSQL(e entity.Identifiable) (string, []any, error)
	updateSQL(e entity.Identifiable) (string, []any, error)
	deleteSQL(e entity.Identifiable) (string, []any)
}

// table mapeo de un agregado T a su tabla. Las columnas id y de auditoría las añade table;
// columns solo lista las propias del agregado.
type table[T entity.Identifiable] struct {
	tableName string
	columns   []string
	values    func(T) []any
	// newRow devuelve una entidad vacía y los destinos de Scan de id y columnas propias.
	newRow    func() (T, []any)
	audited   bool
}

func newTable[T entity.Identifiable](name string, columns []string, values func(T) []any, newRow func() (T, []any)) *table[T] {
	var zero T
	_, ok := any(zero).(entity.Auditable)
	return &table[T]{tableName: name, columns: columns, values: values, newRow: newRow, audited: ok}
}

func (t *table[T]) name() string    { return t.tableName }
func (t *table[T]) auditable() bool { return t.audited }

// selectColumns columnas en el orden que espera scan.
func (t *table[T]) selectColumns() []string {
	cols := append([]string{"id"}, t.columns...)
	if t.audited {
		cols = append(cols, auditColumns...)
	}
	return cols
}

func (t *table[T]) cast(e entity.Identifiable) (T, error) {
	v, ok := e.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: tipo %T no corresponde a %T", t.tableName, e, zero)
	}
	return v, nil
}

func (t *table[T]) insertSQL(e entity.Identifiable) (string, []any, error) {
	v, err := t.cast(e)
	if err != nil {
		return "", nil, err
	}
	args := append([]any{v.GetID()}, t.values(v)...)
	if t.audited {
		a := any(v).(entity.Auditable).Audit()
		args = append(args, a.CreatedAt, a.CreatedBy, a.UpdatedAt, a.UpdatedBy, a.IsDeleted, a.DeletedAt, a.DeletedBy)
	}
	cols := t.selectColumns()
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.tableName, strings.Join(cols, ", "), placeholders(1, len(cols)))
	return query, args, nil
}

// updateSQL escribe columnas propias y de modificación/borrado; created_* nunca se reescriben.
func (t *table[T]) updateSQL(e entity.Identifiable) (string, []any, error) {
	v, err := t.cast(e)
	if err != nil {
		return "", nil, err
	}
	cols := append([]string{}, t.columns...)
	args := append([]any{v.GetID()}, t.values(v)...)
	if t.audited {
		a := any(v).(entity.Auditable).Audit()
		cols = append(cols, "updated_at", "updated_by", "is_deleted", "deleted_at", "deleted_by")
		args = append(args, a.UpdatedAt, a.UpdatedBy, a.IsDeleted, a.DeletedAt, a.DeletedBy)
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", t.tableName, strings.Join(sets, ", "))
	return query, args, nil
}

func (t *table[T]) deleteSQL(e entity.Identifiable) (string, []any) {
	return fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.tableName), []any{e.GetID()}
}

// scan lee una fila con las columnas de selectColumns.
func (t *table[T]) scan(row pgx.Row) (T, error) {
	v, dest := t.newRow()
	if t.audited {
		a := any(v).(entity.Auditable).Audit()
		dest = append(dest, &a.CreatedAt, &a.CreatedBy, &a.UpdatedAt, &a.UpdatedBy, &a.IsDeleted, &a.DeletedAt, &a.DeletedBy)
	}
	if err := row.Scan(dest...); err != nil {
		var zero T
		return zero, err
	}
	if t.audited {
		auditToUTC(any(v).(entity.Auditable).Audit())
	}
	return v, nil
}

// auditToUTC pgx devuelve timestamptz en la zona local del proceso; los sellos se manejan en UTC.
func auditToUTC(a *entity.AuditableEntity) {
	a.CreatedAt = a.CreatedAt.UTC()
	for _, p := range []*time.Time{a.UpdatedAt, a.DeletedAt} {
		if p != nil {
			*p = p.UTC()
		}
	}
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}
