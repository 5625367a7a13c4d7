package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Academia-api/internal/domain"
)

// usersEmailUniqueIndex índice parcial que garantiza un email por cuenta activa (migración 000001).
const usersEmailUniqueIndex = "ux_users_normalized_email_active"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// uniqueViolationErr sentinel de dominio para una violación de unicidad según el constraint.
func uniqueViolationErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == usersEmailUniqueIndex {
		return domain.ErrEmailAlreadyExists
	}
	return domain.ErrDuplicate
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
