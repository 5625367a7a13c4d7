package repository

// QueryMode visibilidad de filas con borrado lógico en una lectura.
type QueryMode int

const (
	// Active solo filas no borradas. Es el modo por defecto.
	Active QueryMode = iota
	// IncludeDeleted incluye filas borradas; solo para vistas de administración y auditoría.
	IncludeDeleted
)

// ModeFromFlag traduce el flag include_deleted de las vistas de administración.
func ModeFromFlag(includeDeleted bool) QueryMode {
	if includeDeleted {
		return IncludeDeleted
	}
	return Active
}
