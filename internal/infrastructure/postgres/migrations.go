package postgres

import "embed"

// Migrations scripts SQL versionados (formato golang-migrate), embebidos en el binario.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir directorio de los scripts dentro de Migrations.
const MigrationsDir = "migrations"
