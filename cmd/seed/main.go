// seed crea (o promueve) el primer administrador. El registro público no asigna roles,
// así que sin este paso nadie puede administrar usuarios.
//
// Uso: go run ./cmd/seed <email> <password>
// La fila queda auditada con CreatedBy = "System".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
	"github.com/jhoicas/Academia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Academia-api/pkg/config"
	"github.com/jhoicas/Academia-api/pkg/logger"
	"github.com/jhoicas/Academia-api/pkg/password"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "uso: seed <email> <password>")
		os.Exit(2)
	}
	email, plain := os.Args[1], os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uows := postgres.NewUnitOfWorkFactory(pool, actor.NewContextResolver(), nil, log.Component("uow"))
	if err := seedAdmin(ctx, uows, password.NewHasher(cfg.Auth.BcryptCost), email, plain); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	log.Info().Str("email", email).Msg("administrador listo")
}

func seedAdmin(ctx context.Context, uows repository.UnitOfWorkFactory, hasher *password.Hasher, email, plain string) error {
	uow := uows.New()
	user, err := uow.Users().GetByEmail(ctx, email, repository.Active)
	if err != nil {
		return err
	}
	if user == nil {
		hash, err := hasher.Hash(plain)
		if err != nil {
			return err
		}
		user = entity.NewUser(email, hash)
		user.SetRoles([]string{entity.RoleAdmin})
		uow.Users().Add(user)
	} else {
		user.SetRoles(append(user.Roles, entity.RoleAdmin))
		uow.Users().Update(user)
	}
	_, err = uow.SaveChanges(ctx)
	return err
}
