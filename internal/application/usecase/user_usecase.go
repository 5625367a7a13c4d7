package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Academia-api/internal/application/dto"
	"github.com/jhoicas/Academia-api/internal/application/validation"
	"github.com/jhoicas/Academia-api/internal/domain"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
	"github.com/jhoicas/Academia-api/pkg/result"
)

// Mensajes de administración de usuarios.
const (
	MsgUserNotFound     = "User not found."
	MsgUserNotDeleted   = "User is not deleted."
	MsgEmailTakenActive = "An active user with this email already exists."
)

// UserUseCase administración de cuentas: consulta, borrado lógico, restauración y roles.
type UserUseCase struct {
	uows      repository.UnitOfWorkFactory
	refresh   repository.RefreshTokenStore
	validator *validation.Validator
	log       zerolog.Logger
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(uows repository.UnitOfWorkFactory, refresh repository.RefreshTokenStore, validator *validation.Validator, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{uows: uows, refresh: refresh, validator: validator, log: log}
}

func notFound() result.Result[dto.UserResponse] {
	return result.Failure[dto.UserResponse](result.NotFound(MsgUserNotFound))
}

// GetByID obtiene un usuario. En modo Active un usuario borrado no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id uuid.UUID, mode repository.QueryMode) (result.Result[dto.UserResponse], error) {
	user, err := uc.uows.New().Users().GetByID(ctx, id, mode)
	if err != nil {
		return result.Result[dto.UserResponse]{}, err
	}
	if user == nil {
		return notFound(), nil
	}
	return result.Success(dto.NewUserResponse(user)), nil
}

// List lista usuarios paginados; include_deleted solo en vistas de administración.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (result.Result[dto.UserListResponse], error) {
	if errs := uc.validator.Struct(page); len(errs) > 0 {
		return result.Failure[dto.UserListResponse](errs[0]), nil
	}
	page.DefaultPage()
	mode := repository.ModeFromFlag(page.IncludeDeleted)
	users := uc.uows.New().Users()

	list, err := users.List(ctx, mode, page.Limit, page.Offset)
	if err != nil {
		return result.Result[dto.UserListResponse]{}, err
	}
	total, err := users.Count(ctx, mode)
	if err != nil {
		return result.Result[dto.UserListResponse]{}, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, dto.NewUserResponse(u))
	}
	return result.Success(dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}), nil
}

// Delete borra lógicamente la cuenta y revoca sus refresh tokens.
func (uc *UserUseCase) Delete(ctx context.Context, id uuid.UUID) (result.Result[dto.UserResponse], error) {
	var user *entity.User
	err := repository.RunInTx(ctx, uc.uows, func(uow repository.UnitOfWork) error {
		var err error
		user, err = uow.Users().GetByID(ctx, id, repository.Active)
		if err != nil || user == nil {
			return err
		}
		uow.Users().Remove(user)
		return nil
	})
	if err != nil {
		return result.Result[dto.UserResponse]{}, fmt.Errorf("delete user: %w", err)
	}
	if user == nil {
		return notFound(), nil
	}

	if err := uc.refresh.RevokeAllForUser(ctx, user.ID); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("no se pudieron revocar los refresh tokens")
	}
	uc.log.Info().Str("user_id", user.ID.String()).Msg("usuario borrado")
	return result.Success(dto.NewUserResponse(user)), nil
}

// Restore revierte el borrado lógico. Conflict si otra cuenta activa tomó el email.
func (uc *UserUseCase) Restore(ctx context.Context, id uuid.UUID) (result.Result[dto.UserResponse], error) {
	uow := uc.uows.New()
	user, err := uow.Users().GetByID(ctx, id, repository.IncludeDeleted)
	if err != nil {
		return result.Result[dto.UserResponse]{}, err
	}
	if user == nil {
		return notFound(), nil
	}
	if !user.IsDeleted {
		return result.Failure[dto.UserResponse](result.Conflict(MsgUserNotDeleted)), nil
	}
	user.Restore()
	uow.Users().Update(user)
	if _, err := uow.SaveChanges(ctx); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return result.Failure[dto.UserResponse](result.Conflict(MsgEmailTakenActive)), nil
		}
		return result.Result[dto.UserResponse]{}, fmt.Errorf("restore user: %w", err)
	}
	return result.Success(dto.NewUserResponse(user)), nil
}

// AssignRoles reemplaza los roles. Los tokens ya emitidos conservan los roles anteriores hasta expirar.
func (uc *UserUseCase) AssignRoles(ctx context.Context, id uuid.UUID, in dto.AssignRolesRequest) (result.Result[dto.UserResponse], error) {
	if errs := uc.validator.Struct(in); len(errs) > 0 {
		return result.Failure[dto.UserResponse](errs[0]), nil
	}
	uow := uc.uows.New()
	user, err := uow.Users().GetByID(ctx, id, repository.Active)
	if err != nil {
		return result.Result[dto.UserResponse]{}, err
	}
	if user == nil {
		return notFound(), nil
	}
	user.SetRoles(in.Roles)
	uow.Users().Update(user)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return result.Result[dto.UserResponse]{}, fmt.Errorf("assign roles: %w", err)
	}
	return result.Success(dto.NewUserResponse(user)), nil
}
