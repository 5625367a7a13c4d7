package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Academia-api/internal/application/dto"
	"github.com/jhoicas/Academia-api/internal/application/validation"
	"github.com/jhoicas/Academia-api/internal/domain"
	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
	"github.com/jhoicas/Academia-api/pkg/jwt"
	"github.com/jhoicas/Academia-api/pkg/metrics"
	"github.com/jhoicas/Academia-api/pkg/result"
)

// Mensajes expuestos al cliente.
const (
	MsgInvalidCredentials  = "Invalid login credentials."
	MsgPasswordsMismatch   = "Passwords do not match."
	MsgDuplicateUser       = "User with this email already exists."
	MsgInvalidRefreshToken = "Invalid refresh token."
	MsgUserNotFound        = "User not found."
)

// PasswordHasher capacidad de hash y verificación de contraseñas.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// AuthUseCase casos de uso de autenticación: registro, login, refresh, logout y perfil.
type AuthUseCase struct {
	uows        repository.UnitOfWorkFactory
	tokens      *TokenService
	refresh     repository.RefreshTokenStore
	hasher      PasswordHasher
	validator   *validation.Validator
	log         zerolog.Logger
	dummyDigest string // mismo cost que los digests reales; se verifica cuando el email no existe
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	uows repository.UnitOfWorkFactory,
	tokens *TokenService,
	refresh repository.RefreshTokenStore,
	hasher PasswordHasher,
	validator *validation.Validator,
	log zerolog.Logger,
) *AuthUseCase {
	dummy, err := hasher.Hash("academia-login-timing-placeholder")
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo generar el digest de referencia para login")
	}
	return &AuthUseCase{
		uows:        uows,
		tokens:      tokens,
		refresh:     refresh,
		hasher:      hasher,
		validator:   validator,
		log:         log,
		dummyDigest: dummy,
	}
}

// Register crea la cuenta y abre sesión. Sin actor autenticado, CreatedBy queda en System.
// Los fallos esperados vuelven en AuthResult; error solo para fallos de infraestructura.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (dto.AuthResult, error) {
	if errs := uc.validator.Struct(in); len(errs) > 0 {
		return uc.fail("register", errs[0].Code, validation.Messages(errs)...), nil
	}
	if in.Password != in.ConfirmPassword {
		return uc.fail("register", result.CodeValidation+".confirm_password", MsgPasswordsMismatch), nil
	}

	uow := uc.uows.New()
	existing, err := uow.Users().GetByEmail(ctx, in.Email, repository.Active)
	if err != nil {
		return uc.errored("register", err)
	}
	if existing != nil {
		return uc.fail("register", result.CodeDuplicateUser, MsgDuplicateUser), nil
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return uc.errored("register", err)
	}
	user := entity.NewUser(in.Email, hash)
	uow.Users().Add(user)
	if _, err := uow.SaveChanges(ctx); err != nil {
		// carrera con otro registro del mismo email: lo resuelve el índice único
		if errors.Is(err, domain.ErrDuplicate) {
			return uc.fail("register", result.CodeDuplicateUser, MsgDuplicateUser), nil
		}
		return uc.errored("register", err)
	}

	out, err := uc.openSession(ctx, user)
	if err != nil {
		return uc.errored("register", err)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	uc.log.Info().Str("user_id", user.ID.String()).Msg("usuario registrado")
	return out, nil
}

// Login verifica credenciales. Email desconocido y contraseña errónea dan el mismo error
// y pasan ambos por una verificación bcrypt.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (dto.AuthResult, error) {
	if errs := uc.validator.Struct(in); len(errs) > 0 {
		return uc.fail("login", result.CodeInvalidCredentials, MsgInvalidCredentials), nil
	}
	user, err := uc.uows.New().Users().GetByEmail(ctx, in.Email, repository.Active)
	if err != nil {
		return uc.errored("login", err)
	}
	if user == nil {
		// iguala el tiempo de respuesta con el de una contraseña errónea
		uc.hasher.Verify(in.Password, uc.dummyDigest)
		return uc.fail("login", result.CodeInvalidCredentials, MsgInvalidCredentials), nil
	}
	if !uc.hasher.Verify(in.Password, user.PasswordHash) {
		return uc.fail("login", result.CodeInvalidCredentials, MsgInvalidCredentials), nil
	}

	out, err := uc.openSession(ctx, user)
	if err != nil {
		return uc.errored("login", err)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return out, nil
}

// Refresh consume el refresh token (una sola vez) y emite un par nuevo.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (dto.AuthResult, error) {
	if errs := uc.validator.Struct(in); len(errs) > 0 {
		return uc.fail("refresh", result.CodeInvalidToken, MsgInvalidRefreshToken), nil
	}
	userID, err := uc.refresh.Consume(ctx, jwt.HashRefreshToken(in.RefreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenInvalid) {
			return uc.fail("refresh", result.CodeInvalidToken, MsgInvalidRefreshToken), nil
		}
		return uc.errored("refresh", err)
	}
	user, err := uc.uows.New().Users().GetByID(ctx, userID, repository.Active)
	if err != nil {
		return uc.errored("refresh", err)
	}
	if user == nil {
		return uc.fail("refresh", result.CodeInvalidToken, MsgInvalidRefreshToken), nil
	}

	out, err := uc.openSession(ctx, user)
	if err != nil {
		return uc.errored("refresh", err)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("refresh", "success").Inc()
	return out, nil
}

// Logout revoca el refresh token. Es idempotente.
func (uc *AuthUseCase) Logout(ctx context.Context, in dto.RefreshRequest) error {
	if in.RefreshToken == "" {
		return nil
	}
	if err := uc.refresh.Revoke(ctx, jwt.HashRefreshToken(in.RefreshToken)); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("logout", "error").Inc()
		return fmt.Errorf("logout: %w", err)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("logout", "success").Inc()
	return nil
}

// Me devuelve el perfil del actor autenticado.
func (uc *AuthUseCase) Me(ctx context.Context) (result.Result[dto.UserResponse], error) {
	a, ok := actor.FromContext(ctx)
	if !ok || !a.Authenticated {
		return result.Failure[dto.UserResponse](result.NewError(result.CodeUnauthorized, MsgUnauthorized)), nil
	}
	users := uc.uows.New().Users()
	var (
		user *entity.User
		err  error
	)
	if id, perr := uuid.Parse(a.AccountID); perr == nil {
		user, err = users.GetByID(ctx, id, repository.Active)
	} else {
		user, err = users.GetByEmail(ctx, a.UserID, repository.Active)
	}
	if err != nil {
		return result.Result[dto.UserResponse]{}, err
	}
	if user == nil {
		return result.Failure[dto.UserResponse](result.NotFound(MsgUserNotFound)), nil
	}
	return result.Success(dto.NewUserResponse(user)), nil
}

// openSession emite access y refresh token para el usuario y guarda el refresh.
func (uc *AuthUseCase) openSession(ctx context.Context, user *entity.User) (dto.AuthResult, error) {
	token, exp, err := uc.tokens.IssueAccessToken(AccessSubject{
		Subject: user.Email,
		UserID:  user.ID.String(),
		Name:    user.DisplayName,
		Roles:   user.Roles,
	})
	if err != nil {
		return dto.AuthResult{}, err
	}
	rt, err := uc.tokens.IssueRefreshToken()
	if err != nil {
		return dto.AuthResult{}, err
	}
	if err := uc.refresh.Store(ctx, rt.Hash, user.ID, rt.TTL); err != nil {
		return dto.AuthResult{}, err
	}
	return dto.AuthResult{
		Success:      true,
		Token:        &token,
		RefreshToken: rt.Raw,
		ExpiresAt:    &exp,
		Errors:       []string{},
	}, nil
}

func (uc *AuthUseCase) fail(op, code string, messages ...string) dto.AuthResult {
	metrics.AuthAttemptsTotal.WithLabelValues(op, "failure").Inc()
	return dto.AuthFailure(code, messages...)
}

func (uc *AuthUseCase) errored(op string, err error) (dto.AuthResult, error) {
	metrics.AuthAttemptsTotal.WithLabelValues(op, "error").Inc()
	return dto.AuthResult{}, fmt.Errorf("%s: %w", op, err)
}
