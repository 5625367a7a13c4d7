package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/pkg/jwt"
	"github.com/jhoicas/Academia-api/pkg/metrics"
	"github.com/jhoicas/Academia-api/pkg/result"
)

// MsgUnauthorized mensaje único para cualquier token rechazado.
const MsgUnauthorized = "Unauthorized."

// TokenConfig configuración para generación y validación de tokens.
type TokenConfig struct {
	Secret     string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time // nil usa time.Now
}

// TokenService emite y valida access tokens y genera refresh tokens.
// La clave se copia al construir y no cambia; es seguro compartirlo entre peticiones.
type TokenService struct {
	key        []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// AccessSubject identidad para la que se emite un access token.
type AccessSubject struct {
	Subject string // email del usuario
	UserID  string // id del registro de credenciales
	Name    string
	Roles   []string
}

// RefreshToken token opaco recién emitido. Solo Hash se persiste.
type RefreshToken struct {
	Raw       string
	Hash      string
	TTL       time.Duration
	ExpiresAt time.Time
}

// NewTokenService valida la configuración. Sin secret (o con uno corto) no se puede arrancar.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < jwt.MinSecretLength {
		return nil, jwt.ErrEmptySecret
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("auth: issuer y audience son obligatorios")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("auth: duraciones de token inválidas")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		key:        []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        now,
	}, nil
}

// IssueAccessToken firma un access token para el sujeto. Devuelve token y expiración.
func (s *TokenService) IssueAccessToken(sub AccessSubject) (string, time.Time, error) {
	token, exp, err := jwt.Generate(s.key, jwt.Params{
		Subject:  sub.Subject,
		UserID:   sub.UserID,
		Name:     sub.Name,
		Roles:    sub.Roles,
		Issuer:   s.issuer,
		Audience: s.audience,
		TTL:      s.accessTTL,
		Now:      s.now(),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue access token: %w", err)
	}
	return token, exp, nil
}

// IssueRefreshToken genera un refresh token opaco con su hash y expiración.
func (s *TokenService) IssueRefreshToken() (RefreshToken, error) {
	raw, err := jwt.NewRefreshToken()
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw:       raw,
		Hash:      jwt.HashRefreshToken(raw),
		TTL:       s.refreshTTL,
		ExpiresAt: s.now().Add(s.refreshTTL).UTC(),
	}, nil
}

// ValidateAndDecode verifica el token y devuelve el actor autenticado.
// Cualquier rechazo es Auth.Expired o Auth.InvalidToken con el mismo mensaje genérico.
func (s *TokenService) ValidateAndDecode(token string) result.Result[actor.Actor] {
	claims, err := jwt.Parse(s.key, token, s.issuer, s.audience, s.now())
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
			return result.Failure[actor.Actor](result.NewError(result.CodeExpired, MsgUnauthorized))
		}
		metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
		return result.Failure[actor.Actor](result.NewError(result.CodeInvalidToken, MsgUnauthorized))
	}
	metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
	roles := claims.Roles
	if roles == nil {
		roles = []string{}
	}
	return result.Success(actor.Actor{
		UserID:        claims.Subject,
		AccountID:     claims.UserID,
		UserName:      claims.Name,
		Roles:         roles,
		Authenticated: true,
	})
}
