package jwt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength longitud mínima de la clave HS256 (256 bits).
const MinSecretLength = 32

// refreshTokenBytes bytes aleatorios de un refresh token (96 caracteres hex).
const refreshTokenBytes = 48

var (
	// ErrEmptySecret clave de firma vacía o demasiado corta.
	ErrEmptySecret = errors.New("jwt: secret vacío o menor a 32 bytes")
	// ErrExpired token con firma válida pero vencido.
	ErrExpired = errors.New("jwt: token expirado")
	// ErrInvalid firma, algoritmo, emisor, audiencia o formato inválidos.
	ErrInvalid = errors.New("jwt: token inválido")
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Roles viaja en el token para que el middleware RBAC decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"uid,omitempty"`
	Name   string   `json:"name,omitempty"`
	Roles  []string `json:"roles"`
}

// Params datos de emisión de un access token.
type Params struct {
	Subject  string
	UserID   string
	Name     string
	Roles    []string
	Issuer   string
	Audience string
	TTL      time.Duration
	Now      time.Time
}

// Generate firma un access token HS256. Devuelve el token y su instante de expiración.
func Generate(secret []byte, p Params) (string, time.Time, error) {
	if len(secret) < MinSecretLength {
		return "", time.Time{}, ErrEmptySecret
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	exp := now.Add(p.TTL)
	roles := p.Roles
	if roles == nil {
		roles = []string{}
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings{p.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: p.UserID,
		Name:   p.Name,
		Roles:  roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("firmar token: %w", err)
	}
	return signed, exp.UTC(), nil
}

// Parse valida firma, algoritmo, emisor, audiencia y expiración y devuelve los claims.
// Los errores se reducen a ErrExpired o ErrInvalid.
func Parse(secret []byte, tokenString, issuer, audience string, now time.Time) (*Claims, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrEmptySecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	}
	if !now.IsZero() {
		opts = append(opts, jwt.WithTimeFunc(func() time.Time { return now }))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}

// NewRefreshToken genera un refresh token opaco con crypto/rand.
func NewRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashRefreshToken hash SHA-256 en hex; es lo único que se guarda del refresh token.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
