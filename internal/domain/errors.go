package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrNoTransaction       = errors.New("no hay transacción activa")
	ErrTransactionActive   = errors.New("ya hay una transacción activa")
	ErrRefreshTokenInvalid = errors.New("refresh token inválido o expirado")
)

// ErrEmailAlreadyExists otra cuenta activa tiene el mismo email normalizado. Envuelve ErrDuplicate.
var ErrEmailAlreadyExists = fmt.Errorf("%w: el email ya está registrado", ErrDuplicate)
