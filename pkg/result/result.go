// Package result modela el resultado de una operación de dominio: éxito con valor o fallo
// esperado con código y mensaje. Los fallos de infraestructura no pasan por aquí, se devuelven como error.
package result

import "fmt"

// Códigos de error estables usados por los casos de uso.
const (
	CodeNotFound           = "NotFound"
	CodeConflict           = "Conflict"
	CodeDuplicateUser      = "Conflict.DuplicateUser"
	CodeUnauthorized       = "Auth.Unauthorized"
	CodeInvalidCredentials = "Auth.InvalidCredentials"
	CodeInvalidToken       = "Auth.InvalidToken"
	CodeExpired            = "Auth.Expired"
	CodeValidation         = "Validation"
)

// Error fallo esperado de una operación.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError construye un Error.
func NewError(code, message string) Error {
	return Error{Code: code, Message: message}
}

// Validation construye un error de validación para un campo concreto ("Validation.email").
func Validation(field, message string) Error {
	return Error{Code: CodeValidation + "." + field, Message: message}
}

// NotFound construye un error de recurso inexistente.
func NotFound(message string) Error {
	return Error{Code: CodeNotFound, Message: message}
}

// Conflict construye un error de conflicto con el estado actual.
func Conflict(message string) Error {
	return Error{Code: CodeConflict, Message: message}
}

func (e Error) String() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Result es Success(valor) o Failure(error); nunca ambos.
type Result[T any] struct {
	value T
	err   *Error
}

// Success construye un resultado exitoso.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure construye un resultado fallido.
func Failure[T any](err Error) Result[T] {
	return Result[T]{err: &err}
}

// IsSuccess indica si el resultado tiene valor.
func (r Result[T]) IsSuccess() bool { return r.err == nil }

// IsFailure indica si el resultado es un fallo.
func (r Result[T]) IsFailure() bool { return r.err != nil }

// Value devuelve el valor. Entra en pánico si el resultado es un fallo.
func (r Result[T]) Value() T {
	if r.err != nil {
		panic(fmt.Sprintf("result: Value() sobre un fallo (%s)", r.err))
	}
	return r.value
}

// ValueOr devuelve el valor o def si el resultado es un fallo.
func (r Result[T]) ValueOr(def T) T {
	if r.err != nil {
		return def
	}
	return r.value
}

// Error devuelve el error del fallo; Error vacío si el resultado es exitoso.
func (r Result[T]) Error() Error {
	if r.err == nil {
		return Error{}
	}
	return *r.err
}
