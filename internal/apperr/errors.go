package apperr

import (
	"errors"
	"net/http"
)

// Tipos de error que el núcleo puede devolver. Los handlers los traducen
// a códigos HTTP con StatusCode; ninguna capa los reintenta ni los oculta.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
)

// Error envuelve un tipo del catálogo con un mensaje legible.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }

func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func InvalidArgument(msg string) error { return &Error{Kind: ErrInvalidArgument, Message: msg} }

func InvalidState(msg string) error { return &Error{Kind: ErrInvalidState, Message: msg} }

// StatusCode mapea el tipo de error al código HTTP correspondiente.
// Cualquier error fuera del catálogo es un 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
