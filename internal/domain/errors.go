package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	// ErrStoreUnavailable error transitorio: base de datos o red no disponibles.
	ErrStoreUnavailable = errors.New("almacenamiento no disponible")
	// ErrInFlight ya existe un cambio de etapa pendiente para la oportunidad.
	ErrInFlight = errors.New("cambio de etapa en curso para la oportunidad")
)
