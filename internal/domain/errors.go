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
)

// Errores del kardex y del ciclo de vida de cuentas/perfiles.
// Todos son condiciones recuperables por el caller; el handler HTTP los traduce
// a códigos 4xx. Solo ErrConcurrencyConflict es seguro de reintentar a ciegas.
var (
	ErrInvalidPurchase       = errors.New("compra inválida: perfiles, costo o fechas")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrNegativeInventory     = errors.New("el ajuste dejaría inventario negativo")
	ErrCapacityBelowSold     = errors.New("no se puede reducir por debajo de los perfiles vendidos")
	ErrInsufficientAvailable = errors.New("no hay perfiles disponibles suficientes para dar de baja")
	ErrNoAvailableProfile    = errors.New("no hay perfiles disponibles para vender")
	ErrAccountInactive       = errors.New("la cuenta está inactiva")
	ErrProfileState          = errors.New("transición de estado de perfil no permitida")
	ErrConcurrencyConflict   = errors.New("conflicto de concurrencia, reintentar la operación")
)
