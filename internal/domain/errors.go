package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrNegativeStock: se intentó dejar una tenencia de material por debajo
	// de 0. El faltante debe pasar por el contador de déficits, nunca por
	// un stock negativo.
	ErrNegativeStock = errors.New("el stock no puede quedar negativo")

	// ErrUnknownMaterial / ErrUnknownItem: id referenciado inexistente.
	ErrUnknownMaterial = errors.New("material no registrado en el catálogo")
	ErrUnknownItem     = errors.New("ítem de almacén no registrado")

	// ErrInvalidTransferState: transición sobre un traslado no PENDING.
	ErrInvalidTransferState = errors.New("el traslado ya alcanzó un estado terminal")

	// ErrStaleTransferLine: el ítem de un renglón ya no está marcado en
	// tránsito (otra operación lo liberó antes).
	ErrStaleTransferLine = errors.New("el ítem del traslado ya no está en tránsito")
)
