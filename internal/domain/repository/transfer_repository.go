package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para traslados y sus
// renglones.
type TransferRepository interface {
	// Create persiste el traslado con sus renglones.
	Create(t *entity.LocationTransfer) error
	// GetByID devuelve el traslado con renglones, o nil si no existe.
	GetByID(id string) (*entity.LocationTransfer, error)
	// GetForUpdate igual que GetByID pero bloquea la fila del traslado,
	// serializando accept/reject/cancel concurrentes.
	GetForUpdate(id string) (*entity.LocationTransfer, error)
	// SetStatus fija el estado terminal y la fecha de resolución.
	SetStatus(id, status string, resolvedAt time.Time) error
	// ListPendingByDestination lista traslados PENDING dirigidos al tenedor.
	ListPendingByDestination(holder entity.Holder) ([]*entity.LocationTransfer, error)
	// ListPendingBySource lista traslados PENDING originados por el tenedor.
	ListPendingBySource(holder entity.Holder) ([]*entity.LocationTransfer, error)
}
