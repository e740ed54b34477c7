package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementFilter acota una consulta del historial. Los campos vacíos no filtran.
type MovementFilter struct {
	WarehouseItemID string
	OrderID         string
	PerformedByID   string
	Action          string
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
}

// MovementRepository define el puerto del historial de movimientos.
// Solo expone Append y Query: las correcciones se modelan como entradas
// nuevas, nunca como ediciones o borrados.
type MovementRepository interface {
	Append(m *entity.Movement) error
	Query(filter MovementFilter) ([]*entity.Movement, error)
}
