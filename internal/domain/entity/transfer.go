package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado. PENDING es el único estado no terminal:
// el receptor acepta o rechaza; solo el origen puede cancelar.
const (
	TransferStatusPending  = "PENDING"
	TransferStatusAccepted = "ACCEPTED"
	TransferStatusRejected = "REJECTED"
	TransferStatusCanceled = "CANCELED"
)

// LocationTransfer es un lote de traslado entre dos tenedores del mismo tipo
// (técnico→técnico o ubicación→ubicación).
type LocationTransfer struct {
	ID         string
	FromHolder Holder
	ToHolder   Holder
	Status     string
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
	ResolvedAt *time.Time // fecha del estado terminal
	Lines      []*TransferLine
}

// TransferLine es un renglón del traslado: un ítem y, para materiales,
// la cantidad a mover (para equipos siempre 1).
type TransferLine struct {
	ID              string
	TransferID      string
	WarehouseItemID string
	Quantity        decimal.Decimal
}

// IsTerminal indica si el traslado ya alcanzó un estado final.
func (t *LocationTransfer) IsTerminal() bool {
	return t.Status != TransferStatusPending
}
