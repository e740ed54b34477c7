package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acciones registrables en el historial de movimientos.
const (
	ActionReceived             = "RECEIVED"               // entrada a bodega
	ActionIssued               = "ISSUED"                 // entrega a técnico
	ActionReturned             = "RETURNED"               // devolución a bodega
	ActionReturnedToTechnician = "RETURNED_TO_TECHNICIAN" // restauración al stock del técnico
	ActionReturnedToOperator   = "RETURNED_TO_OPERATOR"   // devolución al operador
	ActionAssignedToOrder      = "ASSIGNED_TO_ORDER"      // consumo en una orden
	ActionTransfer             = "TRANSFER"               // traslado entre tenedores
	ActionCollectedFromClient  = "COLLECTED_FROM_CLIENT"  // recogido en casa del cliente
)

// Movement es una entrada inmutable del historial de movimientos de almacén.
// Nunca se actualiza ni se borra; las correcciones son entradas nuevas.
type Movement struct {
	ID              string
	WarehouseItemID string
	Action          string
	Quantity        decimal.Decimal // 1 para equipos, N para materiales
	PerformedByID   string
	ActionDate      time.Time
	AssignedOrderID string // opcional: orden asociada
	AssignedToID    string // opcional: tenedor destino
	FromLocationID  string // opcional: origen en TRANSFER
	ToLocationID    string // opcional: destino en TRANSFER
	Notes           string
	CreatedAt       time.Time
}
