package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TechnicianMaterialDeficit lleva el faltante de un material por técnico:
// cantidad consumida por órdenes que el técnico no tenía en stock
// ("debida" al almacén). Nunca es negativa; se satura en 0.
type TechnicianMaterialDeficit struct {
	TechnicianID         string
	MaterialDefinitionID string
	Quantity             decimal.Decimal
	UpdatedAt            time.Time
}
