package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderMaterialUsage es la foto del consumo de un material en una orden.
// Se crea al completar la orden y se reemplaza por completo (delete+insert)
// en cada edición; se borra con la orden.
type OrderMaterialUsage struct {
	ID                   string
	OrderID              string
	MaterialDefinitionID string
	Quantity             decimal.Decimal
	Unit                 string
	CreatedAt            time.Time
}
