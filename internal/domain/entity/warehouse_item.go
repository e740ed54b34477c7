package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ítem de almacén.
const (
	ItemTypeDevice   = "DEVICE"   // equipo serializado (cantidad implícita 1)
	ItemTypeMaterial = "MATERIAL" // material fungible (cantidad decimal)
)

// Estados de un equipo serializado.
const (
	DeviceStatusInStock            = "IN_STOCK"
	DeviceStatusAssigned           = "ASSIGNED"
	DeviceStatusReturnedToOperator = "RETURNED_TO_OPERATOR"
	DeviceStatusCollected          = "COLLECTED_FROM_CLIENT"
)

// WarehouseItem es la unión de los dos tipos de ítem: equipo o material.
// Evita el struct único con campos mutuamente excluyentes.
type WarehouseItem interface {
	ItemID() string
	ItemType() string
	ItemHolder() Holder
	InTransfer() bool
}

// DeviceItem representa un equipo serializado (módem, decodificador, antena...).
type DeviceItem struct {
	ID              string
	SerialNumber    string // único
	Category        string
	Status          string
	Holder          Holder
	TransferPending bool
	UpdatedAt       time.Time
}

func (d *DeviceItem) ItemID() string     { return d.ID }
func (d *DeviceItem) ItemType() string   { return ItemTypeDevice }
func (d *DeviceItem) ItemHolder() Holder { return d.Holder }
func (d *DeviceItem) InTransfer() bool   { return d.TransferPending }

// MaterialItem representa la tenencia de un material fungible por un tenedor.
// La cantidad nunca es negativa; llegar a 0 no borra el registro
// (el historial debe seguir siendo atribuible).
type MaterialItem struct {
	ID                   string
	MaterialDefinitionID string
	Quantity             decimal.Decimal
	Unit                 string
	Holder               Holder
	TransferPending      bool
	UpdatedAt            time.Time
}

func (m *MaterialItem) ItemID() string     { return m.ID }
func (m *MaterialItem) ItemType() string   { return ItemTypeMaterial }
func (m *MaterialItem) ItemHolder() Holder { return m.Holder }
func (m *MaterialItem) InTransfer() bool   { return m.TransferPending }
