package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para ítems de almacén
// (equipos y materiales). Todas las mutaciones ocurren dentro de la
// transacción del caller; el repositorio no abre transacciones propias.
type ItemRepository interface {
	// GetByID devuelve el ítem (equipo o material) o nil si no existe.
	GetByID(id string) (entity.WarehouseItem, error)
	// GetDeviceForUpdate obtiene un equipo bloqueando la fila (SELECT FOR UPDATE).
	GetDeviceForUpdate(id string) (*entity.DeviceItem, error)
	// GetDeviceBySerial busca un equipo por número de serie; nil si no existe.
	GetDeviceBySerial(serialNumber string) (*entity.DeviceItem, error)
	// FindByHolder lista los ítems de un tenedor; itemType vacío = todos.
	FindByHolder(holder entity.Holder, itemType string) ([]entity.WarehouseItem, error)

	// GetMaterialHolding devuelve la tenencia de un material por un tenedor;
	// nil si el tenedor nunca ha tenido ese material.
	GetMaterialHolding(holder entity.Holder, materialDefinitionID string) (*entity.MaterialItem, error)
	// GetMaterialHoldingForUpdate igual que GetMaterialHolding pero bloquea la fila.
	GetMaterialHoldingForUpdate(holder entity.Holder, materialDefinitionID string) (*entity.MaterialItem, error)
	// CreateMaterialHolding crea el registro de tenencia de un material.
	CreateMaterialHolding(item *entity.MaterialItem) error
	// CreateDevice registra un equipo nuevo.
	CreateDevice(item *entity.DeviceItem) error

	// AdjustQuantity suma delta (positivo o negativo) a la cantidad de un
	// material de forma atómica. Falla con domain.ErrNegativeStock si la
	// cantidad resultante sería negativa y con domain.ErrUnknownItem si el
	// ítem no existe o no es un material.
	AdjustQuantity(itemID string, delta decimal.Decimal) error
	// SetHolder reasigna el tenedor de un ítem.
	SetHolder(itemID string, holder entity.Holder) error
	// SetStatus cambia el estado de un equipo.
	SetStatus(itemID string, status string) error
	// SetTransferPending marca o desmarca el ítem como en tránsito.
	SetTransferPending(itemID string, pending bool) error
}
