package memory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository, para tests.
// Devuelve copias para que el caller no mute el almacén por aliasing.
type ItemRepo struct {
	devices   map[string]*entity.DeviceItem
	materials map[string]*entity.MaterialItem
}

// NewItemRepository construye el repositorio vacío.
func NewItemRepository() *ItemRepo {
	return &ItemRepo{
		devices:   make(map[string]*entity.DeviceItem),
		materials: make(map[string]*entity.MaterialItem),
	}
}

func (r *ItemRepo) GetByID(id string) (entity.WarehouseItem, error) {
	if d, ok := r.devices[id]; ok {
		return cloneDevice(d), nil
	}
	if m, ok := r.materials[id]; ok {
		return cloneMaterial(m), nil
	}
	return nil, nil
}

func (r *ItemRepo) GetDeviceForUpdate(id string) (*entity.DeviceItem, error) {
	d, ok := r.devices[id]
	if !ok {
		return nil, nil
	}
	return cloneDevice(d), nil
}

func (r *ItemRepo) GetDeviceBySerial(serialNumber string) (*entity.DeviceItem, error) {
	for _, d := range r.devices {
		if d.SerialNumber == serialNumber {
			return cloneDevice(d), nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) FindByHolder(holder entity.Holder, itemType string) ([]entity.WarehouseItem, error) {
	var items []entity.WarehouseItem
	if itemType == "" || itemType == entity.ItemTypeDevice {
		for _, d := range r.devices {
			if d.Holder == holder {
				items = append(items, cloneDevice(d))
			}
		}
	}
	if itemType == "" || itemType == entity.ItemTypeMaterial {
		for _, m := range r.materials {
			if m.Holder == holder {
				items = append(items, cloneMaterial(m))
			}
		}
	}
	return items, nil
}

func (r *ItemRepo) GetMaterialHolding(holder entity.Holder, materialDefinitionID string) (*entity.MaterialItem, error) {
	for _, m := range r.materials {
		if m.Holder == holder && m.MaterialDefinitionID == materialDefinitionID {
			return cloneMaterial(m), nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) GetMaterialHoldingForUpdate(holder entity.Holder, materialDefinitionID string) (*entity.MaterialItem, error) {
	return r.GetMaterialHolding(holder, materialDefinitionID)
}

func (r *ItemRepo) CreateMaterialHolding(item *entity.MaterialItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.materials[item.ID] = cloneMaterial(item)
	return nil
}

func (r *ItemRepo) CreateDevice(item *entity.DeviceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.devices[item.ID] = cloneDevice(item)
	return nil
}

func (r *ItemRepo) AdjustQuantity(itemID string, delta decimal.Decimal) error {
	m, ok := r.materials[itemID]
	if !ok {
		return domain.ErrUnknownItem
	}
	next := m.Quantity.Add(delta)
	if next.IsNegative() {
		return domain.ErrNegativeStock
	}
	m.Quantity = next
	return nil
}

func (r *ItemRepo) SetHolder(itemID string, holder entity.Holder) error {
	if d, ok := r.devices[itemID]; ok {
		d.Holder = holder
		return nil
	}
	if m, ok := r.materials[itemID]; ok {
		m.Holder = holder
		return nil
	}
	return domain.ErrUnknownItem
}

func (r *ItemRepo) SetStatus(itemID string, status string) error {
	d, ok := r.devices[itemID]
	if !ok {
		return domain.ErrUnknownItem
	}
	d.Status = status
	return nil
}

func (r *ItemRepo) SetTransferPending(itemID string, pending bool) error {
	if d, ok := r.devices[itemID]; ok {
		d.TransferPending = pending
		return nil
	}
	if m, ok := r.materials[itemID]; ok {
		m.TransferPending = pending
		return nil
	}
	return domain.ErrUnknownItem
}

func cloneDevice(d *entity.DeviceItem) *entity.DeviceItem {
	c := *d
	return &c
}

func cloneMaterial(m *entity.MaterialItem) *entity.MaterialItem {
	c := *m
	return &c
}
