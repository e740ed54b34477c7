package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// StockService registra los movimientos primarios de almacén que no pasan por
// reconciliación ni traslado: recepción, entrega a técnico, devolución,
// recogida en cliente y devolución al operador. Cada operación es una
// transacción: mutación de stock + entrada en el historial.
type StockService struct {
	txRunner     TxRunner
	materialRepo repository.MaterialDefinitionRepository
}

// NewStockService construye el servicio.
func NewStockService(txRunner TxRunner, materialRepo repository.MaterialDefinitionRepository) *StockService {
	return &StockService{txRunner: txRunner, materialRepo: materialRepo}
}

// ReceiveDevice da de alta un equipo serializado en una ubicación (RECEIVED).
// El número de serie es único; repetirlo falla con ErrDuplicate.
func (s *StockService) ReceiveDevice(ctx context.Context, serialNumber, category, locationID, performedByID, notes string) (*entity.DeviceItem, error) {
	if serialNumber == "" || locationID == "" || performedByID == "" {
		return nil, domain.ErrInvalidInput
	}
	var device *entity.DeviceItem
	err := s.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movementRepo repository.MovementRepository,
		_ repository.DeficitRepository,
		_ repository.OrderMaterialUsageRepository,
		_ repository.TransferRepository,
	) error {
		existing, err := itemRepo.GetDeviceBySerial(serialNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("serie %s: %w", serialNumber, domain.ErrDuplicate)
		}
		now := time.Now()
		device = &entity.DeviceItem{
			SerialNumber: serialNumber,
			Category:     category,
			Status:       entity.DeviceStatusInStock,
			Holder:       entity.LocationHolder(locationID),
			UpdatedAt:    now,
		}
		if err := itemRepo.CreateDevice(device); err != nil {
			return err
		}
		return movementRepo.Append(&entity.Movement{
			WarehouseItemID: device.ID,
			Action:          entity.ActionReceived,
			Quantity:        decimal.NewFromInt(1),
			PerformedByID:   performedByID,
			ActionDate:      now,
			ToLocationID:    locationID,
			Notes:           notes,
		})
	})
	if err != nil {
		return nil, err
	}
	return device, nil
}

// ReceiveMaterial suma cantidad de un material a una ubicación (RECEIVED),
// creando la tenencia si no existía.
func (s *StockService) ReceiveMaterial(ctx context.Context, materialDefinitionID string, quantity decimal.Decimal, locationID, performedByID, notes string) error {
	if materialDefinitionID == "" || locationID == "" || performedByID == "" || !quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	def, err := s.materialRepo.GetByID(materialDefinitionID)
	if err != nil {
		return err
	}
	if def == nil {
		return fmt.Errorf("material %s: %w", materialDefinitionID, domain.ErrUnknownMaterial)
	}
	return s.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movementRepo repository.MovementRepository,
		_ repository.DeficitRepository,
		_ repository.OrderMaterialUsageRepository,
		_ repository.TransferRepository,
	) error {
		now := time.Now()
		holding, err := s.creditHolding(itemRepo, entity.LocationHolder(locationID), def, quantity, now)
		if err != nil {
			return err
		}
		return movementRepo.Append(&entity.Movement{
			WarehouseItemID: holding.ID,
			Action:          entity.ActionReceived,
			Quantity:        quantity,
			PerformedByID:   performedByID,
			ActionDate:      now,
			ToLocationID:    locationID,
			Notes:           notes,
		})
	})
}

// IssueMaterial entrega cantidad de un material de una ubicación a un técnico
// (ISSUED). Falla con ErrNegativeStock si la ubicación no tiene suficiente.
func (s *StockService) IssueMaterial(ctx context.Context, materialDefinitionID string, quantity decimal.Decimal, locationID, technicianID, performedByID string) error {
	if materialDefinitionID == "" || locationID == "" || technicianID == "" || performedByID == "" || !quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	def, err := s.materialRepo.GetByID(materialDefinitionID)
	if err != nil {
		return err
	}
	if def == nil {
		return fmt.Errorf("material %s: %w", materialDefinitionID, domain.ErrUnknownMaterial)
	}
	return s.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movementRepo repository.MovementRepository,
		_ repository.DeficitRepository,
		_ repository.OrderMaterialUsageRepository,
		_ repository.TransferRepository,
	) error {
		now := time.Now()
		source, err := itemRepo.GetMaterialHoldingForUpdate(entity.LocationHolder(locationID), materialDefinitionID)
		if err != nil {
			return err
		}
		if source == nil {
			return fmt.Errorf("la ubicación %s no tiene %s: %w", locationID, def.Name, domain.ErrNegativeStock)
		}
		if err := itemRepo.AdjustQuantity(source.ID, quantity.Neg()); err != nil {
			return err
		}
		dest, err := s.creditHolding(itemRepo, entity.TechnicianHolder(technicianID), def, quantity, now)
		if err != nil {
			return err
		}
		return movementRepo.Append(&entity.Movement{
			WarehouseItemID: dest.ID,
			Action:          entity.ActionIssued,
			Quantity:        quantity,
			PerformedByID:   performedByID,
			ActionDate:      now,
			AssignedToID:    technicianID,
			FromLocationID:  locationID,
		})
	})
}

// ReturnMaterial devuelve cantidad del stock de un técnico a una ubicación
// (RETURNED).
func (s *StockService) ReturnMaterial(ctx context.Context, materialDefinitionID string, quantity decimal.Decimal, technicianID, locationID, performedByID string) error {
	if materialDefinitionID == "" || locationID == "" || technicianID == "" || performedByID == "" || !quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	def, err := s.materialRepo.GetByID(materialDefinitionID)
	if err != nil {
		return err
	}
	if def == nil {
		return fmt.Errorf("material %s: %w", materialDefinitionID, domain.ErrUnknownMaterial)
	}
	return s.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movementRepo repository.MovementRepository,
		_ repository.DeficitRepository,
		_ repository.OrderMaterialUsageRepository,
		_ repository.TransferRepository,
	) error {
		now := time.Now()
		source, err := itemRepo.GetMaterialHoldingForUpdate(entity.TechnicianHolder(technicianID), materialDefinitionID)
		if err != nil {
			return err
		}
		if source == nil {
			return fmt.Errorf("el técnico %s no tiene %s: %w", technicianID, def.Name, domain.ErrNegativeStock)
		}
		if err := itemRepo.AdjustQuantity(source.ID, quantity.Neg()); err != nil {
			return err
		}
		dest, err := s.creditHolding(itemRepo, entity.LocationHolder(locationID), def, quantity, now)
		if err != nil {
			return err
		}
		return movementRepo.Append(&entity.Movement{
			WarehouseItemID: dest.ID,
			Action:          entity.ActionReturned,
			Quantity:        quantity,
			PerformedByID:   performedByID,
			ActionDate:      now,
			ToLocationID:    locationID,
		})
	})
}

// CollectDeviceFromClient registra un equipo recogido en casa del cliente
// (COLLECTED_FROM_CLIENT): queda en poder del técnico que lo recogió. Si la
// serie no existe se da de alta en ese momento.
func (s *StockService) CollectDeviceFromClient(ctx context.Context, serialNumber, category, technicianID, performedByID, orderID, notes string) (*entity.DeviceItem, error) {
	if serialNumber == "" || technicianID == "" || performedByID == "" {
		return nil, domain.ErrInvalidInput
	}
	var device *entity.DeviceItem
	err := s.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movementRepo repository.MovementRepository,
		_ repository.DeficitRepository,
		_ repository.OrderMaterialUsageRepository,
		_ repository.TransferRepository,
	) error {
		now := time.Now()
		holder := entity.TechnicianHolder(technicianID)
		existing, err := itemRepo.GetDeviceBySerial(serialNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.TransferPending {
				return fmt.Errorf("equipo %s está en un traslado: %w", serialNumber, domain.ErrConflict)
			}
			if err := itemRepo.SetHolder(existing.ID, holder); err != nil {
				return err
			}
			if err := itemRepo.SetStatus(existing.ID, entity.DeviceStatusCollected); err != nil {
				return err
			}
			device = existing
		} else {
			device = &entity.DeviceItem{
				SerialNumber: serialNumber,
				Category:     category,
				Status:       entity.DeviceStatusCollected,
				Holder:       holder,
				UpdatedAt:    now,
			}
			if err := itemRepo.CreateDevice(device); err != nil {
				return err
			}
		}
		return movementRepo.Append(&entity.Movement{
			WarehouseItemID: device.ID,
			Action:          entity.ActionCollectedFromClient,
			Quantity:        decimal.NewFromInt(1),
			PerformedByID:   performedByID,
			ActionDate:      now,
			AssignedOrderID: orderID,
			AssignedToID:    technicianID,
			Notes:           notes,
		})
	})
	if err != nil {
		return nil, err
	}
	return device, nil
}

// ReturnDeviceToOperator marca un equipo como devuelto al operador
// (RETURNED_TO_OPERATOR). El registro no se borra: el historial debe seguir
// siendo atribuible.
func (s *StockService) ReturnDeviceToOperator(ctx context.Context, deviceID, performedByID, notes string) error {
	if deviceID == "" || performedByID == "" {
		return domain.ErrInvalidInput
	}
	return s.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movementRepo repository.MovementRepository,
		_ repository.DeficitRepository,
		_ repository.OrderMaterialUsageRepository,
		_ repository.TransferRepository,
	) error {
		device, err := itemRepo.GetDeviceForUpdate(deviceID)
		if err != nil {
			return err
		}
		if device == nil {
			return fmt.Errorf("equipo %s: %w", deviceID, domain.ErrUnknownItem)
		}
		if device.TransferPending {
			return fmt.Errorf("equipo %s está en un traslado: %w", device.SerialNumber, domain.ErrConflict)
		}
		if device.Status == entity.DeviceStatusReturnedToOperator {
			return fmt.Errorf("equipo %s ya fue devuelto al operador: %w", device.SerialNumber, domain.ErrConflict)
		}
		if err := itemRepo.SetStatus(deviceID, entity.DeviceStatusReturnedToOperator); err != nil {
			return err
		}
		return movementRepo.Append(&entity.Movement{
			WarehouseItemID: deviceID,
			Action:          entity.ActionReturnedToOperator,
			Quantity:        decimal.NewFromInt(1),
			PerformedByID:   performedByID,
			ActionDate:      time.Now(),
			Notes:           notes,
		})
	})
}

// creditHolding suma cantidad a la tenencia del tenedor, creándola si hace
// falta (bloqueando la fila cuando ya existe).
func (s *StockService) creditHolding(itemRepo repository.ItemRepository, holder entity.Holder, def *entity.MaterialDefinition, quantity decimal.Decimal, now time.Time) (*entity.MaterialItem, error) {
	holding, err := itemRepo.GetMaterialHoldingForUpdate(holder, def.ID)
	if err != nil {
		return nil, err
	}
	if holding == nil {
		holding = &entity.MaterialItem{
			MaterialDefinitionID: def.ID,
			Quantity:             quantity,
			Unit:                 def.ResolvedUnit(),
			Holder:               holder,
			UpdatedAt:            now,
		}
		if err := itemRepo.CreateMaterialHolding(holding); err != nil {
			return nil, err
		}
		return holding, nil
	}
	if err := itemRepo.AdjustQuantity(holding.ID, quantity); err != nil {
		return nil, err
	}
	return holding, nil
}
