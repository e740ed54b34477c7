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

// TransferCoordinator gobierna el ciclo de vida de un traslado por lotes
// entre dos tenedores del mismo tipo: PENDING → ACCEPTED/REJECTED (lado
// receptor) o PENDING → CANCELED (solo el origen). Los estados terminales se
// alcanzan exactamente una vez; reintentar falla con ErrInvalidTransferState.
type TransferCoordinator struct {
	txRunner     TxRunner
	transferRepo repository.TransferRepository // lecturas fuera de transacción
}

// NewTransferCoordinator construye el caso de uso. transferRepo debe estar
// atado al pool (solo se usa para los listados).
func NewTransferCoordinator(txRunner TxRunner, transferRepo repository.TransferRepository) *TransferCoordinator {
	return &TransferCoordinator{txRunner: txRunner, transferRepo: transferRepo}
}

// TransferLineInput es un renglón propuesto: el ítem y, para materiales, la
// cantidad a mover. Para equipos la cantidad es 1 (0 se normaliza a 1).
type TransferLineInput struct {
	WarehouseItemID string
	Quantity        decimal.Decimal
}

// Propose valida y persiste un traslado PENDING, marcando cada ítem como en
// tránsito. No escribe en el historial: el movimiento no es real hasta que
// el receptor acepte.
func (c *TransferCoordinator) Propose(ctx context.Context, from, to entity.Holder, createdBy, notes string, lines []TransferLineInput) (*entity.LocationTransfer, error) {
	if from.IsZero() || to.IsZero() || createdBy == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	// Solo técnico→técnico o ubicación→ubicación, y nunca hacia sí mismo.
	if from.Kind != to.Kind || from == to {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if line.WarehouseItemID == "" || line.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if seen[line.WarehouseItemID] {
			return nil, fmt.Errorf("ítem %s repetido en el traslado: %w", line.WarehouseItemID, domain.ErrDuplicate)
		}
		seen[line.WarehouseItemID] = true
	}

	var transfer *entity.LocationTransfer
	err := c.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.MovementRepository,
		_ repository.DeficitRepository,
		_ repository.OrderMaterialUsageRepository,
		transferRepo repository.TransferRepository,
	) error {
		now := time.Now()
		transfer = &entity.LocationTransfer{
			FromHolder: from,
			ToHolder:   to,
			Status:     entity.TransferStatusPending,
			Notes:      notes,
			CreatedBy:  createdBy,
			CreatedAt:  now,
		}
		for _, line := range lines {
			qty, err := c.validateLine(itemRepo, from, line)
			if err != nil {
				return err
			}
			if err := itemRepo.SetTransferPending(line.WarehouseItemID, true); err != nil {
				return err
			}
			transfer.Lines = append(transfer.Lines, &entity.TransferLine{
				WarehouseItemID: line.WarehouseItemID,
				Quantity:        qty,
			})
		}
		return transferRepo.Create(transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// validateLine comprueba que el ítem exista, pertenezca al origen, no esté ya
// en tránsito y tenga cantidad/estado suficientes. Devuelve la cantidad
// efectiva del renglón.
func (c *TransferCoordinator) validateLine(itemRepo repository.ItemRepository, from entity.Holder, line TransferLineInput) (decimal.Decimal, error) {
	item, err := itemRepo.GetByID(line.WarehouseItemID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, fmt.Errorf("ítem %s: %w", line.WarehouseItemID, domain.ErrUnknownItem)
	}
	if item.ItemHolder() != from {
		return decimal.Zero, fmt.Errorf("ítem %s no pertenece al origen: %w", line.WarehouseItemID, domain.ErrConflict)
	}
	if item.InTransfer() {
		return decimal.Zero, fmt.Errorf("ítem %s ya está en otro traslado: %w", line.WarehouseItemID, domain.ErrConflict)
	}

	switch it := item.(type) {
	case *entity.DeviceItem:
		if it.Status != entity.DeviceStatusInStock && it.Status != entity.DeviceStatusAssigned {
			return decimal.Zero, fmt.Errorf("equipo %s en estado %s: %w", it.SerialNumber, it.Status, domain.ErrConflict)
		}
		// La cantidad de un equipo es implícitamente 1.
		if !line.Quantity.IsZero() && !line.Quantity.Equal(decimal.NewFromInt(1)) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return decimal.NewFromInt(1), nil
	case *entity.MaterialItem:
		if !line.Quantity.IsPositive() {
			return decimal.Zero, domain.ErrInvalidInput
		}
		if it.Quantity.LessThan(line.Quantity) {
			return decimal.Zero, fmt.Errorf("material %s: se piden %s y hay %s: %w",
				it.MaterialDefinitionID, line.Quantity, it.Quantity, domain.ErrNegativeStock)
		}
		return line.Quantity, nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

// Accept mueve físicamente cada renglón al destino, limpia las marcas de
// tránsito, escribe una entrada TRANSFER por renglón y deja el traslado
// ACCEPTED. Revalida que cada ítem siga en tránsito.
func (c *TransferCoordinator) Accept(ctx context.Context, transferID, performedByID string) error {
	if transferID == "" || performedByID == "" {
		return domain.ErrInvalidInput
	}
	return c.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movementRepo repository.MovementRepository,
		_ repository.DeficitRepository,
		_ repository.OrderMaterialUsageRepository,
		transferRepo repository.TransferRepository,
	) error {
		transfer, err := c.lockPending(transferRepo, transferID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, line := range transfer.Lines {
			if err := c.acceptLine(itemRepo, movementRepo, transfer, line, performedByID, now); err != nil {
				return err
			}
		}
		return transferRepo.SetStatus(transferID, entity.TransferStatusAccepted, now)
	})
}

// acceptLine aplica un renglón: equipos cambian de tenedor; materiales mueven
// cantidad entre la tenencia origen y la destino (creándola si no existe).
func (c *TransferCoordinator) acceptLine(
	itemRepo repository.ItemRepository,
	movementRepo repository.MovementRepository,
	transfer *entity.LocationTransfer,
	line *entity.TransferLine,
	performedByID string,
	now time.Time,
) error {
	item, err := itemRepo.GetByID(line.WarehouseItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("ítem %s: %w", line.WarehouseItemID, domain.ErrUnknownItem)
	}
	if !item.InTransfer() {
		return fmt.Errorf("ítem %s: %w", line.WarehouseItemID, domain.ErrStaleTransferLine)
	}

	switch it := item.(type) {
	case *entity.DeviceItem:
		if err := itemRepo.SetHolder(it.ID, transfer.ToHolder); err != nil {
			return err
		}
	case *entity.MaterialItem:
		if err := itemRepo.AdjustQuantity(it.ID, line.Quantity.Neg()); err != nil {
			return err
		}
		dest, err := itemRepo.GetMaterialHoldingForUpdate(transfer.ToHolder, it.MaterialDefinitionID)
		if err != nil {
			return err
		}
		if dest == nil {
			dest = &entity.MaterialItem{
				MaterialDefinitionID: it.MaterialDefinitionID,
				Quantity:             line.Quantity,
				Unit:                 it.Unit,
				Holder:               transfer.ToHolder,
				UpdatedAt:            now,
			}
			if err := itemRepo.CreateMaterialHolding(dest); err != nil {
				return err
			}
		} else if err := itemRepo.AdjustQuantity(dest.ID, line.Quantity); err != nil {
			return err
		}
	}
	if err := itemRepo.SetTransferPending(line.WarehouseItemID, false); err != nil {
		return err
	}

	movement := &entity.Movement{
		WarehouseItemID: line.WarehouseItemID,
		Action:          entity.ActionTransfer,
		Quantity:        line.Quantity,
		PerformedByID:   performedByID,
		ActionDate:      now,
		AssignedToID:    transfer.ToHolder.ID,
		Notes:           transfer.Notes,
	}
	if transfer.FromHolder.Kind == entity.HolderLocation {
		movement.FromLocationID = transfer.FromHolder.ID
		movement.ToLocationID = transfer.ToHolder.ID
	}
	return movementRepo.Append(movement)
}

// Reject libera los ítems sin moverlos y deja el traslado REJECTED. No
// escribe en el historial: nada se movió físicamente.
func (c *TransferCoordinator) Reject(ctx context.Context, transferID, performedByID string) error {
	if transferID == "" || performedByID == "" {
		return domain.ErrInvalidInput
	}
	return c.resolveWithoutMoving(ctx, transferID, entity.TransferStatusRejected, nil)
}

// Cancel libera los ítems sin moverlos y deja el traslado CANCELED. Solo el
// tenedor origen puede cancelar; cualquier otro actor recibe ErrForbidden.
func (c *TransferCoordinator) Cancel(ctx context.Context, transferID string, actor entity.Holder) error {
	if transferID == "" || actor.IsZero() {
		return domain.ErrInvalidInput
	}
	return c.resolveWithoutMoving(ctx, transferID, entity.TransferStatusCanceled, &actor)
}

// resolveWithoutMoving implementa reject/cancel: valida el estado PENDING,
// limpia las marcas de tránsito y fija el estado terminal.
func (c *TransferCoordinator) resolveWithoutMoving(ctx context.Context, transferID, status string, mustBeSource *entity.Holder) error {
	return c.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.MovementRepository,
		_ repository.DeficitRepository,
		_ repository.OrderMaterialUsageRepository,
		transferRepo repository.TransferRepository,
	) error {
		transfer, err := c.lockPending(transferRepo, transferID)
		if err != nil {
			return err
		}
		if mustBeSource != nil && transfer.FromHolder != *mustBeSource {
			return fmt.Errorf("solo el origen puede cancelar el traslado: %w", domain.ErrForbidden)
		}
		for _, line := range transfer.Lines {
			item, err := itemRepo.GetByID(line.WarehouseItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("ítem %s: %w", line.WarehouseItemID, domain.ErrUnknownItem)
			}
			if status == entity.TransferStatusRejected && !item.InTransfer() {
				return fmt.Errorf("ítem %s: %w", line.WarehouseItemID, domain.ErrStaleTransferLine)
			}
			if err := itemRepo.SetTransferPending(line.WarehouseItemID, false); err != nil {
				return err
			}
		}
		return transferRepo.SetStatus(transferID, status, time.Now())
	})
}

// lockPending carga el traslado bloqueando su fila y verifica que siga PENDING.
func (c *TransferCoordinator) lockPending(transferRepo repository.TransferRepository, transferID string) (*entity.LocationTransfer, error) {
	transfer, err := transferRepo.GetForUpdate(transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("traslado %s: %w", transferID, domain.ErrNotFound)
	}
	if transfer.IsTerminal() {
		return nil, fmt.Errorf("traslado %s en estado %s: %w", transferID, transfer.Status, domain.ErrInvalidTransferState)
	}
	return transfer, nil
}

// IncomingFor lista los traslados PENDING dirigidos al tenedor (lectura pura).
func (c *TransferCoordinator) IncomingFor(holder entity.Holder) ([]*entity.LocationTransfer, error) {
	return c.transferRepo.ListPendingByDestination(holder)
}

// OutgoingFor lista los traslados PENDING originados por el tenedor (lectura pura).
func (c *TransferCoordinator) OutgoingFor(holder entity.Holder) ([]*entity.LocationTransfer, error) {
	return c.transferRepo.ListPendingBySource(holder)
}
