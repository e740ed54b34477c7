package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
// Equipos y materiales comparten la tabla warehouse_item; el código los separa
// por item_type al escanear.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, item_type, serial_number, category, status, material_definition_id, quantity, unit, holder_kind, holder_id, transfer_pending, updated_at`

// rowScanner firma común de pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem construye el ítem concreto según item_type.
func scanItem(row rowScanner) (entity.WarehouseItem, error) {
	var (
		id, itemType, holderKind, holderID         string
		serialNumber, category, status             *string
		materialDefinitionID, unit                 *string
		quantity                                   decimal.Decimal
		transferPending                            bool
		updatedAt                                  time.Time
	)
	err := row.Scan(&id, &itemType, &serialNumber, &category, &status,
		&materialDefinitionID, &quantity, &unit, &holderKind, &holderID,
		&transferPending, &updatedAt)
	if err != nil {
		return nil, err
	}
	holder := entity.Holder{Kind: holderKind, ID: holderID}
	if itemType == entity.ItemTypeDevice {
		d := &entity.DeviceItem{ID: id, Holder: holder, TransferPending: transferPending, UpdatedAt: updatedAt}
		if serialNumber != nil {
			d.SerialNumber = *serialNumber
		}
		if category != nil {
			d.Category = *category
		}
		if status != nil {
			d.Status = *status
		}
		return d, nil
	}
	m := &entity.MaterialItem{ID: id, Quantity: quantity, Holder: holder, TransferPending: transferPending, UpdatedAt: updatedAt}
	if materialDefinitionID != nil {
		m.MaterialDefinitionID = *materialDefinitionID
	}
	if unit != nil {
		m.Unit = *unit
	}
	return m, nil
}

// GetByID devuelve el ítem o nil si no existe.
func (r *ItemRepo) GetByID(id string) (entity.WarehouseItem, error) {
	query := `SELECT ` + itemColumns + ` FROM warehouse_item WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetDeviceForUpdate obtiene un equipo bloqueando la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetDeviceForUpdate(id string) (*entity.DeviceItem, error) {
	query := `SELECT ` + itemColumns + ` FROM warehouse_item
		WHERE id = $1 AND item_type = 'DEVICE' FOR UPDATE`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device for update: %w", err)
	}
	return item.(*entity.DeviceItem), nil
}

// GetDeviceBySerial busca un equipo por número de serie (único).
func (r *ItemRepo) GetDeviceBySerial(serialNumber string) (*entity.DeviceItem, error) {
	query := `SELECT ` + itemColumns + ` FROM warehouse_item
		WHERE item_type = 'DEVICE' AND serial_number = $1`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, serialNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device by serial: %w", err)
	}
	return item.(*entity.DeviceItem), nil
}

// FindByHolder lista los ítems de un tenedor; itemType vacío = todos.
func (r *ItemRepo) FindByHolder(holder entity.Holder, itemType string) ([]entity.WarehouseItem, error) {
	query := `SELECT ` + itemColumns + ` FROM warehouse_item
		WHERE holder_kind = $1 AND holder_id = $2`
	args := []any{holder.Kind, holder.ID}
	if itemType != "" {
		query += ` AND item_type = $3`
		args = append(args, itemType)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("find by holder: %w", err)
	}
	defer rows.Close()
	var items []entity.WarehouseItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetMaterialHolding devuelve la tenencia del material o nil si nunca existió.
func (r *ItemRepo) GetMaterialHolding(holder entity.Holder, materialDefinitionID string) (*entity.MaterialItem, error) {
	return r.materialHolding(holder, materialDefinitionID, false)
}

// GetMaterialHoldingForUpdate igual que GetMaterialHolding pero bloquea la fila.
func (r *ItemRepo) GetMaterialHoldingForUpdate(holder entity.Holder, materialDefinitionID string) (*entity.MaterialItem, error) {
	return r.materialHolding(holder, materialDefinitionID, true)
}

func (r *ItemRepo) materialHolding(holder entity.Holder, materialDefinitionID string, forUpdate bool) (*entity.MaterialItem, error) {
	query := `SELECT ` + itemColumns + ` FROM warehouse_item
		WHERE item_type = 'MATERIAL' AND holder_kind = $1 AND holder_id = $2 AND material_definition_id = $3`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	item, err := scanItem(r.q.QueryRow(context.Background(), query, holder.Kind, holder.ID, materialDefinitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material holding: %w", err)
	}
	return item.(*entity.MaterialItem), nil
}

// CreateMaterialHolding crea el registro de tenencia de un material.
func (r *ItemRepo) CreateMaterialHolding(item *entity.MaterialItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO warehouse_item (id, item_type, material_definition_id, quantity, unit, holder_kind, holder_id, transfer_pending, updated_at)
		VALUES ($1, 'MATERIAL', $2, $3, $4, $5, $6, $7, now())`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.MaterialDefinitionID, item.Quantity, item.Unit,
		item.Holder.Kind, item.Holder.ID, item.TransferPending,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create material holding: %w", err)
	}
	return nil
}

// CreateDevice registra un equipo nuevo. Serie repetida -> ErrDuplicate.
func (r *ItemRepo) CreateDevice(item *entity.DeviceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO warehouse_item (id, item_type, serial_number, category, status, quantity, holder_kind, holder_id, transfer_pending, updated_at)
		VALUES ($1, 'DEVICE', $2, $3, $4, 1, $5, $6, $7, now())`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SerialNumber, item.Category, item.Status,
		item.Holder.Kind, item.Holder.ID, item.TransferPending,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create device: %w", err)
	}
	return nil
}

// AdjustQuantity suma delta a la cantidad de un material de forma atómica.
// El WHERE impide la actualización si quedaría negativa.
func (r *ItemRepo) AdjustQuantity(itemID string, delta decimal.Decimal) error {
	query := `
		UPDATE warehouse_item
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND item_type = 'MATERIAL' AND quantity + $2 >= 0`
	tag, err := r.q.Exec(context.Background(), query, itemID, delta)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrNegativeStock
		}
		return fmt.Errorf("adjust quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguir ítem inexistente de stock insuficiente.
		var exists bool
		err := r.q.QueryRow(context.Background(),
			`SELECT true FROM warehouse_item WHERE id = $1 AND item_type = 'MATERIAL'`, itemID,
		).Scan(&exists)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUnknownItem
		}
		if err != nil {
			return fmt.Errorf("adjust quantity: %w", err)
		}
		return domain.ErrNegativeStock
	}
	return nil
}

// SetHolder reasigna el tenedor de un ítem.
func (r *ItemRepo) SetHolder(itemID string, holder entity.Holder) error {
	query := `UPDATE warehouse_item SET holder_kind = $2, holder_id = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, itemID, holder.Kind, holder.ID)
	if err != nil {
		return fmt.Errorf("set holder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnknownItem
	}
	return nil
}

// SetStatus cambia el estado de un equipo.
func (r *ItemRepo) SetStatus(itemID string, status string) error {
	query := `UPDATE warehouse_item SET status = $2, updated_at = now() WHERE id = $1 AND item_type = 'DEVICE'`
	tag, err := r.q.Exec(context.Background(), query, itemID, status)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnknownItem
	}
	return nil
}

// SetTransferPending marca o desmarca el ítem como en tránsito.
func (r *ItemRepo) SetTransferPending(itemID string, pending bool) error {
	query := `UPDATE warehouse_item SET transfer_pending = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, itemID, pending)
	if err != nil {
		return fmt.Errorf("set transfer pending: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnknownItem
	}
	return nil
}
