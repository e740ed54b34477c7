package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del historial sobre PostgreSQL (usable con pool
// o tx). Solo INSERT y SELECT: las entradas jamás se editan ni se borran.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append persiste una entrada del historial.
func (r *MovementRepo) Append(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO warehouse_movement (id, warehouse_item_id, action, quantity, performed_by_id, action_date, assigned_order_id, assigned_to_id, from_location_id, to_location_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.WarehouseItemID, m.Action, m.Quantity, m.PerformedByID, m.ActionDate,
		nullable(m.AssignedOrderID), nullable(m.AssignedToID),
		nullable(m.FromLocationID), nullable(m.ToLocationID),
		nullable(m.Notes), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// Query lista entradas según el filtro, de la más reciente a la más antigua.
func (r *MovementRepo) Query(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT id, warehouse_item_id, action, quantity, performed_by_id, action_date, assigned_order_id, assigned_to_id, from_location_id, to_location_id, notes, created_at
		FROM warehouse_movement WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, value any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, value)
		pos++
	}
	if filter.WarehouseItemID != "" {
		add("warehouse_item_id = $%d", filter.WarehouseItemID)
	}
	if filter.OrderID != "" {
		add("assigned_order_id = $%d", filter.OrderID)
	}
	if filter.PerformedByID != "" {
		add("performed_by_id = $%d", filter.PerformedByID)
	}
	if filter.Action != "" {
		add("action = $%d", filter.Action)
	}
	if filter.From != nil {
		add("action_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("action_date <= $%d", *filter.To)
	}
	query += " ORDER BY action_date DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, filter.Limit)
		pos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, filter.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var orderID, assignedTo, fromLoc, toLoc, notes *string
		if err := rows.Scan(&m.ID, &m.WarehouseItemID, &m.Action, &m.Quantity,
			&m.PerformedByID, &m.ActionDate, &orderID, &assignedTo, &fromLoc, &toLoc,
			&notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.AssignedOrderID = deref(orderID)
		m.AssignedToID = deref(assignedTo)
		m.FromLocationID = deref(fromLoc)
		m.ToLocationID = deref(toLoc)
		m.Notes = deref(notes)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// nullable convierte "" en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
