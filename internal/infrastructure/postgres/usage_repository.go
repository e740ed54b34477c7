package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.OrderMaterialUsageRepository = (*UsageRepo)(nil)

// UsageRepo implementación de la foto de consumo sobre PostgreSQL (usable con
// pool o tx).
type UsageRepo struct {
	q Querier
}

// NewUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsageRepository(q Querier) *UsageRepo {
	return &UsageRepo{q: q}
}

// LockOrder toma un advisory lock transaccional sobre la orden: dos
// reconciliaciones de la misma orden se serializan aunque la fila de la orden
// viva en otro esquema del CRM. Se libera solo al terminar la transacción.
func (r *UsageRepo) LockOrder(orderID string) error {
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, orderID)
	if err != nil {
		return fmt.Errorf("lock order: %w", err)
	}
	return nil
}

// ListByOrder devuelve la foto de consumo actual de la orden.
func (r *UsageRepo) ListByOrder(orderID string) ([]*entity.OrderMaterialUsage, error) {
	query := `
		SELECT id, order_id, material_definition_id, quantity, unit, created_at
		FROM order_material_usage WHERE order_id = $1
		ORDER BY material_definition_id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderMaterialUsage
	for rows.Next() {
		var u entity.OrderMaterialUsage
		if err := rows.Scan(&u.ID, &u.OrderID, &u.MaterialDefinitionID, &u.Quantity, &u.Unit, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// DeleteByOrder borra toda la foto de la orden (el reemplazo siempre es total).
func (r *UsageRepo) DeleteByOrder(orderID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM order_material_usage WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete usage: %w", err)
	}
	return nil
}

// Create persiste un renglón de la foto.
func (r *UsageRepo) Create(u *entity.OrderMaterialUsage) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_material_usage (id, order_id, material_definition_id, quantity, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		u.ID, u.OrderID, u.MaterialDefinitionID, u.Quantity, u.Unit, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create usage: %w", err)
	}
	return nil
}
