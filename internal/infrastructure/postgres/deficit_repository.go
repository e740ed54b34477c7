package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.DeficitRepository = (*DeficitRepo)(nil)

// DeficitRepo implementación de DeficitRepository sobre PostgreSQL (usable
// con pool o tx). Clave primaria (technician_id, material_definition_id).
type DeficitRepo struct {
	q Querier
}

// NewDeficitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeficitRepository(q Querier) *DeficitRepo {
	return &DeficitRepo{q: q}
}

// Get devuelve el faltante o nil si nunca se ha registrado.
func (r *DeficitRepo) Get(technicianID, materialDefinitionID string) (*entity.TechnicianMaterialDeficit, error) {
	return r.get(technicianID, materialDefinitionID, false)
}

// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
func (r *DeficitRepo) GetForUpdate(technicianID, materialDefinitionID string) (*entity.TechnicianMaterialDeficit, error) {
	return r.get(technicianID, materialDefinitionID, true)
}

func (r *DeficitRepo) get(technicianID, materialDefinitionID string, forUpdate bool) (*entity.TechnicianMaterialDeficit, error) {
	query := `
		SELECT technician_id, material_definition_id, quantity, updated_at
		FROM technician_material_deficit
		WHERE technician_id = $1 AND material_definition_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var d entity.TechnicianMaterialDeficit
	err := r.q.QueryRow(context.Background(), query, technicianID, materialDefinitionID).Scan(
		&d.TechnicianID, &d.MaterialDefinitionID, &d.Quantity, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deficit: %w", err)
	}
	return &d, nil
}

// Upsert inserta o actualiza la cantidad del faltante.
func (r *DeficitRepo) Upsert(d *entity.TechnicianMaterialDeficit) error {
	query := `
		INSERT INTO technician_material_deficit (technician_id, material_definition_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (technician_id, material_definition_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, d.TechnicianID, d.MaterialDefinitionID, d.Quantity)
	if err != nil {
		return fmt.Errorf("upsert deficit: %w", err)
	}
	return nil
}

// ListByTechnician lista los faltantes con cantidad > 0 de un técnico.
func (r *DeficitRepo) ListByTechnician(technicianID string) ([]*entity.TechnicianMaterialDeficit, error) {
	query := `
		SELECT technician_id, material_definition_id, quantity, updated_at
		FROM technician_material_deficit
		WHERE technician_id = $1 AND quantity > 0
		ORDER BY material_definition_id`
	rows, err := r.q.Query(context.Background(), query, technicianID)
	if err != nil {
		return nil, fmt.Errorf("list deficits: %w", err)
	}
	defer rows.Close()
	var list []*entity.TechnicianMaterialDeficit
	for rows.Next() {
		var d entity.TechnicianMaterialDeficit
		if err := rows.Scan(&d.TechnicianID, &d.MaterialDefinitionID, &d.Quantity, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan deficit: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
