package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MaterialDefinitionRepository = (*MaterialDefinitionRepo)(nil)

// MaterialDefinitionRepo lectura del catálogo de materiales sobre PostgreSQL.
// La tabla la administra el resto del CRM; aquí solo se consulta.
type MaterialDefinitionRepo struct {
	q Querier
}

// NewMaterialDefinitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialDefinitionRepository(q Querier) *MaterialDefinitionRepo {
	return &MaterialDefinitionRepo{q: q}
}

// GetByID devuelve la ficha del material o nil si no existe.
func (r *MaterialDefinitionRepo) GetByID(id string) (*entity.MaterialDefinition, error) {
	query := `SELECT id, name, unit FROM material_definition WHERE id = $1`
	var m entity.MaterialDefinition
	var unit *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(&m.ID, &m.Name, &unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material definition: %w", err)
	}
	if unit != nil {
		m.Unit = *unit
	}
	return &m, nil
}
