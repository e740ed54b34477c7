package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// MaterialDefinitionRepository define el puerto de solo lectura del catálogo
// de materiales (lo administra el resto del CRM).
type MaterialDefinitionRepository interface {
	// GetByID devuelve la ficha del material o nil si no existe.
	GetByID(id string) (*entity.MaterialDefinition, error)
}
