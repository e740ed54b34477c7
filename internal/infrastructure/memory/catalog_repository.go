package memory

import (
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MaterialDefinitionRepository = (*CatalogRepo)(nil)

// CatalogRepo catálogo de materiales en memoria, para tests.
type CatalogRepo struct {
	definitions map[string]*entity.MaterialDefinition
}

// NewCatalogRepository construye el catálogo con las fichas dadas.
func NewCatalogRepository(defs ...*entity.MaterialDefinition) *CatalogRepo {
	r := &CatalogRepo{definitions: make(map[string]*entity.MaterialDefinition)}
	for _, d := range defs {
		c := *d
		r.definitions[d.ID] = &c
	}
	return r
}

func (r *CatalogRepo) GetByID(id string) (*entity.MaterialDefinition, error) {
	d, ok := r.definitions[id]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}
