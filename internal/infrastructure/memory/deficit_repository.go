package memory

import (
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.DeficitRepository = (*DeficitRepo)(nil)

// DeficitRepo implementación en memoria de DeficitRepository, para tests.
type DeficitRepo struct {
	deficits map[deficitKey]*entity.TechnicianMaterialDeficit
}

type deficitKey struct {
	technicianID         string
	materialDefinitionID string
}

// NewDeficitRepository construye el repositorio vacío.
func NewDeficitRepository() *DeficitRepo {
	return &DeficitRepo{deficits: make(map[deficitKey]*entity.TechnicianMaterialDeficit)}
}

func (r *DeficitRepo) Get(technicianID, materialDefinitionID string) (*entity.TechnicianMaterialDeficit, error) {
	d, ok := r.deficits[deficitKey{technicianID, materialDefinitionID}]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

func (r *DeficitRepo) GetForUpdate(technicianID, materialDefinitionID string) (*entity.TechnicianMaterialDeficit, error) {
	return r.Get(technicianID, materialDefinitionID)
}

func (r *DeficitRepo) Upsert(d *entity.TechnicianMaterialDeficit) error {
	c := *d
	r.deficits[deficitKey{d.TechnicianID, d.MaterialDefinitionID}] = &c
	return nil
}

func (r *DeficitRepo) ListByTechnician(technicianID string) ([]*entity.TechnicianMaterialDeficit, error) {
	var out []*entity.TechnicianMaterialDeficit
	for _, d := range r.deficits {
		if d.TechnicianID == technicianID && d.Quantity.IsPositive() {
			c := *d
			out = append(out, &c)
		}
	}
	return out, nil
}
