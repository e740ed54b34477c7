package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// DeficitRepository define el puerto de persistencia para faltantes de
// material por técnico. La clave es (technicianID, materialDefinitionID).
type DeficitRepository interface {
	// Get devuelve el faltante actual o nil si nunca se ha registrado.
	Get(technicianID, materialDefinitionID string) (*entity.TechnicianMaterialDeficit, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(technicianID, materialDefinitionID string) (*entity.TechnicianMaterialDeficit, error)
	// Upsert inserta o actualiza la cantidad del faltante.
	Upsert(d *entity.TechnicianMaterialDeficit) error
	// ListByTechnician lista los faltantes con cantidad > 0 de un técnico.
	ListByTechnician(technicianID string) ([]*entity.TechnicianMaterialDeficit, error)
}
