package warehouse

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// DeficitTracker lleva el faltante de material por técnico sobre un
// repositorio atado a la transacción del caller. Construirlo dentro del
// callback del TxRunner.
type DeficitTracker struct {
	repo repository.DeficitRepository
}

// NewDeficitTracker construye el tracker con el repositorio (pool o tx).
func NewDeficitTracker(repo repository.DeficitRepository) *DeficitTracker {
	return &DeficitTracker{repo: repo}
}

// Get devuelve el faltante actual del técnico para el material (0 si no hay).
func (t *DeficitTracker) Get(technicianID, materialDefinitionID string) (decimal.Decimal, error) {
	d, err := t.repo.Get(technicianID, materialDefinitionID)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		return decimal.Zero, nil
	}
	return d.Quantity, nil
}

// Increase suma amount al faltante, creando el registro si no existe.
func (t *DeficitTracker) Increase(technicianID, materialDefinitionID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("incremento de faltante no positivo (%s): %w", amount, domain.ErrInvalidInput)
	}
	d, err := t.repo.GetForUpdate(technicianID, materialDefinitionID)
	if err != nil {
		return err
	}
	if d == nil {
		d = &entity.TechnicianMaterialDeficit{
			TechnicianID:         technicianID,
			MaterialDefinitionID: materialDefinitionID,
			Quantity:             decimal.Zero,
		}
	}
	d.Quantity = d.Quantity.Add(amount)
	d.UpdatedAt = time.Now()
	return t.repo.Upsert(d)
}

// Decrease reduce el faltante en min(amount, faltanteActual) y devuelve el
// resto no absorbido (amount - reducido), que el caller debe aplicar como
// restauración real de stock. El faltante nunca queda negativo.
func (t *DeficitTracker) Decrease(technicianID, materialDefinitionID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("reducción de faltante no positiva (%s): %w", amount, domain.ErrInvalidInput)
	}
	d, err := t.repo.GetForUpdate(technicianID, materialDefinitionID)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil || d.Quantity.LessThanOrEqual(decimal.Zero) {
		return amount, nil
	}
	absorbed := decimal.Min(d.Quantity, amount)
	d.Quantity = d.Quantity.Sub(absorbed)
	d.UpdatedAt = time.Now()
	if err := t.repo.Upsert(d); err != nil {
		return decimal.Zero, err
	}
	return amount.Sub(absorbed), nil
}
