package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Reconciler sincroniza el consumo de materiales de una orden con el stock y
// los faltantes del técnico asignado. Cada llamada deshace la foto de consumo
// anterior contra el estado vivo y aplica la nueva, todo dentro de una sola
// transacción. Llamarlo dos veces seguidas con el mismo consumo es un no-op
// en la segunda llamada.
type Reconciler struct {
	txRunner     TxRunner
	materialRepo repository.MaterialDefinitionRepository
}

// NewReconciler construye el caso de uso.
func NewReconciler(txRunner TxRunner, materialRepo repository.MaterialDefinitionRepository) *Reconciler {
	return &Reconciler{txRunner: txRunner, materialRepo: materialRepo}
}

// UsageLine es un renglón del consumo nuevo de la orden.
type UsageLine struct {
	MaterialDefinitionID string
	Quantity             decimal.Decimal
}

// ReconcileResult acumula las advertencias no fatales de la reconciliación
// (faltantes), listas para mostrar al usuario que edita la orden.
type ReconcileResult struct {
	Warnings []string
}

// Reconcile reemplaza la foto de consumo de la orden y ajusta stock y
// faltantes del técnico. technicianID nil = orden sin asignar: solo borra la
// foto, sin efectos de stock. Los faltantes producen advertencias, no errores;
// la reconciliación entera se revierte solo si la transacción falla.
//
// No es seguro llamarlo concurrentemente para la misma orden sin el lock de
// orden que LockOrder toma al inicio de la transacción.
func (r *Reconciler) Reconcile(ctx context.Context, orderID string, technicianID *string, editorID string, newUsage []UsageLine) (*ReconcileResult, error) {
	if orderID == "" || editorID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Validar y resolver el catálogo antes de abrir la transacción
	// (renglones duplicados del mismo material se funden sumando cantidades).
	lines, defs, err := r.resolveUsage(newUsage)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{}
	err = r.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movementRepo repository.MovementRepository,
		deficitRepo repository.DeficitRepository,
		usageRepo repository.OrderMaterialUsageRepository,
		_ repository.TransferRepository,
	) error {
		// Serializar reconciliaciones de la misma orden: dos lecturas
		// concurrentes de la foto anterior duplicarían la restauración.
		if err := usageRepo.LockOrder(orderID); err != nil {
			return err
		}

		if technicianID == nil {
			// Orden sin asignar: no pudo consumir stock de técnico.
			return usageRepo.DeleteByOrder(orderID)
		}
		tech := *technicianID
		now := time.Now()
		tracker := NewDeficitTracker(deficitRepo)

		prev, err := usageRepo.ListByOrder(orderID)
		if err != nil {
			return err
		}

		// Re-sincronización sin cambios: si la foto anterior coincide con el
		// consumo nuevo no hay nada que deshacer ni rehacer. Cortar aquí evita
		// el par de asientos espejo (restauración + consumo) en el historial.
		if sameUsage(prev, lines) {
			return nil
		}

		// Fase 1: deshacer la foto anterior contra el estado vivo.
		for _, u := range prev {
			if err := r.undoUsageLine(itemRepo, movementRepo, tracker, u, orderID, tech, editorID, now); err != nil {
				return err
			}
		}

		// Fase 2: reemplazo total de la foto (delete + insert).
		if err := usageRepo.DeleteByOrder(orderID); err != nil {
			return err
		}
		for _, line := range lines {
			usage := &entity.OrderMaterialUsage{
				OrderID:              orderID,
				MaterialDefinitionID: line.MaterialDefinitionID,
				Quantity:             line.Quantity,
				Unit:                 defs[line.MaterialDefinitionID].ResolvedUnit(),
				CreatedAt:            now,
			}
			if err := usageRepo.Create(usage); err != nil {
				return err
			}
		}

		// Fase 3: aplicar el consumo nuevo contra el stock del técnico.
		for _, line := range lines {
			warning, err := r.applyUsageLine(itemRepo, movementRepo, tracker, line, defs[line.MaterialDefinitionID], orderID, tech, editorID, now)
			if err != nil {
				return err
			}
			if warning != "" {
				result.Warnings = append(result.Warnings, warning)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveUsage valida cantidades, funde renglones duplicados y resuelve las
// fichas de catálogo de todos los materiales referenciados.
func (r *Reconciler) resolveUsage(newUsage []UsageLine) ([]UsageLine, map[string]*entity.MaterialDefinition, error) {
	var lines []UsageLine
	index := make(map[string]int)
	defs := make(map[string]*entity.MaterialDefinition)

	for _, u := range newUsage {
		if u.MaterialDefinitionID == "" || u.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		if i, ok := index[u.MaterialDefinitionID]; ok {
			lines[i].Quantity = lines[i].Quantity.Add(u.Quantity)
			continue
		}
		def, err := r.materialRepo.GetByID(u.MaterialDefinitionID)
		if err != nil {
			return nil, nil, err
		}
		if def == nil {
			return nil, nil, fmt.Errorf("material %s: %w", u.MaterialDefinitionID, domain.ErrUnknownMaterial)
		}
		defs[u.MaterialDefinitionID] = def
		index[u.MaterialDefinitionID] = len(lines)
		lines = append(lines, u)
	}
	return lines, defs, nil
}

// sameUsage compara la foto persistida con el consumo nuevo ya fundido:
// mismos materiales con las mismas cantidades.
func sameUsage(prev []*entity.OrderMaterialUsage, lines []UsageLine) bool {
	if len(prev) != len(lines) {
		return false
	}
	byMaterial := make(map[string]decimal.Decimal, len(prev))
	for _, u := range prev {
		byMaterial[u.MaterialDefinitionID] = u.Quantity
	}
	for _, line := range lines {
		qty, ok := byMaterial[line.MaterialDefinitionID]
		if !ok || !qty.Equal(line.Quantity) {
			return false
		}
	}
	return true
}

// undoUsageLine revierte un renglón de la foto anterior: primero absorbe el
// faltante existente y solo restaura al stock el resto; si todo el renglón
// cabía en el faltante no hay mutación de stock ni entrada en el historial
// (el registro del ajuste es la propia tabla de faltantes).
func (r *Reconciler) undoUsageLine(
	itemRepo repository.ItemRepository,
	movementRepo repository.MovementRepository,
	tracker *DeficitTracker,
	u *entity.OrderMaterialUsage,
	orderID, technicianID, editorID string,
	now time.Time,
) error {
	remainder, err := tracker.Decrease(technicianID, u.MaterialDefinitionID, u.Quantity)
	if err != nil {
		return err
	}
	if !remainder.IsPositive() {
		return nil
	}

	holder := entity.TechnicianHolder(technicianID)
	holding, err := itemRepo.GetMaterialHoldingForUpdate(holder, u.MaterialDefinitionID)
	if err != nil {
		return err
	}
	if holding == nil {
		holding = &entity.MaterialItem{
			MaterialDefinitionID: u.MaterialDefinitionID,
			Quantity:             remainder,
			Unit:                 u.Unit,
			Holder:               holder,
			UpdatedAt:            now,
		}
		if err := itemRepo.CreateMaterialHolding(holding); err != nil {
			return err
		}
	} else if err := itemRepo.AdjustQuantity(holding.ID, remainder); err != nil {
		return err
	}

	return movementRepo.Append(&entity.Movement{
		WarehouseItemID: holding.ID,
		Action:          entity.ActionReturnedToTechnician,
		Quantity:        remainder,
		PerformedByID:   editorID,
		ActionDate:      now,
		AssignedOrderID: orderID,
		AssignedToID:    technicianID,
	})
}

// applyUsageLine consume un renglón nuevo: descuenta lo cubierto por el stock
// del técnico y registra como faltante lo que no alcanzó, devolviendo la
// advertencia para el usuario. Solo el movimiento físico va al historial.
func (r *Reconciler) applyUsageLine(
	itemRepo repository.ItemRepository,
	movementRepo repository.MovementRepository,
	tracker *DeficitTracker,
	line UsageLine,
	def *entity.MaterialDefinition,
	orderID, technicianID, editorID string,
	now time.Time,
) (string, error) {
	holder := entity.TechnicianHolder(technicianID)
	holding, err := itemRepo.GetMaterialHoldingForUpdate(holder, line.MaterialDefinitionID)
	if err != nil {
		return "", err
	}

	available := decimal.Zero
	if holding != nil {
		available = holding.Quantity
	}
	covered := decimal.Min(available, line.Quantity)
	missing := line.Quantity.Sub(covered)

	if covered.IsPositive() {
		if err := itemRepo.AdjustQuantity(holding.ID, covered.Neg()); err != nil {
			return "", err
		}
		if err := movementRepo.Append(&entity.Movement{
			WarehouseItemID: holding.ID,
			Action:          entity.ActionAssignedToOrder,
			Quantity:        covered,
			PerformedByID:   editorID,
			ActionDate:      now,
			AssignedOrderID: orderID,
		}); err != nil {
			return "", err
		}
	}

	if missing.IsPositive() {
		if err := tracker.Increase(technicianID, line.MaterialDefinitionID, missing); err != nil {
			return "", err
		}
		return fmt.Sprintf("el técnico usó %s %s de %s sin tenerlas en stock; se registró como faltante",
			missing, def.ResolvedUnit(), def.Name), nil
	}
	return "", nil
}
