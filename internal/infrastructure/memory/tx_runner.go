package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/warehouse"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ warehouse.TxRunner = (*TxRunner)(nil)

// TxRunner ejecutor de "transacciones" en memoria para tests: serializa las
// llamadas con un mutex sobre los mismos repositorios compartidos. No simula
// rollback; los tests que ejercitan errores fallan antes de la primera
// mutación.
type TxRunner struct {
	mu       sync.Mutex
	Items    *ItemRepo
	Moves    *MovementRepo
	Deficits *DeficitRepo
	Usages   *UsageRepo
	Transfer *TransferRepo
}

// NewTxRunner construye el runner con repositorios vacíos.
func NewTxRunner() *TxRunner {
	return &TxRunner{
		Items:    NewItemRepository(),
		Moves:    NewMovementRepository(),
		Deficits: NewDeficitRepository(),
		Usages:   NewUsageRepository(),
		Transfer: NewTransferRepository(),
	}
}

// Run ejecuta fn bajo el mutex con los repositorios compartidos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movementRepo repository.MovementRepository,
	deficitRepo repository.DeficitRepository,
	usageRepo repository.OrderMaterialUsageRepository,
	transferRepo repository.TransferRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.Items, r.Moves, r.Deficits, r.Usages, r.Transfer)
}
