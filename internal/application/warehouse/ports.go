package warehouse

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// almacén: si fn falla, ningún movimiento parcial queda persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movementRepo repository.MovementRepository,
		deficitRepo repository.DeficitRepository,
		usageRepo repository.OrderMaterialUsageRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
