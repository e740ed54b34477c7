package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// OrderMaterialUsageRepository define el puerto de la foto de consumo de
// materiales por orden. El reemplazo siempre es total: DeleteByOrder + Create.
type OrderMaterialUsageRepository interface {
	// LockOrder serializa reconciliaciones concurrentes de la misma orden
	// dentro de la transacción actual (lock a nivel de orden).
	LockOrder(orderID string) error
	ListByOrder(orderID string) ([]*entity.OrderMaterialUsage, error)
	DeleteByOrder(orderID string) error
	Create(u *entity.OrderMaterialUsage) error
}
