package memory

import (
	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.OrderMaterialUsageRepository = (*UsageRepo)(nil)

// UsageRepo implementación en memoria de la foto de consumo, para tests.
// LockOrder es un no-op: el TxRunner en memoria ya serializa con un mutex.
type UsageRepo struct {
	byOrder map[string][]*entity.OrderMaterialUsage
}

// NewUsageRepository construye el repositorio vacío.
func NewUsageRepository() *UsageRepo {
	return &UsageRepo{byOrder: make(map[string][]*entity.OrderMaterialUsage)}
}

func (r *UsageRepo) LockOrder(orderID string) error {
	return nil
}

func (r *UsageRepo) ListByOrder(orderID string) ([]*entity.OrderMaterialUsage, error) {
	var out []*entity.OrderMaterialUsage
	for _, u := range r.byOrder[orderID] {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (r *UsageRepo) DeleteByOrder(orderID string) error {
	delete(r.byOrder, orderID)
	return nil
}

func (r *UsageRepo) Create(u *entity.OrderMaterialUsage) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	c := *u
	r.byOrder[u.OrderID] = append(r.byOrder[u.OrderID], &c)
	return nil
}
