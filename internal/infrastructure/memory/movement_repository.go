package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria del historial, para tests.
// Append-only por construcción: no expone nada que mute entradas.
type MovementRepo struct {
	entries []*entity.Movement
}

// NewMovementRepository construye el repositorio vacío.
func NewMovementRepository() *MovementRepo {
	return &MovementRepo{}
}

func (r *MovementRepo) Append(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	c := *m
	r.entries = append(r.entries, &c)
	return nil
}

func (r *MovementRepo) Query(filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.entries {
		if filter.WarehouseItemID != "" && m.WarehouseItemID != filter.WarehouseItemID {
			continue
		}
		if filter.OrderID != "" && m.AssignedOrderID != filter.OrderID {
			continue
		}
		if filter.PerformedByID != "" && m.PerformedByID != filter.PerformedByID {
			continue
		}
		if filter.Action != "" && m.Action != filter.Action {
			continue
		}
		if filter.From != nil && m.ActionDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.ActionDate.After(*filter.To) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}
