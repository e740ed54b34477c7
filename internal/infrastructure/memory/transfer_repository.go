package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación en memoria de TransferRepository, para tests.
type TransferRepo struct {
	transfers map[string]*entity.LocationTransfer
}

// NewTransferRepository construye el repositorio vacío.
func NewTransferRepository() *TransferRepo {
	return &TransferRepo{transfers: make(map[string]*entity.LocationTransfer)}
}

func (r *TransferRepo) Create(t *entity.LocationTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	for _, line := range t.Lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.TransferID = t.ID
	}
	r.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r *TransferRepo) GetByID(id string) (*entity.LocationTransfer, error) {
	t, ok := r.transfers[id]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(t), nil
}

func (r *TransferRepo) GetForUpdate(id string) (*entity.LocationTransfer, error) {
	return r.GetByID(id)
}

func (r *TransferRepo) SetStatus(id, status string, resolvedAt time.Time) error {
	t, ok := r.transfers[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	t.ResolvedAt = &resolvedAt
	return nil
}

func (r *TransferRepo) ListPendingByDestination(holder entity.Holder) ([]*entity.LocationTransfer, error) {
	var out []*entity.LocationTransfer
	for _, t := range r.transfers {
		if t.Status == entity.TransferStatusPending && t.ToHolder == holder {
			out = append(out, cloneTransfer(t))
		}
	}
	return out, nil
}

func (r *TransferRepo) ListPendingBySource(holder entity.Holder) ([]*entity.LocationTransfer, error) {
	var out []*entity.LocationTransfer
	for _, t := range r.transfers {
		if t.Status == entity.TransferStatusPending && t.FromHolder == holder {
			out = append(out, cloneTransfer(t))
		}
	}
	return out, nil
}

func cloneTransfer(t *entity.LocationTransfer) *entity.LocationTransfer {
	c := *t
	c.Lines = make([]*entity.TransferLine, len(t.Lines))
	for i, line := range t.Lines {
		lc := *line
		c.Lines[i] = &lc
	}
	if t.ResolvedAt != nil {
		resolved := *t.ResolvedAt
		c.ResolvedAt = &resolved
	}
	return &c
}
