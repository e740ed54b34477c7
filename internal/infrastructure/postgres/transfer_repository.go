package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable
// con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste el traslado con sus renglones.
func (r *TransferRepo) Create(t *entity.LocationTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO location_transfer (id, from_holder_kind, from_holder_id, to_holder_kind, to_holder_id, status, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.FromHolder.Kind, t.FromHolder.ID, t.ToHolder.Kind, t.ToHolder.ID,
		t.Status, nullable(t.Notes), t.CreatedBy, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	for _, line := range t.Lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.TransferID = t.ID
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO location_transfer_line (id, transfer_id, warehouse_item_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			line.ID, line.TransferID, line.WarehouseItemID, line.Quantity)
		if err != nil {
			return fmt.Errorf("create transfer line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el traslado con renglones, o nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.LocationTransfer, error) {
	return r.get(id, false)
}

// GetForUpdate igual que GetByID pero bloquea la fila del traslado,
// serializando accept/reject/cancel concurrentes.
func (r *TransferRepo) GetForUpdate(id string) (*entity.LocationTransfer, error) {
	return r.get(id, true)
}

func (r *TransferRepo) get(id string, forUpdate bool) (*entity.LocationTransfer, error) {
	query := `
		SELECT id, from_holder_kind, from_holder_id, to_holder_kind, to_holder_id, status, notes, created_by, created_at, resolved_at
		FROM location_transfer WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	t, err := r.scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadLines(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransferRepo) scanTransfer(row rowScanner) (*entity.LocationTransfer, error) {
	var t entity.LocationTransfer
	var notes *string
	err := row.Scan(&t.ID, &t.FromHolder.Kind, &t.FromHolder.ID,
		&t.ToHolder.Kind, &t.ToHolder.ID, &t.Status, &notes, &t.CreatedBy,
		&t.CreatedAt, &t.ResolvedAt)
	if err != nil {
		return nil, err
	}
	t.Notes = deref(notes)
	return &t, nil
}

func (r *TransferRepo) loadLines(t *entity.LocationTransfer) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, transfer_id, warehouse_item_id, quantity
		FROM location_transfer_line WHERE transfer_id = $1
		ORDER BY id`, t.ID)
	if err != nil {
		return fmt.Errorf("load transfer lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.TransferLine
		if err := rows.Scan(&line.ID, &line.TransferID, &line.WarehouseItemID, &line.Quantity); err != nil {
			return fmt.Errorf("scan transfer line: %w", err)
		}
		t.Lines = append(t.Lines, &line)
	}
	return rows.Err()
}

// SetStatus fija el estado terminal y la fecha de resolución.
func (r *TransferRepo) SetStatus(id, status string, resolvedAt time.Time) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE location_transfer SET status = $2, resolved_at = $3 WHERE id = $1`,
		id, status, resolvedAt)
	if err != nil {
		return fmt.Errorf("set transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPendingByDestination lista traslados PENDING dirigidos al tenedor.
func (r *TransferRepo) ListPendingByDestination(holder entity.Holder) ([]*entity.LocationTransfer, error) {
	return r.listPending(`to_holder_kind = $1 AND to_holder_id = $2`, holder)
}

// ListPendingBySource lista traslados PENDING originados por el tenedor.
func (r *TransferRepo) ListPendingBySource(holder entity.Holder) ([]*entity.LocationTransfer, error) {
	return r.listPending(`from_holder_kind = $1 AND from_holder_id = $2`, holder)
}

func (r *TransferRepo) listPending(cond string, holder entity.Holder) ([]*entity.LocationTransfer, error) {
	query := `
		SELECT id, from_holder_kind, from_holder_id, to_holder_kind, to_holder_id, status, notes, created_by, created_at, resolved_at
		FROM location_transfer WHERE status = 'PENDING' AND ` + cond + `
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, holder.Kind, holder.ID)
	if err != nil {
		return nil, fmt.Errorf("list pending transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.LocationTransfer
	for rows.Next() {
		t, err := r.scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadLines(t); err != nil {
			return nil, err
		}
	}
	return list, nil
}
