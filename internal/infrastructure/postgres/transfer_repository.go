package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo solicitudes de transferencia. Los cambios de estado son UPDATE condicionados
// al estado actual: de dos escritores concurrentes solo uno afecta la fila.
type TransferRepo struct {
	q Querier
}

func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, item_id, source_warehouse_id, dest_warehouse_id, quantity, status, reason,
	requested_by, approved_by, completed_by, created_at, updated_at, approved_at, completed_at`

func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfer_requests (id, item_id, source_warehouse_id, dest_warehouse_id, quantity,
			status, reason, requested_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ItemID, t.SourceWarehouseID, t.DestWarehouseID, t.Quantity, string(t.Status), t.Reason,
		nullable(t.RequestedBy), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfer_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", string(f.Status))
	}
	if f.ItemID != "" {
		w.add("item_id = ?", f.ItemID)
	}
	if f.WarehouseID != "" {
		w.add("(source_warehouse_id = ? OR dest_warehouse_id = ?)", f.WarehouseID)
	}
	query := `SELECT ` + transferColumns + ` FROM transfer_requests` + w.clause() + ` ORDER BY created_at DESC`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Transition UPDATE ... WHERE status = ANY(from). En el SET, status es el valor previo:
// aprobar o rechazar registra el aprobador, completar registra al completador y
// volver de COMPLETED a APPROVED libera el reclamo de completado.
func (r *TransferRepo) Transition(ctx context.Context, id string, from []entity.TransferStatus, to entity.TransferStatus, actorID string, at time.Time) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}

	query := `
		UPDATE transfer_requests
		SET status = $2::text,
			updated_at = $3,
			approved_by = CASE WHEN $2::text IN ('APPROVED', 'REJECTED') AND status <> 'COMPLETED'
				THEN $4::uuid ELSE approved_by END,
			approved_at = CASE WHEN $2::text IN ('APPROVED', 'REJECTED') AND status <> 'COMPLETED'
				THEN $3 ELSE approved_at END,
			completed_by = CASE WHEN $2::text = 'COMPLETED' THEN $4::uuid
				WHEN status = 'COMPLETED' THEN NULL ELSE completed_by END,
			completed_at = CASE WHEN $2::text = 'COMPLETED' THEN $3
				WHEN status = 'COMPLETED' THEN NULL ELSE completed_at END
		WHERE id = $1 AND status = ANY($5::text[])`

	tag, err := r.q.Exec(ctx, query, id, string(to), at, nullable(actorID), states)
	if err != nil {
		return false, fmt.Errorf("transition transfer: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TransferRepo) UpdateReason(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE transfer_requests SET reason = $2, updated_at = $3
		WHERE id = $1 AND status IN ('PENDING', 'APPROVED')`
	tag, err := r.q.Exec(ctx, query, id, reason, at)
	if err != nil {
		return false, fmt.Errorf("update transfer reason: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var (
		t                                   entity.Transfer
		status                              string
		requestedBy, approvedBy, completedBy *string
	)
	err := row.Scan(&t.ID, &t.ItemID, &t.SourceWarehouseID, &t.DestWarehouseID, &t.Quantity, &status, &t.Reason,
		&requestedBy, &approvedBy, &completedBy, &t.CreatedAt, &t.UpdatedAt, &t.ApprovedAt, &t.CompletedAt)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	t.RequestedBy = deref(requestedBy)
	t.ApprovedBy = deref(approvedBy)
	t.CompletedBy = deref(completedBy)
	return &t, nil
}
