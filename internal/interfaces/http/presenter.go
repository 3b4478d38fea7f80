package http

import (
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/transfer"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

func toLevelResponse(l *entity.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ID:          l.ID,
		ItemID:      l.ItemID,
		WarehouseID: l.WarehouseID,
		Quantity:    l.Quantity,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toTransactionResponse(tx *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          tx.ID,
		ItemID:      tx.ItemID,
		WarehouseID: tx.WarehouseID,
		Type:        string(tx.Type),
		Quantity:    tx.Quantity,
		Notes:       tx.Notes,
		TransferID:  tx.TransferID,
		CreatedBy:   tx.CreatedBy,
		CreatedAt:   tx.CreatedAt,
	}
}

func toMutationResponse(r *inventory.MutationResult) dto.StockMutationResponse {
	out := dto.StockMutationResponse{
		Level:    toLevelResponse(r.Level),
		Previous: r.Previous,
		NoOp:     r.NoOp,
	}
	if r.Transaction != nil {
		tx := toTransactionResponse(r.Transaction)
		out.Transaction = &tx
	}
	return out
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:                t.ID,
		ItemID:            t.ItemID,
		SourceWarehouseID: t.SourceWarehouseID,
		DestWarehouseID:   t.DestWarehouseID,
		Quantity:          t.Quantity,
		Status:            string(t.Status),
		Reason:            t.Reason,
		RequestedBy:       t.RequestedBy,
		ApprovedBy:        t.ApprovedBy,
		CompletedBy:       t.CompletedBy,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		ApprovedAt:        t.ApprovedAt,
		CompletedAt:       t.CompletedAt,
	}
}

func toCompletionResponse(c *transfer.Completion) dto.TransferCompletionResponse {
	return dto.TransferCompletionResponse{
		Transfer:       toTransferResponse(c.Transfer),
		OutTransaction: toTransactionResponse(c.OutTransaction),
		InTransaction:  toTransactionResponse(c.InTransaction),
	}
}
