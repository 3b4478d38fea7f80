package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/transfer"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// TransferHandler solicitudes de transferencia entre bodegas.
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

type transferQuery struct {
	Status      string `query:"status"`
	ItemID      string `query:"item_id"`
	WarehouseID string `query:"warehouse_id"`
	dto.PageRequest
}

// Create godoc
// @Summary      Solicitar transferencia
// @Description  Queda en PENDING. Origen y destino deben ser distintos.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "item_id, source_warehouse_id, dest_warehouse_id, quantity, reason"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/transfer-requests [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	t, err := h.uc.Create(c.Context(), transfer.CreateInput{
		ItemID:            in.ItemID,
		SourceWarehouseID: in.SourceWarehouseID,
		DestWarehouseID:   in.DestWarehouseID,
		Quantity:          in.Quantity,
		Reason:            in.Reason,
		UserID:            GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return created(c, "transferencia solicitada", toTransferResponse(t))
}

// List godoc
// @Summary      Listar transferencias
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "PENDING, APPROVED, COMPLETED, REJECTED, CANCELLED"
// @Param        item_id       query  string  false  "Filtrar por ítem"
// @Param        warehouse_id  query  string  false  "Origen o destino"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/v1/transfer-requests [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var q transferQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	list, err := h.uc.List(c.Context(), repository.TransferFilter{
		Status:      entity.TransferStatus(strings.ToUpper(q.Status)),
		ItemID:      q.ItemID,
		WarehouseID: q.WarehouseID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransferResponse(t))
	}
	return ok(c, "", out)
}

func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "", toTransferResponse(t))
}

// Update godoc
// @Summary      Editar motivo
// @Description  Solo el motivo es editable y solo mientras la transferencia no sea terminal.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la transferencia"
// @Param        body  body  dto.UpdateTransferRequest  true  "reason"
// @Success      200   {object}  dto.TransferResponse
// @Router       /api/v1/transfer-requests/{id} [put]
func (h *TransferHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTransferRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	t, err := h.uc.UpdateReason(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "transferencia actualizada", toTransferResponse(t))
}

// Approve godoc
// @Summary      Aprobar transferencia
// @Description  PENDING -> APPROVED. Vuelve a verificar el stock en origen.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/transfer-requests/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	t, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "transferencia aprobada", toTransferResponse(t))
}

func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	t, err := h.uc.Reject(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "transferencia rechazada", toTransferResponse(t))
}

func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	t, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "transferencia cancelada", toTransferResponse(t))
}

// Complete godoc
// @Summary      Completar transferencia
// @Description  APPROVED -> COMPLETED: salida en origen y entrada en destino, ambas con transfer_id.
// @Description  Si la entrada falla después de la salida responde 500 PARTIAL_COMPLETION.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferCompletionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/transfer-requests/{id}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	res, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "transferencia completada", toCompletionResponse(res))
}
