package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// StockHandler niveles de stock y transacciones del libro.
type StockHandler struct {
	ledger *inventory.StockLedger
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.StockLedger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

type levelQuery struct {
	ItemID      string `query:"item_id"`
	WarehouseID string `query:"warehouse_id"`
	dto.PageRequest
}

type transactionQuery struct {
	ItemID      string `query:"item_id"`
	WarehouseID string `query:"warehouse_id"`
	Type        string `query:"type" validate:"omitempty,oneof=IN OUT in out"`
	TransferID  string `query:"transfer_id"`
	dto.PageRequest
}

// ListLevels godoc
// @Summary      Listar niveles de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        item_id       query  string  false  "Filtrar por ítem"
// @Param        limit         query  int     false  "Máximo de filas (20 por defecto, hasta 100)"
// @Param        offset        query  int     false  "Filas a saltar"
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/v1/stock/levels [get]
func (h *StockHandler) ListLevels(c *fiber.Ctx) error {
	var q levelQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	list, err := h.ledger.ListLevels(c.Context(), repository.StockLevelFilter{
		ItemID:      q.ItemID,
		WarehouseID: q.WarehouseID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLevelResponse(l))
	}
	return ok(c, "", out)
}

// GetLevel godoc
// @Summary      Obtener nivel de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del nivel"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock/levels/{id} [get]
func (h *StockHandler) GetLevel(c *fiber.Ctx) error {
	level, err := h.ledger.GetLevel(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "", toLevelResponse(level))
}

// CreateLevel godoc
// @Summary      Registrar un nivel de stock
// @Description  ADJUST sobre el par ítem/bodega: crea la fila con la cantidad indicada y la transacción IN correspondiente. Si ya existe, se ajusta a esa cantidad.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMutationRequest  true  "item_id, warehouse_id, quantity, notes"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stock/levels [post]
func (h *StockHandler) CreateLevel(c *fiber.Ctx) error {
	return h.mutate(c, entity.TransactionADJUST)
}

// AdjustLevel godoc
// @Summary      Fijar la cantidad de un nivel existente
// @Description  Equivale a un ADJUST: registra un IN u OUT por la diferencia. Sin diferencia no escribe nada.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del nivel"
// @Param        body  body  dto.AdjustLevelRequest  true  "quantity, reason"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/stock/levels/{id} [put]
func (h *StockHandler) AdjustLevel(c *fiber.Ctx) error {
	var in dto.AdjustLevelRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.ledger.AdjustLevel(c.Context(), c.Params("id"), *in.Quantity, in.Reason, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, mutationMessage(res), toMutationResponse(res))
}

// StockIn godoc
// @Summary      Entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMutationRequest  true  "item_id, warehouse_id, quantity, notes"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stock/transactions/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	return h.mutate(c, entity.TransactionIN)
}

// StockOut godoc
// @Summary      Salida de stock
// @Description  Rechaza con 400 INSUFFICIENT_STOCK si la cantidad supera lo disponible.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMutationRequest  true  "item_id, warehouse_id, quantity, notes"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/stock/transactions/out [post]
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	return h.mutate(c, entity.TransactionOUT)
}

// StockAdjust godoc
// @Summary      Ajuste de stock a una cantidad objetivo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMutationRequest  true  "quantity es la cantidad objetivo"
// @Success      201   {object}  dto.StockMutationResponse
// @Router       /api/v1/stock/transactions/adjust [post]
func (h *StockHandler) StockAdjust(c *fiber.Ctx) error {
	return h.mutate(c, entity.TransactionADJUST)
}

func (h *StockHandler) mutate(c *fiber.Ctx, typ entity.TransactionType) error {
	var in dto.StockMutationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.ledger.Apply(c.Context(), inventory.MutationInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Type:        typ,
		Quantity:    *in.Quantity,
		Notes:       in.Notes,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	if res.NoOp {
		return ok(c, mutationMessage(res), toMutationResponse(res))
	}
	return created(c, mutationMessage(res), toMutationResponse(res))
}

func mutationMessage(res *inventory.MutationResult) string {
	if res.NoOp {
		return "sin cambios"
	}
	return "stock actualizado"
}

// ListTransactions godoc
// @Summary      Historial de transacciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  false  "Filtrar por ítem"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        type          query  string  false  "IN u OUT"
// @Param        transfer_id   query  string  false  "Transacciones de una transferencia"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/v1/stock/transactions [get]
func (h *StockHandler) ListTransactions(c *fiber.Ctx) error {
	var q transactionQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	list, err := h.ledger.ListTransactions(c.Context(), repository.TransactionFilter{
		ItemID:      q.ItemID,
		WarehouseID: q.WarehouseID,
		Type:        entity.TransactionType(strings.ToUpper(q.Type)),
		TransferID:  q.TransferID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, toTransactionResponse(tx))
	}
	return ok(c, "", out)
}

func (h *StockHandler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.ledger.GetTransaction(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "", toTransactionResponse(tx))
}
