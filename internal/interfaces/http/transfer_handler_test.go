package http_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/warehouse-api/internal/interfaces/http"
)

func transferBody(qty int64) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		ItemID: itemID, SourceWarehouseID: whA, DestWarehouseID: whB, Quantity: qty, Reason: "reposición",
	}
}

func (s *testServer) createTransfer(t *testing.T, qty int64) dto.TransferResponse {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/api/v1/transfer-requests", entity.RoleStaff, transferBody(qty))
	require.Equal(t, http.StatusCreated, status, env.Message)
	return decode[dto.TransferResponse](t, env)
}

func (s *testServer) levelQty(t *testing.T, wh string) int64 {
	t.Helper()
	_, env := s.do(t, http.MethodGet, "/api/v1/stock/levels?item_id="+itemID+"&warehouse_id="+wh, entity.RoleStaff, nil)
	levels := decode[[]dto.StockLevelResponse](t, env)
	if len(levels) == 0 {
		return 0
	}
	return levels[0].Quantity
}

func TestTransfer_FlujoCompleto(t *testing.T) {
	s := newTestServer(t)
	s.store.SetLevel("lvl-a", itemID, whA, 10)

	tr := s.createTransfer(t, 4)
	assert.Equal(t, "PENDING", tr.Status)
	assert.Equal(t, "u-"+entity.RoleStaff, tr.RequestedBy)

	status, env := s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/approve", entity.RoleManager, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	approved := decode[dto.TransferResponse](t, env)
	assert.Equal(t, "APPROVED", approved.Status)
	assert.Equal(t, "u-"+entity.RoleManager, approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	status, env = s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/complete", entity.RoleStaff, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	done := decode[dto.TransferCompletionResponse](t, env)
	assert.Equal(t, "COMPLETED", done.Transfer.Status)
	assert.Equal(t, "OUT", done.OutTransaction.Type)
	assert.Equal(t, "IN", done.InTransaction.Type)
	assert.Equal(t, tr.ID, done.OutTransaction.TransferID)
	assert.Equal(t, tr.ID, done.InTransaction.TransferID)

	assert.Equal(t, int64(6), s.levelQty(t, whA))
	assert.Equal(t, int64(4), s.levelQty(t, whB))

	// segundo completado: transición inválida, sin doble descuento
	status, env = s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/complete", entity.RoleStaff, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apphttp.CodeInvalidTransition, env.Details)
	assert.Equal(t, int64(6), s.levelQty(t, whA))
}

func TestTransfer_CrearValidaciones(t *testing.T) {
	s := newTestServer(t)
	s.store.SetLevel("lvl-a", itemID, whA, 3)

	same := transferBody(1)
	same.DestWarehouseID = whA

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"misma bodega", same, http.StatusBadRequest, apphttp.CodeValidation},
		{"cantidad cero", transferBody(0), http.StatusBadRequest, apphttp.CodeValidation},
		{"excede disponible", transferBody(5), http.StatusBadRequest, apphttp.CodeInsufficientStock},
		{"item inexistente", dto.CreateTransferRequest{ItemID: "nope", SourceWarehouseID: whA, DestWarehouseID: whB, Quantity: 1}, http.StatusNotFound, apphttp.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := s.do(t, http.MethodPost, "/api/v1/transfer-requests", entity.RoleStaff, tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, env.Details)
		})
	}
}

func TestTransfer_StaffNoAprueba(t *testing.T) {
	s := newTestServer(t)
	s.store.SetLevel("lvl-a", itemID, whA, 10)
	tr := s.createTransfer(t, 2)

	for _, action := range []string{"approve", "reject"} {
		status, env := s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/"+action, entity.RoleStaff, nil)
		assert.Equal(t, http.StatusForbidden, status, action)
		assert.Equal(t, apphttp.CodePermissionDenied, env.Details)
	}

	_, env := s.do(t, http.MethodGet, "/api/v1/transfer-requests/"+tr.ID, entity.RoleStaff, nil)
	assert.Equal(t, "PENDING", decode[dto.TransferResponse](t, env).Status)
}

func TestTransfer_CompletarPendienteEsInvalido(t *testing.T) {
	s := newTestServer(t)
	s.store.SetLevel("lvl-a", itemID, whA, 10)
	tr := s.createTransfer(t, 2)

	status, env := s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/complete", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apphttp.CodeInvalidTransition, env.Details)
	assert.Equal(t, int64(10), s.levelQty(t, whA))
}

func TestTransfer_CancelarYEditarMotivo(t *testing.T) {
	s := newTestServer(t)
	s.store.SetLevel("lvl-a", itemID, whA, 10)
	tr := s.createTransfer(t, 2)

	status, env := s.do(t, http.MethodPut, "/api/v1/transfer-requests/"+tr.ID, entity.RoleStaff,
		dto.UpdateTransferRequest{Reason: "urgente"})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "urgente", decode[dto.TransferResponse](t, env).Reason)

	status, env = s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/cancel", entity.RoleStaff, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "CANCELLED", decode[dto.TransferResponse](t, env).Status)

	status, env = s.do(t, http.MethodPut, "/api/v1/transfer-requests/"+tr.ID, entity.RoleStaff,
		dto.UpdateTransferRequest{Reason: "tarde"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apphttp.CodeInvalidTransition, env.Details)
	assert.Equal(t, int64(10), s.levelQty(t, whA))
}

func TestTransfer_EntradaFallidaEsParcial(t *testing.T) {
	s := newTestServer(t)
	s.store.SetLevel("lvl-a", itemID, whA, 10)
	tr := s.createTransfer(t, 4)

	status, _ := s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/approve", entity.RoleManager, nil)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, s.store.Warehouses().Delete(context.Background(), whB))

	status, env := s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/complete", entity.RoleStaff, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, apphttp.CodePartialCompletion, env.Details)
	assert.Equal(t, int64(6), s.levelQty(t, whA))

	_, env = s.do(t, http.MethodGet, "/api/v1/transfer-requests/"+tr.ID, entity.RoleStaff, nil)
	assert.Equal(t, "COMPLETED", decode[dto.TransferResponse](t, env).Status)
}

func TestTransfer_SalidaSinAuditoriaEsParcial(t *testing.T) {
	s := newTestServer(t)
	s.store.SetLevel("lvl-a", itemID, whA, 10)
	tr := s.createTransfer(t, 4)

	status, _ := s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/approve", entity.RoleManager, nil)
	require.Equal(t, http.StatusOK, status)

	s.store.SetHooks(memory.Hooks{BeforeAppend: func(tx *entity.Transaction) error {
		if tx.Type == entity.TransactionOUT {
			return errors.New("insert falló")
		}
		return nil
	}})

	status, env := s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/complete", entity.RoleStaff, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, apphttp.CodePartialCompletion, env.Details)

	s.store.SetHooks(memory.Hooks{})
	assert.Equal(t, int64(6), s.levelQty(t, whA))
	assert.Equal(t, int64(0), s.levelQty(t, whB))
}

func TestTransfer_ListarPorEstado(t *testing.T) {
	s := newTestServer(t)
	s.store.SetLevel("lvl-a", itemID, whA, 10)
	s.createTransfer(t, 1)
	tr := s.createTransfer(t, 2)
	_, _ = s.do(t, http.MethodPost, "/api/v1/transfer-requests/"+tr.ID+"/reject", entity.RoleManager, nil)

	status, env := s.do(t, http.MethodGet, "/api/v1/transfer-requests?status=pending", entity.RoleStaff, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	list := decode[[]dto.TransferResponse](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, "PENDING", list[0].Status)

	status, env = s.do(t, http.MethodGet, "/api/v1/transfer-requests?status=UNKNOWN", entity.RoleStaff, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apphttp.CodeValidation, env.Details)
}
