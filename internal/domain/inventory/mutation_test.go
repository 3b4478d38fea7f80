package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name       string
		current    int64
		typ        entity.TransactionType
		qty        int64
		wantNext   int64
		wantType   entity.TransactionType
		wantLogged int64
		wantNoOp   bool
		wantErr    error
	}{
		{name: "IN suma", current: 10, typ: entity.TransactionIN, qty: 5, wantNext: 15, wantType: entity.TransactionIN, wantLogged: 5},
		{name: "IN sobre fila ausente", current: 0, typ: entity.TransactionIN, qty: 3, wantNext: 3, wantType: entity.TransactionIN, wantLogged: 3},
		{name: "OUT resta", current: 10, typ: entity.TransactionOUT, qty: 4, wantNext: 6, wantType: entity.TransactionOUT, wantLogged: 4},
		{name: "OUT deja en cero", current: 6, typ: entity.TransactionOUT, qty: 6, wantNext: 0, wantType: entity.TransactionOUT, wantLogged: 6},
		{name: "OUT insuficiente", current: 6, typ: entity.TransactionOUT, qty: 10, wantErr: domain.ErrInsufficientStock},
		{name: "ADJUST sube logea IN", current: 12, typ: entity.TransactionADJUST, qty: 20, wantNext: 20, wantType: entity.TransactionIN, wantLogged: 8},
		{name: "ADJUST baja logea OUT", current: 12, typ: entity.TransactionADJUST, qty: 5, wantNext: 5, wantType: entity.TransactionOUT, wantLogged: 7},
		{name: "ADJUST sin cambio", current: 12, typ: entity.TransactionADJUST, qty: 12, wantNext: 12, wantNoOp: true},
		{name: "ADJUST a cero", current: 3, typ: entity.TransactionADJUST, qty: 0, wantNext: 0, wantType: entity.TransactionOUT, wantLogged: 3},
		{name: "ADJUST negativo", current: 3, typ: entity.TransactionADJUST, qty: -1, wantErr: domain.ErrInvalidInput},
		{name: "IN cero", current: 3, typ: entity.TransactionIN, qty: 0, wantErr: domain.ErrInvalidInput},
		{name: "OUT negativo", current: 3, typ: entity.TransactionOUT, qty: -2, wantErr: domain.ErrInvalidInput},
		{name: "tipo desconocido", current: 3, typ: "TRANSFER", qty: 1, wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Plan(tt.current, tt.typ, tt.qty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.current, m.Previous)
			assert.Equal(t, tt.wantNext, m.Next)
			assert.Equal(t, tt.wantNoOp, m.NoOp)
			if !tt.wantNoOp {
				assert.Equal(t, tt.wantType, m.LoggedType)
				assert.Equal(t, tt.wantLogged, m.Logged)
				sign := int64(1)
				if m.LoggedType == entity.TransactionOUT {
					sign = -1
				}
				assert.Equal(t, m.Next, m.Previous+sign*m.Logged, "el delta registrado explica el cambio")
			}
		})
	}
}

func TestPlan_StockErrorDetalle(t *testing.T) {
	_, err := Plan(2, entity.TransactionOUT, 6)
	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int64(2), se.Available)
	assert.Equal(t, int64(6), se.Requested)
}
