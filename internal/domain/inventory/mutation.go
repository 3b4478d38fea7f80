package inventory

import (
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// Mutation resultado de aplicar una solicitud sobre la cantidad actual (servicio de dominio, sin I/O).
type Mutation struct {
	Previous   int64
	Next       int64
	LoggedType entity.TransactionType // IN u OUT, nunca ADJUST
	Logged     int64                  // |Next - Previous|
	NoOp       bool                   // ADJUST al valor actual: no se escribe nada
}

// Plan calcula la nueva cantidad y la transacción a registrar.
//   - IN:     Next = current + quantity
//   - OUT:    falla con StockError si current < quantity; Next = current - quantity
//   - ADJUST: quantity es el objetivo absoluto; se registra IN u OUT por |delta|
func Plan(current int64, t entity.TransactionType, quantity int64) (Mutation, error) {
	m := Mutation{Previous: current}
	switch t {
	case entity.TransactionIN:
		if quantity <= 0 {
			return m, domain.Invalid("quantity", "debe ser un entero positivo")
		}
		m.Next = current + quantity
		m.LoggedType = entity.TransactionIN
		m.Logged = quantity
	case entity.TransactionOUT:
		if quantity <= 0 {
			return m, domain.Invalid("quantity", "debe ser un entero positivo")
		}
		if current < quantity {
			return m, &domain.StockError{Available: current, Requested: quantity}
		}
		m.Next = current - quantity
		m.LoggedType = entity.TransactionOUT
		m.Logged = quantity
	case entity.TransactionADJUST:
		if quantity < 0 {
			return m, domain.Invalid("quantity", "el objetivo no puede ser negativo")
		}
		m.Next = quantity
		switch delta := quantity - current; {
		case delta > 0:
			m.LoggedType = entity.TransactionIN
			m.Logged = delta
		case delta < 0:
			m.LoggedType = entity.TransactionOUT
			m.Logged = -delta
		default:
			m.NoOp = true
		}
	default:
		return m, domain.Invalid("type", "debe ser IN, OUT o ADJUST")
	}
	return m, nil
}
