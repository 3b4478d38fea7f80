package entity

import "time"

// TransactionType tipo de movimiento solicitado sobre el stock.
type TransactionType string

// Tipos de transacción. ADJUST solo existe como solicitud: se registra como IN u OUT según el delta.
const (
	TransactionIN     TransactionType = "IN"
	TransactionOUT    TransactionType = "OUT"
	TransactionADJUST TransactionType = "ADJUST"
)

// Valid indica si t es un tipo de solicitud conocido.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIN, TransactionOUT, TransactionADJUST:
		return true
	}
	return false
}

// Transaction registro inmutable de un cambio de stock (solo inserción).
// Quantity es siempre positiva; el signo lo da Type.
type Transaction struct {
	ID          string
	ItemID      string
	WarehouseID string
	Type        TransactionType
	Quantity    int64
	Notes       string
	TransferID  string // vacío si no proviene de una transferencia
	CreatedBy   string
	CreatedAt   time.Time
}

// Delta devuelve el cambio con signo que esta transacción aplicó al stock.
func (t *Transaction) Delta() int64 {
	if t.Type == TransactionOUT {
		return -t.Quantity
	}
	return t.Quantity
}
