package entity

import "time"

// TransferStatus estado de una solicitud de transferencia.
type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferApproved  TransferStatus = "APPROVED"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferRejected  TransferStatus = "REJECTED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// transferTransitions tabla de transiciones permitidas. Los estados ausentes son terminales.
var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferPending:  {TransferApproved, TransferRejected, TransferCancelled},
	TransferApproved: {TransferCompleted, TransferCancelled},
}

// Valid indica si s es un estado conocido.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferApproved, TransferCompleted, TransferRejected, TransferCancelled:
		return true
	}
	return false
}

// IsTerminal indica si ya no se admiten transiciones desde s.
func (s TransferStatus) IsTerminal() bool {
	return len(transferTransitions[s]) == 0
}

// CanTransition indica si from -> to está permitido.
func CanTransition(from, to TransferStatus) bool {
	for _, s := range transferTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SourcesFor devuelve los estados desde los que se puede llegar a to.
func SourcesFor(to TransferStatus) []TransferStatus {
	var out []TransferStatus
	for _, from := range []TransferStatus{TransferPending, TransferApproved} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// Transfer solicitud de mover cantidad de un ítem entre dos bodegas distintas.
type Transfer struct {
	ID                string
	ItemID            string
	SourceWarehouseID string
	DestWarehouseID   string
	Quantity          int64
	Status            TransferStatus
	Reason            string
	RequestedBy       string
	ApprovedBy        string // quien aprobó o rechazó
	CompletedBy       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ApprovedAt        *time.Time
	CompletedAt       *time.Time
}
