package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrConcurrentUpdate    = errors.New("el stock cambió durante la operación")
	ErrUpstream            = errors.New("falla del almacenamiento")
	ErrPartialCompletion   = errors.New("transferencia completada parcialmente")
	ErrLedgerInconsistency = errors.New("stock actualizado sin transacción registrada")
)

// ValidationError entrada faltante o malformada.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StockError rechazo por stock insuficiente; no hubo escritura.
type StockError struct {
	ItemID      string
	WarehouseID string
	Available   int64
	Requested   int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }

// TransitionError la transferencia no está en un estado desde el que se permita el cambio.
type TransitionError struct {
	TransferID string
	From       string
	To         string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transferencia %s: no se puede pasar de %s a %s", e.TransferID, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// UpstreamError envuelve una falla del almacenamiento remoto.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Upstream envuelve err como falla del almacenamiento salvo que ya sea un error de dominio.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// LedgerInconsistencyError el nivel de stock quedó escrito pero la transacción de auditoría no.
// Requiere conciliación manual.
type LedgerInconsistencyError struct {
	ItemID      string
	WarehouseID string
	Previous    int64
	Current     int64
	Cause       error
}

func (e *LedgerInconsistencyError) Error() string {
	return fmt.Sprintf("stock %s/%s pasó de %d a %d sin transacción: %v",
		e.ItemID, e.WarehouseID, e.Previous, e.Current, e.Cause)
}

func (e *LedgerInconsistencyError) Unwrap() error { return e.Cause }

func (e *LedgerInconsistencyError) Is(target error) bool { return target == ErrLedgerInconsistency }

// PartialCompletionError origen y destino no quedaron ambos actualizados: la salida se aplicó
// pero la entrada no. OutTransactionID vacío indica que la salida tampoco quedó auditada.
type PartialCompletionError struct {
	TransferID       string
	OutTransactionID string
	Cause            error
}

func (e *PartialCompletionError) Error() string {
	if e.OutTransactionID == "" {
		return fmt.Sprintf("transferencia %s: salida aplicada sin transacción, entrada no intentada: %v",
			e.TransferID, e.Cause)
	}
	return fmt.Sprintf("transferencia %s: salida %s aplicada, entrada en destino falló: %v",
		e.TransferID, e.OutTransactionID, e.Cause)
}

func (e *PartialCompletionError) Unwrap() error { return e.Cause }

func (e *PartialCompletionError) Is(target error) bool { return target == ErrPartialCompletion }
