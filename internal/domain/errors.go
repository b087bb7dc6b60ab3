package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError entrada malformada o contradictoria. Se rechaza antes de escribir.
// Field identifica el campo o la fila a resaltar.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidation atajo para construir un ValidationError con formato.
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError la cantidad solicitada supera el saldo de la clave (ítem, ubicación[, lote]).
type InsufficientStockError struct {
	ItemID     string
	LocationID string
	BatchID    string
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	msg := fmt.Sprintf("stock insuficiente para ítem %s en ubicación %s", e.ItemID, e.LocationID)
	if e.BatchID != "" {
		msg += fmt.Sprintf(" (lote %s)", e.BatchID)
	}
	return fmt.Sprintf("%s: solicitado %s, disponible %s", msg, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NotFoundError referencia a una entidad inexistente (ítem, ubicación, lote, movimiento).
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError fallo de transacción (contención, timeout, serialización). Es seguro reintentar:
// la transacción se revirtió completa.
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: conflicto de concurrencia, reintente", e.Op)
	}
	return fmt.Sprintf("%s: conflicto de concurrencia, reintente: %v", e.Op, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
