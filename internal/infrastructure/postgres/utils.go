package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/mfg-console/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// constraintOf devuelve el código y el constraint de un error de PostgreSQL.
func constraintOf(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isConflict errores de concurrencia reintentables: serialización, deadlock, lock_timeout y
// statement cancelado (statement_timeout o contexto).
func isConflict(err error) bool {
	code, _ := constraintOf(err)
	switch code {
	case "40001", "40P01", "55P03", "57014":
		return true
	}
	return false
}

// mapConstraintError traduce violaciones de FK y CHECK a errores de dominio.
func mapConstraintError(err error, entity, id string) error {
	code, constraint := constraintOf(err)
	switch code {
	case "23503": // foreign_key_violation
		switch {
		case strings.Contains(constraint, "batch"):
			return &domain.NotFoundError{Entity: "lote", ID: id}
		case strings.Contains(constraint, "location"):
			return &domain.NotFoundError{Entity: "ubicación", ID: id}
		case strings.Contains(constraint, "item"):
			return &domain.NotFoundError{Entity: "ítem", ID: id}
		}
		return &domain.NotFoundError{Entity: entity, ID: id}
	case "23514": // check_violation
		return domain.NewValidation(entity, "restricción %s violada", constraint)
	}
	return nil
}

// validUUID evita consultar con un texto que PostgreSQL rechazaría como uuid (22P02).
func validUUID(s string) bool {
	return uuid.Validate(s) == nil
}
