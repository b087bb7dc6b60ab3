package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/mfg-console/internal/domain"
)

func pgErr(code, constraint string) error {
	return fmt.Errorf("insert: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
}

func TestMapConstraintError_FKSegunConstraint(t *testing.T) {
	tests := []struct {
		constraint string
		entity     string
	}{
		{"fk_movements_item", "ítem"},
		{"fk_movements_location", "ubicación"},
		{"fk_movements_batch", "lote"},
		{"fk_otra", "movimiento"},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			err := mapConstraintError(pgErr("23503", tt.constraint), "movimiento", "X-1")
			var nf *domain.NotFoundError
			if assert.True(t, errors.As(err, &nf)) {
				assert.Equal(t, tt.entity, nf.Entity)
				assert.Equal(t, "X-1", nf.ID)
			}
		})
	}
}

func TestMapConstraintError_CheckEsValidacion(t *testing.T) {
	err := mapConstraintError(pgErr("23514", "chk_items_primary_secondary"), "ítem", "I1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "chk_items_primary_secondary")
}

func TestMapConstraintError_OtrosCodigosNoSeTraducen(t *testing.T) {
	assert.Nil(t, mapConstraintError(pgErr("23505", "uq_items_sku"), "ítem", "I1"))
	assert.Nil(t, mapConstraintError(errors.New("conexión cerrada"), "ítem", "I1"))
}

func TestConflictOr(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03", "57014"} {
		err := conflictOr("tx", pgErr(code, ""))
		assert.ErrorIs(t, err, domain.ErrConflict, code)
	}
	plain := errors.New("otro error")
	assert.Equal(t, plain, conflictOr("tx", plain))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(pgErr("23505", "uq_locations_code")))
	assert.False(t, isUniqueViolation(pgErr("23503", "fk_movements_item")))
}

func TestValidUUID(t *testing.T) {
	assert.True(t, validUUID("6f1c2a9e-3b7d-4c41-9a2e-0d5b8e7f1a23"))
	assert.False(t, validUUID("A-01"))
	assert.False(t, validUUID(""))
}
