package postgres

import (
	"context"
	"fmt"
)

// LedgerDDL esquema del ledger. Los nombres de constraint los usa mapConstraintError
// (fk_*_batch, fk_*_location, fk_*_item, uq_movements_resolves).
const LedgerDDL = `
CREATE TABLE IF NOT EXISTS locations (
  id          UUID        PRIMARY KEY,
  code        TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL,
  updated_at  TIMESTAMPTZ NOT NULL,

  CONSTRAINT uq_locations_code UNIQUE (code),
  CONSTRAINT chk_locations_code CHECK (char_length(trim(code)) > 0)
);

CREATE TABLE IF NOT EXISTS items (
  id                       UUID          PRIMARY KEY,
  sku                      TEXT          NOT NULL,
  description              TEXT          NOT NULL DEFAULT '',
  unit_measure             TEXT          NOT NULL DEFAULT 'UND',
  category                 TEXT          NOT NULL DEFAULT '',
  min_stock                NUMERIC(18,3) NOT NULL DEFAULT 0,
  unit_cost                NUMERIC(18,4) NOT NULL DEFAULT 0,
  primary_location_id      UUID          NULL,
  secondary_location_id    UUID          NULL,
  point_of_use_location_id UUID          NULL,
  created_at               TIMESTAMPTZ   NOT NULL,
  updated_at               TIMESTAMPTZ   NOT NULL,

  CONSTRAINT uq_items_sku UNIQUE (sku),
  CONSTRAINT fk_items_primary_location FOREIGN KEY (primary_location_id) REFERENCES locations (id),
  CONSTRAINT fk_items_secondary_location FOREIGN KEY (secondary_location_id) REFERENCES locations (id),
  CONSTRAINT fk_items_pou_location FOREIGN KEY (point_of_use_location_id) REFERENCES locations (id),

  -- ningún par de ubicaciones puede coincidir
  CONSTRAINT chk_items_primary_secondary CHECK (primary_location_id IS DISTINCT FROM secondary_location_id OR primary_location_id IS NULL),
  CONSTRAINT chk_items_primary_pou CHECK (primary_location_id IS DISTINCT FROM point_of_use_location_id OR primary_location_id IS NULL),
  CONSTRAINT chk_items_secondary_pou CHECK (secondary_location_id IS DISTINCT FROM point_of_use_location_id OR secondary_location_id IS NULL),
  CONSTRAINT chk_items_min_stock CHECK (min_stock >= 0)
);

CREATE TABLE IF NOT EXISTS batches (
  id              UUID        PRIMARY KEY,
  item_id         UUID        NOT NULL,
  lot_number      TEXT        NOT NULL,
  supplier        TEXT        NOT NULL DEFAULT '',
  received_at     TIMESTAMPTZ NOT NULL,
  manufactured_at TIMESTAMPTZ NULL,
  expires_at      TIMESTAMPTZ NULL,
  created_at      TIMESTAMPTZ NOT NULL,

  CONSTRAINT fk_batches_item FOREIGN KEY (item_id) REFERENCES items (id),
  CONSTRAINT uq_batches_item_lot UNIQUE (item_id, lot_number),
  CONSTRAINT chk_batches_dates CHECK (expires_at IS NULL OR manufactured_at IS NULL OR expires_at >= manufactured_at)
);

CREATE TABLE IF NOT EXISTS movements (
  id                   BIGINT        PRIMARY KEY,
  item_id              UUID          NOT NULL,
  location_id          UUID          NOT NULL,
  batch_id             UUID          NULL,
  quantity             NUMERIC(18,3) NOT NULL,
  type                 TEXT          NOT NULL,
  reference            TEXT          NOT NULL DEFAULT '',
  actor                TEXT          NOT NULL DEFAULT '',
  order_ref            TEXT          NOT NULL DEFAULT '',
  transfer_id          UUID          NULL,
  resolves_movement_id BIGINT        NULL,
  created_at           TIMESTAMPTZ   NOT NULL,

  CONSTRAINT fk_movements_item FOREIGN KEY (item_id) REFERENCES items (id),
  CONSTRAINT fk_movements_location FOREIGN KEY (location_id) REFERENCES locations (id),
  CONSTRAINT fk_movements_batch FOREIGN KEY (batch_id) REFERENCES batches (id),
  CONSTRAINT fk_movements_resolves FOREIGN KEY (resolves_movement_id) REFERENCES movements (id),
  CONSTRAINT uq_movements_resolves UNIQUE (resolves_movement_id),
  CONSTRAINT chk_movements_type CHECK (type IN ('RECEIPT', 'REMOVE_FROM_LOCATION', 'TRANSFER_OUT',
    'TRANSFER_IN', 'ADJUSTMENT', 'CONSUMPTION'))
);

CREATE INDEX IF NOT EXISTS idx_movements_balance ON movements (item_id, location_id, batch_id);
CREATE INDEX IF NOT EXISTS idx_movements_created_at ON movements (created_at);
CREATE INDEX IF NOT EXISTS idx_movements_order_ref ON movements (order_ref) WHERE order_ref <> '';

-- el ledger es solo de inserción
CREATE OR REPLACE FUNCTION movements_append_only() RETURNS trigger AS $$
BEGIN
  RAISE EXCEPTION 'movements es solo de inserción';
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_movements_append_only ON movements;
CREATE TRIGGER trg_movements_append_only
  BEFORE UPDATE OR DELETE ON movements
  FOR EACH ROW EXECUTE FUNCTION movements_append_only();

CREATE TABLE IF NOT EXISTS open_order_lines (
  id               UUID          PRIMARY KEY,
  order_ref        TEXT          NOT NULL,
  line_no          INTEGER       NOT NULL,
  item_id          UUID          NOT NULL,
  quantity_ordered NUMERIC(18,3) NOT NULL,
  quantity_open    NUMERIC(18,3) NOT NULL,
  due_date         TIMESTAMPTZ   NULL,
  complete         BOOLEAN       NOT NULL DEFAULT FALSE,
  completed_at     TIMESTAMPTZ   NULL,
  created_at       TIMESTAMPTZ   NOT NULL,
  updated_at       TIMESTAMPTZ   NOT NULL,

  CONSTRAINT fk_open_order_lines_item FOREIGN KEY (item_id) REFERENCES items (id),
  CONSTRAINT uq_open_order_lines UNIQUE (order_ref, line_no, item_id),
  CONSTRAINT chk_open_order_lines_qty CHECK (quantity_open >= 0 AND quantity_ordered >= 0)
);

CREATE INDEX IF NOT EXISTS idx_open_order_lines_item ON open_order_lines (item_id) WHERE NOT complete;
`

// Migrate aplica LedgerDDL. Es idempotente.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, LedgerDDL); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}
	return nil
}
