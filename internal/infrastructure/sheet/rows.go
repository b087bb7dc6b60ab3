package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/application/imports"
	"github.com/jhoicas/mfg-console/internal/domain"
	invdomain "github.com/jhoicas/mfg-console/internal/domain/inventory"
)

// ItemRows convierte una tabla en filas de ítems. Requiere la columna sku.
func ItemRows(t *Table) ([]imports.ItemRow, error) {
	if !t.HasColumn("sku") {
		return nil, domain.NewValidation("file", "falta la columna sku")
	}
	ref := func(r Row, prefixes ...string) imports.LocationRef {
		var out imports.LocationRef
		for _, p := range prefixes {
			if t.HasColumn(p+"_id") || t.HasColumn(p+"_code") {
				out.Present = true
			}
			if out.ID == "" {
				out.ID = r.Get(p + "_id")
			}
			if out.Code == "" {
				out.Code = r.Get(p + "_code")
			}
		}
		return out
	}
	rows := make([]imports.ItemRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, imports.ItemRow{
			Line:        r.Line,
			SKU:         r.Get("sku"),
			Description: r.Get("description"),
			UnitMeasure: r.Get("unit_measure"),
			Category:    r.Get("category"),
			MinStock:    r.Get("min_stock"),
			UnitCost:    r.Get("unit_cost"),
			Primary:     ref(r, "primary_location"),
			Secondary:   ref(r, "secondary_location"),
			PointOfUse:  ref(r, "point_of_use_location", "pou_location"),
		})
	}
	return rows, nil
}

var dueDateLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006", "2006/01/02"}

// OpenOrderRows convierte una tabla en filas de pedidos. Las filas ilegibles se devuelven
// como RowError (con el pedido si se pudo leer) en lugar de abortar la carga.
func OpenOrderRows(t *Table) ([]imports.OpenOrderRow, []imports.RowError, error) {
	for _, col := range []string{"order_ref", "line_no", "sku", "quantity_open"} {
		if !t.HasColumn(col) {
			return nil, nil, domain.NewValidation("file", "falta la columna %s", col)
		}
	}
	var rows []imports.OpenOrderRow
	var bad []imports.RowError
	for _, r := range t.Rows {
		row, err := parseOpenOrderRow(r)
		if err != nil {
			bad = append(bad, imports.RowError{Line: r.Line, OrderRef: r.Get("order_ref"), Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, bad, nil
}

func parseOpenOrderRow(r Row) (imports.OpenOrderRow, error) {
	out := imports.OpenOrderRow{Line: r.Line, OrderRef: r.Get("order_ref"), SKU: r.Get("sku")}
	if out.OrderRef == "" {
		return out, fmt.Errorf("order_ref requerido")
	}
	if out.SKU == "" {
		return out, fmt.Errorf("sku requerido")
	}
	n, err := strconv.Atoi(r.Get("line_no"))
	if err != nil || n <= 0 {
		return out, fmt.Errorf("line_no inválido %q", r.Get("line_no"))
	}
	out.LineNo = n

	if out.QuantityOpen, err = parseDecimal("quantity_open", r.Get("quantity_open")); err != nil {
		return out, err
	}
	out.QuantityOrdered = out.QuantityOpen
	if v := r.Get("quantity_ordered"); v != "" {
		if out.QuantityOrdered, err = parseDecimal("quantity_ordered", v); err != nil {
			return out, err
		}
	}
	if v := r.Get("due_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return out, err
		}
		out.DueDate = &d
	}
	return out, nil
}

func parseDecimal(field, v string) (decimal.Decimal, error) {
	d, err := imports.ParseDecimal(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: no puede ser negativo (%s)", field, v)
	}
	// Se rechaza en lugar de dejar que NUMERIC(18,3) redondee.
	if err := invdomain.ValidateQuantityScale(field, d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if d, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("due_date: fecha inválida %q", v)
}
