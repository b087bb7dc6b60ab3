package imports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	invdomain "github.com/jhoicas/mfg-console/internal/domain/inventory"
)

// RowStatus resultado de una fila importada.
type RowStatus string

const (
	RowApplied RowStatus = "applied"
	RowSkipped RowStatus = "skipped" // fila inválida: se omite con advertencia
	RowFailed  RowStatus = "failed"  // error de infraestructura en la fila; el lote continúa
)

// LocationRef referencia a una ubicación en una fila: ID primero, código después.
// Present=false indica que el archivo no trae columnas para esa ubicación (se conserva la actual).
type LocationRef struct {
	ID      string
	Code    string
	Present bool
}

// ItemRow fila de importación de ítems, con los valores tal como vienen en el archivo.
type ItemRow struct {
	Line        int
	SKU         string
	Description string
	UnitMeasure string
	Category    string
	MinStock    string
	UnitCost    string
	Primary     LocationRef
	Secondary   LocationRef
	PointOfUse  LocationRef
}

// RowResult resultado por fila.
type RowResult struct {
	Line     int       `json:"line"`
	SKU      string    `json:"sku"`
	Status   RowStatus `json:"status"`
	Created  bool      `json:"created,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

// ItemImportSummary resultado de un archivo completo.
type ItemImportSummary struct {
	Applied int         `json:"applied"`
	Created int         `json:"created"`
	Skipped int         `json:"skipped"`
	Failed  int         `json:"failed"`
	Rows    []RowResult `json:"rows"`
}

// ItemImportUseCase importación de ítems. La importación es una edición autoritativa: escribe las
// ubicaciones resueltas tal cual y nunca invoca el motor de asignación.
type ItemImportUseCase struct {
	txRunner inventory.TxRunner
	log      zerolog.Logger
}

// NewItemImportUseCase construye el caso de uso.
func NewItemImportUseCase(txRunner inventory.TxRunner, log zerolog.Logger) *ItemImportUseCase {
	return &ItemImportUseCase{txRunner: txRunner, log: log.With().Str("component", "item_import").Logger()}
}

// ImportItems aplica cada fila en su propia transacción. Una fila mala nunca aborta el lote.
func (uc *ItemImportUseCase) ImportItems(ctx context.Context, rows []ItemRow) *ItemImportSummary {
	sum := &ItemImportSummary{Rows: make([]RowResult, 0, len(rows))}
	for _, row := range rows {
		res, err := uc.ImportItemRow(ctx, row)
		if err != nil {
			res = RowResult{Line: row.Line, SKU: row.SKU, Status: RowFailed, Warnings: []string{err.Error()}}
			uc.log.Error().Err(err).Int("line", row.Line).Str("sku", row.SKU).Msg("fila de ítems falló")
		}
		switch res.Status {
		case RowApplied:
			sum.Applied++
			if res.Created {
				sum.Created++
			}
		case RowSkipped:
			sum.Skipped++
		case RowFailed:
			sum.Failed++
		}
		sum.Rows = append(sum.Rows, res)
	}
	uc.log.Info().
		Int("rows", len(rows)).
		Int("applied", sum.Applied).
		Int("created", sum.Created).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Msg("importación de ítems terminada")
	return sum
}

// errSkip fila inválida; el mensaje va como advertencia.
type errSkip struct{ msg string }

func (e *errSkip) Error() string { return e.msg }

func skipf(format string, args ...any) error { return &errSkip{msg: fmt.Sprintf(format, args...)} }

// ImportItemRow crea el ítem si el SKU es nuevo o sobrescribe sus campos con los valores resueltos.
// Las filas inválidas devuelven status skipped con advertencia; el error solo se usa para fallos de BD.
func (uc *ItemImportUseCase) ImportItemRow(ctx context.Context, row ItemRow) (RowResult, error) {
	res := RowResult{Line: row.Line, SKU: strings.TrimSpace(row.SKU)}

	minStock, unitCost, err := parseRowNumbers(row)
	if err == nil && res.SKU == "" {
		err = skipf("sku requerido")
	}
	if err == nil {
		err = uc.txRunner.Run(ctx, func(tx inventory.Repos) error {
			created, err := applyItemRow(ctx, tx, row, res.SKU, minStock, unitCost)
			res.Created = created
			return err
		})
	}

	var skip *errSkip
	var verr *domain.ValidationError
	switch {
	case err == nil:
		res.Status = RowApplied
		return res, nil
	case errors.As(err, &skip):
		res.Status = RowSkipped
		res.Warnings = append(res.Warnings, skip.msg)
	case errors.As(err, &verr):
		res.Status = RowSkipped
		res.Warnings = append(res.Warnings, verr.Error())
	default:
		return res, err
	}
	uc.log.Warn().Int("line", row.Line).Str("sku", res.SKU).Strs("warnings", res.Warnings).Msg("fila de ítems omitida")
	return res, nil
}

func parseRowNumbers(row ItemRow) (minStock, unitCost *decimal.Decimal, err error) {
	parse := func(field, v string) (*decimal.Decimal, error) {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		d, err := ParseDecimal(v)
		if err != nil {
			return nil, skipf("%s: %v", field, err)
		}
		if d.IsNegative() {
			return nil, skipf("%s: no puede ser negativo (%s)", field, v)
		}
		return &d, nil
	}
	if minStock, err = parse("min_stock", row.MinStock); err != nil {
		return nil, nil, err
	}
	if minStock != nil {
		if err := invdomain.ValidateQuantityScale("min_stock", *minStock); err != nil {
			return nil, nil, err
		}
	}
	if unitCost, err = parse("unit_cost", row.UnitCost); err != nil {
		return nil, nil, err
	}
	return minStock, unitCost, nil
}

func applyItemRow(ctx context.Context, tx inventory.Repos, row ItemRow, sku string, minStock, unitCost *decimal.Decimal) (bool, error) {
	existing, err := tx.Items.GetBySKU(ctx, sku)
	if err != nil {
		return false, err
	}
	item := &entity.Item{SKU: sku, UnitMeasure: "UND"}
	created := existing == nil
	if !created {
		// Bloquea la fila igual que las operaciones de stock para no pisar una asignación concurrente.
		if item, err = tx.Items.GetForUpdate(ctx, existing.ID); err != nil {
			return false, err
		}
		if item == nil {
			return false, &domain.NotFoundError{Entity: "ítem", ID: existing.ID}
		}
	}

	slots := []struct {
		name string
		ref  LocationRef
		dst  *string
	}{
		{"primary", row.Primary, &item.PrimaryLocationID},
		{"secondary", row.Secondary, &item.SecondaryLocationID},
		{"point_of_use", row.PointOfUse, &item.PointOfUseLocationID},
	}
	for _, s := range slots {
		if !s.ref.Present {
			continue
		}
		id, err := resolveLocation(ctx, tx, s.name, s.ref)
		if err != nil {
			return false, err
		}
		*s.dst = id
	}
	if err := invdomain.ValidateDistinctLocations(item.PrimaryLocationID, item.SecondaryLocationID, item.PointOfUseLocationID); err != nil {
		return false, skipf("ubicaciones repetidas en la fila: %v", err)
	}

	item.Description = row.Description
	item.Category = row.Category
	if um := strings.TrimSpace(row.UnitMeasure); um != "" {
		item.UnitMeasure = um
	}
	if minStock != nil {
		item.MinStock = *minStock
	}
	if unitCost != nil {
		item.UnitCost = *unitCost
	}
	now := time.Now()
	item.UpdatedAt = now
	if created {
		item.ID = uuid.New().String()
		item.CreatedAt = now
		return true, tx.Items.Create(ctx, item)
	}
	return false, tx.Items.Update(ctx, item)
}

// resolveLocation busca por ID y, si está vacío o no existe, por código. Ambos vacíos limpian la ubicación.
func resolveLocation(ctx context.Context, tx inventory.Repos, slot string, ref LocationRef) (string, error) {
	id, code := strings.TrimSpace(ref.ID), strings.TrimSpace(ref.Code)
	if id == "" && code == "" {
		return "", nil
	}
	if id != "" {
		loc, err := tx.Locations.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if loc != nil {
			return loc.ID, nil
		}
	}
	if code != "" {
		loc, err := tx.Locations.GetByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if loc != nil {
			return loc.ID, nil
		}
	}
	return "", skipf("ubicación %s no encontrada (id %q, código %q)", slot, id, code)
}
