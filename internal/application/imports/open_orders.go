package imports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/orders"
)

// OpenOrderRow línea de pedido de la carga, con el ítem por SKU.
type OpenOrderRow struct {
	Line            int
	OrderRef        string
	LineNo          int
	SKU             string
	QuantityOrdered decimal.Decimal
	QuantityOpen    decimal.Decimal
	DueDate         *time.Time
}

// RowError fila que no se pudo interpretar.
type RowError struct {
	Line     int    `json:"line"`
	OrderRef string `json:"order_ref,omitempty"`
	Message  string `json:"message"`
}

// OrderResult resultado de conciliar un pedido.
type OrderResult struct {
	OrderRef string        `json:"order_ref"`
	Counts   orders.Counts `json:"counts"`
	Error    string        `json:"error,omitempty"`
}

// UploadResult resultado de una carga completa.
type UploadResult struct {
	Orders    []OrderResult `json:"orders"`
	Failed    int           `json:"failed"`
	RowErrors []RowError    `json:"row_errors,omitempty"`
}

// OpenOrderUseCase conciliación de snapshots de pedidos abiertos.
type OpenOrderUseCase struct {
	txRunner inventory.TxRunner
	locker   OrderLocker
	log      zerolog.Logger
	now      func() time.Time
}

// NewOpenOrderUseCase construye el caso de uso.
func NewOpenOrderUseCase(txRunner inventory.TxRunner, locker OrderLocker, log zerolog.Logger) *OpenOrderUseCase {
	return &OpenOrderUseCase{
		txRunner: txRunner,
		locker:   locker,
		log:      log.With().Str("component", "open_orders").Logger(),
		now:      time.Now,
	}
}

// ReconcileOpenOrderSnapshot concilia un pedido contra su snapshot más reciente, en una transacción y
// bajo el lock del pedido. Repetir el mismo snapshot no cambia nada (Counts en cero).
func (uc *OpenOrderUseCase) ReconcileOpenOrderSnapshot(ctx context.Context, orderRef string, rows []OpenOrderRow) (orders.Counts, error) {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return orders.Counts{}, domain.NewValidation("order_ref", "requerido")
	}

	unlock, err := uc.locker.Lock(ctx, orderRef)
	if err != nil {
		return orders.Counts{}, &domain.ConflictError{Op: "reconcile " + orderRef, Err: err}
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn().Err(err).Str("order_ref", orderRef).Msg("no se pudo liberar el lock del pedido")
		}
	}()

	var counts orders.Counts
	err = uc.txRunner.Run(ctx, func(tx inventory.Repos) error {
		itemIDs := make(map[string]string)
		snapshot := make([]orders.SnapshotLine, 0, len(rows))
		for _, r := range rows {
			sku := strings.TrimSpace(r.SKU)
			id, ok := itemIDs[sku]
			if !ok {
				item, err := tx.Items.GetBySKU(ctx, sku)
				if err != nil {
					return err
				}
				if item == nil {
					return &domain.NotFoundError{Entity: "ítem", ID: sku}
				}
				id = item.ID
				itemIDs[sku] = id
			}
			snapshot = append(snapshot, orders.SnapshotLine{
				LineNo:          r.LineNo,
				ItemID:          id,
				QuantityOrdered: r.QuantityOrdered,
				QuantityOpen:    r.QuantityOpen,
				DueDate:         r.DueDate,
			})
		}

		stored, err := tx.OpenOrders.ListByOrderForUpdate(ctx, orderRef)
		if err != nil {
			return err
		}
		plan, err := orders.PlanReconciliation(orderRef, stored, snapshot, uc.now(), func() string { return uuid.New().String() })
		if err != nil {
			return err
		}
		for _, l := range plan.Inserts {
			if err := tx.OpenOrders.Insert(ctx, l); err != nil {
				return err
			}
		}
		for _, l := range plan.Changed() {
			if err := tx.OpenOrders.Update(ctx, l); err != nil {
				return err
			}
		}
		counts = plan.Counts()
		return nil
	})
	if err != nil {
		return orders.Counts{}, err
	}
	uc.log.Info().
		Str("order_ref", orderRef).
		Int("lines", len(rows)).
		Int("inserted", counts.Inserted).
		Int("updated", counts.Updated).
		Int("completed", counts.Completed).
		Int("reopened", counts.Reopened).
		Msg("pedido conciliado")
	return counts, nil
}

// ReconcileUpload agrupa las filas por pedido y concilia cada uno por separado: un pedido que falla se
// reporta y los demás continúan. Un pedido con filas ilegibles (rowErrors) no se concilia, para no
// completar líneas que sí venían en el archivo.
func (uc *OpenOrderUseCase) ReconcileUpload(ctx context.Context, rows []OpenOrderRow, rowErrors []RowError) *UploadResult {
	res := &UploadResult{RowErrors: rowErrors}

	broken := make(map[string]string)
	for _, re := range rowErrors {
		if re.OrderRef != "" {
			broken[re.OrderRef] = fmt.Sprintf("fila %d: %s", re.Line, re.Message)
		}
	}
	byOrder := make(map[string][]OpenOrderRow)
	for _, r := range rows {
		byOrder[r.OrderRef] = append(byOrder[r.OrderRef], r)
	}
	for ref := range broken {
		if _, ok := byOrder[ref]; !ok {
			byOrder[ref] = nil
		}
	}
	refs := make([]string, 0, len(byOrder))
	for ref := range byOrder {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	for _, ref := range refs {
		out := OrderResult{OrderRef: ref}
		if msg, ok := broken[ref]; ok {
			out.Error = msg
		} else if counts, err := uc.ReconcileOpenOrderSnapshot(ctx, ref, byOrder[ref]); err != nil {
			out.Error = err.Error()
			uc.log.Error().Err(err).Str("order_ref", ref).Msg("conciliación de pedido falló")
		} else {
			out.Counts = counts
		}
		if out.Error != "" {
			res.Failed++
		}
		res.Orders = append(res.Orders, out)
	}
	return res
}
