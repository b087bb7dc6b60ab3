package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	invdomain "github.com/jhoicas/mfg-console/internal/domain/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

// StockConfig parámetros de las operaciones de stock.
type StockConfig struct {
	RemovalReasons []string      // lista permitida y ordenada de motivos de retiro
	OpTimeout      time.Duration // 0 = sin timeout propio
}

// StockUseCase operaciones de stock sobre el ledger: recibir, resolver pendientes, retirar,
// consumir, ajustar y trasladar. Cada operación es una transacción que bloquea la fila del ítem
// (SELECT FOR UPDATE) antes de leer saldos, agrega movimientos y aplica la asignación de ubicación.
type StockUseCase struct {
	txRunner TxRunner
	repos    Repos
	ids      IDGenerator
	cache    BalanceCache
	cfg      StockConfig
	log      zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewStockUseCase construye el caso de uso. repos se usa solo para lecturas fuera de transacción.
// cache puede ser nil.
func NewStockUseCase(
	txRunner TxRunner,
	repos Repos,
	ids IDGenerator,
	cache BalanceCache,
	cfg StockConfig,
	log zerolog.Logger,
) *StockUseCase {
	if cache == nil {
		cache = noCache{}
	}
	return &StockUseCase{
		txRunner: txRunner,
		repos:    repos,
		ids:      ids,
		cache:    cache,
		cfg:      cfg,
		log:      log.With().Str("component", "stock").Logger(),
		tracer:   otel.Tracer("github.com/jhoicas/mfg-console/internal/application/inventory"),
		now:      time.Now,
	}
}

// RemovalReasons devuelve la lista de motivos permitidos.
func (uc *StockUseCase) RemovalReasons() []string {
	return append([]string(nil), uc.cfg.RemovalReasons...)
}

// run ejecuta fn en una transacción con timeout y span; traduce el vencimiento del contexto a ConflictError.
func (uc *StockUseCase) run(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(tx Repos) error) error {
	ctx, span := uc.tracer.Start(ctx, "inventory."+op, trace.WithAttributes(attrs...))
	defer span.End()

	if uc.cfg.OpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.OpTimeout)
		defer cancel()
	}

	err := uc.txRunner.Run(ctx, fn)
	if err != nil {
		if (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) && !errors.Is(err, domain.ErrConflict) {
			err = &domain.ConflictError{Op: op, Err: err}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// invalidate cambia la versión de las claves tocadas en la caché de lectura (después del commit).
func (uc *StockUseCase) invalidate(ctx context.Context, keys ...repository.BalanceKey) {
	if err := uc.cache.Invalidate(ctx, keys...); err != nil {
		uc.log.Warn().Err(err).Int("keys", len(keys)).Msg("no se pudo invalidar la caché de saldos")
	}
}

// lockItem bloquea la fila del ítem hasta el fin de la transacción.
func lockItem(ctx context.Context, tx Repos, itemID string) (*entity.Item, error) {
	item, err := tx.Items.GetForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.NotFoundError{Entity: "ítem", ID: itemID}
	}
	return item, nil
}

func requireLocation(ctx context.Context, tx Repos, locationID string) error {
	loc, err := tx.Locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return &domain.NotFoundError{Entity: "ubicación", ID: locationID}
	}
	return nil
}

// requireBatch valida que el lote exista y pertenezca al ítem. Lote vacío no se valida.
func requireBatch(ctx context.Context, tx Repos, batchID, itemID string) error {
	if batchID == "" {
		return nil
	}
	batch, err := tx.Batches.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch == nil {
		return &domain.NotFoundError{Entity: "lote", ID: batchID}
	}
	if batch.ItemID != itemID {
		return domain.NewValidation("batch_id", "el lote %s no pertenece al ítem %s", batchID, itemID)
	}
	return nil
}

// appendMovement valida reglas de signo, asigna ID y fecha y agrega al ledger.
func (uc *StockUseCase) appendMovement(ctx context.Context, tx Repos, m *entity.Movement) error {
	if err := invdomain.ValidateMovement(m); err != nil {
		return err
	}
	m.ID = uc.ids.NextID()
	m.CreatedAt = uc.now()
	return tx.Movements.Append(ctx, m)
}

// primaryOnHand saldo de la ubicación primaria antes de escribir (cero si no hay primaria).
func primaryOnHand(ctx context.Context, tx Repos, item *entity.Item) (decimal.Decimal, error) {
	if item.PrimaryLocationID == "" {
		return decimal.Zero, nil
	}
	return tx.Movements.SumQuantity(ctx, repository.BalanceKey{ItemID: item.ID, LocationID: item.PrimaryLocationID})
}

// applyAssignment ejecuta el motor de asignación y persiste el cambio por la única vía permitida.
func applyAssignment(ctx context.Context, tx Repos, item *entity.Item, selected string, before decimal.Decimal) (invdomain.Assignment, error) {
	a := invdomain.AssignLocation(item, selected, before)
	if !a.Changed {
		return a, nil
	}
	if err := invdomain.ValidateDistinctLocations(a.PrimaryLocationID, a.SecondaryLocationID, item.PointOfUseLocationID); err != nil {
		return a, err
	}
	if err := tx.Items.UpdateAssignedLocations(ctx, item.ID, a.PrimaryLocationID, a.SecondaryLocationID); err != nil {
		return a, err
	}
	item.PrimaryLocationID = a.PrimaryLocationID
	item.SecondaryLocationID = a.SecondaryLocationID
	return a, nil
}

func validateQuantity(field string, q decimal.Decimal) error {
	if !q.IsPositive() {
		return domain.NewValidation(field, "la cantidad debe ser mayor que cero (recibido %s)", q.String())
	}
	return invdomain.ValidateQuantityScale(field, q)
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidation(field, "requerido")
	}
	return nil
}

func joinReference(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " | ")
}
