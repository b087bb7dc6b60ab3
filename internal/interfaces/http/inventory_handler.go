package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/mfg-console/internal/application/dto"
	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	invdomain "github.com/jhoicas/mfg-console/internal/domain/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	responder
	uc            *inventory.StockUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase, replenishment *inventory.ReplenishmentUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{responder: responder{log: log}, uc: uc, replenishment: replenishment}
}

// Receive godoc
// @Summary      Registrar recepción
// @Description  Sin quantity se registra como recepción pendiente (cantidad 0, sin asignación de ubicación).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "item_id, location_id, batch_id opcional, quantity opcional"
// @Success      201   {object}  dto.ReceiveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return h.fail(c, err)
	}
	res, err := h.uc.Receive(c.UserContext(), inventory.ReceiveInput{
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		BatchID:    in.BatchID,
		Quantity:   in.Quantity,
		Reference:  in.Reference,
		Actor:      GetUserID(c),
		OrderRef:   in.OrderRef,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReceiveResponse(res))
}

// ResolvePending godoc
// @Summary      Resolver recepción pendiente
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento pendiente"
// @Param        body  body  dto.ResolvePendingRequest  true  "cantidad contada"
// @Success      201   {object}  dto.ReceiveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts/{id}/resolve [post]
func (h *InventoryHandler) ResolvePending(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return h.fail(c, domain.NewValidation("id", "id de movimiento inválido"))
	}
	var in dto.ResolvePendingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return h.fail(c, err)
	}
	res, err := h.uc.ResolvePendingReceipt(c.UserContext(), inventory.ResolveInput{
		MovementID: id,
		Quantity:   in.Quantity,
		Reference:  in.Reference,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReceiveResponse(res))
}

// Remove godoc
// @Summary      Retirar stock de una ubicación
// @Description  all=true retira todo el saldo de la clave. reason debe estar en /api/inventory/removal-reasons.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RemoveRequest  true  "retiro"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/removals [post]
func (h *InventoryHandler) Remove(c *fiber.Ctx) error {
	var in dto.RemoveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return h.fail(c, err)
	}
	m, err := h.uc.RemoveFromLocation(c.UserContext(), inventory.RemoveInput{
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		BatchID:    in.BatchID,
		Quantity:   in.Quantity,
		All:        in.All,
		Reason:     in.Reason,
		Reference:  in.Reference,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(m))
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Todo o nada: si una línea sobregira el origen no se escribe ningún movimiento.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "traslado"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return h.fail(c, err)
	}
	lines := make([]inventory.TransferLine, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = inventory.TransferLine{BatchID: l.BatchID, Quantity: l.Quantity}
	}
	res, err := h.uc.Transfer(c.UserContext(), inventory.TransferInput{
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Lines:          lines,
		Reference:      in.Reference,
		Actor:          GetUserID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	out := dto.TransferResponse{
		TransferID: res.TransferID,
		Movements:  make([]dto.MovementResponse, len(res.Movements)),
		Assignment: toAssignmentResponse(res.Assignment),
	}
	for i, m := range res.Movements {
		out.Movements[i] = toMovementResponse(m)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajuste de conteo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "delta con signo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return h.fail(c, err)
	}
	m, err := h.uc.Adjust(c.UserContext(), inventory.AdjustInput{
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		BatchID:    in.BatchID,
		Delta:      in.Delta,
		Reference:  in.Reference,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(m))
}

// Consume godoc
// @Summary      Consumo de material para una orden
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "consumo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/consumptions [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return h.fail(c, err)
	}
	m, err := h.uc.Consume(c.UserContext(), inventory.ConsumeInput{
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		BatchID:    in.BatchID,
		Quantity:   in.Quantity,
		OrderRef:   in.OrderRef,
		Reference:  in.Reference,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(m))
}

// OnHand godoc
// @Summary      Saldo de una clave
// @Description  Sin batch_id devuelve el total de la ubicación (todos los lotes).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  true   "ítem"
// @Param        location_id  query  string  true   "ubicación"
// @Param        batch_id     query  string  false  "lote"
// @Success      200  {object}  dto.OnHandResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/on-hand [get]
func (h *InventoryHandler) OnHand(c *fiber.Ctx) error {
	itemID, locationID, batchID := c.Query("item_id"), c.Query("location_id"), c.Query("batch_id")
	qty, err := h.uc.OnHand(c.UserContext(), itemID, locationID, batchID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OnHandResponse{ItemID: itemID, LocationID: locationID, BatchID: batchID, Quantity: qty})
}

// ListMovements godoc
// @Summary      Consultar el ledger
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  false  "ítem"
// @Param        location_id  query  string  false  "ubicación"
// @Param        type         query  string  false  "tipo de movimiento"
// @Param        from         query  string  false  "desde (RFC3339)"
// @Param        to           query  string  false  "hasta (RFC3339)"
// @Param        pending      query  bool    false  "solo recepciones pendientes"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementFilterRequest
	if err := c.QueryParser(&q); err != nil {
		return h.fail(c, domain.NewValidation("", "parámetros de consulta inválidos"))
	}
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.Clamp(dto.DefaultMovementLimit, dto.MaxMovementLimit)
	filter := repository.MovementFilter{
		ItemID:      q.ItemID,
		LocationID:  q.LocationID,
		BatchID:     q.BatchID,
		Type:        entity.MovementType(q.Type),
		OrderRef:    q.OrderRef,
		PendingOnly: q.PendingOnly,
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	var err error
	if filter.From, err = parseTime("from", q.From); err != nil {
		return h.fail(c, err)
	}
	if filter.To, err = parseTime("to", q.To); err != nil {
		return h.fail(c, err)
	}
	list, err := h.uc.ListMovements(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for i, m := range list {
		out.Items[i] = toMovementResponse(m)
	}
	return c.JSON(out)
}

// RemovalReasons godoc
// @Summary      Motivos de retiro configurados
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RemovalReasonsResponse
// @Router       /api/inventory/removal-reasons [get]
func (h *InventoryHandler) RemovalReasons(c *fiber.Ctx) error {
	return c.JSON(dto.RemovalReasonsResponse{Reasons: h.uc.RemovalReasons()})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Ítems cuyo saldo total está por debajo del stock mínimo, con la cantidad sugerida
//
//	de pedido considerando la demanda de pedidos abiertos. Priority 1 = más urgente.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de ítems (0 = todos)"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, len(list))
	for i, s := range list {
		out[i] = dto.ReplenishmentSuggestionDTO{
			ItemID:             s.Item.ID,
			SKU:                s.Item.SKU,
			Description:        s.Item.Description,
			OnHand:             s.OnHand,
			MinStock:           s.Item.MinStock,
			OpenDemand:         s.OpenDemand,
			IdealStock:         s.IdealStock,
			SuggestedOrderQty:  s.SuggestedOrderQty,
			UnitCost:           s.Item.UnitCost,
			EstimatedOrderCost: s.EstimatedOrderCost,
			Priority:           s.Priority,
		}
	}
	return c.JSON(fiber.Map{
		"total":          len(out),
		"replenishments": out,
	})
}

func parseTime(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, domain.NewValidation(field, "fecha inválida, use RFC3339")
	}
	return &t, nil
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                 m.ID,
		ItemID:             m.ItemID,
		LocationID:         m.LocationID,
		BatchID:            m.BatchID,
		Quantity:           m.Quantity,
		Type:               string(m.Type),
		Reference:          m.Reference,
		Actor:              m.Actor,
		OrderRef:           m.OrderRef,
		TransferID:         m.TransferID,
		ResolvesMovementID: m.ResolvesMovementID,
		Pending:            m.IsPending(),
		CreatedAt:          m.CreatedAt,
	}
}

func toAssignmentResponse(a invdomain.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		PrimaryLocationID:   a.PrimaryLocationID,
		SecondaryLocationID: a.SecondaryLocationID,
		Rule:                int(a.Rule),
		Changed:             a.Changed,
	}
}

func toReceiveResponse(res *inventory.ReceiveResult) dto.ReceiveResponse {
	return dto.ReceiveResponse{
		Movement:   toMovementResponse(res.Movement),
		Pending:    res.Pending,
		Assignment: toAssignmentResponse(res.Assignment),
	}
}
