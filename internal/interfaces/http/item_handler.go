package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/mfg-console/internal/application/dto"
	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/application/usecase"
)

// ItemHandler maneja las peticiones HTTP para Item (protegido).
type ItemHandler struct {
	responder
	uc      *usecase.ItemUseCase
	batches *usecase.BatchUseCase
	stock   *inventory.StockUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, batches *usecase.BatchUseCase, stock *inventory.StockUseCase, log zerolog.Logger) *ItemHandler {
	return &ItemHandler{responder: responder{log: log}, uc: uc, batches: batches, stock: stock}
}

// Create godoc
// @Summary      Crear ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "UND"
	}
	if err := validateStruct(in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ítem
// @Description  Campos omitidos no cambian; una ubicación en "" se limpia.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Balances godoc
// @Summary      Saldos del ítem por ubicación y lote
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}   dto.ItemBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/balances [get]
func (h *ItemHandler) Balances(c *fiber.Ctx) error {
	list, err := h.stock.ItemBalances(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.ItemBalanceResponse, len(list))
	for i, b := range list {
		out[i] = dto.ItemBalanceResponse{LocationID: b.LocationID, BatchID: b.BatchID, Quantity: b.Quantity}
	}
	return c.JSON(out)
}

// Batches godoc
// @Summary      Lotes del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/items/{id}/batches [get]
func (h *ItemHandler) Batches(c *fiber.Ctx) error {
	out, err := h.batches.ListByItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// pageParams limit/offset acotados como en el resto de listados.
func pageParams(c *fiber.Ctx) (int, int) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		p = dto.PageRequest{}
	}
	p.Clamp(dto.DefaultPageLimit, dto.MaxPageLimit)
	return p.Limit, p.Offset
}
