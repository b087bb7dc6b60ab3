package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/mfg-console/internal/application/dto"
	"github.com/jhoicas/mfg-console/internal/application/imports"
	"github.com/jhoicas/mfg-console/internal/infrastructure/sheet"
)

// ImportHandler cargas de archivos .csv/.xlsx (solo admin).
type ImportHandler struct {
	responder
	items  *imports.ItemImportUseCase
	orders *imports.OpenOrderUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(items *imports.ItemImportUseCase, orders *imports.OpenOrderUseCase, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{responder: responder{log: log}, items: items, orders: orders}
}

// Items godoc
// @Summary      Importar ítems
// @Description  Crea o actualiza ítems por SKU. Las filas inválidas se omiten con advertencia.
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "archivo .csv o .xlsx"
// @Success      200   {object}  imports.ItemImportSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/imports/items [post]
func (h *ImportHandler) Items(c *fiber.Ctx) error {
	table, err := h.readTable(c)
	if err != nil {
		return err
	}
	if table == nil {
		return nil
	}
	rows, err := sheet.ItemRows(table)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.items.ImportItems(c.UserContext(), rows))
}

// OpenOrders godoc
// @Summary      Conciliar snapshot de pedidos abiertos
// @Description  Cada pedido del archivo se concilia en su propia transacción; un pedido fallido no afecta a los demás.
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "archivo .csv o .xlsx"
// @Success      200   {object}  imports.UploadResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/imports/open-orders [post]
func (h *ImportHandler) OpenOrders(c *fiber.Ctx) error {
	table, err := h.readTable(c)
	if err != nil {
		return err
	}
	if table == nil {
		return nil
	}
	rows, rowErrors, err := sheet.OpenOrderRows(table)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.orders.ReconcileUpload(c.UserContext(), rows, rowErrors))
}

// readTable lee el archivo del campo "file". Si responde con error devuelve tabla nil.
func (h *ImportHandler) readTable(c *fiber.Ctx) (*sheet.Table, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file requerido", Field: "file"})
	}
	if fh.Size > sheet.MaxFileSize {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "el archivo supera 10 MB", Field: "file"})
	}
	f, err := fh.Open()
	if err != nil {
		return nil, h.fail(c, err)
	}
	defer f.Close()
	table, err := sheet.Read(f, fh.Filename)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error(), Field: "file"})
	}
	return table, nil
}
