package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/mfg-console/internal/application/imports"
	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC         *inventory.StockUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	ItemUC          *usecase.ItemUseCase
	LocationUC      *usecase.LocationUseCase
	BatchUC         *usecase.BatchUseCase
	ItemImportUC    *imports.ItemImportUseCase
	OpenOrderUC     *imports.OpenOrderUseCase
	JWTSecret       string
	Log             zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(RoleAdmin, RoleAlmacen, RoleProduccion)
	warehouse := RequireRole(RoleAdmin, RoleAlmacen)
	admin := RequireRole(RoleAdmin)

	// Inventory
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.ReplenishmentUC, deps.Log)
	inv.Post("/receipts", warehouse, inventoryHandler.Receive)
	inv.Post("/receipts/:id/resolve", warehouse, inventoryHandler.ResolvePending)
	inv.Post("/removals", warehouse, inventoryHandler.Remove)
	inv.Post("/transfers", warehouse, inventoryHandler.Transfer)
	inv.Post("/adjustments", warehouse, inventoryHandler.Adjust)
	inv.Post("/consumptions", anyRole, inventoryHandler.Consume)
	inv.Get("/on-hand", anyRole, inventoryHandler.OnHand)
	inv.Get("/movements", anyRole, inventoryHandler.ListMovements)
	inv.Get("/removal-reasons", anyRole, inventoryHandler.RemovalReasons)
	inv.Get("/replenishment", anyRole, inventoryHandler.GetReplenishmentList)

	// Items
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.BatchUC, deps.StockUC, deps.Log)
	items.Get("/", anyRole, itemHandler.List)
	items.Post("/", warehouse, itemHandler.Create)
	items.Get("/:id", anyRole, itemHandler.GetByID)
	items.Put("/:id", warehouse, itemHandler.Update)
	items.Get("/:id/balances", anyRole, itemHandler.Balances)
	items.Get("/:id/batches", anyRole, itemHandler.Batches)

	// Locations
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.Log)
	locations.Get("/", anyRole, locationHandler.List)
	locations.Post("/", warehouse, locationHandler.Create)
	locations.Get("/:id", anyRole, locationHandler.GetByID)
	locations.Put("/:id", warehouse, locationHandler.Update)

	// Batches
	batchHandler := NewBatchHandler(deps.BatchUC, deps.Log)
	api.Post("/batches", warehouse, batchHandler.Create)

	// Imports
	importsGroup := api.Group("/imports", admin)
	importHandler := NewImportHandler(deps.ItemImportUC, deps.OpenOrderUC, deps.Log)
	importsGroup.Post("/items", importHandler.Items)
	importsGroup.Post("/open-orders", importHandler.OpenOrders)
}
