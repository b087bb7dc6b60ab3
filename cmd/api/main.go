package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/mfg-console/internal/application/imports"
	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/application/usecase"
	"github.com/jhoicas/mfg-console/internal/infrastructure/cache"
	"github.com/jhoicas/mfg-console/internal/infrastructure/memory"
	"github.com/jhoicas/mfg-console/internal/infrastructure/postgres"
	"github.com/jhoicas/mfg-console/internal/infrastructure/sheet"
	httpRouter "github.com/jhoicas/mfg-console/internal/interfaces/http"
	"github.com/jhoicas/mfg-console/pkg/config"
	"github.com/jhoicas/mfg-console/pkg/idgen"
	"github.com/jhoicas/mfg-console/pkg/logger"
	"github.com/jhoicas/mfg-console/pkg/telemetry"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(cfg.Tracing, cfg.App.Name, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de trazas")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error().Err(err).Msg("cierre de trazas")
		}
	}()

	// Persistencia: PostgreSQL, o memoria con DATABASE_URL=memory (demo local)
	var (
		txRunner inventory.TxRunner
		repos    inventory.Repos
	)
	if cfg.DB.DatabaseURL == "memory" {
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
		}
		txRunner = postgres.NewTxRunner(pool, cfg.DB.LockTimeout)
		repos = postgres.NewRepos(pool)
	}

	// Redis opcional: caché de saldos y bloqueo distribuido por pedido
	var (
		balanceCache inventory.BalanceCache
		orderLocker  imports.OrderLocker = cache.NewLocalLocker()
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		balanceCache = cache.NewBalanceCache(rdb, cfg.Redis.BalanceCacheTTL)
		orderLocker = cache.NewRedisOrderLocker(rdb, cfg.Redis.OrderLockTTL)
	}

	ids, err := idgen.NewSnowflake(cfg.Inventory.SnowflakeNode)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de IDs")
	}

	stockUC := inventory.NewStockUseCase(txRunner, repos, ids, balanceCache, inventory.StockConfig{
		RemovalReasons: cfg.Inventory.RemovalReasons,
		OpTimeout:      cfg.Inventory.OpTimeout,
	}, log.Zerolog())
	replenishmentUC := inventory.NewReplenishmentUseCase(repos)
	itemUC := usecase.NewItemUseCase(txRunner, repos)
	locationUC := usecase.NewLocationUseCase(repos.Locations)
	batchUC := usecase.NewBatchUseCase(repos.Batches, repos.Items)
	itemImportUC := imports.NewItemImportUseCase(txRunner, log.Zerolog())
	openOrderUC := imports.NewOpenOrderUseCase(txRunner, orderLocker, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    sheet.MaxFileSize + 1024*1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "MFG Console API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:         stockUC,
		ReplenishmentUC: replenishmentUC,
		ItemUC:          itemUC,
		LocationUC:      locationUC,
		BatchUC:         batchUC,
		ItemImportUC:    itemImportUC,
		OpenOrderUC:     openOrderUC,
		JWTSecret:       cfg.JWT.Secret,
		Log:             log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
