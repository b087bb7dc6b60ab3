// import_csv carga un archivo de ítems o de pedidos abiertos directamente contra la base de datos,
// con las mismas reglas que los endpoints /api/imports/*.
//
// Uso: go run ./cmd/import_csv items|open-orders ruta/archivo.(csv|xlsx)
// Imprime el resumen en JSON por stdout. Sale con código 2 si alguna fila o pedido falló.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jhoicas/mfg-console/internal/application/imports"
	"github.com/jhoicas/mfg-console/internal/infrastructure/cache"
	"github.com/jhoicas/mfg-console/internal/infrastructure/postgres"
	"github.com/jhoicas/mfg-console/internal/infrastructure/sheet"
	"github.com/jhoicas/mfg-console/pkg/config"
	"github.com/jhoicas/mfg-console/pkg/logger"
)

func main() {
	if len(os.Args) != 3 || (os.Args[1] != "items" && os.Args[1] != "open-orders") {
		fmt.Fprintln(os.Stderr, "uso: import_csv items|open-orders <archivo>")
		os.Exit(1)
	}
	kind, path := os.Args[1], os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import_csv", Out: os.Stderr})

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir archivo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	table, err := sheet.Read(f, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer archivo: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout)

	var (
		out    any
		failed bool
	)
	switch kind {
	case "items":
		rows, err := sheet.ItemRows(table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Archivo de ítems: %v\n", err)
			os.Exit(1)
		}
		sum := imports.NewItemImportUseCase(txRunner, log.Zerolog()).ImportItems(ctx, rows)
		out, failed = sum, sum.Failed > 0
	case "open-orders":
		rows, rowErrors, err := sheet.OpenOrderRows(table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Archivo de pedidos: %v\n", err)
			os.Exit(1)
		}
		// Proceso de una sola ejecución: el candado local basta salvo que haya Redis configurado.
		var locker imports.OrderLocker = cache.NewLocalLocker()
		if cfg.Redis.Enabled() {
			rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Conexión a Redis: %v\n", err)
				os.Exit(1)
			}
			defer rdb.Close()
			locker = cache.NewRedisOrderLocker(rdb, cfg.Redis.OrderLockTTL)
		}
		res := imports.NewOpenOrderUseCase(txRunner, locker, log.Zerolog()).ReconcileUpload(ctx, rows, rowErrors)
		out, failed = res, res.Failed > 0
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir resumen: %v\n", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(2)
	}
}
