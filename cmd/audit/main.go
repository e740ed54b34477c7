// Comando audit: barrido de consistencia del almacén. Verifica los
// invariantes que el motor promete mantener (cantidades no negativas,
// faltantes no negativos, marcas de tránsito respaldadas por un traslado
// PENDING) y reporta traslados PENDING olvidados. Solo lectura; termina con
// código 1 si encuentra inconsistencias.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	problems := 0
	problems += checkCount(ctx, log, pool,
		"materiales con cantidad negativa",
		`SELECT count(*) FROM warehouse_item WHERE item_type = 'MATERIAL' AND quantity < 0`)
	problems += checkCount(ctx, log, pool,
		"faltantes negativos",
		`SELECT count(*) FROM technician_material_deficit WHERE quantity < 0`)
	problems += checkCount(ctx, log, pool,
		"ítems marcados en tránsito sin traslado PENDING",
		`SELECT count(*) FROM warehouse_item i
		 WHERE i.transfer_pending
		   AND NOT EXISTS (
		     SELECT 1 FROM location_transfer_line l
		     JOIN location_transfer t ON t.id = l.transfer_id
		     WHERE l.warehouse_item_id = i.id AND t.status = 'PENDING')`)
	problems += checkCount(ctx, log, pool,
		"equipos con número de serie vacío",
		`SELECT count(*) FROM warehouse_item WHERE item_type = 'DEVICE' AND (serial_number IS NULL OR serial_number = '')`)

	// Traslados PENDING olvidados: advertencia, no inconsistencia.
	staleBefore := time.Now().AddDate(0, 0, -cfg.Audit.StalePendingDays)
	var stale int
	err = pool.QueryRow(ctx,
		`SELECT count(*) FROM location_transfer WHERE status = 'PENDING' AND created_at < $1`,
		staleBefore).Scan(&stale)
	if err != nil {
		log.Fatal().Err(err).Msg("consulta de traslados olvidados")
	}
	if stale > 0 {
		log.Warn().Int("total", stale).Int("dias", cfg.Audit.StalePendingDays).
			Msg("traslados PENDING sin resolver hace demasiado tiempo")
	}

	if problems > 0 {
		log.Error().Int("problemas", problems).Msg("auditoría con inconsistencias")
		os.Exit(1)
	}
	log.Info().Msg("auditoría sin inconsistencias")
}

// checkCount ejecuta una consulta de conteo y reporta como error cualquier
// resultado distinto de cero. Devuelve el conteo.
func checkCount(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool, label, query string) int {
	var n int
	if err := pool.QueryRow(ctx, query).Scan(&n); err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("consulta de auditoría: %s", label))
	}
	if n > 0 {
		log.Error().Int("total", n).Msg(label)
	}
	return n
}
