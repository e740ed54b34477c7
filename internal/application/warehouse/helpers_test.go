package warehouse_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/warehouse"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test: entorno en memoria con catálogo sembrado
// ──────────────────────────────────────────────────────────────────────────────

const (
	matCable    = "mat-cable"    // Cable coaxial, metro
	matConector = "mat-conector" // Conector RG6, sin unidad (usa la por defecto)

	techA    = "tech-a"
	techB    = "tech-b"
	bodega1  = "bodega-1"
	bodega2  = "bodega-2"
	adminID  = "admin-1"
	ordenID  = "orden-100"
	orden2ID = "orden-200"
)

// testEnv agrupa los casos de uso sobre repositorios en memoria compartidos.
type testEnv struct {
	tx      *memory.TxRunner
	catalog *memory.CatalogRepo
	rec     *warehouse.Reconciler
	stock   *warehouse.StockService
	coord   *warehouse.TransferCoordinator
}

// newTestEnv construye el entorno con dos materiales en el catálogo.
func newTestEnv() *testEnv {
	tx := memory.NewTxRunner()
	catalog := memory.NewCatalogRepository(
		&entity.MaterialDefinition{ID: matCable, Name: "Cable coaxial", Unit: "metro"},
		&entity.MaterialDefinition{ID: matConector, Name: "Conector RG6"},
	)
	return &testEnv{
		tx:      tx,
		catalog: catalog,
		rec:     warehouse.NewReconciler(tx, catalog),
		stock:   warehouse.NewStockService(tx, catalog),
		coord:   warehouse.NewTransferCoordinator(tx, tx.Transfer),
	}
}

// seedHolding siembra una tenencia de material y devuelve su id.
func seedHolding(t *testing.T, env *testEnv, holder entity.Holder, materialID string, qty int64) string {
	t.Helper()
	item := &entity.MaterialItem{
		MaterialDefinitionID: materialID,
		Quantity:             decimal.NewFromInt(qty),
		Unit:                 "metro",
		Holder:               holder,
	}
	require.NoError(t, env.tx.Items.CreateMaterialHolding(item))
	return item.ID
}

// seedDevice siembra un equipo serializado y devuelve su id.
func seedDevice(t *testing.T, env *testEnv, holder entity.Holder, serial, status string) string {
	t.Helper()
	item := &entity.DeviceItem{
		SerialNumber: serial,
		Category:     "modem",
		Status:       status,
		Holder:       holder,
	}
	require.NoError(t, env.tx.Items.CreateDevice(item))
	return item.ID
}

// holdingQty devuelve la cantidad actual de la tenencia (0 si no existe).
func holdingQty(t *testing.T, env *testEnv, holder entity.Holder, materialID string) decimal.Decimal {
	t.Helper()
	h, err := env.tx.Items.GetMaterialHolding(holder, materialID)
	require.NoError(t, err)
	if h == nil {
		return decimal.Zero
	}
	return h.Quantity
}

// deficitQty devuelve el faltante actual del técnico (0 si no existe).
func deficitQty(t *testing.T, env *testEnv, technicianID, materialID string) decimal.Decimal {
	t.Helper()
	d, err := env.tx.Deficits.Get(technicianID, materialID)
	require.NoError(t, err)
	if d == nil {
		return decimal.Zero
	}
	return d.Quantity
}

// allMovements devuelve todo el historial.
func allMovements(t *testing.T, env *testEnv) []*entity.Movement {
	t.Helper()
	list, err := env.tx.Moves.Query(repository.MovementFilter{})
	require.NoError(t, err)
	return list
}

// movementsByAction filtra el historial por acción.
func movementsByAction(t *testing.T, env *testEnv, action string) []*entity.Movement {
	t.Helper()
	list, err := env.tx.Moves.Query(repository.MovementFilter{Action: action})
	require.NoError(t, err)
	return list
}

// usage construye un renglón de consumo.
func usage(materialID string, qty int64) warehouse.UsageLine {
	return warehouse.UsageLine{MaterialDefinitionID: materialID, Quantity: decimal.NewFromInt(qty)}
}

// dec atajo para cantidades esperadas.
func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
